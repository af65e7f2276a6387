package sim

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol-playback/history"
	"github.com/sheikhrachel/go-gol-playback/model"
	"github.com/sheikhrachel/go-gol-playback/rules"
)

func newTestSimulation(t *testing.T, rows, cols int, opts ...Option) *Simulation {
	t.Helper()
	s, err := New(rows, cols, rules.Conway(), append([]Option{WithSeed(1)}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newTestSimulation(t, 5, 7)
	assert.Equal(t, 5, s.Rows())
	assert.Equal(t, 7, s.Cols())
	assert.Zero(t, s.Generation())
	assert.Zero(t, s.Population())
	assert.Empty(t, s.History())
	assert.Equal(t, history.DefaultCapacity, s.HistoryCapacity())
	assert.Equal(t, rules.Conway(), s.Rules())

	_, err := New(0, 7, rules.Conway())
	assert.True(t, errors.Is(err, model.ErrInvalidDimensions))
}

func TestSimulation_StepEmptyGrid(t *testing.T) {
	s := newTestSimulation(t, 6, 6)
	before := s.Snapshot()

	assert.Zero(t, s.Step())
	assert.Equal(t, 1, s.Generation())
	assert.Zero(t, s.Population())
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, []int{0}, s.History())
}

func TestSimulation_StepRecordsPopulation(t *testing.T) {
	s := newTestSimulation(t, 5, 5)
	s.Paint(2, 1)
	s.Paint(2, 2)
	s.Paint(2, 3)
	assert.Equal(t, 3, s.Population())

	assert.Equal(t, 3, s.Step())
	assert.True(t, s.Alive(1, 2))
	assert.True(t, s.Alive(3, 2))
	assert.False(t, s.Alive(2, 1))

	s.Step()
	assert.True(t, s.Alive(2, 1))
	assert.Equal(t, 2, s.Generation())
	assert.Equal(t, []int{3, 3}, s.History())

	stats := s.Stats()
	assert.Equal(t, 2, stats.Generation)
	assert.Equal(t, 3, stats.Population)
}

func TestSimulation_HistoryIsBounded(t *testing.T) {
	s := newTestSimulation(t, 3, 3, WithHistoryCapacity(4))
	for range 10 {
		s.Step()
	}
	assert.Len(t, s.History(), 4)
	assert.Equal(t, 10, s.Generation())
}

func TestSimulation_ResetsClearGenerationAndHistory(t *testing.T) {
	resets := map[string]func(*Simulation) error{
		"randomize": func(s *Simulation) error { s.Randomize(0.5); return nil },
		"clear":     func(s *Simulation) error { s.Clear(); return nil },
		"create":    func(s *Simulation) error { return s.Create(4, 9) },
		"patterns":  func(s *Simulation) error { s.SeedPatterns(0.1); return nil },
	}
	for name, reset := range resets {
		t.Run(name, func(t *testing.T) {
			s := newTestSimulation(t, 12, 12)
			s.Randomize(0.4)
			for range 3 {
				s.Step()
			}
			require.Equal(t, 3, s.Generation())

			require.NoError(t, reset(s))
			assert.Zero(t, s.Generation())
			assert.Empty(t, s.History())
			assert.Equal(t, countAlive(s.Snapshot()), s.Population())
		})
	}
}

func TestSimulation_CreateInvalidKeepsState(t *testing.T) {
	s := newTestSimulation(t, 8, 8)
	s.Randomize(0.5)
	s.Step()
	before := s.Snapshot()
	hist := s.History()

	err := s.Create(-1, 3)
	assert.True(t, errors.Is(err, model.ErrInvalidDimensions))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, s.Generation())
	assert.Equal(t, hist, s.History())
}

func TestSimulation_RandomizePopulationIsRecounted(t *testing.T) {
	s := newTestSimulation(t, 30, 30)
	s.Randomize(0.5)
	assert.Equal(t, countAlive(s.Snapshot()), s.Population())
	assert.Positive(t, s.Population())

	s.Randomize(0)
	assert.Zero(t, s.Population())
	s.Randomize(1)
	assert.Equal(t, 900, s.Population())
}

func TestSimulation_SeededRandomizeIsReproducible(t *testing.T) {
	a := newTestSimulation(t, 20, 20, WithSeed(99))
	b := newTestSimulation(t, 20, 20, WithSeed(99))
	a.Randomize(0.3)
	b.Randomize(0.3)
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestSimulation_EditsOutOfBounds(t *testing.T) {
	s := newTestSimulation(t, 3, 3)
	assert.False(t, s.Toggle(3, 3))
	assert.False(t, s.Paint(-1, 0))
	assert.Zero(t, s.Population())

	assert.True(t, s.Toggle(0, 0))
	assert.Equal(t, 1, s.Population())
	assert.True(t, s.Toggle(0, 0))
	assert.Zero(t, s.Population())
	assert.Zero(t, s.Generation())
}

func TestSimulation_PooledEngineMatchesDefault(t *testing.T) {
	plain := newTestSimulation(t, 25, 25, WithSeed(4))
	pooled := newTestSimulation(t, 25, 25, WithSeed(4),
		WithEngine(&rules.Engine{Parallel: true, Pool: model.NewGridPool()}))
	plain.Randomize(0.35)
	pooled.Randomize(0.35)

	for range 20 {
		assert.Equal(t, plain.Step(), pooled.Step())
	}
	assert.Equal(t, plain.Snapshot(), pooled.Snapshot())
	assert.Equal(t, plain.History(), pooled.History())
}

func TestSimulation_SetRules(t *testing.T) {
	s := newTestSimulation(t, 3, 3)
	s.SetRules(rules.RuleSet{Birth: rules.NewCounts(0)})
	assert.Equal(t, 9, s.Step())
}

func countAlive(s model.Snapshot) int {
	n := 0
	for r := range s.Rows {
		for c := range s.Cols {
			if s.Alive(r, c) {
				n++
			}
		}
	}
	return n
}
