// Package sim owns a single Life simulation and exposes the commands a host
// uses to edit it and play it back.
package sim

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-playback/history"
	"github.com/sheikhrachel/go-gol-playback/model"
	"github.com/sheikhrachel/go-gol-playback/rules"
	"github.com/sheikhrachel/go-gol-playback/utils"
)

// Simulation is the owned state of one automaton: grid, rules, generation
// counter, population history and stats. It is not safe for concurrent use.
type Simulation struct {
	grid       *model.Grid
	rules      rules.RuleSet
	generation int
	history    *history.Buffer
	stats      *utils.Stats
	engine     *rules.Engine
	rng        *rand.Rand
}

// Option configures a Simulation
type Option func(*Simulation)

// WithEngine replaces the default sequential engine
func WithEngine(e *rules.Engine) Option {
	return func(s *Simulation) { s.engine = e }
}

// WithSeed makes randomize deterministic; without it the seed is time-based
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = newRNG(seed) }
}

// WithHistoryCapacity overrides the default history capacity of 100
func WithHistoryCapacity(capacity int) Option {
	return func(s *Simulation) { s.history = history.New(capacity) }
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// New creates an all-dead simulation at generation 0
func New(rows, cols int, rs rules.RuleSet, opts ...Option) (*Simulation, error) {
	grid, err := model.NewGrid(rows, cols)
	if err != nil {
		return nil, errors.Wrap(err, "[sim.New]")
	}

	s := &Simulation{
		grid:    grid,
		rules:   rs,
		history: history.New(history.DefaultCapacity),
		stats:   utils.NewStats(),
		engine:  &rules.Engine{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newRNG(time.Now().UnixNano())
	}
	s.reset()
	return s, nil
}

// Create replaces the grid with an all-dead one of the given size and resets
// generation and history. Invalid dimensions leave the simulation unchanged.
func (s *Simulation) Create(rows, cols int) error {
	grid, err := model.NewGrid(rows, cols)
	if err != nil {
		return errors.Wrap(err, "[Simulation.Create]")
	}
	s.recycle(s.grid)
	s.grid = grid
	s.reset()
	return nil
}

// Step advances one generation and returns the new population
func (s *Simulation) Step() int {
	start := time.Now()
	next, population := s.engine.Step(s.grid, s.rules)

	s.recycle(s.grid)
	s.grid = next
	s.generation++
	s.history.Push(population)
	s.stats.RecordStep(s.generation, population, time.Since(start))
	return population
}

// Randomize refills the grid at the given density and resets generation and history
func (s *Simulation) Randomize(density float64) {
	s.grid.Randomize(density, s.rng)
	s.reset()
}

// SeedPatterns clears the grid, stamps gliders and blinkers where they fit and
// sprinkles random life at the given density
func (s *Simulation) SeedPatterns(density float64) {
	g := s.grid
	g.Clear()

	if g.Rows() >= 10 && g.Cols() >= 10 {
		g.AddGlider(5, 5)
		if g.Cols() >= 20 && g.Rows() >= 15 {
			g.AddGlider(5, g.Cols()-8)
		}

		g.AddOscillator(g.Rows()/4, g.Cols()/4)
		if g.Cols() >= 30 {
			g.AddOscillator(3*g.Rows()/4, 3*g.Cols()/4)
		}
	}

	for r := range g.Rows() {
		for c := range g.Cols() {
			if s.rng.Float64() < density {
				g.Set(r, c, true)
			}
		}
	}
	s.reset()
}

// Clear kills every cell and resets generation and history
func (s *Simulation) Clear() {
	s.grid.Clear()
	s.reset()
}

// Toggle flips a cell; it reports false for out-of-bounds coordinates
func (s *Simulation) Toggle(row, col int) bool {
	if !s.grid.Toggle(row, col) {
		return false
	}
	s.stats.Recount(s.generation, s.grid)
	return true
}

// Paint forces a cell alive; it reports false for out-of-bounds coordinates
func (s *Simulation) Paint(row, col int) bool {
	if !s.grid.Paint(row, col) {
		return false
	}
	s.stats.Recount(s.generation, s.grid)
	return true
}

// SetRules replaces the rule set used by subsequent steps
func (s *Simulation) SetRules(rs rules.RuleSet) {
	s.rules = rs
}

// Rules returns the current rule set
func (s *Simulation) Rules() rules.RuleSet {
	return s.rules
}

// Generation returns the number of steps since the last reset
func (s *Simulation) Generation() int {
	return s.generation
}

// Population returns the current number of live cells
func (s *Simulation) Population() int {
	return s.stats.Population
}

// Stats returns a copy of the current stats
func (s *Simulation) Stats() utils.Stats {
	return *s.stats
}

// Rows returns the grid height
func (s *Simulation) Rows() int {
	return s.grid.Rows()
}

// Cols returns the grid width
func (s *Simulation) Cols() int {
	return s.grid.Cols()
}

// Alive reports whether a cell is alive; out-of-bounds cells are dead
func (s *Simulation) Alive(row, col int) bool {
	return s.grid.Get(row, col)
}

// Hash fingerprints the current grid
func (s *Simulation) Hash() string {
	return s.grid.Hash()
}

// Snapshot returns a read-only copy of the grid
func (s *Simulation) Snapshot() model.Snapshot {
	return s.grid.Snapshot()
}

// History returns the population samples, oldest first
func (s *Simulation) History() []int {
	return s.history.Values()
}

// HistoryCapacity returns the fixed history capacity used for chart scaling
func (s *Simulation) HistoryCapacity() int {
	return s.history.Cap()
}

func (s *Simulation) reset() {
	s.generation = 0
	s.history.Clear()
	s.stats.Reset(s.grid)
}

func (s *Simulation) recycle(g *model.Grid) {
	s.engine.Pool.Put(g)
}
