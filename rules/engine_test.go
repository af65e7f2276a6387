package rules

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol-playback/model"
)

func gridWith(rows, cols int, alive ...[2]int) *model.Grid {
	g := model.MustGrid(rows, cols)
	for _, cell := range alive {
		g.Set(cell[0], cell[1], true)
	}
	return g
}

func randomGrid(rows, cols int, density float64, seed uint64) *model.Grid {
	g := model.MustGrid(rows, cols)
	g.Randomize(density, rand.New(rand.NewPCG(seed, 0)))
	return g
}

// referenceStep is the direct definition: every cell, clamped Moore neighborhood
func referenceStep(g *model.Grid, rs RuleSet) *model.Grid {
	next := model.MustGrid(g.Rows(), g.Cols())
	for r := range g.Rows() {
		for c := range g.Cols() {
			n := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if (dr != 0 || dc != 0) && g.Get(r+dr, c+dc) {
						n++
					}
				}
			}
			next.Set(r, c, rs.Next(g.Get(r, c), n))
		}
	}
	return next
}

func engines() map[string]*Engine {
	return map[string]*Engine{
		"sequential":        {},
		"parallel":          {Parallel: true},
		"parallel 3":        {Parallel: true, Workers: 3},
		"parallel 64":       {Parallel: true, Workers: 64},
		"pooled":            {Pool: model.NewGridPool()},
		"pooled parallel 2": {Parallel: true, Workers: 2, Pool: model.NewGridPool()},
	}
}

func TestStep_EmptyGrid(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			g := model.MustGrid(8, 8)
			next, pop := e.Step(g, Conway())
			assert.Zero(t, pop)
			assert.True(t, next.Equal(g))
		})
	}
}

func TestStep_BlockIsStill(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			start := gridWith(4, 4, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2})
			g := start
			for range 10 {
				var pop int
				g, pop = e.Step(g, Conway())
				require.Equal(t, 4, pop)
			}
			assert.True(t, g.Equal(start))
		})
	}
}

func TestStep_BlockInCornerIsStill(t *testing.T) {
	start := gridWith(2, 2, [2]int{0, 0}, [2]int{0, 1}, [2]int{1, 0}, [2]int{1, 1})
	next, pop := Step(start, Conway())
	assert.Equal(t, 4, pop)
	assert.True(t, next.Equal(start))
}

func TestStep_BlinkerOscillation(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			horizontal := gridWith(5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
			vertical := gridWith(5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})

			gen1, pop := e.Step(horizontal, Conway())
			assert.Equal(t, 3, pop)
			assert.True(t, gen1.Equal(vertical), "generation 1 should be vertical")

			gen2, pop := e.Step(gen1, Conway())
			assert.Equal(t, 3, pop)
			assert.True(t, gen2.Equal(horizontal), "generation 2 should be horizontal again")
		})
	}
}

func TestStep_NoWraparound(t *testing.T) {
	// a blinker against the top edge would regrow on the bottom row of a torus
	g := gridWith(5, 5, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	next, pop := Step(g, Conway())
	assert.Equal(t, 2, pop)
	assert.True(t, next.Equal(gridWith(5, 5, [2]int{0, 2}, [2]int{1, 2})))
}

func TestStep_DoesNotModifyInput(t *testing.T) {
	g := randomGrid(30, 30, 0.35, 3)
	before := g.Clone()
	for _, e := range engines() {
		e.Step(g, Conway())
	}
	assert.True(t, g.Equal(before))
}

func TestStep_MatchesReference(t *testing.T) {
	ruleSets := []RuleSet{
		Conway(),
		{Birth: NewCounts(3, 6), Survival: NewCounts(2, 3)},      // HighLife
		{Birth: NewCounts(0), Survival: NewCounts(1, 2, 3, 4, 5)}, // birth on 0 scans the whole grid
		{Birth: NewCounts(1), Survival: NewCounts()},
		{},
	}

	for i, rs := range ruleSets {
		for name, e := range engines() {
			t.Run(fmt.Sprintf("%s/%s", rs, name), func(t *testing.T) {
				g := randomGrid(23, 41, 0.3, uint64(i+1))
				for range 5 {
					want := referenceStep(g, rs)
					next, pop := e.Step(g, rs)
					require.True(t, next.Equal(want))
					require.Equal(t, next.CountLivingCells(), pop)
					g = next
				}
			})
		}
	}
}

func TestStep_BirthOnZeroFillsEmptyGrid(t *testing.T) {
	rs := RuleSet{Birth: NewCounts(0)}
	next, pop := Step(model.MustGrid(4, 6), rs)
	assert.Equal(t, 24, pop)
	assert.Equal(t, 24, next.CountLivingCells())
}

func TestStep_Deterministic(t *testing.T) {
	g := randomGrid(64, 64, 0.4, 11)
	rs := RuleSet{Birth: NewCounts(3, 6, 7, 8), Survival: NewCounts(3, 4, 6, 7, 8)}

	first, firstPop := Step(g, rs)
	for name, e := range engines() {
		next, pop := e.Step(g, rs)
		assert.True(t, next.Equal(first), name)
		assert.Equal(t, firstPop, pop, name)
		assert.Equal(t, first.Hash(), next.Hash(), name)
	}
}

func BenchmarkStep(b *testing.B) {
	g := randomGrid(256, 256, 0.3, 5)
	for name, e := range engines() {
		b.Run(name, func(b *testing.B) {
			for range b.N {
				next, _ := e.Step(g, Conway())
				e.Pool.Put(next)
			}
		})
	}
}
