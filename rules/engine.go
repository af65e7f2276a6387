package rules

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-playback/model"
)

// Engine computes generations. The zero value steps sequentially into freshly
// allocated grids.
type Engine struct {
	// Parallel splits the rows into bands processed concurrently
	Parallel bool
	// Workers caps the number of bands; 0 means runtime.NumCPU()
	Workers int
	// Pool, when set, supplies the output grids
	Pool *model.GridPool
}

// Step computes the next generation of g under rs with a sequential engine.
// g is not modified. The returned population is the number of live cells in
// the returned grid.
func Step(g *model.Grid, rs RuleSet) (*model.Grid, int) {
	var e Engine
	return e.Step(g, rs)
}

// Step computes the next generation of g under rs. g is only read, so the
// result depends solely on the previous generation.
func (e *Engine) Step(g *model.Grid, rs RuleSet) (*model.Grid, int) {
	next := e.Pool.Get(g.Rows(), g.Cols())

	region, ok := scanRegion(g, rs)
	if !ok {
		return next, 0
	}

	if !e.Parallel {
		return next, stepRows(g, next, rs, region, region.MinRow, region.MaxRow+1)
	}
	return next, e.stepParallel(g, next, rs, region)
}

func (e *Engine) stepParallel(g, next *model.Grid, rs RuleSet, region model.Bounds) int {
	var (
		eg            errgroup.Group
		numWorkers    = e.workers()
		height        = region.MaxRow - region.MinRow + 1
		rowsPerWorker = (height + numWorkers - 1) / numWorkers // Ceiling division
		populations   = make([]int, numWorkers)
	)

	for i := range numWorkers {
		var (
			startRow = region.MinRow + i*rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, region.MaxRow+1)
		)
		if startRow > region.MaxRow {
			break
		}

		eg.Go(func() error {
			populations[i] = stepRows(g, next, rs, region, startRow, endRow)
			return nil
		})
	}

	// workers never return an error
	_ = eg.Wait()

	population := 0
	for _, p := range populations {
		population += p
	}
	return population
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.NumCPU()
}

// scanRegion returns the cells that can be alive in the next generation.
// Without birth on 0 neighbors only the live bounding box plus a one-cell margin
// can change; ok is false when nothing can be alive.
func scanRegion(g *model.Grid, rs RuleSet) (model.Bounds, bool) {
	full := model.Bounds{MaxRow: g.Rows() - 1, MaxCol: g.Cols() - 1}
	if rs.Birth.Has(0) {
		return full, true
	}

	b, ok := g.ActiveBounds()
	if !ok {
		return b, false
	}
	return model.Bounds{
		MinRow: max(0, b.MinRow-1),
		MaxRow: min(full.MaxRow, b.MaxRow+1),
		MinCol: max(0, b.MinCol-1),
		MaxCol: min(full.MaxCol, b.MaxCol+1),
	}, true
}

// stepRows fills rows [startRow, endRow) of next within region and returns
// how many of those cells are alive
func stepRows(g, next *model.Grid, rs RuleSet, region model.Bounds, startRow, endRow int) int {
	population := 0
	for r := startRow; r < endRow; r++ {
		out := next.Row(r)
		for c := region.MinCol; c <= region.MaxCol; c++ {
			if rs.Next(g.Get(r, c), g.CountNeighbors(r, c)) {
				out[c] = true
				population++
			}
		}
	}
	return population
}
