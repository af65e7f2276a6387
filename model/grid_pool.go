package model

import "sync"

// GridPool recycles the grids a generation step replaces. A nil *GridPool is
// usable and simply allocates, so callers never branch on whether pooling is on.
type GridPool struct {
	grids sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{}
}

// Get returns an all-dead rows x cols grid, reusing a recycled one when possible.
// Reset keeps row slices whose length already matches, so a steady grid size
// stops allocating after the first few generations.
func (p *GridPool) Get(rows, cols int) *Grid {
	if p == nil {
		return MustGrid(rows, cols)
	}
	g, ok := p.grids.Get().(*Grid)
	if !ok {
		g = &Grid{}
	}
	g.Reset(rows, cols)
	return g
}

// Put hands g over for reuse; the caller must not touch g afterwards
func (p *GridPool) Put(g *Grid) {
	if p == nil || g == nil {
		return
	}
	p.grids.Put(g)
}
