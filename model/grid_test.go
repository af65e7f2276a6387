package model

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 4, g.Cols())
	assert.Zero(t, g.CountLivingCells())

	for _, dims := range [][2]int{{0, 4}, {3, 0}, {-1, 2}} {
		_, err := NewGrid(dims[0], dims[1])
		assert.True(t, errors.Is(err, ErrInvalidDimensions), "dims %v", dims)
	}
}

func TestGrid_IsValidCell(t *testing.T) {
	g := MustGrid(2, 3)
	tests := []struct {
		row, col int
		want     bool
	}{
		{0, 0, true},
		{1, 2, true},
		{2, 0, false},
		{0, 3, false},
		{-1, 0, false},
		{0, -1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.IsValidCell(tt.row, tt.col), "(%d,%d)", tt.row, tt.col)
	}
}

func TestGrid_ToggleAndPaint(t *testing.T) {
	g := MustGrid(3, 3)

	assert.True(t, g.Toggle(1, 1))
	assert.True(t, g.Get(1, 1))
	assert.True(t, g.Toggle(1, 1))
	assert.False(t, g.Get(1, 1))

	assert.True(t, g.Paint(0, 2))
	assert.True(t, g.Paint(0, 2))
	assert.True(t, g.Get(0, 2))

	before := g.Clone()
	assert.False(t, g.Toggle(3, 0))
	assert.False(t, g.Paint(0, -1))
	assert.True(t, g.Equal(before))
}

func TestGrid_CountNeighborsCorner(t *testing.T) {
	g := MustGrid(3, 3)
	g.Set(0, 0, true)

	touched := 0
	for r := range 3 {
		for c := range 3 {
			if r == 0 && c == 0 {
				continue
			}
			if n := g.CountNeighbors(r, c); n > 0 {
				assert.Equal(t, 1, n)
				touched++
			}
		}
	}
	assert.Equal(t, 3, touched)
	assert.Zero(t, g.CountNeighbors(0, 0))
}

func TestGrid_CountNeighborsFull(t *testing.T) {
	g := MustGrid(3, 3)
	for r := range 3 {
		for c := range 3 {
			g.Set(r, c, true)
		}
	}
	assert.Equal(t, 8, g.CountNeighbors(1, 1))
	assert.Equal(t, 3, g.CountNeighbors(0, 0))
	assert.Equal(t, 5, g.CountNeighbors(0, 1))
}

func TestGrid_ActiveBounds(t *testing.T) {
	g := MustGrid(6, 6)
	_, ok := g.ActiveBounds()
	assert.False(t, ok)

	g.Set(1, 4, true)
	g.Set(3, 2, true)
	b, ok := g.ActiveBounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinRow: 1, MaxRow: 3, MinCol: 2, MaxCol: 4}, b)
}

func TestGrid_Randomize(t *testing.T) {
	g := MustGrid(20, 20)

	g.Randomize(0, rand.New(rand.NewPCG(1, 0)))
	assert.Zero(t, g.CountLivingCells())

	g.Randomize(1, rand.New(rand.NewPCG(1, 0)))
	assert.Equal(t, 400, g.CountLivingCells())

	a, b := MustGrid(20, 20), MustGrid(20, 20)
	a.Randomize(0.3, rand.New(rand.NewPCG(7, 0)))
	b.Randomize(0.3, rand.New(rand.NewPCG(7, 0)))
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestGrid_SnapshotIsCopy(t *testing.T) {
	g := MustGrid(2, 2)
	g.Set(0, 0, true)

	s := g.Snapshot()
	g.Set(0, 0, false)
	g.Set(1, 1, true)

	assert.True(t, s.Alive(0, 0))
	assert.False(t, s.Alive(1, 1))
	assert.False(t, s.Alive(5, 5))
}

func TestGrid_Hash(t *testing.T) {
	g := MustGrid(4, 4)
	empty := g.Hash()
	g.Toggle(2, 3)
	assert.NotEqual(t, empty, g.Hash())
	g.Toggle(2, 3)
	assert.Equal(t, empty, g.Hash())
}

func TestGridPool_GetReturnsClearedGrid(t *testing.T) {
	pool := NewGridPool()
	g := pool.Get(3, 5)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 5, g.Cols())

	g.Set(2, 4, true)
	pool.Put(g)

	again := pool.Get(4, 2)
	assert.Equal(t, 4, again.Rows())
	assert.Equal(t, 2, again.Cols())
	assert.Zero(t, again.CountLivingCells())

	pool.Put(nil)
}

func TestGridPool_NilPoolAllocates(t *testing.T) {
	var pool *GridPool
	g := pool.Get(2, 3)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Zero(t, g.CountLivingCells())

	g.Set(1, 1, true)
	pool.Put(g)
	assert.True(t, g.Get(1, 1), "a nil pool keeps nothing")
}
