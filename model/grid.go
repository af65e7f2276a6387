package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// ErrInvalidDimensions is returned when a grid is requested with a non-positive size
var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

// Grid is a rows x cols matrix of alive/dead cells
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// Bounds is an inclusive rectangle of cells
type Bounds struct {
	MinRow, MaxRow, MinCol, MaxCol int
}

// NewGrid creates an all-dead grid with the specified dimensions
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewGrid] rows=%d cols=%d", rows, cols)
	}
	g := &Grid{}
	g.Reset(rows, cols)
	return g, nil
}

// MustGrid is NewGrid for dimensions known to be valid
func MustGrid(rows, cols int) *Grid {
	g, err := NewGrid(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows in the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns in the grid
func (g *Grid) Cols() int {
	return g.cols
}

// Reset resizes the grid to new dimensions and kills every cell.
// Existing row slices are reused when their length already matches.
func (g *Grid) Reset(rows, cols int) {
	g.rows = rows
	g.cols = cols

	if len(g.cells) != rows {
		g.cells = make([][]bool, rows)
	}
	for i := range g.cells {
		if len(g.cells[i]) != cols {
			g.cells[i] = make([]bool, cols)
			continue
		}
		clear(g.cells[i])
	}
}

// Clear kills all cells
func (g *Grid) Clear() {
	for r := range g.rows {
		clear(g.cells[r])
	}
}

// IsValidCell reports whether (row, col) lies inside the grid
func (g *Grid) IsValidCell(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Set sets a cell to alive (true) or dead (false); out-of-bounds writes are ignored
func (g *Grid) Set(row, col int, alive bool) {
	if g.IsValidCell(row, col) {
		g.cells[row][col] = alive
	}
}

// Get returns the state of a cell, dead when out of bounds
func (g *Grid) Get(row, col int) bool {
	if !g.IsValidCell(row, col) {
		return false
	}
	return g.cells[row][col]
}

// Toggle flips a cell and reports whether the coordinates were in bounds
func (g *Grid) Toggle(row, col int) bool {
	if !g.IsValidCell(row, col) {
		return false
	}
	g.cells[row][col] = !g.cells[row][col]
	return true
}

// Paint forces a cell alive and reports whether the coordinates were in bounds
func (g *Grid) Paint(row, col int) bool {
	if !g.IsValidCell(row, col) {
		return false
	}
	g.cells[row][col] = true
	return true
}

// CountNeighbors counts living cells in the Moore neighborhood of (row, col).
// Cells outside the grid do not contribute.
func (g *Grid) CountNeighbors(row, col int) int {
	count := 0

	minR := max(0, row-1)
	maxR := min(g.rows-1, row+1)
	minC := max(0, col-1)
	maxC := min(g.cols-1, col+1)

	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			if r == row && c == col {
				continue
			}
			if g.cells[r][c] {
				count++
			}
		}
	}

	return count
}

// ActiveBounds returns the bounding box of living cells; ok is false for an empty grid
func (g *Grid) ActiveBounds() (b Bounds, ok bool) {
	for r := range g.rows {
		for c := range g.cols {
			if !g.cells[r][c] {
				continue
			}
			if !ok {
				b = Bounds{MinRow: r, MaxRow: r, MinCol: c, MaxCol: c}
				ok = true
				continue
			}
			b.MinRow = min(b.MinRow, r)
			b.MaxRow = max(b.MaxRow, r)
			b.MinCol = min(b.MinCol, c)
			b.MaxCol = max(b.MaxCol, c)
		}
	}
	return b, ok
}

// Row exposes a row of the grid for writers that own the grid (the rule engine)
func (g *Grid) Row(row int) []bool {
	return g.cells[row]
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// Randomize makes each cell independently alive with probability density
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	for r := range g.rows {
		for c := range g.cols {
			g.cells[r][c] = rng.Float64() < density
		}
	}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([][]bool, g.rows)}
	for r := range g.rows {
		out.cells[r] = append([]bool(nil), g.cells[r]...)
	}
	return out
}

// Equal reports whether two grids have the same dimensions and cells
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] != o.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Snapshot returns a read-only copy for render collaborators
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{Rows: g.rows, Cols: g.cols, Cells: g.Clone().cells}
}

// Hash returns an MD5 hash of the current grid state
func (g *Grid) Hash() string {
	h := md5.New()
	row := make([]byte, g.cols)
	for r := range g.rows {
		for c := range g.cols {
			row[c] = 0
			if g.cells[r][c] {
				row[c] = 1
			}
		}
		h.Write(row)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// AddGlider stamps a glider with its top-left corner at (row, col)
func (g *Grid) AddGlider(row, col int) {
	pattern := [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}

	for dr, line := range pattern {
		for dc, cell := range line {
			g.Set(row+dr, col+dc, cell)
		}
	}
}

// AddOscillator stamps a horizontal blinker starting at (row, col)
func (g *Grid) AddOscillator(row, col int) {
	g.Set(row, col, true)
	g.Set(row, col+1, true)
	g.Set(row, col+2, true)
}

// Snapshot is an immutable view of a grid handed to renderers
type Snapshot struct {
	Rows  int
	Cols  int
	Cells [][]bool
}

// Alive reports whether the cell at (row, col) is alive
func (s Snapshot) Alive(row, col int) bool {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return false
	}
	return s.Cells[row][col]
}
