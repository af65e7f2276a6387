package model

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sheikhrachel/go-gol-playback/history"
)

const (
	gridPosBlock = "█"
	gridPosEmpty = " "

	cursorAlive = "▓"
	cursorDead  = "▒"

	chartLine = "•"
	chartArea = "░"

	clearScreen = "\033[H\033[2J"
)

var (
	// cyan -> indigo -> purple across the board diagonal
	gradient = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#818cf8")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc")),
	}
	chartLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8"))
	chartAreaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e293b"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15"))
)

// Cursor is the cell highlighted for keyboard editing
type Cursor struct {
	Row, Col int
}

// TerminalRenderer draws grid snapshots and the population chart as text
type TerminalRenderer struct {
	// Plain disables colors, used for tests and dumb terminals
	Plain bool
	// Cursor, when set, is drawn over the cell it points at
	Cursor *Cursor
}

// Display renders the grid; cellSize is the number of characters per cell horizontally
func (r *TerminalRenderer) Display(w io.Writer, s Snapshot, cellSize int) error {
	cellSize = max(cellSize, 1)
	alive := strings.Repeat(gridPosBlock, cellSize)
	dead := strings.Repeat(gridPosEmpty, cellSize)

	var b strings.Builder
	span := max(s.Rows+s.Cols-2, 1)
	for row := range s.Rows {
		for col := range s.Cols {
			if r.Cursor != nil && r.Cursor.Row == row && r.Cursor.Col == col {
				glyph := cursorDead
				if s.Cells[row][col] {
					glyph = cursorAlive
				}
				b.WriteString(r.style(cursorStyle, strings.Repeat(glyph, cellSize)))
				continue
			}
			if !s.Cells[row][col] {
				b.WriteString(dead)
				continue
			}
			if r.Plain {
				b.WriteString(alive)
				continue
			}
			stop := (row + col) * (len(gradient) - 1) / span
			b.WriteString(gradient[stop].Render(alive))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Chart renders population samples as a line with the area beneath it filled.
// The horizontal axis spans the buffer capacity; the vertical axis is floored at 100.
func (r *TerminalRenderer) Chart(w io.Writer, values []int, capacity, width, height int) error {
	if width < 2 || height < 1 {
		return nil
	}
	scale := history.Scale(values, capacity)
	points := scale.Points(values, float64(width-1), float64(height-1))
	if points == nil {
		return nil
	}

	canvas := make([][]string, height)
	for i := range canvas {
		canvas[i] = make([]string, width)
		for j := range canvas[i] {
			canvas[i][j] = " "
		}
	}
	for _, p := range points {
		x := int(math.Round(p.X))
		y := int(math.Round(p.Y))
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		canvas[y][x] = r.style(chartLineStyle, chartLine)
		for below := y + 1; below < height; below++ {
			canvas[below][x] = r.style(chartAreaStyle, chartArea)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "population (max %d)\n", scale.YMax)
	for _, line := range canvas {
		b.WriteString(strings.Join(line, ""))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Clear clears the terminal screen; plain output is left untouched
func (r *TerminalRenderer) Clear(w io.Writer) {
	if r.Plain {
		return
	}
	if _, err := io.WriteString(w, clearScreen); err != nil {
		fmt.Println("Error clearing terminal:", err)
	}
}

func (r *TerminalRenderer) style(s lipgloss.Style, text string) string {
	if r.Plain {
		return text
	}
	return s.Render(text)
}
