// Package life implements a Conway-style cellular automaton over a dense
// 2-D grid with a clamped (non-wrapping) boundary. Generation stepping is
// delegated to interchangeable steppers; the banded Sim parallelizes the
// update across a worker pool, ConvSim evaluates the same rule as a
// frequency-domain convolution.
package life

import (
	"fmt"
	"math/rand"
)

// Grid stores the double-buffered automaton state. Exactly one buffer is
// current (readable, frozen during a step) and one is next (written during a
// step); swap exchanges their roles by pointer, never by copying cells. Both
// buffers are flat row-major arrays addressed by row*cols+col.
type Grid struct {
	rows, cols int
	curr       []uint8
	next       []uint8
}

// NewGrid allocates a grid for a logical width and height divided into square
// cells of cellSize units. All three values must be positive and the division
// must leave at least one row and one column.
func NewGrid(width, height, cellSize int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("life: grid dimensions must be positive, got %dx%d", width, height)
	}
	if cellSize < 1 {
		return nil, fmt.Errorf("life: cell size must be positive, got %d", cellSize)
	}
	rows := height / cellSize
	cols := width / cellSize
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("life: %dx%d at cell size %d leaves no cells", width, height, cellSize)
	}
	return &Grid{
		rows: rows, cols: cols,
		curr: make([]uint8, rows*cols),
		next: make([]uint8, rows*cols),
	}, nil
}

// Rows reports the number of cell rows.
func (g *Grid) Rows() int { return g.rows }

// Cols reports the number of cell columns.
func (g *Grid) Cols() int { return g.cols }

// At reports whether the cell at (row, col) is alive in the current buffer.
func (g *Grid) At(row, col int) bool {
	return g.curr[row*g.cols+col] != 0
}

// Set writes one cell of the current buffer.
func (g *Grid) Set(row, col int, alive bool) {
	if alive {
		g.curr[row*g.cols+col] = 1
	} else {
		g.curr[row*g.cols+col] = 0
	}
}

// Row returns the current buffer's row i as a shared slice view.
func (g *Grid) Row(i int) []uint8 {
	return g.curr[i*g.cols : (i+1)*g.cols]
}

// Cells returns the whole current buffer as a shared row-major view, one byte
// per cell, 1 alive and 0 dead. Renderers read it between steps; it must not
// be held across a step.
func (g *Grid) Cells() []uint8 {
	return g.curr
}

// Randomize seeds every cell with an independent Bernoulli draw: alive when
// the next uniform variate falls below fill. The caller owns the generator,
// so a fixed seed reproduces the same field exactly.
func (g *Grid) Randomize(rng *rand.Rand, fill float64) {
	for i := range g.curr {
		if rng.Float64() < fill {
			g.curr[i] = 1
		} else {
			g.curr[i] = 0
		}
	}
}

// LiveCount reports the number of live cells in the current buffer.
func (g *Grid) LiveCount() int {
	n := 0
	for _, c := range g.curr {
		n += int(c)
	}
	return n
}

// Clear kills every cell in both buffers.
func (g *Grid) Clear() {
	for i := range g.curr {
		g.curr[i] = 0
		g.next[i] = 0
	}
}

// swap exchanges the roles of the current and next buffers.
func (g *Grid) swap() {
	g.curr, g.next = g.next, g.curr
}
