package life

import "lifeaccel/internal/pool"

// band is a half-open row range [start, end) computed by one pool task.
type band struct{ start, end int }

// partition splits rows into exactly n contiguous bands. Every band spans
// rows/n rows except the final one, which runs to the last row and absorbs
// the integer-division remainder. When n exceeds rows the leading bands are
// empty; their tasks are valid no-ops.
func partition(rows, n int) []band {
	chunk := rows / n
	bands := make([]band, n)
	for t := 0; t < n; t++ {
		bands[t] = band{start: t * chunk, end: (t + 1) * chunk}
	}
	bands[n-1].end = rows
	return bands
}

// Sim advances a grid one generation at a time by splitting its rows into
// one band per pool worker and running the transition kernel for all bands
// in parallel. The pool's Wait barrier separates the kernel phase from the
// buffer swap, so no task ever observes a half-written generation.
type Sim struct {
	grid       *Grid
	pool       *pool.Pool
	generation uint64
}

// NewSim binds a grid to the pool that executes its band tasks. The band
// count always follows the pool's actual worker count, so the two can never
// drift apart.
func NewSim(g *Grid, p *pool.Pool) *Sim {
	return &Sim{grid: g, pool: p}
}

// Grid returns the simulated grid.
func (s *Sim) Grid() *Grid { return s.grid }

// Generation reports how many steps have completed.
func (s *Sim) Generation() uint64 { return s.generation }

// Step advances the grid by one generation: submit one band task per worker,
// block until the whole batch has finished, swap the buffers.
func (s *Sim) Step() {
	for _, b := range partition(s.grid.rows, s.pool.Workers()) {
		s.pool.Submit(func() { s.grid.stepRows(b.start, b.end) })
	}
	s.pool.Wait()
	s.grid.swap()
	s.generation++
}

// StepBatch runs count consecutive generations.
func (s *Sim) StepBatch(count int) {
	for i := 0; i < count; i++ {
		s.Step()
	}
}
