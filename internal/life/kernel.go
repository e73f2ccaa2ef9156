package life

// stepRows computes the next generation for rows [start, end) from the
// current buffer. A task calling it only reads curr and only writes its own
// rows of next, so concurrent bands need no locking. Interior cells take a
// fast path over three row slices; border cells fall back to the clamped
// neighbor scan.
func (g *Grid) stepRows(start, end int) {
	rows, cols := g.rows, g.cols
	for i := start; i < end; i++ {
		base := i * cols
		if i == 0 || i == rows-1 {
			for j := 0; j < cols; j++ {
				g.next[base+j] = transition(g.curr[base+j], g.clampedNeighbors(i, j))
			}
			continue
		}
		top := g.curr[base-cols : base]
		mid := g.curr[base : base+cols]
		bot := g.curr[base+cols : base+2*cols]
		nextRow := g.next[base : base+cols]

		nextRow[0] = transition(mid[0], g.clampedNeighbors(i, 0))
		for j := 1; j < cols-1; j++ {
			n := int(top[j-1]) + int(top[j]) + int(top[j+1]) +
				int(mid[j-1]) + int(mid[j+1]) +
				int(bot[j-1]) + int(bot[j]) + int(bot[j+1])
			nextRow[j] = transition(mid[j], n)
		}
		if cols > 1 {
			nextRow[cols-1] = transition(mid[cols-1], g.clampedNeighbors(i, cols-1))
		}
	}
}

// transition applies the standard rule: a live cell survives on exactly 2 or
// 3 neighbors, a dead cell turns live on exactly 3, everything else dies.
func transition(cell uint8, neighbors int) uint8 {
	if (cell != 0 && neighbors == 2) || neighbors == 3 {
		return 1
	}
	return 0
}

// clampedNeighbors counts the live Moore neighbors of (row, col), skipping
// positions outside the grid. The boundary clamps; it never wraps around.
func (g *Grid) clampedNeighbors(row, col int) int {
	n := 0
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			r, c := row+di, col+dj
			if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
				continue
			}
			n += int(g.curr[r*g.cols+c])
		}
	}
	return n
}
