package life

import (
	"fmt"
	"sort"
)

// patterns holds the built-in seed shapes as row-major stamps. The glider
// orientation travels one cell down and one cell right every four
// generations.
var patterns = map[string][][]uint8{
	"glider": {
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	},
	"blinker": {
		{1, 1, 1},
	},
	"block": {
		{1, 1},
		{1, 1},
	},
	"beacon": {
		{1, 1, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	},
	"toad": {
		{0, 1, 1, 1},
		{1, 1, 1, 0},
	},
	"pulsar": {
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
	},
}

// PatternNames lists the built-in pattern names in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlacePattern stamps a named pattern onto the current buffer with its top
// left corner at (row, col). The stamp must fit inside the grid.
func PlacePattern(g *Grid, name string, row, col int) error {
	stamp, ok := patterns[name]
	if !ok {
		return fmt.Errorf("life: unknown pattern %q", name)
	}
	h := len(stamp)
	w := len(stamp[0])
	if row < 0 || col < 0 || row+h > g.rows || col+w > g.cols {
		return fmt.Errorf("life: pattern %q (%dx%d) does not fit at (%d,%d) on a %dx%d grid",
			name, h, w, row, col, g.rows, g.cols)
	}
	for i, stampRow := range stamp {
		copy(g.curr[(row+i)*g.cols+col:], stampRow)
	}
	return nil
}
