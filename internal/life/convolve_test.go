package life

import (
	"math/rand"
	"testing"
)

func TestConvSimEmptyGridStaysEmpty(t *testing.T) {
	g := newTestGrid(t, 20, 14)
	c := NewConvSim(g)
	c.StepBatch(3)
	if got := g.LiveCount(); got != 0 {
		t.Errorf("expected no spontaneous life from the convolution stepper, got %d", got)
	}
	if c.Generation() != 3 {
		t.Errorf("expected generation 3, got %d", c.Generation())
	}
}

func TestConvSimGliderTranslatesLikeTheKernel(t *testing.T) {
	g := newTestGrid(t, 12, 12)
	if err := PlacePattern(g, "glider", 2, 2); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	NewConvSim(g).StepBatch(4)

	want := newTestGrid(t, 12, 12)
	if err := PlacePattern(want, "glider", 3, 3); err != nil {
		t.Fatalf("PlacePattern: %v", err)
	}
	gc, wc := g.Cells(), want.Cells()
	for i := range wc {
		if gc[i] != wc[i] {
			t.Fatalf("cell (%d,%d): expected %d, got %d", i/12, i%12, wc[i], gc[i])
		}
	}
}

func TestConvSimMatchesBandedStepper(t *testing.T) {
	cases := []struct{ rows, cols int }{
		{16, 16}, {9, 13}, {24, 10}, {31, 33},
	}
	p := newTestPool(t, 4)
	for _, tc := range cases {
		banded := newTestGrid(t, tc.rows, tc.cols)
		banded.Randomize(rand.New(rand.NewSource(11)), 0.4)
		conv := newTestGrid(t, tc.rows, tc.cols)
		conv.Randomize(rand.New(rand.NewSource(11)), 0.4)

		s := NewSim(banded, p)
		c := NewConvSim(conv)
		for step := 1; step <= 4; step++ {
			s.Step()
			c.Step()
			bc, cc := banded.Cells(), conv.Cells()
			for i := range bc {
				if bc[i] != cc[i] {
					t.Fatalf("%dx%d step %d: cell (%d,%d) differs between steppers",
						tc.rows, tc.cols, step, i/tc.cols, i%tc.cols)
				}
			}
		}
	}
}

func TestNextPow2(t *testing.T) {
	cases := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {5, 8}, {17, 32}, {64, 64}, {100, 128},
	}
	for _, tc := range cases {
		if got := nextPow2(tc.in); got != tc.want {
			t.Errorf("nextPow2(%d): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
