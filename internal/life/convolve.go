package life

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// convWeights is the neighborhood weighting used by the convolution stepper:
// the center cell counts once, each Moore neighbor twice. The weighted sum v
// then encodes both rule inputs at once, and v in [4.5, 7.5] picks out
// exactly the live outcomes (5 = survive on 2, 7 = survive on 3, 6 = birth
// on 3).
var convWeights = [3][3]float64{
	{2, 2, 2},
	{2, 1, 2},
	{2, 2, 2},
}

// nextPow2 returns the smallest power of two not below n.
func nextPow2(n int) int {
	return int(math.Pow(2, math.Ceil(math.Log2(float64(n)))))
}

// ConvSim advances a grid by evaluating the transition rule as a 2-D
// convolution in the frequency domain: real FFT along rows, complex FFT
// along columns, pointwise multiply with the pre-transformed kernel,
// inverse, threshold. Each axis is zero padded to a power of two with at
// least one dead cell of margin beyond the grid, which makes the circular
// transform equivalent to the clamped boundary. Single threaded; it serves
// as an alternative engine and as an independent oracle for the banded
// stepper.
type ConvSim struct {
	grid       *Grid
	fftW, fftH int
	halfW      int
	realFFT    *fourier.FFT
	cmplxFFT   *fourier.CmplxFFT
	kernelFreq []complex128
	freqBuf    []complex128
	colBuf     []complex128
	realBuf    []float64
	normInv    float64
	generation uint64
}

// NewConvSim builds the FFT plans and the kernel transform for the grid's
// dimensions.
func NewConvSim(g *Grid) *ConvSim {
	c := &ConvSim{
		grid: g,
		fftW: nextPow2(g.cols + 2),
		fftH: nextPow2(g.rows + 2),
	}
	c.halfW = c.fftW/2 + 1
	c.realFFT = fourier.NewFFT(c.fftW)
	c.cmplxFFT = fourier.NewCmplxFFT(c.fftH)
	c.normInv = 1.0 / float64(c.fftW*c.fftH)
	c.kernelFreq = make([]complex128, c.fftH*c.halfW)
	c.freqBuf = make([]complex128, c.fftH*c.halfW)
	c.colBuf = make([]complex128, c.fftH)
	c.realBuf = make([]float64, c.fftW)

	kernelReal := make([]float64, c.fftH*c.fftW)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			fy := (dy + c.fftH) % c.fftH
			fx := (dx + c.fftW) % c.fftW
			kernelReal[fy*c.fftW+fx] = convWeights[dy+1][dx+1]
		}
	}
	for y := 0; y < c.fftH; y++ {
		c.realFFT.Coefficients(c.kernelFreq[y*c.halfW:(y+1)*c.halfW], kernelReal[y*c.fftW:(y+1)*c.fftW])
	}
	c.columnTransform(c.kernelFreq, true)
	return c
}

// Grid returns the simulated grid.
func (c *ConvSim) Grid() *Grid { return c.grid }

// Generation reports how many steps have completed.
func (c *ConvSim) Generation() uint64 { return c.generation }

// columnTransform runs the column-axis FFT over every reduced column of buf,
// forward when fwd is true and inverse otherwise.
func (c *ConvSim) columnTransform(buf []complex128, fwd bool) {
	for x := 0; x < c.halfW; x++ {
		for y := 0; y < c.fftH; y++ {
			c.colBuf[y] = buf[y*c.halfW+x]
		}
		if fwd {
			c.cmplxFFT.Coefficients(c.colBuf, c.colBuf)
		} else {
			c.cmplxFFT.Sequence(c.colBuf, c.colBuf)
		}
		for y := 0; y < c.fftH; y++ {
			buf[y*c.halfW+x] = c.colBuf[y]
		}
	}
}

// Step advances the grid by one generation through the frequency domain and
// swaps the buffers.
func (c *ConvSim) Step() {
	g := c.grid

	// Forward: real FFT per grid row, then complex FFT per column. Padding
	// rows transform to zero, so their frequency rows are zeroed directly.
	for y := 0; y < g.rows; y++ {
		row := g.curr[y*g.cols : (y+1)*g.cols]
		for x, cell := range row {
			c.realBuf[x] = float64(cell)
		}
		for x := g.cols; x < c.fftW; x++ {
			c.realBuf[x] = 0
		}
		c.realFFT.Coefficients(c.freqBuf[y*c.halfW:(y+1)*c.halfW], c.realBuf)
	}
	for i := g.rows * c.halfW; i < len(c.freqBuf); i++ {
		c.freqBuf[i] = 0
	}
	c.columnTransform(c.freqBuf, true)

	for i := range c.freqBuf {
		c.freqBuf[i] *= c.kernelFreq[i]
	}

	// Inverse: columns first, then rows, thresholding as we land back in
	// the spatial domain. Rows past the grid carry only padding and are
	// skipped.
	c.columnTransform(c.freqBuf, false)
	for y := 0; y < g.rows; y++ {
		c.realFFT.Sequence(c.realBuf, c.freqBuf[y*c.halfW:(y+1)*c.halfW])
		nextRow := g.next[y*g.cols : (y+1)*g.cols]
		for x := 0; x < g.cols; x++ {
			v := c.realBuf[x] * c.normInv
			if v >= 4.5 && v <= 7.5 {
				nextRow[x] = 1
			} else {
				nextRow[x] = 0
			}
		}
	}
	g.swap()
	c.generation++
}

// StepBatch runs count consecutive generations.
func (c *ConvSim) StepBatch(count int) {
	for i := 0; i < count; i++ {
		c.Step()
	}
}
