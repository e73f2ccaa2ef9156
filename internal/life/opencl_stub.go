//go:build !opencl

package life

import "errors"

// CLSim is a placeholder when the binary is built without OpenCL support.
type CLSim struct{}

func NewCLSim(g *Grid) (*CLSim, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *CLSim) Grid() *Grid { return nil }

func (s *CLSim) Generation() uint64 { return 0 }

func (s *CLSim) DeviceName() string { return "" }

func (s *CLSim) Step() error {
	return errors.New("OpenCL simulation unavailable")
}

func (s *CLSim) StepBatch(count int) error {
	return errors.New("OpenCL simulation unavailable")
}

func (s *CLSim) Close() {}
