package main

import (
	"fmt"
	"log/slog"

	"lifeaccel/internal/config"
	"lifeaccel/internal/life"
	"lifeaccel/internal/pool"
)

// engine adapts the three steppers to one driver-facing surface. The pool
// and convolution steppers cannot fail mid-run; the OpenCL stepper surfaces
// device errors.
type engine struct {
	stepBatch  func(count int) error
	generation func() uint64
	close      func()
}

// buildEngine constructs the stepper the configuration names, bound to g.
// The caller must invoke close after the run, which tears down the worker
// pool or releases the OpenCL objects.
func buildEngine(cfg *config.Config, g *life.Grid, logger *slog.Logger) (*engine, error) {
	switch cfg.Engine {
	case config.EnginePool:
		p, err := pool.New(cfg.Workers)
		if err != nil {
			return nil, err
		}
		sim := life.NewSim(g, p)
		return &engine{
			stepBatch:  func(count int) error { sim.StepBatch(count); return nil },
			generation: sim.Generation,
			close:      p.Close,
		}, nil
	case config.EngineConv:
		sim := life.NewConvSim(g)
		return &engine{
			stepBatch:  func(count int) error { sim.StepBatch(count); return nil },
			generation: sim.Generation,
			close:      func() {},
		}, nil
	case config.EngineOpenCL:
		sim, err := life.NewCLSim(g)
		if err != nil {
			return nil, err
		}
		logger.Info("opencl device ready", "device", sim.DeviceName())
		return &engine{
			stepBatch:  sim.StepBatch,
			generation: sim.Generation,
			close:      sim.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
}
