package main

import (
	"fmt"

	"lifeaccel/internal/config"
	"lifeaccel/internal/life"
	"lifeaccel/internal/pool"
)

// verifier mirrors the primary engine's generations on an independent
// stepper over its own copy of the grid and compares the full cell buffer
// after every batch. The banded stepper is checked against the convolution
// stepper and vice versa.
type verifier struct {
	primary *life.Grid
	shadow  *life.Grid
	step    func(count int)
	close   func()
}

// newVerifier clones the primary grid's state and builds the opposite
// engine over the clone.
func newVerifier(cfg *config.Config, primary *life.Grid) (*verifier, error) {
	shadow, err := life.NewGrid(cfg.Width, cfg.Height, cfg.CellSize)
	if err != nil {
		return nil, err
	}
	copy(shadow.Cells(), primary.Cells())
	v := &verifier{primary: primary, shadow: shadow, close: func() {}}
	switch cfg.Engine {
	case config.EnginePool:
		sim := life.NewConvSim(shadow)
		v.step = sim.StepBatch
	case config.EngineConv:
		p, err := pool.New(cfg.Workers)
		if err != nil {
			return nil, err
		}
		sim := life.NewSim(shadow, p)
		v.step = sim.StepBatch
		v.close = p.Close
	default:
		return nil, fmt.Errorf("no reference stepper for engine %q", cfg.Engine)
	}
	return v, nil
}

// check advances the shadow grid by the same batch and reports the first
// divergent cell, if any.
func (v *verifier) check(count int, generation uint64) error {
	v.step(count)
	prim := v.primary.Cells()
	shad := v.shadow.Cells()
	for i := range prim {
		if prim[i] != shad[i] {
			cols := v.primary.Cols()
			return fmt.Errorf("generation %d: steppers diverge at cell (%d,%d)", generation, i/cols, i%cols)
		}
	}
	return nil
}
