package main

import (
	"flag"

	"lifeaccel/internal/config"
	"lifeaccel/internal/pool"
)

// Command-line flags that override the compiled defaults and any LIFE_*
// environment settings. Defaults shown by -help mirror the configuration
// package; applyFlags copies only the flags actually given.
var (
	// widthFlag and heightFlag size the logical surface the grid is derived from.
	widthFlag  = flag.Int("width", config.DefaultWidth, "logical surface width")
	heightFlag = flag.Int("height", config.DefaultHeight, "logical surface height")

	// cellSizeFlag sets the square cell edge; the grid has width/cell-size
	// columns and height/cell-size rows.
	cellSizeFlag = flag.Int("cell-size", config.DefaultCellSize, "cell edge length in surface units")

	// fillFlag is the initial live probability per cell when no pattern is given.
	fillFlag = flag.Float64("fill", config.DefaultFill, "initial live probability per cell (0-1)")

	// workersFlag sets the worker goroutine count for the banded stepper.
	workersFlag = flag.Int("workers", pool.DefaultWorkers(), "worker goroutines for the banded stepper")

	// engineFlag selects the generation stepper.
	engineFlag = flag.String("engine", config.EnginePool, "stepper engine: pool, conv, or opencl")

	// tpsFlag paces the generation loop; 0 runs as fast as the stepper allows.
	tpsFlag = flag.Float64("tps", config.DefaultTPS, "target ticks per second (0 runs unpaced)")

	// stepsPerTickFlag advances multiple generations per paced tick.
	stepsPerTickFlag = flag.Int("steps-per-tick", 1, "generations advanced per tick")

	// generationsFlag bounds the run; 0 runs until interrupted.
	generationsFlag = flag.Uint64("generations", 0, "stop after this many generations (0 runs until interrupted)")

	// seedFlag fixes the random source so a run can be reproduced exactly.
	seedFlag = flag.Int64("seed", 0, "random seed (0 derives one from the clock)")

	// patternFlag stamps a named shape instead of randomizing.
	patternFlag = flag.String("pattern", "", "seed with a named pattern instead of randomizing")

	// sampleIntervalFlag sets the metrics cadence.
	sampleIntervalFlag = flag.Duration("sample-interval", config.DefaultSampleInterval, "metrics sampling cadence")

	// runlogFlag records the run and its samples into SQLite.
	runlogFlag = flag.String("runlog", "", "record the run into this SQLite database")

	// cpuProfileFlag captures a CPU profile for the whole run.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")

	// verifyFlag steps an independent reference engine alongside the primary
	// one and aborts on the first divergent cell.
	verifyFlag = flag.Bool("verify", false, "cross-check every generation against an independent stepper")
)

// applyFlags copies explicitly set flags onto the configuration, so flags win
// over environment settings without clobbering them with flag defaults.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *widthFlag
		case "height":
			cfg.Height = *heightFlag
		case "cell-size":
			cfg.CellSize = *cellSizeFlag
		case "fill":
			cfg.Fill = *fillFlag
		case "workers":
			cfg.Workers = *workersFlag
		case "engine":
			cfg.Engine = *engineFlag
		case "tps":
			cfg.TPS = *tpsFlag
		case "steps-per-tick":
			cfg.StepsPerTick = *stepsPerTickFlag
		case "generations":
			cfg.Generations = *generationsFlag
		case "seed":
			cfg.Seed = *seedFlag
		case "pattern":
			cfg.Pattern = *patternFlag
		case "sample-interval":
			cfg.SampleInterval = *sampleIntervalFlag
		case "runlog":
			cfg.RunLogPath = *runlogFlag
		case "cpuprofile":
			cfg.CPUProfile = *cpuProfileFlag
		}
	})
}
