package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"lifeaccel/internal/config"
	"lifeaccel/internal/life"
	"lifeaccel/internal/runlog"
)

// run owns the simulation lifecycle: seed the grid, build the engine, pace
// the generation loop, sample metrics, and tear everything down once the
// context is cancelled or the generation limit is reached.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, verify bool) error {
	if cfg.CPUProfile != "" {
		stop, err := startCPUProfile(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer stop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	grid, err := life.NewGrid(cfg.Width, cfg.Height, cfg.CellSize)
	if err != nil {
		return err
	}
	if cfg.Pattern != "" {
		if err := life.PlacePattern(grid, cfg.Pattern, grid.Rows()/4, grid.Cols()/4); err != nil {
			return fmt.Errorf("%w (available: %v)", err, life.PatternNames())
		}
	} else {
		grid.Randomize(rand.New(rand.NewSource(seed)), cfg.Fill)
	}

	eng, err := buildEngine(cfg, grid, logger)
	if err != nil {
		return fmt.Errorf("starting %s engine: %w", cfg.Engine, err)
	}
	defer eng.close()

	var ver *verifier
	if verify {
		if ver, err = newVerifier(cfg, grid); err != nil {
			return fmt.Errorf("starting verifier: %w", err)
		}
		defer ver.close()
	}

	logger.Info("simulation starting",
		"engine", cfg.Engine,
		"rows", grid.Rows(),
		"cols", grid.Cols(),
		"workers", cfg.Workers,
		"seed", seed,
		"fill", cfg.Fill,
		"pattern", cfg.Pattern,
		"tps", cfg.TPS,
		"steps_per_tick", cfg.StepsPerTick,
		"live", grid.LiveCount())

	var rec *recorder
	if cfg.RunLogPath != "" {
		rec, err = newRecorder(cfg, grid, seed, logger)
		if err != nil {
			return fmt.Errorf("opening run log: %w", err)
		}
		defer rec.finish(eng, grid)
	}

	var tick <-chan time.Time
	if cfg.TPS > 0 {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.TPS))
		defer ticker.Stop()
		tick = ticker.C
	}
	sampleTick := time.NewTicker(cfg.SampleInterval)
	defer sampleTick.Stop()

	m := newMetrics(grid.LiveCount())
	for {
		tickStart := time.Now()
		if err := eng.stepBatch(cfg.StepsPerTick); err != nil {
			return fmt.Errorf("generation %d: %w", eng.generation(), err)
		}
		stepDone := time.Now()
		if ver != nil {
			if err := ver.check(cfg.StepsPerTick, eng.generation()); err != nil {
				return err
			}
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
			}
		}
		m.observe(cfg.StepsPerTick, stepDone.Sub(tickStart), time.Since(tickStart))

		select {
		case <-sampleTick.C:
			s := m.sample(eng.generation(), grid.LiveCount())
			logger.Info("simulation sample",
				"generation", s.Generation,
				"live", s.Live,
				"live_delta", s.LiveDelta,
				"step_ms", s.StepMillis,
				"tick_ms", s.TickMillis,
				"tps", s.TPS,
				"avg_tps", s.AvgTPS)
			if rec != nil {
				rec.record(s)
			}
		default:
		}

		if cfg.Generations > 0 && eng.generation() >= cfg.Generations {
			break
		}
		if ctx.Err() != nil {
			logger.Info("interrupt received, stopping")
			break
		}
	}

	logger.Info("simulation finished",
		"generation", eng.generation(),
		"live", grid.LiveCount())
	return nil
}

// metrics accumulates per-tick timings between samples.
type metrics struct {
	start      time.Time
	lastSample time.Time
	lastLive   int
	gens       int
	ticks      int
	stepTime   time.Duration // time inside the stepper
	tickTime   time.Duration // whole ticks including pacing
}

func newMetrics(live int) *metrics {
	now := time.Now()
	return &metrics{start: now, lastSample: now, lastLive: live}
}

func (m *metrics) observe(gens int, step, tick time.Duration) {
	m.gens += gens
	m.ticks++
	m.stepTime += step
	m.tickTime += tick
}

// sample rolls the accumulated counters into one observation and resets the
// per-interval state.
func (m *metrics) sample(generation uint64, live int) runlog.Sample {
	now := time.Now()
	s := runlog.Sample{
		Generation: generation,
		Live:       live,
		LiveDelta:  live - m.lastLive,
	}
	elapsed := now.Sub(m.lastSample).Seconds()
	if m.gens > 0 {
		s.StepMillis = m.stepTime.Seconds() * 1000 / float64(m.gens)
		if elapsed > 0 {
			s.TPS = float64(m.gens) / elapsed
		}
	}
	if m.ticks > 0 {
		s.TickMillis = m.tickTime.Seconds() * 1000 / float64(m.ticks)
	}
	if total := now.Sub(m.start).Seconds(); total > 0 {
		s.AvgTPS = float64(generation) / total
	}
	m.lastSample = now
	m.lastLive = live
	m.gens = 0
	m.ticks = 0
	m.stepTime = 0
	m.tickTime = 0
	return s
}

// recorder wraps the run-log handle. Recording failures are logged and do
// not stop the simulation.
type recorder struct {
	log    *runlog.Log
	runID  int64
	logger *slog.Logger
}

func newRecorder(cfg *config.Config, g *life.Grid, seed int64, logger *slog.Logger) (*recorder, error) {
	rl, err := runlog.Open(cfg.RunLogPath)
	if err != nil {
		return nil, err
	}
	id, err := rl.StartRun(runlog.RunMeta{
		Engine:  cfg.Engine,
		Rows:    g.Rows(),
		Cols:    g.Cols(),
		Workers: cfg.Workers,
		Seed:    seed,
		Fill:    cfg.Fill,
		Pattern: cfg.Pattern,
	})
	if err != nil {
		rl.Close()
		return nil, err
	}
	logger.Info("recording run", "path", cfg.RunLogPath, "run_id", id)
	return &recorder{log: rl, runID: id, logger: logger}, nil
}

func (r *recorder) record(s runlog.Sample) {
	if err := r.log.Record(r.runID, s); err != nil {
		r.logger.Warn("recording sample", "error", err)
	}
}

func (r *recorder) finish(eng *engine, g *life.Grid) {
	sum := runlog.Summary{Generations: eng.generation(), FinalLive: g.LiveCount()}
	if err := r.log.FinishRun(r.runID, sum); err != nil {
		r.logger.Warn("finishing run", "error", err)
	}
	if err := r.log.Close(); err != nil {
		r.logger.Warn("closing run log", "error", err)
	}
}
