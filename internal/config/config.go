// Package config carries the runtime settings for the simulation driver.
// Settings resolve in three layers: compiled defaults, then a .env file and
// LIFE_* environment variables, then command-line flags in the driver.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"lifeaccel/internal/pool"
)

// Engine names accepted by the driver.
const (
	EnginePool   = "pool"
	EngineConv   = "conv"
	EngineOpenCL = "opencl"
)

// Default simulation parameters. Width, height, and cell size mirror the
// 1280x720 surface the engine was sized for; cell size 4 yields a 320x180
// cell matrix.
const (
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultCellSize       = 4
	DefaultFill           = 0.3
	DefaultTPS            = 60
	DefaultSampleInterval = 2 * time.Second
)

// Config collects every knob the driver exposes.
type Config struct {
	Width          int
	Height         int
	CellSize       int
	Fill           float64
	Workers        int
	Engine         string
	TPS            float64       // target generations per second; 0 runs unpaced
	StepsPerTick   int           // generations advanced per tick
	Generations    uint64        // stop after this many generations; 0 runs until interrupted
	Seed           int64         // 0 derives a seed from the wall clock
	Pattern        string        // named seed pattern; empty randomizes
	SampleInterval time.Duration // metrics logging cadence
	RunLogPath     string        // SQLite run recording; empty disables
	CPUProfile     string        // CPU profile output path; empty disables
}

// Load builds a Config from the defaults, a .env file when present, and the
// LIFE_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		CellSize:       DefaultCellSize,
		Fill:           DefaultFill,
		Workers:        pool.DefaultWorkers(),
		Engine:         EnginePool,
		TPS:            DefaultTPS,
		StepsPerTick:   1,
		SampleInterval: DefaultSampleInterval,
	}
	var err error
	if cfg.Width, err = envInt("LIFE_WIDTH", cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Height, err = envInt("LIFE_HEIGHT", cfg.Height); err != nil {
		return nil, err
	}
	if cfg.CellSize, err = envInt("LIFE_CELL_SIZE", cfg.CellSize); err != nil {
		return nil, err
	}
	if cfg.Fill, err = envFloat("LIFE_FILL", cfg.Fill); err != nil {
		return nil, err
	}
	if cfg.Workers, err = envInt("LIFE_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	cfg.Engine = getenvDefault("LIFE_ENGINE", cfg.Engine)
	if cfg.TPS, err = envFloat("LIFE_TPS", cfg.TPS); err != nil {
		return nil, err
	}
	if cfg.StepsPerTick, err = envInt("LIFE_STEPS_PER_TICK", cfg.StepsPerTick); err != nil {
		return nil, err
	}
	if cfg.Generations, err = envUint("LIFE_GENERATIONS", cfg.Generations); err != nil {
		return nil, err
	}
	if cfg.Seed, err = envInt64("LIFE_SEED", cfg.Seed); err != nil {
		return nil, err
	}
	cfg.Pattern = getenvDefault("LIFE_PATTERN", cfg.Pattern)
	if cfg.SampleInterval, err = envDuration("LIFE_SAMPLE_INTERVAL", cfg.SampleInterval); err != nil {
		return nil, err
	}
	cfg.RunLogPath = getenvDefault("LIFE_RUNLOG", cfg.RunLogPath)
	cfg.CPUProfile = getenvDefault("LIFE_CPUPROFILE", cfg.CPUProfile)
	return cfg, nil
}

// Validate rejects settings the engine constructors would refuse anyway, so
// mistakes surface before any goroutine starts.
func (c *Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("config: grid dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.CellSize < 1 {
		return fmt.Errorf("config: cell size must be positive, got %d", c.CellSize)
	}
	if c.Height/c.CellSize < 1 || c.Width/c.CellSize < 1 {
		return fmt.Errorf("config: %dx%d at cell size %d leaves no cells", c.Width, c.Height, c.CellSize)
	}
	if c.Fill < 0 || c.Fill > 1 {
		return fmt.Errorf("config: fill probability must be in [0, 1], got %g", c.Fill)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: worker count must be at least 1, got %d", c.Workers)
	}
	switch c.Engine {
	case EnginePool, EngineConv, EngineOpenCL:
	default:
		return fmt.Errorf("config: unknown engine %q (want %s, %s, or %s)",
			c.Engine, EnginePool, EngineConv, EngineOpenCL)
	}
	if c.TPS < 0 {
		return fmt.Errorf("config: ticks per second must not be negative, got %g", c.TPS)
	}
	if c.StepsPerTick < 1 {
		return fmt.Errorf("config: steps per tick must be at least 1, got %d", c.StepsPerTick)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("config: sample interval must be positive, got %s", c.SampleInterval)
	}
	return nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func envInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", k, v, err)
	}
	return n, nil
}

func envInt64(k string, fallback int64) (int64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", k, v, err)
	}
	return n, nil
}

func envUint(k string, fallback uint64) (uint64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a non-negative integer: %w", k, v, err)
	}
	return n, nil
}

func envFloat(k string, fallback float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", k, v, err)
	}
	return f, nil
}

func envDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}
