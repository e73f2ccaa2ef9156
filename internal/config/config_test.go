package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Width:          1280,
		Height:         720,
		CellSize:       4,
		Fill:           0.3,
		Workers:        4,
		Engine:         EnginePool,
		TPS:            60,
		StepsPerTick:   1,
		SampleInterval: 2 * time.Second,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("expected default %dx%d, got %dx%d", DefaultWidth, DefaultHeight, cfg.Width, cfg.Height)
	}
	if cfg.CellSize != DefaultCellSize {
		t.Errorf("expected default cell size %d, got %d", DefaultCellSize, cfg.CellSize)
	}
	if cfg.Engine != EnginePool {
		t.Errorf("expected default engine %q, got %q", EnginePool, cfg.Engine)
	}
	if cfg.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Workers)
	}
	if cfg.StepsPerTick != 1 {
		t.Errorf("expected default steps per tick 1, got %d", cfg.StepsPerTick)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LIFE_WIDTH", "640")
	t.Setenv("LIFE_HEIGHT", "480")
	t.Setenv("LIFE_CELL_SIZE", "2")
	t.Setenv("LIFE_FILL", "0.25")
	t.Setenv("LIFE_ENGINE", "conv")
	t.Setenv("LIFE_SEED", "-12")
	t.Setenv("LIFE_GENERATIONS", "100")
	t.Setenv("LIFE_SAMPLE_INTERVAL", "5s")
	t.Setenv("LIFE_PATTERN", "glider")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 || cfg.CellSize != 2 {
		t.Errorf("expected 640x480 cell size 2, got %dx%d cell size %d", cfg.Width, cfg.Height, cfg.CellSize)
	}
	if cfg.Fill != 0.25 {
		t.Errorf("expected fill 0.25, got %g", cfg.Fill)
	}
	if cfg.Engine != EngineConv {
		t.Errorf("expected engine %q, got %q", EngineConv, cfg.Engine)
	}
	if cfg.Seed != -12 {
		t.Errorf("expected seed -12, got %d", cfg.Seed)
	}
	if cfg.Generations != 100 {
		t.Errorf("expected 100 generations, got %d", cfg.Generations)
	}
	if cfg.SampleInterval != 5*time.Second {
		t.Errorf("expected 5s sample interval, got %s", cfg.SampleInterval)
	}
	if cfg.Pattern != "glider" {
		t.Errorf("expected pattern glider, got %q", cfg.Pattern)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := []struct{ key, value string }{
		{"LIFE_WIDTH", "wide"},
		{"LIFE_FILL", "half"},
		{"LIFE_SEED", "1.5"},
		{"LIFE_GENERATIONS", "-3"},
		{"LIFE_SAMPLE_INTERVAL", "soon"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q, got nil", tc.key, tc.value)
			}
		})
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero cell size", func(c *Config) { c.CellSize = 0 }},
		{"cell size swallows grid", func(c *Config) { c.Width = 3; c.Height = 3; c.CellSize = 4 }},
		{"fill above one", func(c *Config) { c.Fill = 1.5 }},
		{"negative fill", func(c *Config) { c.Fill = -0.1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"unknown engine", func(c *Config) { c.Engine = "quantum" }},
		{"negative tps", func(c *Config) { c.TPS = -5 }},
		{"zero steps per tick", func(c *Config) { c.StepsPerTick = 0 }},
		{"zero sample interval", func(c *Config) { c.SampleInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateAcceptsAllEngines(t *testing.T) {
	for _, engine := range []string{EnginePool, EngineConv, EngineOpenCL} {
		cfg := validConfig()
		cfg.Engine = engine
		if err := cfg.Validate(); err != nil {
			t.Errorf("engine %q: expected valid, got %v", engine, err)
		}
	}
}
