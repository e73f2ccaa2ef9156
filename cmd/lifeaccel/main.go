// Command lifeaccel runs a Conway-style cellular automaton with no display
// surface. A fixed pool of workers computes each generation across row bands;
// alternative engines evaluate the same rule as an FFT convolution or on an
// OpenCL device. Progress is reported as periodic structured log samples and
// can be recorded into a SQLite database for later comparison.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lifeaccel/internal/config"
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *verifyFlag && cfg.Engine == config.EngineOpenCL {
		log.Fatalf("-verify supports only the %s and %s engines", config.EnginePool, config.EngineConv)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *verifyFlag); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}
