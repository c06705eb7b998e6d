// Package main provides the long-running poller: a scheduler feeding a single
// worker that fetches, normalizes and emits articles every interval.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentpoller/internal/app"
	"contentpoller/internal/config"
	"contentpoller/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cycles := flag.Int("cycles", -1, "Stop after this many cycles, 0 runs forever (overrides config)")
	interval := flag.Duration("interval", -1, "Time between cycles (overrides config)")

	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.NewLogger("error").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if *cycles >= 0 {
		cfg.Poller.MaxCycles = *cycles
	}

	if *interval >= 0 {
		cfg.Poller.Interval = *interval
	}

	if err := cfg.Validate(); err != nil {
		logger.NewLogger("error").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Info("Starting content poller",
		"list_url", cfg.Endpoints.ListURL,
		"interval", cfg.Poller.Interval.String(),
		"max_cycles", cfg.Poller.MaxCycles,
		"sink", cfg.Sink.Type,
	)

	if cfg.Metrics.Enabled {
		log.Info("Serving metrics", "address", cfg.Metrics.Address)
	}

	poller, err := app.New(cfg, app.Deps{Logger: log})
	if err != nil {
		log.Error("Failed to start poller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	runErr := poller.Run(ctx)

	if err := poller.Close(); err != nil {
		log.Warn("Failed to close sink", "error", err)
	}

	if runErr != nil {
		log.Error("Poller stopped", "error", runErr)
		os.Exit(1)
	}

	log.Info("Poller stopped", "uptime", time.Since(startTime).Round(time.Second).String())
}
