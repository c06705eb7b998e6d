// Package main provides a one-shot command that runs a single cycle against
// the content source and prints its report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"contentpoller/internal/app"
	"contentpoller/internal/config"
	"contentpoller/internal/formatter"
	"contentpoller/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	listURL := flag.String("list-url", "", "Article list URL (overrides config)")
	detailURL := flag.String("detail-url", "", "Article detail URL template with {id} (overrides config)")
	mediaURL := flag.String("media-url", "", "Media URL template with {id} (overrides config)")
	output := flag.String("output", "", "Write canonical articles as JSON lines to this file instead of the configured sink")
	verbose := flag.Bool("v", false, "Log at debug level")

	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	overrideEndpoints(cfg, *listURL, *detailURL, *mediaURL)

	if *output != "" {
		cfg.Sink = config.SinkConfig{Type: config.SinkFile, Path: *output}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}

	logr := logger.New(logger.Options{Level: level, Format: cfg.Logging.Format})

	// The report goes to stderr when articles go to stdout.
	reportTo := os.Stdout
	if cfg.Sink.Type == config.SinkStdout {
		reportTo = os.Stderr
	}

	poller, err := app.New(cfg, app.Deps{Logger: logr})
	if err != nil {
		log.Fatalf("❌ Failed to create poller: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	fmt.Fprintf(reportTo, "🚀 Fetching %s\n", cfg.Endpoints.ListURL)

	report := poller.RunOnce(ctx)

	stop()

	if err := poller.Close(); err != nil {
		fmt.Fprintf(reportTo, "⚠️  Failed to close sink: %v\n", err)
	}

	fmt.Fprintln(reportTo)
	fmt.Fprint(reportTo, formatter.FormatReport(report))

	if *output != "" {
		fmt.Fprintf(reportTo, "✅ Saved %d articles to: %s\n", len(report.Produced), *output)
	}

	if report.Aborted() || len(report.Failures) > 0 || report.SinkErrors > 0 {
		os.Exit(1)
	}
}

func overrideEndpoints(cfg *config.Config, listURL, detailURL, mediaURL string) {
	if listURL != "" {
		cfg.Endpoints.ListURL = listURL
	}

	if detailURL != "" {
		cfg.Endpoints.DetailURL = detailURL
	}

	if mediaURL != "" {
		cfg.Endpoints.MediaURL = mediaURL
	}
}
