// Package app wires the queue, scheduler, worker and sink of a poller and
// owns their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"contentpoller/internal/config"
	"contentpoller/internal/crawler"
	"contentpoller/internal/logger"
	"contentpoller/internal/metrics"
	"contentpoller/internal/models"
	"contentpoller/internal/normalizer"
	"contentpoller/internal/queue"
	"contentpoller/internal/scheduler"
	"contentpoller/internal/sink"
	"contentpoller/internal/worker"
)

const shutdownTimeout = 5 * time.Second

// Deps overrides the collaborators New would otherwise build from config.
// Every field is optional.
type Deps struct {
	Logger       *logger.Logger
	Sink         sink.Sink
	Registry     *prometheus.Registry
	NewTransport func() crawler.Transport
}

// cycleWorker is the consumer side of an app.
type cycleWorker interface {
	Run(ctx context.Context) error
	RunCycle(ctx context.Context, index int) *models.CycleReport
	OnReport(fn func(*models.CycleReport))
}

// App is one poller: a scheduler feeding a single worker through a queue.
type App struct {
	queue     *queue.Queue
	scheduler *scheduler.Scheduler
	worker    cycleWorker
	sink      sink.Sink
	server    *metrics.Server
	logger    *logger.Logger
	registry  *prometheus.Registry
}

// New builds an app from cfg.
func New(cfg *config.Config, deps Deps) (*App, error) {
	log := deps.Logger
	if log == nil {
		log = logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	}

	endpoints, err := crawler.NewEndpoints(cfg.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoints: %w", err)
	}

	newTransport := deps.NewTransport
	if newTransport == nil {
		httpCfg := cfg.HTTP
		newTransport = func() crawler.Transport { return crawler.NewClientWithConfig(httpCfg) }
	}

	out := deps.Sink
	if out == nil {
		out, err = sink.New(cfg.Sink, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create sink: %w", err)
		}
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := metrics.New(registry)
	q := queue.New()
	fetcher := crawler.NewFetcher(endpoints, newTransport, normalizer.NewProcessor(), log)

	a := &App{
		queue:     q,
		scheduler: scheduler.New(q, cfg.Poller, log, m),
		worker:    worker.New(q, fetcher, out, log, m),
		sink:      out,
		logger:    log,
		registry:  registry,
	}

	if cfg.Metrics.Enabled {
		a.server = metrics.NewServer(cfg.Metrics.Address, registry)
	}

	return a, nil
}

// OnReport registers fn to receive every completed cycle report.
func (a *App) OnReport(fn func(*models.CycleReport)) {
	a.worker.OnReport(fn)
}

// Queue returns the cycle queue shared by scheduler and worker.
func (a *App) Queue() *queue.Queue {
	return a.queue
}

// Registry returns the registry holding the poller metrics.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Run starts the scheduler and the worker. When the scheduler reaches its
// cycle limit the queue is drained before the worker is stopped. Cancelling
// ctx stops both and abandons the in-flight cycle; that is not an error.
// A worker that stops on its own ends the run and its error is returned.
func (a *App) Run(ctx context.Context) error {
	// runCtx bounds the scheduler and the drain; it ends when the worker does.
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	workerDone := make(chan error, 1)

	go func() {
		workerDone <- a.worker.Run(workerCtx)

		cancelRun()
	}()

	if a.server != nil {
		go func() {
			if err := a.server.ListenAndServe(); err != nil {
				a.logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	err := a.scheduler.Run(runCtx)
	if err == nil {
		a.logger.Info("Draining queue", "pending", a.queue.Unfinished())
		err = a.queue.Join(runCtx)
	}

	cancelWorker()

	workerErr := <-workerDone

	a.shutdownServer()

	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if workerErr != nil && !errors.Is(workerErr, context.Canceled) {
		return errors.Join(err, fmt.Errorf("worker stopped: %w", workerErr))
	}

	return err
}

// RunOnce runs a single cycle synchronously, bypassing the scheduler.
func (a *App) RunOnce(ctx context.Context) *models.CycleReport {
	return a.worker.RunCycle(ctx, 0)
}

// Close releases the sink.
func (a *App) Close() error {
	return a.sink.Close()
}

func (a *App) shutdownServer() {
	if a.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("Metrics server shutdown failed", "error", err)
	}
}
