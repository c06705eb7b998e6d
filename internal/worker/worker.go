// Package worker drains cycle indices and runs one cycle at a time.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contentpoller/internal/crawler"
	"contentpoller/internal/formatter"
	"contentpoller/internal/logger"
	"contentpoller/internal/metrics"
	"contentpoller/internal/models"
	"contentpoller/internal/sink"
)

// Dequeuer is the consumer side of the cycle queue.
type Dequeuer interface {
	Get(ctx context.Context) (int, error)
	TaskDone() error
	Len() int
}

// CycleRunner dispatches the fetches of one cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*crawler.Cycle, error)
}

// Worker takes one index at a time from the queue and runs its cycle to
// completion before taking the next.
type Worker struct {
	queue    Dequeuer
	runner   CycleRunner
	sink     sink.Sink
	logger   *logger.Logger
	metrics  *metrics.Metrics
	onReport func(*models.CycleReport)
	now      func() time.Time
}

// New creates a worker. m may be nil.
func New(q Dequeuer, runner CycleRunner, s sink.Sink, log *logger.Logger, m *metrics.Metrics) *Worker {
	return &Worker{
		queue:   q,
		runner:  runner,
		sink:    s,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

// OnReport registers fn to receive the report of every completed cycle.
func (w *Worker) OnReport(fn func(*models.CycleReport)) {
	w.onReport = fn
}

// Run processes indices until ctx is done. An index whose cycle is
// interrupted by cancellation is abandoned without being marked done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		index, err := w.queue.Get(ctx)
		if err != nil {
			return err
		}

		w.metrics.SetQueueDepth(w.queue.Len())

		report := w.runCycle(ctx, index)

		if ctx.Err() != nil {
			w.logger.Warn("Cycle abandoned", "cycle", index, "run_id", report.RunID.String())

			return ctx.Err()
		}

		w.finish(report)

		if err := w.queue.TaskDone(); err != nil {
			return err
		}
	}
}

// RunCycle runs a single cycle outside the queue and returns its report.
func (w *Worker) RunCycle(ctx context.Context, index int) *models.CycleReport {
	report := w.runCycle(ctx, index)
	w.finish(report)

	return report
}

func (w *Worker) runCycle(ctx context.Context, index int) *models.CycleReport {
	report := &models.CycleReport{
		Index:     index,
		RunID:     uuid.New(),
		StartedAt: w.now(),
	}

	log := w.logger.With("cycle", index, "run_id", report.RunID.String())
	log.Info("Fetching article list")

	cycle, err := w.runner.RunCycle(ctx)
	if err != nil {
		report.Err = err
		report.FinishedAt = w.now()

		log.Error("Cycle aborted", "error", err)

		return report
	}

	report.ListURL = cycle.ListURL
	report.Dispatched = len(cycle.IDs)

	for result := range cycle.Results {
		if !result.OK() {
			report.Failures = append(report.Failures, result.Err)

			log.Warn("Article failed",
				"article_id", result.ID,
				"kind", result.Err.Kind,
				"fields", result.Err.Paths(),
				"error", result.Err.Err,
			)

			continue
		}

		report.Produced = append(report.Produced, result.ID)

		if err := w.sink.Emit(ctx, result.Article); err != nil {
			report.SinkErrors++
			w.metrics.SinkError()

			log.Warn("Sink rejected article", "article_id", result.ID, "error", err)
		}
	}

	report.FinishedAt = w.now()

	log.Info("Cycle accomplished",
		"dispatched", report.Dispatched,
		"produced", len(report.Produced),
		"failed", len(report.Failures),
		"duration", report.Duration(),
	)

	return report
}

func (w *Worker) finish(report *models.CycleReport) {
	w.metrics.CycleCompleted(report)

	if w.logger.Enabled(slog.LevelDebug) {
		w.logger.Debug("Cycle report\n" + formatter.FormatReport(report))
	}

	if w.onReport != nil {
		w.onReport(report)
	}
}
