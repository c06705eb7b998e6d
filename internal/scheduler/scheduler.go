// Package scheduler enqueues cycle indices on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"contentpoller/internal/config"
	"contentpoller/internal/logger"
	"contentpoller/internal/metrics"
)

// Enqueuer receives the scheduled indices.
type Enqueuer interface {
	Put(index int)
	Len() int
}

// Scheduler emits 0, 1, 2, ... into an Enqueuer, one index per interval,
// without waiting for earlier cycles to finish.
type Scheduler struct {
	queue     Enqueuer
	logger    *logger.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	maxCycles int
}

// New creates a scheduler. m may be nil.
func New(q Enqueuer, cfg config.PollerConfig, log *logger.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		queue:     q,
		logger:    log,
		metrics:   m,
		interval:  cfg.Interval,
		maxCycles: cfg.MaxCycles,
	}
}

// Run enqueues index 0 immediately and the next index on every tick. It
// returns nil once max cycles have been enqueued and ctx.Err() when
// cancelled. An interval of zero enqueues back-to-back.
func (s *Scheduler) Run(ctx context.Context) error {
	var tick <-chan time.Time

	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		tick = ticker.C
	}

	s.logger.Info("Scheduler started", "interval", s.interval, "max_cycles", s.maxCycles)

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.queue.Put(index)

		depth := s.queue.Len()
		s.metrics.CycleScheduled(depth)
		s.logger.Debug("Cycle scheduled", "cycle", index, "queue_depth", depth)

		if s.maxCycles > 0 && index+1 >= s.maxCycles {
			s.logger.Info("Scheduler reached cycle limit", "cycles", index+1)

			return nil
		}

		if tick == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}
