// Package metrics exposes the poller's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"contentpoller/internal/models"
)

// Namespace prefixes every poller metric.
const Namespace = "poller"

// Cycle status label values.
const (
	StatusOK      = "ok"
	StatusAborted = "aborted"
)

// Article outcome label values.
const (
	OutcomeProduced = "produced"
	OutcomeFailed   = "failed"
)

// Metrics holds the poller collectors. A nil *Metrics records nothing.
type Metrics struct {
	CyclesScheduled prometheus.Counter
	CyclesCompleted *prometheus.CounterVec
	Articles        *prometheus.CounterVec
	ArticleFailures *prometheus.CounterVec
	QueueDepth      prometheus.Gauge
	CycleDuration   prometheus.Histogram
	SinkErrors      prometheus.Counter
}

// New creates and registers the collectors on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		CyclesScheduled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycles_scheduled_total",
			Help:      "Total number of cycle indices enqueued by the scheduler",
		}),
		CyclesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycles_completed_total",
			Help:      "Total number of cycles run by the worker",
		}, []string{"status"}),
		Articles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "articles_total",
			Help:      "Total number of articles resolved",
		}, []string{"outcome"}),
		ArticleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "article_failures_total",
			Help:      "Total number of article failures by kind",
		}, []string{"kind"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "queue_depth",
			Help:      "Number of cycle indices waiting for the worker",
		}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a cycle in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		}),
		SinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sink_errors_total",
			Help:      "Total number of articles the sink failed to accept",
		}),
	}
}

// CycleScheduled records one enqueued index and the resulting queue depth.
func (m *Metrics) CycleScheduled(depth int) {
	if m == nil {
		return
	}

	m.CyclesScheduled.Inc()
	m.QueueDepth.Set(float64(depth))
}

// SetQueueDepth records the number of waiting indices.
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}

	m.QueueDepth.Set(float64(depth))
}

// SinkError records one article the sink rejected.
func (m *Metrics) SinkError() {
	if m == nil {
		return
	}

	m.SinkErrors.Inc()
}

// CycleCompleted records the outcome of a finished cycle.
func (m *Metrics) CycleCompleted(report *models.CycleReport) {
	if m == nil || report == nil {
		return
	}

	m.CycleDuration.Observe(report.Duration().Seconds())

	if report.Aborted() {
		m.CyclesCompleted.WithLabelValues(StatusAborted).Inc()

		return
	}

	m.CyclesCompleted.WithLabelValues(StatusOK).Inc()
	m.Articles.WithLabelValues(OutcomeProduced).Add(float64(len(report.Produced)))
	m.Articles.WithLabelValues(OutcomeFailed).Add(float64(len(report.Failures)))

	for kind, n := range report.FailuresByKind() {
		m.ArticleFailures.WithLabelValues(string(kind)).Add(float64(n))
	}
}
