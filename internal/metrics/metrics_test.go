package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentpoller/internal/models"
)

func TestMetrics_CycleScheduled(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CycleScheduled(1)
	m.CycleScheduled(2)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CyclesScheduled), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.QueueDepth), 0)

	m.SetQueueDepth(0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.QueueDepth), 0)
}

func TestMetrics_CycleCompleted(t *testing.T) {
	m := New(prometheus.NewRegistry())
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	m.CycleCompleted(&models.CycleReport{
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Produced:   []models.ArticleID{"1", "2"},
		Failures: []*models.ArticleError{
			{ArticleID: "3", Kind: models.KindValidation},
			{ArticleID: "4", Kind: models.KindValidation},
			{ArticleID: "5", Kind: models.KindTransport},
		},
	})
	m.CycleCompleted(&models.CycleReport{
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Err:        errors.New("list unavailable"),
	})

	assert.InDelta(t, 1, testutil.ToFloat64(m.CyclesCompleted.WithLabelValues(StatusOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CyclesCompleted.WithLabelValues(StatusAborted)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeProduced)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeFailed)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ArticleFailures.WithLabelValues("validation")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ArticleFailures.WithLabelValues("transport")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.CycleDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CycleScheduled(1)
		m.SetQueueDepth(1)
		m.SinkError()
		m.CycleCompleted(&models.CycleReport{})
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.SinkError()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "poller_sink_errors_total 1"), string(body))
}
