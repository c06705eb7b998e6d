package models

import (
	"time"

	"github.com/google/uuid"
)

// CycleReport summarizes one cycle as run by the worker.
type CycleReport struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Err        error           `json:"-"`
	ListURL    string          `json:"list_url"`
	Produced   []ArticleID     `json:"produced"`
	Failures   []*ArticleError `json:"failures"`
	Index      int             `json:"index"`
	Dispatched int             `json:"dispatched"`
	SinkErrors int             `json:"sink_errors"`
	RunID      uuid.UUID       `json:"run_id"`
}

// Duration returns how long the cycle took.
func (r *CycleReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}

// Aborted reports whether the cycle failed before any article was dispatched.
func (r *CycleReport) Aborted() bool {
	return r.Err != nil
}

// FailuresByKind counts failures per kind.
func (r *CycleReport) FailuresByKind() map[FailureKind]int {
	counts := make(map[FailureKind]int)
	for _, f := range r.Failures {
		counts[f.Kind]++
	}

	return counts
}
