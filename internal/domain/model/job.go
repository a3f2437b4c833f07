// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/confscore/pkg/matrix"
)

// JobStatus is the lifecycle state of a scoring job.
type JobStatus string

// Job states.
const (
	StatusPending JobStatus = "pending"
	StatusDone    JobStatus = "done"
	StatusFailed  JobStatus = "failed"
)

// Job is a prediction matrix submitted for asynchronous scoring.
type Job struct {
	ID          string        // unique id for idempotency
	Scorer      string        // registry name, e.g. "boltzman"
	Pred        *matrix.Dense // n x t prediction scores
	SubmittedAt time.Time
}

// Result holds one confidence and one 1-based label per prediction row.
type Result struct {
	Scorer     string
	Confidence []float64
	Labels     []int
}

// JobRecord is the stored state of a job.
type JobRecord struct {
	ID          string
	Scorer      string
	Status      JobStatus
	Rows        int
	Classes     int
	Result      Result
	Error       string
	SubmittedAt time.Time
	CompletedAt time.Time
}

// Finished reports whether the job reached a terminal state.
func (r *JobRecord) Finished() bool {
	return r.Status == StatusDone || r.Status == StatusFailed
}
