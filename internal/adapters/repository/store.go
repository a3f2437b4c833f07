// Package repository defines the job store interface and errors.
package repository

import (
	"context"

	"github.com/okian/confscore/internal/domain/model"
)

// Store keeps scoring jobs and their results.
type Store interface {
	// Reserve records job as pending. Returns false if the id is already known.
	// Returns ErrStoreFull when no finished job can be evicted to make room.
	Reserve(ctx context.Context, job model.Job) (bool, error)

	// Release drops a pending reservation, e.g. when the job could not be queued.
	Release(ctx context.Context, id string)

	// Complete stores the result of a job.
	Complete(ctx context.Context, id string, res model.Result) error

	// Fail marks a job as failed with reason.
	Fail(ctx context.Context, id string, reason string) error

	// Get returns a job record. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.JobRecord, error)

	// Count returns the number of stored jobs.
	Count(ctx context.Context) int
}
