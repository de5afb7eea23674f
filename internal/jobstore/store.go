// Package jobstore persists standardization jobs. The in-memory store is the
// default; the Postgres store survives server restarts.
package jobstore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gyeh/caselog/internal/model"
)

// ErrNotFound is returned when no job exists for the requested id.
var ErrNotFound = errors.New("job not found")

// Store is the persistence surface for standardization jobs.
type Store interface {
	// Create inserts a new job.
	Create(ctx context.Context, job *model.Job) error
	// Get returns the job with the given id, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	// Update replaces the stored job and bumps UpdatedAt.
	Update(ctx context.Context, job *model.Job) error
	// List returns all jobs, newest first.
	List(ctx context.Context) ([]*model.Job, error)
}
