package applications

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrAlreadyApplied covers both the pre-check and the unique-constraint
	// loser of a racing duplicate submit.
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrMaxAttempts    = errors.New("maximum application attempts reached")
)

// ListFilter narrows application listings.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type Repo interface {
	// Create inserts a fresh application. A duplicate (job, seeker) pair
	// returns ErrAlreadyApplied.
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	GetByJobAndSeeker(ctx context.Context, jobID, seekerID string) (Application, error)
	// Update persists all mutable fields of the application.
	Update(ctx context.Context, app Application) error
	ListBySeeker(ctx context.Context, seekerID string, filter ListFilter) ([]Application, int, error)
	ListByEmployer(ctx context.Context, employerID string, filter ListFilter) ([]Application, int, error)
	ListByJob(ctx context.Context, jobID string, filter ListFilter) ([]Application, int, error)
	CountByEmployer(ctx context.Context, employerID, status string) (int, error)
	// MarkViewed flips is_viewed_by_employer; idempotent.
	MarkViewed(ctx context.Context, id string) error
}
