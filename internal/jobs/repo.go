package jobs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job not found")

// ListFilter narrows job listings.
type ListFilter struct {
	Status         string
	EmployerID     string
	Specialization string
	City           string
	State          string
	JobType        string
	Limit          int
	Offset         int
}

type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	Update(ctx context.Context, job Job) error
	List(ctx context.Context, filter ListFilter) ([]Job, int, error)
	CountByEmployer(ctx context.Context, employerID, status string) (int, error)
	// IncrementApplications atomically bumps the applications counter.
	IncrementApplications(ctx context.Context, jobID string, by int) error
	// IncrementViews atomically bumps the views counter.
	IncrementViews(ctx context.Context, jobID string, by int) error
}
