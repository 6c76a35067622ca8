package savedjobs

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("saved job not found")

// SavedJob is a seeker's bookmark on a job posting.
type SavedJob struct {
	ID        string    `json:"id"`
	SeekerID  string    `json:"seekerId"`
	JobID     string    `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repo interface {
	// Save bookmarks the job; saving twice is a no-op.
	Save(ctx context.Context, saved SavedJob) error
	Unsave(ctx context.Context, seekerID, jobID string) error
	ListBySeeker(ctx context.Context, seekerID string) ([]SavedJob, error)
}
