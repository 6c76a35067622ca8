package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/shared/telemetry"
)

var (
	ErrForbidden    = errors.New("not the owner of this job")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	Repo      Repo
	Employers employers.Repo
	Stats     *employers.StatAggregator
}

func NewService(repo Repo, employerRepo employers.Repo, stats *employers.StatAggregator) *Service {
	return &Service{Repo: repo, Employers: employerRepo, Stats: stats}
}

// Create posts a new job for the calling employer. New posts start Pending
// until activated; the employer's job counter is bumped best-effort.
func (s *Service) Create(ctx context.Context, userID string, job Job) (Job, error) {
	if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.Specialization) == "" {
		return Job{}, ErrInvalidInput
	}

	employer, err := s.Employers.GetByUser(ctx, userID)
	if err != nil {
		return Job{}, err
	}

	job.ID = uuid.NewString()
	job.EmployerID = employer.ID
	if job.OrganizationName == "" {
		job.OrganizationName = employer.OrganizationName
	}
	if job.JobType == "" {
		job.JobType = "Full-time"
	}
	if job.Status == "" || !ValidStatus(job.Status) {
		job.Status = StatusPending
	}
	job.PostedAt = time.Now().UTC()

	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}

	delta := employers.StatsDelta{TotalJobPosts: 1}
	if job.Status == StatusActive {
		delta.ActiveJobPosts = 1
	}
	s.Stats.Bump(ctx, employer.ID, delta)

	return s.Repo.GetByID(ctx, job.ID)
}

// Update edits a job owned by the calling employer. Transitions into or out
// of Active adjust the employer's active-post counter.
func (s *Service) Update(ctx context.Context, userID, jobID string, updated Job) (Job, error) {
	employer, err := s.Employers.GetByUser(ctx, userID)
	if err != nil {
		return Job{}, err
	}

	existing, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if existing.EmployerID != employer.ID {
		return Job{}, ErrForbidden
	}
	if updated.Status != "" && !ValidStatus(updated.Status) {
		return Job{}, ErrInvalidInput
	}

	oldStatus := existing.Status

	if updated.Title != "" {
		existing.Title = updated.Title
	}
	if updated.Specialization != "" {
		existing.Specialization = updated.Specialization
	}
	if updated.City != "" {
		existing.City = updated.City
	}
	if updated.State != "" {
		existing.State = updated.State
	}
	if updated.Country != "" {
		existing.Country = updated.Country
	}
	if updated.JobType != "" {
		existing.JobType = updated.JobType
	}
	if updated.Shift != "" {
		existing.Shift = updated.Shift
	}
	if updated.Description != "" {
		existing.Description = updated.Description
	}
	if updated.Status != "" {
		existing.Status = updated.Status
	}
	if updated.ExpiresAt != nil {
		existing.ExpiresAt = updated.ExpiresAt
	}
	existing.IsRemote = updated.IsRemote

	if err := s.Repo.Update(ctx, existing); err != nil {
		return Job{}, err
	}

	if oldStatus != existing.Status {
		var delta employers.StatsDelta
		if existing.Status == StatusActive {
			delta.ActiveJobPosts = 1
		} else if oldStatus == StatusActive {
			delta.ActiveJobPosts = -1
		}
		s.Stats.Bump(ctx, employer.ID, delta)
	}

	return s.Repo.GetByID(ctx, jobID)
}

// GetPublic fetches a job and bumps its view counter best-effort.
func (s *Service) GetPublic(ctx context.Context, jobID string) (Job, error) {
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if err := s.Repo.IncrementViews(ctx, jobID, 1); err != nil {
		telemetry.Warn("job.view_bump_failed", map[string]any{
			"job_id": jobID,
			"error":  err.Error(),
		})
	}
	return job, nil
}

// ListOpen lists active jobs for seekers.
func (s *Service) ListOpen(ctx context.Context, filter ListFilter) ([]Job, int, error) {
	filter.Status = StatusActive
	return s.Repo.List(ctx, filter)
}

// ListMine lists the calling employer's jobs regardless of status.
func (s *Service) ListMine(ctx context.Context, userID string, filter ListFilter) ([]Job, int, error) {
	employer, err := s.Employers.GetByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	filter.EmployerID = employer.ID
	return s.Repo.List(ctx, filter)
}
