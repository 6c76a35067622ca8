package seekers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertProfile creates the caller's profile on first write and updates it after.
func (s *Service) UpsertProfile(ctx context.Context, userID string, profile Profile) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}

	existing, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Profile{}, err
		}
		profile.ID = uuid.NewString()
		profile.UserID = userID
		if err := s.Repo.Create(ctx, profile); err != nil {
			return Profile{}, err
		}
		return s.Repo.GetByUser(ctx, userID)
	}

	profile.ID = existing.ID
	profile.UserID = existing.UserID
	if profile.Resume == nil {
		profile.Resume = existing.Resume
	}
	if err := s.Repo.Update(ctx, profile); err != nil {
		return Profile{}, err
	}
	return s.Repo.GetByID(ctx, existing.ID)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	return s.Repo.GetByUser(ctx, userID)
}

// AttachResume stores a newly uploaded resume file on the caller's profile.
func (s *Service) AttachResume(ctx context.Context, userID string, resume ResumeFile) (Profile, error) {
	profile, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	profile.Resume = &resume
	if err := s.Repo.Update(ctx, profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
