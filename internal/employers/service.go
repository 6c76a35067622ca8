package employers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo  Repo
	Stats *StatAggregator
}

func NewService(repo Repo, stats *StatAggregator) *Service {
	return &Service{Repo: repo, Stats: stats}
}

// UpsertProfile creates the caller's employer profile on first write and
// updates it after. Stats are never settable through this path.
func (s *Service) UpsertProfile(ctx context.Context, userID string, profile Profile) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	if strings.TrimSpace(profile.OrganizationName) == "" {
		return Profile{}, errors.New("organization name is required")
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

// ResyncStats recomputes the caller's counters from source records.
func (s *Service) ResyncStats(ctx context.Context, userID string) (Stats, error) {
	profile, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return s.Stats.Resync(ctx, profile.ID)
}
