package employers

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	byUser   map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		profiles: make(map[string]Profile),
		byUser:   make(map[string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.profiles[profile.ID] = profile
	r.byUser[profile.UserID] = profile.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, profileID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[profileID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUser[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return r.profiles[id], nil
}

func (r *MemoryRepo) Update(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[profile.ID]
	if !ok {
		return ErrNotFound
	}
	profile.CreatedAt = existing.CreatedAt
	profile.UserID = existing.UserID
	profile.Stats = existing.Stats
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *MemoryRepo) IncrementStats(ctx context.Context, profileID string, delta StatsDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	profile.Stats.TotalJobPosts += delta.TotalJobPosts
	profile.Stats.ActiveJobPosts += delta.ActiveJobPosts
	profile.Stats.TotalApplications += delta.TotalApplications
	profile.Stats.TotalHires += delta.TotalHires
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profileID] = profile
	return nil
}

func (r *MemoryRepo) SetStats(ctx context.Context, profileID string, stats Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	profile.Stats = stats
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[profileID] = profile
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
