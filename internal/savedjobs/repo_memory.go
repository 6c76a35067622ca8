package savedjobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]SavedJob
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]SavedJob)}
}

func (r *MemoryRepo) Save(ctx context.Context, saved SavedJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.SeekerID == saved.SeekerID && existing.JobID == saved.JobID {
			return nil
		}
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}
	r.items[saved.ID] = saved
	return nil
}

func (r *MemoryRepo) Unsave(ctx context.Context, seekerID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.items {
		if existing.SeekerID == seekerID && existing.JobID == jobID {
			delete(r.items, id)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) ListBySeeker(ctx context.Context, seekerID string) ([]SavedJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []SavedJob
	for _, s := range r.items {
		if s.SeekerID == seekerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
