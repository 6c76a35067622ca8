package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local development and tests. It
// enforces the same (job, seeker) uniqueness as the database constraint.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.JobID == app.JobID && existing.SeekerID == app.SeekerID {
			return ErrAlreadyApplied
		}
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	r.items[app.ID] = clone(app)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.items[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return clone(app), nil
}

func (r *MemoryRepo) GetByJobAndSeeker(ctx context.Context, jobID, seekerID string) (Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, app := range r.items {
		if app.JobID == jobID && app.SeekerID == seekerID {
			return clone(app), nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, app Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[app.ID]
	if !ok {
		return ErrNotFound
	}
	app.CreatedAt = existing.CreatedAt
	app.IsViewedByEmployer = existing.IsViewedByEmployer
	app.UpdatedAt = time.Now().UTC()
	r.items[app.ID] = clone(app)
	return nil
}

func (r *MemoryRepo) ListBySeeker(ctx context.Context, seekerID string, filter ListFilter) ([]Application, int, error) {
	return r.list(func(a Application) bool { return a.SeekerID == seekerID }, filter)
}

func (r *MemoryRepo) ListByEmployer(ctx context.Context, employerID string, filter ListFilter) ([]Application, int, error) {
	return r.list(func(a Application) bool { return a.EmployerID == employerID }, filter)
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string, filter ListFilter) ([]Application, int, error) {
	return r.list(func(a Application) bool { return a.JobID == jobID }, filter)
}

func (r *MemoryRepo) list(match func(Application) bool, filter ListFilter) ([]Application, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Application
	for _, app := range r.items {
		if !match(app) {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		out = append(out, clone(app))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })

	total := len(out)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if filter.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *MemoryRepo) CountByEmployer(ctx context.Context, employerID, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, app := range r.items {
		if app.EmployerID != employerID {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MemoryRepo) MarkViewed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	app.IsViewedByEmployer = true
	r.items[id] = app
	return nil
}

// clone deep-copies the slices so callers cannot mutate stored state.
func clone(app Application) Application {
	out := app
	if app.Answers != nil {
		out.Answers = append([]Answer(nil), app.Answers...)
	}
	if app.History != nil {
		out.History = append([]HistoryEntry(nil), app.History...)
	}
	if app.Rating != nil {
		v := *app.Rating
		out.Rating = &v
	}
	if app.UpdatedAtManual != nil {
		t := *app.UpdatedAtManual
		out.UpdatedAtManual = &t
	}
	if app.Resume != nil {
		f := *app.Resume
		out.Resume = &f
	}
	if app.CoverLetter != nil {
		cl := *app.CoverLetter
		if app.CoverLetter.File != nil {
			f := *app.CoverLetter.File
			cl.File = &f
		}
		out.CoverLetter = &cl
	}
	return out
}
