package employers

import (
	"context"

	"lifemate-backend/internal/shared/telemetry"
)

// JobCounter counts job documents for an employer, optionally filtered by status.
type JobCounter interface {
	CountByEmployer(ctx context.Context, employerID, status string) (int, error)
}

// ApplicationCounter counts application documents for an employer, optionally
// filtered by status.
type ApplicationCounter interface {
	CountByEmployer(ctx context.Context, employerID, status string) (int, error)
}

// StatAggregator owns all mutation of employer counters. Incremental bumps
// are best-effort; Resync recomputes from source records to repair drift.
type StatAggregator struct {
	Repo         Repo
	Jobs         JobCounter
	Applications ApplicationCounter
}

// Apply adjusts counters atomically and reports failure to the caller.
func (a *StatAggregator) Apply(ctx context.Context, employerID string, delta StatsDelta) error {
	if delta.IsZero() {
		return nil
	}
	return a.Repo.IncrementStats(ctx, employerID, delta)
}

// Bump adjusts counters best-effort: failures are logged and swallowed so the
// triggering business operation still succeeds.
func (a *StatAggregator) Bump(ctx context.Context, employerID string, delta StatsDelta) {
	if a == nil {
		return
	}
	if err := a.Apply(ctx, employerID, delta); err != nil {
		telemetry.Warn("employer.stats_bump_failed", map[string]any{
			"employer_id": employerID,
			"error":       err.Error(),
		})
	}
}

// Resync recomputes every counter from live job and application documents
// and overwrites the stored values. This is the correctness backstop for the
// best-effort incremental path.
func (a *StatAggregator) Resync(ctx context.Context, employerID string) (Stats, error) {
	totalJobs, err := a.Jobs.CountByEmployer(ctx, employerID, "")
	if err != nil {
		return Stats{}, err
	}
	activeJobs, err := a.Jobs.CountByEmployer(ctx, employerID, "Active")
	if err != nil {
		return Stats{}, err
	}
	totalApps, err := a.Applications.CountByEmployer(ctx, employerID, "")
	if err != nil {
		return Stats{}, err
	}
	totalHires, err := a.Applications.CountByEmployer(ctx, employerID, "Offered")
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalJobPosts:     totalJobs,
		ActiveJobPosts:    activeJobs,
		TotalApplications: totalApps,
		TotalHires:        totalHires,
	}
	if err := a.Repo.SetStats(ctx, employerID, stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
