package employers

import (
	"context"
	"testing"
)

type fakeCounter struct {
	byStatus map[string]int
}

func (f fakeCounter) CountByEmployer(ctx context.Context, employerID, status string) (int, error) {
	_ = ctx
	_ = employerID
	return f.byStatus[status], nil
}

func seedEmployer(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	if err := repo.Create(context.Background(), Profile{
		ID:               "emp-1",
		UserID:           "user-employer",
		OrganizationName: "Mercy General",
	}); err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	return repo
}

func TestApplySkipsZeroDelta(t *testing.T) {
	repo := seedEmployer(t)
	agg := &StatAggregator{Repo: repo}

	// A zero delta must not touch the profile, even for unknown employers.
	if err := agg.Apply(context.Background(), "no-such-employer", StatsDelta{}); err != nil {
		t.Fatalf("expected zero delta to be a no-op, got %v", err)
	}
}

func TestBumpAccumulatesCounters(t *testing.T) {
	repo := seedEmployer(t)
	agg := &StatAggregator{Repo: repo}
	ctx := context.Background()

	agg.Bump(ctx, "emp-1", StatsDelta{TotalJobPosts: 1, ActiveJobPosts: 1})
	agg.Bump(ctx, "emp-1", StatsDelta{TotalApplications: 1})
	agg.Bump(ctx, "emp-1", StatsDelta{TotalHires: 1})
	agg.Bump(ctx, "emp-1", StatsDelta{TotalHires: -1})

	profile, err := repo.GetByID(ctx, "emp-1")
	if err != nil {
		t.Fatalf("get employer: %v", err)
	}
	want := Stats{TotalJobPosts: 1, ActiveJobPosts: 1, TotalApplications: 1, TotalHires: 0}
	if profile.Stats != want {
		t.Fatalf("unexpected stats: got %+v want %+v", profile.Stats, want)
	}
}

func TestBumpSwallowsRepoFailure(t *testing.T) {
	repo := seedEmployer(t)
	agg := &StatAggregator{Repo: repo}

	// Unknown employer makes the repo fail; Bump must not panic or propagate.
	agg.Bump(context.Background(), "no-such-employer", StatsDelta{TotalApplications: 1})

	var nilAgg *StatAggregator
	nilAgg.Bump(context.Background(), "emp-1", StatsDelta{TotalApplications: 1})
}

func TestResyncOverwritesDriftedCounters(t *testing.T) {
	repo := seedEmployer(t)
	ctx := context.Background()

	// Drift the incremental counters away from the source of truth.
	if err := repo.IncrementStats(ctx, "emp-1", StatsDelta{TotalJobPosts: 9, TotalHires: 9}); err != nil {
		t.Fatalf("drift stats: %v", err)
	}

	agg := &StatAggregator{
		Repo:         repo,
		Jobs:         fakeCounter{byStatus: map[string]int{"": 3, "Active": 2}},
		Applications: fakeCounter{byStatus: map[string]int{"": 7, "Offered": 1}},
	}

	got, err := agg.Resync(ctx, "emp-1")
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	want := Stats{TotalJobPosts: 3, ActiveJobPosts: 2, TotalApplications: 7, TotalHires: 1}
	if got != want {
		t.Fatalf("unexpected resync result: got %+v want %+v", got, want)
	}

	profile, err := repo.GetByID(ctx, "emp-1")
	if err != nil {
		t.Fatalf("get employer: %v", err)
	}
	if profile.Stats != want {
		t.Fatalf("expected stored stats overwritten: got %+v", profile.Stats)
	}
}
