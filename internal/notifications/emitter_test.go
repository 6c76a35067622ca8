package notifications

import (
	"context"
	"testing"
	"time"
)

func TestEmitDedupesByKey(t *testing.T) {
	repo := NewMemoryRepo()
	emitter := NewEmitter(repo)

	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	ev := Event{
		UserID:  "user-1",
		Role:    "jobseeker",
		Type:    KindApplicationStatus,
		Title:   "Application updated",
		Message: "Your application moved to Interview",
		Key:     EventKey{Kind: "status_change", SubjectID: "app-1", At: at},
	}

	first, created, err := emitter.Emit(context.Background(), ev)
	if err != nil {
		t.Fatalf("first emit: %v", err)
	}
	if !created {
		t.Fatal("first emit should create a record")
	}

	second, created, err := emitter.Emit(context.Background(), ev)
	if err != nil {
		t.Fatalf("second emit: %v", err)
	}
	if created {
		t.Fatal("second emit with same key should not create a record")
	}
	if second.ID != first.ID {
		t.Fatalf("second emit returned %s, want existing %s", second.ID, first.ID)
	}

	items, err := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d notifications, want 1", len(items))
	}
}

func TestEmitDifferentSubjectsCreateSeparateRecords(t *testing.T) {
	repo := NewMemoryRepo()
	emitter := NewEmitter(repo)

	at := time.Now().UTC()
	for _, subject := range []string{"app-1", "app-2"} {
		_, created, err := emitter.Emit(context.Background(), Event{
			UserID:  "user-1",
			Role:    "jobseeker",
			Type:    KindApplicationStatus,
			Title:   "Application updated",
			Message: "Status changed",
			Key:     EventKey{Kind: "status_change", SubjectID: subject, At: at},
		})
		if err != nil {
			t.Fatalf("emit %s: %v", subject, err)
		}
		if !created {
			t.Fatalf("emit for %s should create a record", subject)
		}
	}
}

func TestEmitWithoutKeyAlwaysCreates(t *testing.T) {
	repo := NewMemoryRepo()
	emitter := NewEmitter(repo)

	for i := 0; i < 2; i++ {
		_, created, err := emitter.Emit(context.Background(), Event{
			UserID:  "user-1",
			Role:    "jobseeker",
			Type:    KindSystem,
			Title:   "Welcome",
			Message: "Hello",
		})
		if err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
		if !created {
			t.Fatalf("keyless emit %d should create a record", i)
		}
	}

	count, err := repo.CountUnread(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("got %d unread, want 2", count)
	}
}

func TestEventKeyStringTruncatesToSeconds(t *testing.T) {
	base := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	a := EventKey{Kind: "status_change", SubjectID: "app-1", At: base}
	b := EventKey{Kind: "status_change", SubjectID: "app-1", At: base.Add(500 * time.Millisecond)}
	if a.String() != b.String() {
		t.Fatalf("keys within the same second should match: %s vs %s", a.String(), b.String())
	}

	c := EventKey{Kind: "status_change", SubjectID: "app-1", At: base.Add(time.Second)}
	if a.String() == c.String() {
		t.Fatal("keys a second apart should differ")
	}
}
