package applications

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"lifemate-backend/internal/email"
	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/jobs"
	"lifemate-backend/internal/notifications"
	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/auth"
	"lifemate-backend/internal/shared/metrics"
	"lifemate-backend/internal/users"
)

type fixture struct {
	svc        *Service
	notifyRepo *notifications.MemoryRepo
	jobRepo    *jobs.MemoryRepo
	empRepo    *employers.MemoryRepo

	seekerUserID   string
	employerUserID string
	employerID     string
	jobID          string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	userRepo := users.NewMemoryRepo()
	seekerRepo := seekers.NewMemoryRepo()
	empRepo := employers.NewMemoryRepo()
	jobRepo := jobs.NewMemoryRepo()
	appRepo := NewMemoryRepo()
	notifyRepo := notifications.NewMemoryRepo()

	f := &fixture{
		notifyRepo:     notifyRepo,
		jobRepo:        jobRepo,
		empRepo:        empRepo,
		seekerUserID:   "user-seeker",
		employerUserID: "user-employer",
		employerID:     "emp-1",
		jobID:          "job-1",
	}

	seed := []users.User{
		{ID: f.seekerUserID, Email: "seeker@example.com", FullName: "Sam Seeker", Role: auth.RoleJobSeeker},
		{ID: f.employerUserID, Email: "hiring@clinic.example.com", FullName: "Harper Hiring", Role: auth.RoleEmployer},
	}
	for _, u := range seed {
		if err := userRepo.Upsert(ctx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.ID, err)
		}
	}

	if err := seekerRepo.Create(ctx, seekers.Profile{
		ID:             "seeker-1",
		UserID:         f.seekerUserID,
		Specialization: "Registered Nurse",
	}); err != nil {
		t.Fatalf("seed seeker profile: %v", err)
	}

	if err := empRepo.Create(ctx, employers.Profile{
		ID:                   f.employerID,
		UserID:               f.employerUserID,
		OrganizationName:     "Lakeside Clinic",
		ContactEmail:         "hiring@clinic.example.com",
		NotifyNewApplication: true,
	}); err != nil {
		t.Fatalf("seed employer profile: %v", err)
	}

	if err := jobRepo.Create(ctx, jobs.Job{
		ID:               f.jobID,
		EmployerID:       f.employerID,
		Title:            "ICU Nurse",
		OrganizationName: "Lakeside Clinic",
		Specialization:   "Registered Nurse",
		Status:           jobs.StatusActive,
		PostedAt:         time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed job: %v", err)
	}

	f.svc = &Service{
		Repo:      appRepo,
		Jobs:      jobRepo,
		Seekers:   seekerRepo,
		Employers: empRepo,
		Users:     userRepo,
		Stats:     &employers.StatAggregator{Repo: empRepo, Jobs: jobRepo, Applications: appRepo},
		Notify:    notifications.NewEmitter(notifyRepo),
		Email:     &email.Dispatcher{Mailer: email.LogMailer{}},
	}
	return f
}

func (f *fixture) submit(t *testing.T) SubmitResult {
	t.Helper()
	result, err := f.svc.Submit(context.Background(), f.seekerUserID, f.jobID, SubmitInput{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return result
}

func (f *fixture) employerStats(t *testing.T) employers.Stats {
	t.Helper()
	profile, err := f.empRepo.GetByID(context.Background(), f.employerID)
	if err != nil {
		t.Fatalf("get employer: %v", err)
	}
	return profile.Stats
}

func TestSubmitCreatesFirstApplication(t *testing.T) {
	f := setup(t)

	result := f.submit(t)
	app := result.Application

	if app.Status != StatusApplied {
		t.Fatalf("status = %s, want %s", app.Status, StatusApplied)
	}
	if app.ApplyAttempts != 1 || result.Attempt != 1 {
		t.Fatalf("attempts = %d/%d, want 1", app.ApplyAttempts, result.Attempt)
	}
	if result.Warning != "" {
		t.Fatalf("first attempt should carry no warning, got %q", result.Warning)
	}
	if len(app.History) != 1 || app.History[0].Status != StatusApplied {
		t.Fatalf("history = %+v, want single Applied entry", app.History)
	}

	if stats := f.employerStats(t); stats.TotalApplications != 1 {
		t.Fatalf("totalApplications = %d, want 1", stats.TotalApplications)
	}
	job, _ := f.jobRepo.GetByID(context.Background(), f.jobID)
	if job.Applications != 1 {
		t.Fatalf("job applications counter = %d, want 1", job.Applications)
	}

	items, err := f.notifyRepo.ListByUser(context.Background(), f.seekerUserID, 10, 0)
	if err != nil || len(items) != 1 {
		t.Fatalf("notifications = %d (%v), want 1", len(items), err)
	}
}

func TestSubmitDuplicateConflicts(t *testing.T) {
	f := setup(t)
	f.submit(t)

	_, err := f.svc.Submit(context.Background(), f.seekerUserID, f.jobID, SubmitInput{})
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
}

func TestSubmitRejectsClosedOrExpiredJob(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	job, _ := f.jobRepo.GetByID(ctx, f.jobID)
	job.Status = jobs.StatusClosed
	if err := f.jobRepo.Update(ctx, job); err != nil {
		t.Fatalf("close job: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{}); !errors.Is(err, ErrJobNotOpen) {
		t.Fatalf("closed job: err = %v, want ErrJobNotOpen", err)
	}

	expired := time.Now().Add(-time.Hour).UTC()
	job.Status = jobs.StatusActive
	job.ExpiresAt = &expired
	if err := f.jobRepo.Update(ctx, job); err != nil {
		t.Fatalf("expire job: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{}); !errors.Is(err, ErrJobNotOpen) {
		t.Fatalf("expired job: err = %v, want ErrJobNotOpen", err)
	}
}

func TestSubmitRequiresSeekerProfile(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Submit(context.Background(), "user-without-profile", f.jobID, SubmitInput{})
	if !errors.Is(err, ErrNoSeekerProfile) {
		t.Fatalf("err = %v, want ErrNoSeekerProfile", err)
	}
}

func TestWithdrawReapplyLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.submit(t)
	appID := first.Application.ID

	withdrawn, err := f.svc.Withdraw(ctx, f.seekerUserID, appID, "")
	if err != nil {
		t.Fatalf("first withdraw: %v", err)
	}
	if withdrawn.Status != StatusWithdrawn {
		t.Fatalf("status = %s, want Withdrawn", withdrawn.Status)
	}
	if withdrawn.ApplyAttempts != 1 {
		t.Fatalf("withdraw must not consume an attempt, got %d", withdrawn.ApplyAttempts)
	}
	if len(withdrawn.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(withdrawn.History))
	}
	if withdrawn.History[1].Note != "Withdrawn by candidate" {
		t.Fatalf("default note = %q", withdrawn.History[1].Note)
	}

	second, err := f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{})
	if err != nil {
		t.Fatalf("reapply: %v", err)
	}
	if second.Application.ID != appID {
		t.Fatal("reapply must mutate the existing application, not create a second one")
	}
	if second.Application.ApplyAttempts != 2 || second.Attempt != 2 {
		t.Fatalf("attempts = %d, want 2", second.Application.ApplyAttempts)
	}
	if second.Application.Status != StatusApplied {
		t.Fatalf("status = %s, want Applied", second.Application.Status)
	}
	if second.Warning == "" {
		t.Fatal("second attempt must carry a warning")
	}
	if len(second.Application.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(second.Application.History))
	}

	if _, err := f.svc.Withdraw(ctx, f.seekerUserID, appID, "changed my mind"); err != nil {
		t.Fatalf("second withdraw: %v", err)
	}

	_, err = f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{})
	if !errors.Is(err, ErrMaxAttempts) {
		t.Fatalf("third submit: err = %v, want ErrMaxAttempts", err)
	}

	final, err := f.svc.Repo.GetByID(ctx, appID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if final.ApplyAttempts != 2 {
		t.Fatalf("attempts after failed third submit = %d, want 2", final.ApplyAttempts)
	}
	if final.Status != StatusWithdrawn {
		t.Fatalf("failed submit must not mutate status, got %s", final.Status)
	}
	if len(final.History) != 4 {
		t.Fatalf("failed submit must not append history, length = %d, want 4", len(final.History))
	}
}

func TestWithdrawGuards(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application

	if _, err := f.svc.Withdraw(ctx, "user-without-profile", app.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger withdraw: err = %v, want ErrForbidden", err)
	}

	if _, err := f.svc.Withdraw(ctx, f.seekerUserID, app.ID, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.seekerUserID, app.ID, ""); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("double withdraw: err = %v, want ErrAlreadyTerminal", err)
	}
}

func TestUpdateStatusHireCounterSymmetry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application
	employer := Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}

	before := f.employerStats(t).TotalHires

	if _, err := f.svc.UpdateStatus(ctx, employer, app.ID, StatusOffered, ""); err != nil {
		t.Fatalf("offer: %v", err)
	}
	if hires := f.employerStats(t).TotalHires; hires != before+1 {
		t.Fatalf("hires after offer = %d, want %d", hires, before+1)
	}

	// Offered to Offered is a no-op for the counter.
	if _, err := f.svc.UpdateStatus(ctx, employer, app.ID, StatusOffered, ""); err != nil {
		t.Fatalf("re-offer: %v", err)
	}
	if hires := f.employerStats(t).TotalHires; hires != before+1 {
		t.Fatalf("hires after re-offer = %d, want %d", hires, before+1)
	}

	if _, err := f.svc.UpdateStatus(ctx, employer, app.ID, StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if hires := f.employerStats(t).TotalHires; hires != before {
		t.Fatalf("hires after leaving Offered = %d, want %d", hires, before)
	}
}

func TestWithdrawFromOfferedDecrementsHires(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application
	employer := Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}

	if _, err := f.svc.UpdateStatus(ctx, employer, app.ID, StatusOffered, ""); err != nil {
		t.Fatalf("offer: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.seekerUserID, app.ID, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if hires := f.employerStats(t).TotalHires; hires != 0 {
		t.Fatalf("hires = %d, want 0", hires)
	}
}

func TestUpdateStatusAppendsExactlyOneHistoryEntry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application
	employer := Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}

	transitions := []string{StatusUnderReview, StatusInterview, StatusOffered}
	for i, status := range transitions {
		updated, err := f.svc.UpdateStatus(ctx, employer, app.ID, status, "")
		if err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if len(updated.History) != i+2 {
			t.Fatalf("history length after %s = %d, want %d", status, len(updated.History), i+2)
		}
		last := updated.History[len(updated.History)-1]
		if last.Status != status {
			t.Fatalf("last history status = %s, want %s", last.Status, status)
		}
		// Earlier entries must be untouched.
		if updated.History[0].Status != StatusApplied {
			t.Fatal("history head was rewritten")
		}
	}
}

func TestUpdateStatusAuthz(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application

	if _, err := f.svc.UpdateStatus(ctx, Actor{UserID: f.seekerUserID, Role: auth.RoleJobSeeker}, app.ID, StatusRejected, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("seeker actor: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, Actor{UserID: "other-employer", Role: auth.RoleEmployer}, app.ID, StatusRejected, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owning employer: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, Actor{UserID: "any-admin", Role: auth.RoleAdmin}, app.ID, StatusUnderReview, ""); err != nil {
		t.Fatalf("admin actor: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}, app.ID, "Hired", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status: err = %v, want ErrInvalidStatus", err)
	}
}

func TestStatusNotificationDeduped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application

	at := time.Now().UTC()
	f.svc.notifyStatusChange(ctx, app, StatusInterview, at)
	f.svc.notifyStatusChange(ctx, app, StatusInterview, at)

	items, err := f.notifyRepo.ListByUser(ctx, f.seekerUserID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	statusNotes := 0
	for _, n := range items {
		if n.Type == notifications.KindApplicationStatus {
			statusNotes++
		}
	}
	if statusNotes != 1 {
		t.Fatalf("got %d status notifications, want 1", statusNotes)
	}
}

func TestSetRating(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application
	employer := Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}

	if _, err := f.svc.SetRating(ctx, employer, app.ID, 0); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 0: err = %v, want ErrInvalidRating", err)
	}
	if _, err := f.svc.SetRating(ctx, employer, app.ID, 6); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 6: err = %v, want ErrInvalidRating", err)
	}

	rated, err := f.svc.SetRating(ctx, employer, app.ID, 4)
	if err != nil {
		t.Fatalf("rating 4: %v", err)
	}
	if rated.Rating == nil || *rated.Rating != 4 {
		t.Fatalf("rating = %v, want 4", rated.Rating)
	}
	if len(rated.History) != 1 {
		t.Fatalf("rating must not append history, length = %d", len(rated.History))
	}
}

func TestGetMarksEmployerView(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	app := f.submit(t).Application

	seen, err := f.svc.Get(ctx, Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}, app.ID)
	if err != nil {
		t.Fatalf("employer get: %v", err)
	}
	if !seen.IsViewedByEmployer {
		t.Fatal("employer view should flip the viewed flag")
	}

	reloaded, err := f.svc.Repo.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsViewedByEmployer {
		t.Fatal("viewed flag should persist")
	}

	if _, err := f.svc.Get(ctx, Actor{UserID: "user-without-profile", Role: auth.RoleJobSeeker}, app.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger get: err = %v, want ErrForbidden", err)
	}
}

func TestReapplyReplacesAnswersAndMergesFiles(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{
		Resume:  &FileRef{StorageKey: "resumes/v1.pdf", Filename: "v1.pdf"},
		Answers: []Answer{{Question: "Years in ICU?", Answer: "3"}},
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.seekerUserID, first.Application.ID, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	second, err := f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{
		Answers: []Answer{{Question: "Years in ICU?", Answer: "4"}},
	})
	if err != nil {
		t.Fatalf("reapply: %v", err)
	}

	app := second.Application
	if len(app.Answers) != 1 || app.Answers[0].Answer != "4" {
		t.Fatalf("answers = %+v, want replaced", app.Answers)
	}
	if app.Resume == nil || app.Resume.StorageKey != "resumes/v1.pdf" {
		t.Fatal("reapply without a new resume must keep the existing one")
	}
}

func counterValue(t *testing.T, name string) uint64 {
	t.Helper()
	for _, line := range strings.Split(metrics.Render(), "\n") {
		if strings.HasPrefix(line, name+" ") {
			value, err := strconv.ParseUint(strings.TrimPrefix(line, name+" "), 10, 64)
			if err != nil {
				t.Fatalf("parse %s: %v", name, err)
			}
			return value
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestLifecycleOperationsRecordMetrics(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	submittedBefore := counterValue(t, "application_submitted_total")
	failedBefore := counterValue(t, "application_submit_failed_total")
	withdrawnBefore := counterValue(t, "application_withdrawn_total")
	changedBefore := counterValue(t, "application_status_changed_total")
	durationBefore := counterValue(t, "application_submit_duration_ms_count")

	result := f.submit(t)
	if _, err := f.svc.Submit(ctx, f.seekerUserID, f.jobID, SubmitInput{}); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	employer := Actor{UserID: f.employerUserID, Role: auth.RoleEmployer}
	if _, err := f.svc.UpdateStatus(ctx, employer, result.Application.ID, StatusUnderReview, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, f.seekerUserID, result.Application.ID, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if got := counterValue(t, "application_submitted_total"); got != submittedBefore+1 {
		t.Fatalf("submitted counter: got %d want %d", got, submittedBefore+1)
	}
	if got := counterValue(t, "application_submit_failed_total"); got != failedBefore+1 {
		t.Fatalf("failed counter: got %d want %d", got, failedBefore+1)
	}
	if got := counterValue(t, "application_status_changed_total"); got != changedBefore+1 {
		t.Fatalf("status counter: got %d want %d", got, changedBefore+1)
	}
	if got := counterValue(t, "application_withdrawn_total"); got != withdrawnBefore+1 {
		t.Fatalf("withdrawn counter: got %d want %d", got, withdrawnBefore+1)
	}
	if got := counterValue(t, "application_submit_duration_ms_count"); got != durationBefore+1 {
		t.Fatalf("duration observations: got %d want %d", got, durationBefore+1)
	}
}
