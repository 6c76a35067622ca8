package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifemate-backend/internal/email"
	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/jobs"
	"lifemate-backend/internal/notifications"
	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/auth"
	"lifemate-backend/internal/shared/metrics"
	"lifemate-backend/internal/shared/telemetry"
	"lifemate-backend/internal/users"
)

var (
	ErrJobNotOpen      = errors.New("job not found or not open")
	ErrNoSeekerProfile = errors.New("seeker profile required")
	ErrNoEmployer      = errors.New("job has no employer")
	ErrForbidden       = errors.New("not allowed to act on this application")
	ErrAlreadyTerminal = errors.New("application is already in a terminal state")
	ErrInvalidStatus   = errors.New("unknown application status")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrSelfApplication = errors.New("cannot apply to your own job posting")
)

// WarningFinalAttempt is returned with the second submission. Attempt two is
// the last one; withdrawing it closes the job to the seeker for good.
const WarningFinalAttempt = "This is your final application attempt for this job. If you withdraw again you will not be able to reapply."

// Actor is the authenticated caller of an employer-side operation.
type Actor struct {
	UserID string
	Role   string
}

// SubmitInput carries the optional attachments and answers of a submission.
// File references point at objects already uploaded through the uploads API.
type SubmitInput struct {
	Resume          *FileRef
	CoverLetterFile *FileRef
	CoverLetterText string
	Answers         []Answer
}

// SubmitResult is the outcome of a successful Submit. Warning is empty
// except on the second attempt.
type SubmitResult struct {
	Application Application
	Attempt     int
	Warning     string
}

// Service implements the application lifecycle. All counter, notification
// and email side effects are best-effort; only storage failures on the
// application row itself fail an operation.
type Service struct {
	Repo      Repo
	Jobs      jobs.Repo
	Seekers   seekers.Repo
	Employers employers.Repo
	Users     users.Repo
	Stats     *employers.StatAggregator
	Notify    *notifications.Emitter
	Email     *email.Dispatcher
}

// Submit applies a seeker to a job, or reapplies after a withdrawal. A
// seeker gets at most two attempts per job for all time; the second attempt
// exists only after withdrawing the first.
func (s *Service) Submit(ctx context.Context, userID, jobID string, in SubmitInput) (SubmitResult, error) {
	startedMs := metrics.NowMillis()
	result, err := s.submit(ctx, userID, jobID, in)
	if err != nil {
		metrics.IncApplicationSubmitFailed()
		return SubmitResult{}, err
	}
	metrics.IncApplicationSubmitted()
	metrics.ObserveApplicationSubmitDurationMs(metrics.NowMillis() - startedMs)
	return result, nil
}

func (s *Service) submit(ctx context.Context, userID, jobID string, in SubmitInput) (SubmitResult, error) {
	profile, err := s.Seekers.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, seekers.ErrNotFound) {
			return SubmitResult{}, ErrNoSeekerProfile
		}
		return SubmitResult{}, err
	}

	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return SubmitResult{}, ErrJobNotOpen
		}
		return SubmitResult{}, err
	}
	if !job.IsOpen() {
		return SubmitResult{}, ErrJobNotOpen
	}

	employer, err := s.Employers.GetByID(ctx, job.EmployerID)
	if err != nil {
		if errors.Is(err, employers.ErrNotFound) {
			return SubmitResult{}, ErrNoEmployer
		}
		return SubmitResult{}, err
	}
	if employer.UserID == userID {
		return SubmitResult{}, ErrSelfApplication
	}

	now := time.Now().UTC()
	var (
		app     Application
		warning string
	)

	existing, err := s.Repo.GetByJobAndSeeker(ctx, job.ID, profile.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		app = Application{
			ID:            uuid.NewString(),
			JobID:         job.ID,
			SeekerID:      profile.ID,
			EmployerID:    employer.ID,
			Status:        StatusApplied,
			AppliedAt:     now,
			ApplyAttempts: 1,
			Resume:        in.Resume,
			CoverLetter:   buildCoverLetter(in),
			Answers:       in.Answers,
			History: []HistoryEntry{{
				Status: StatusApplied,
				Note:   "Application submitted",
				Actor:  "seeker",
				At:     now,
			}},
		}
		if err := s.Repo.Create(ctx, app); err != nil {
			return SubmitResult{}, err
		}

	case err != nil:
		return SubmitResult{}, err

	default:
		if existing.Status != StatusWithdrawn {
			return SubmitResult{}, ErrAlreadyApplied
		}
		if existing.ApplyAttempts >= MaxAttempts {
			return SubmitResult{}, ErrMaxAttempts
		}

		app = existing
		app.ApplyAttempts = MaxAttempts
		app.Status = StatusApplied
		app.AppliedAt = now
		app.UpdatedAtManual = &now
		app.Answers = in.Answers
		if in.Resume != nil {
			app.Resume = in.Resume
		}
		if cl := buildCoverLetter(in); cl != nil {
			app.CoverLetter = cl
		}
		app.History = append(app.History, HistoryEntry{
			Status: StatusApplied,
			Note:   fmt.Sprintf("Reapplied, attempt %d of %d", MaxAttempts, MaxAttempts),
			Actor:  "seeker",
			At:     now,
		})
		if err := s.Repo.Update(ctx, app); err != nil {
			return SubmitResult{}, err
		}
		warning = WarningFinalAttempt
	}

	if err := s.Jobs.IncrementApplications(ctx, job.ID, 1); err != nil {
		telemetry.Warn("application.job_counter_failed", map[string]any{
			"job_id": job.ID,
			"error":  err.Error(),
		})
	}
	s.Stats.Bump(ctx, employer.ID, employers.StatsDelta{TotalApplications: 1})

	message := fmt.Sprintf("Your application to %s at %s has been submitted.", job.Title, job.OrganizationName)
	if warning != "" {
		message += " " + warning
	}
	s.Notify.EmitBestEffort(ctx, notifications.Event{
		UserID:  userID,
		Role:    auth.RoleJobSeeker,
		Type:    notifications.KindApplicationSubmitted,
		Title:   "Application submitted",
		Message: message,
		CTAPath: "/applications/" + app.ID,
		Key:     notifications.EventKey{Kind: "application_submitted", SubjectID: app.ID, At: app.AppliedAt},
	})

	s.sendSubmitEmails(ctx, userID, job, employer, warning)

	return SubmitResult{Application: app, Attempt: app.ApplyAttempts, Warning: warning}, nil
}

func (s *Service) sendSubmitEmails(ctx context.Context, seekerUserID string, job jobs.Job, employer employers.Profile, warning string) {
	seekerUser, err := s.Users.GetByID(ctx, seekerUserID)
	if err != nil {
		telemetry.Warn("application.seeker_lookup_failed", map[string]any{
			"user_id": seekerUserID,
			"error":   err.Error(),
		})
		return
	}

	s.Email.Dispatch(ctx, seekerUser.Email, email.TemplateApplicationSubmitted, map[string]string{
		"candidateName":    seekerUser.FullName,
		"jobTitle":         job.Title,
		"organizationName": job.OrganizationName,
		"warning":          warning,
	})

	if employer.NotifyNewApplication && employer.ContactEmail != "" {
		s.Email.Dispatch(ctx, employer.ContactEmail, email.TemplateApplicationReceived, map[string]string{
			"contactName":    employer.ContactName,
			"jobTitle":       job.Title,
			"candidateName":  seekerUser.FullName,
			"candidateEmail": seekerUser.Email,
		})
	}
}

// Withdraw moves the caller's own application to Withdrawn.
func (s *Service) Withdraw(ctx context.Context, userID, applicationID, note string) (Application, error) {
	profile, err := s.Seekers.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, seekers.ErrNotFound) {
			return Application{}, ErrForbidden
		}
		return Application{}, err
	}

	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if app.SeekerID != profile.ID {
		return Application{}, ErrForbidden
	}
	if Terminal(app.Status) {
		return Application{}, ErrAlreadyTerminal
	}

	oldStatus := app.Status
	now := time.Now().UTC()
	if note == "" {
		note = "Withdrawn by candidate"
	}
	app.Status = StatusWithdrawn
	app.UpdatedAtManual = &now
	app.History = append(app.History, HistoryEntry{
		Status: StatusWithdrawn,
		Note:   note,
		Actor:  "seeker",
		At:     now,
	})
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}

	metrics.IncApplicationWithdrawn()
	if oldStatus == StatusOffered {
		s.Stats.Bump(ctx, app.EmployerID, employers.StatsDelta{TotalHires: -1})
	}
	return app, nil
}

// UpdateStatus transitions an application on behalf of the owning employer
// or an admin.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, applicationID, newStatus, note string) (Application, error) {
	if !ValidStatus(newStatus) {
		return Application{}, ErrInvalidStatus
	}

	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorizeEmployerSide(ctx, actor, app); err != nil {
		return Application{}, err
	}

	oldStatus := app.Status
	now := time.Now().UTC()
	if note == "" {
		note = "Status updated to " + newStatus
	}
	app.Status = newStatus
	app.UpdatedAtManual = &now
	app.History = append(app.History, HistoryEntry{
		Status: newStatus,
		Note:   note,
		Actor:  actor.Role,
		At:     now,
	})
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}

	metrics.IncApplicationStatusChanged()
	if oldStatus != StatusOffered && newStatus == StatusOffered {
		s.Stats.Bump(ctx, app.EmployerID, employers.StatsDelta{TotalHires: 1})
	} else if oldStatus == StatusOffered && newStatus != StatusOffered {
		s.Stats.Bump(ctx, app.EmployerID, employers.StatsDelta{TotalHires: -1})
	}

	s.notifyStatusChange(ctx, app, newStatus, now)
	return app, nil
}

func (s *Service) notifyStatusChange(ctx context.Context, app Application, newStatus string, at time.Time) {
	profile, err := s.Seekers.GetByID(ctx, app.SeekerID)
	if err != nil {
		telemetry.Warn("application.seeker_lookup_failed", map[string]any{
			"seeker_id": app.SeekerID,
			"error":     err.Error(),
		})
		return
	}

	job, jobErr := s.Jobs.GetByID(ctx, app.JobID)
	title := "your application"
	org := ""
	if jobErr == nil {
		title = job.Title
		org = job.OrganizationName
	}

	s.Notify.EmitBestEffort(ctx, notifications.Event{
		UserID:  profile.UserID,
		Role:    auth.RoleJobSeeker,
		Type:    notifications.KindApplicationStatus,
		Title:   "Application status updated",
		Message: fmt.Sprintf("Your application to %s is now %s.", title, newStatus),
		CTAPath: "/applications/" + app.ID,
		Key:     notifications.EventKey{Kind: "status_change", SubjectID: app.ID, At: at},
	})

	if newStatus != StatusInterview && newStatus != StatusOffered {
		return
	}
	seekerUser, err := s.Users.GetByID(ctx, profile.UserID)
	if err != nil {
		telemetry.Warn("application.seeker_lookup_failed", map[string]any{
			"user_id": profile.UserID,
			"error":   err.Error(),
		})
		return
	}
	s.Email.Dispatch(ctx, seekerUser.Email, email.TemplateApplicationStatus, map[string]string{
		"candidateName":    seekerUser.FullName,
		"jobTitle":         title,
		"organizationName": org,
		"status":           newStatus,
	})
}

// SetRating stores an employer's 1 to 5 rating without touching history.
func (s *Service) SetRating(ctx context.Context, actor Actor, applicationID string, rating int) (Application, error) {
	if rating < 1 || rating > 5 {
		return Application{}, ErrInvalidRating
	}

	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorizeEmployerSide(ctx, actor, app); err != nil {
		return Application{}, err
	}

	app.Rating = &rating
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}

	if app.Status == StatusInterview || app.Status == StatusOffered {
		s.notifyStatusChange(ctx, app, app.Status, time.Now().UTC())
	}
	return app, nil
}

// Get fetches one application for any of its three legitimate viewers. An
// employer view flips the viewed flag best-effort.
func (s *Service) Get(ctx context.Context, actor Actor, applicationID string) (Application, error) {
	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
		return app, nil
	case auth.RoleJobSeeker:
		profile, err := s.Seekers.GetByUser(ctx, actor.UserID)
		if err != nil || app.SeekerID != profile.ID {
			return Application{}, ErrForbidden
		}
		return app, nil
	case auth.RoleEmployer:
		if err := s.authorizeEmployerSide(ctx, actor, app); err != nil {
			return Application{}, err
		}
		if !app.IsViewedByEmployer {
			if err := s.Repo.MarkViewed(ctx, app.ID); err != nil {
				telemetry.Warn("application.mark_viewed_failed", map[string]any{
					"application_id": app.ID,
					"error":          err.Error(),
				})
			} else {
				app.IsViewedByEmployer = true
			}
		}
		return app, nil
	default:
		return Application{}, ErrForbidden
	}
}

// ListMine lists the calling seeker's applications.
func (s *Service) ListMine(ctx context.Context, userID string, filter ListFilter) ([]Application, int, error) {
	profile, err := s.Seekers.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, seekers.ErrNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return s.Repo.ListBySeeker(ctx, profile.ID, filter)
}

// ListForEmployer lists all applications across the calling employer's jobs.
func (s *Service) ListForEmployer(ctx context.Context, userID string, filter ListFilter) ([]Application, int, error) {
	employer, err := s.Employers.GetByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.ListByEmployer(ctx, employer.ID, filter)
}

// ListForJob lists applications to one job for its owning employer or an
// admin.
func (s *Service) ListForJob(ctx context.Context, actor Actor, jobID string, filter ListFilter) ([]Application, int, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, 0, err
	}
	if actor.Role != auth.RoleAdmin {
		employer, err := s.Employers.GetByUser(ctx, actor.UserID)
		if err != nil || employer.ID != job.EmployerID {
			return nil, 0, ErrForbidden
		}
	}
	return s.Repo.ListByJob(ctx, jobID, filter)
}

func (s *Service) authorizeEmployerSide(ctx context.Context, actor Actor, app Application) error {
	if actor.Role == auth.RoleAdmin {
		return nil
	}
	if actor.Role != auth.RoleEmployer {
		return ErrForbidden
	}
	employer, err := s.Employers.GetByUser(ctx, actor.UserID)
	if err != nil || employer.ID != app.EmployerID {
		return ErrForbidden
	}
	return nil
}

func buildCoverLetter(in SubmitInput) *CoverLetter {
	if in.CoverLetterText == "" && in.CoverLetterFile == nil {
		return nil
	}
	return &CoverLetter{Text: in.CoverLetterText, File: in.CoverLetterFile}
}
