package applications

import "time"

// Application statuses. Applied is the only initial state. Rejected and
// Withdrawn are terminal for an attempt; Withdrawn can return to Applied
// exactly once more through Submit, never through a status update.
const (
	StatusApplied     = "Applied"
	StatusUnderReview = "Under Review"
	StatusInterview   = "Interview"
	StatusOffered     = "Offered"
	StatusRejected    = "Rejected"
	StatusWithdrawn   = "Withdrawn"
)

// MaxAttempts caps how many times a seeker may apply to one job. The second
// attempt is only reachable after a withdrawal.
const MaxAttempts = 2

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusInterview, StatusOffered, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status ends the current attempt.
func Terminal(s string) bool {
	return s == StatusRejected || s == StatusWithdrawn
}

// HistoryEntry is one line of the append-only audit trail.
type HistoryEntry struct {
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

// Answer is one screening question and the seeker's response, in the order
// the employer defined the questions.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FileRef points at an uploaded document in the object store, snapshotted
// onto the application at submit time.
type FileRef struct {
	StorageKey string `json:"storageKey"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// CoverLetter is free text, an uploaded file, or both.
type CoverLetter struct {
	Text string   `json:"text,omitempty"`
	File *FileRef `json:"file,omitempty"`
}

// Application is one seeker's relationship with one job. At most one row
// exists per (job, seeker) pair for all time; reapplication mutates the
// existing row rather than creating a second one.
type Application struct {
	ID         string `json:"id"`
	JobID      string `json:"jobId"`
	SeekerID   string `json:"seekerId"`
	EmployerID string `json:"employerId"`
	Status     string `json:"status"`

	AppliedAt time.Time `json:"appliedAt"`
	// UpdatedAtManual is stamped only by explicit lifecycle operations,
	// unlike UpdatedAt which moves on every save.
	UpdatedAtManual *time.Time `json:"updatedAtManual,omitempty"`
	ApplyAttempts   int        `json:"applyAttempts"`

	Resume             *FileRef       `json:"resume,omitempty"`
	CoverLetter        *CoverLetter   `json:"coverLetter,omitempty"`
	Answers            []Answer       `json:"answers"`
	History            []HistoryEntry `json:"history"`
	IsViewedByEmployer bool           `json:"isViewedByEmployer"`
	Rating             *int           `json:"rating,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
