package jobs

import "time"

// Job statuses.
const (
	StatusActive   = "Active"
	StatusPending  = "Pending"
	StatusFlagged  = "Flagged"
	StatusArchived = "Archived"
	StatusClosed   = "Closed"
)

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPending, StatusFlagged, StatusArchived, StatusClosed:
		return true
	default:
		return false
	}
}

// Job is a posting created by an employer.
type Job struct {
	ID               string     `json:"id"`
	EmployerID       string     `json:"employerId"`
	Title            string     `json:"title"`
	OrganizationName string     `json:"organizationName"`
	Specialization   string     `json:"specialization"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
	JobType          string     `json:"jobType"`
	Shift            string     `json:"shift"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	PostedAt         time.Time  `json:"postedAt"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	Views            int        `json:"views"`
	Applications     int        `json:"applications"`
	IsRemote         bool       `json:"isRemote"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsOpen reports whether the job accepts new applications: it must be Active
// and not past its expiry.
func (j Job) IsOpen() bool {
	if j.Status != StatusActive {
		return false
	}
	if j.ExpiresAt != nil && j.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}
