package notifications

import "time"

// Notification kinds.
const (
	KindApplicationSubmitted = "application_submitted"
	KindApplicationStatus    = "application_status"
	KindNewApplication       = "new_application"
	KindSystem               = "system"
)

// Notification is an in-app message shown on a user's notification feed.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Role      string            `json:"role"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	CTAPath   string            `json:"ctaPath,omitempty"`
	CTALabel  string            `json:"ctaLabel,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	DedupeKey string            `json:"-"`
	ReadAt    *time.Time        `json:"readAt,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Read reports whether the notification has been marked read.
func (n Notification) Read() bool {
	return n.ReadAt != nil
}
