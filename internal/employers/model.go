package employers

import "time"

// Stats are running counters on the employer record. They are only ever
// mutated through the StatAggregator so increments and decrements stay
// symmetric with the transitions that cause them.
type Stats struct {
	TotalJobPosts     int `json:"totalJobPosts"`
	ActiveJobPosts    int `json:"activeJobPosts"`
	TotalApplications int `json:"totalApplications"`
	TotalHires        int `json:"totalHires"`
}

// StatsDelta is a set of counter adjustments applied in one atomic update.
type StatsDelta struct {
	TotalJobPosts     int
	ActiveJobPosts    int
	TotalApplications int
	TotalHires        int
}

// IsZero reports whether the delta changes nothing.
func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// Profile is an employer organization, one per user account.
type Profile struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	OrganizationName string `json:"organizationName"`
	OrganizationType string `json:"organizationType"`
	ContactName      string `json:"contactName"`
	ContactEmail     string `json:"contactEmail"`
	// NotifyNewApplication gates the new-application email to the employer.
	NotifyNewApplication bool      `json:"notifyNewApplication"`
	Stats                Stats     `json:"stats"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
