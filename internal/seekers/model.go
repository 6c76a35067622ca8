package seekers

import "time"

// ResumeFile is the stored resume attached to a seeker profile.
type ResumeFile struct {
	StorageKey string    `json:"storageKey"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
	// TextExcerpt holds the first part of the extracted PDF text, used for
	// keyword search on the employer side.
	TextExcerpt string `json:"textExcerpt,omitempty"`
}

// Profile is a job seeker's profile, one per user.
type Profile struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Specialization  string      `json:"specialization"`
	ExperienceYears int         `json:"experienceYears"`
	Headline        string      `json:"headline"`
	Phone           string      `json:"phone"`
	Resume          *ResumeFile `json:"resume,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
