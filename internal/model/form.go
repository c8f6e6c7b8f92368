package model

import "time"

// Form is a configured submission endpoint owned by a single user.
// Posting to /api/submit/{id} records a Submission against it.
type Form struct {
	ID             string       `json:"id"`
	OwnerID        string       `json:"owner_id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	IsActive       bool         `json:"is_active"`
	Settings       FormSettings `json:"settings"`
	AllowedOrigins []string     `json:"allowed_origins"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Transient: not stored in DB, set by handlers/queries
	SubmissionCount int `json:"submission_count,omitempty"`
}

// FormSettings holds per-form notification configuration.
type FormSettings struct {
	// EmailNotifications enables owner email on each accepted submission.
	EmailNotifications bool `json:"email_notifications"`
	// NotificationEmails, when non-empty, replaces the owner address as
	// the recipient list.
	NotificationEmails []string `json:"notification_emails"`
}

// FormUpdate carries a partial update for PATCH /api/forms/{id}.
// Nil fields are left unchanged.
type FormUpdate struct {
	Name           *string       `json:"name"`
	Description    *string       `json:"description"`
	IsActive       *bool         `json:"is_active"`
	Settings       *FormSettings `json:"settings"`
	AllowedOrigins []string      `json:"allowed_origins"`
}
