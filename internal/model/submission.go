package model

import "time"

// Submission is one accepted payload recorded against a Form.
// Data is open-ended: whatever keys the submitter posted. Submissions are
// immutable after creation and removed only when their Form is deleted.
type Submission struct {
	ID        string         `json:"id"`
	FormID    string         `json:"form_id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// SubmissionListOptions carries pagination parameters for listing submissions.
type SubmissionListOptions struct {
	Limit  int
	Offset int
}

// SubmissionListResult is a page of submissions plus the unfiltered total.
type SubmissionListResult struct {
	Submissions []*Submission `json:"submissions"`
	Total       int           `json:"total"`
	Limit       int           `json:"limit"`
	Offset      int           `json:"offset"`
}
