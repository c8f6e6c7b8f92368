package service

import (
	"context"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/internal/ratelimit"
)

// IntakeRequest is one inbound payload from the public submit endpoint.
type IntakeRequest struct {
	FormID      string
	ContentType string
	Body        []byte
	SourceIP    string
	Origin      string
}

// IntakeResult acknowledges an accepted submission. The payload is not
// echoed back; EffectiveOrigin is what the handler reflects in
// Access-Control-Allow-Origin.
type IntakeResult struct {
	EffectiveOrigin string
}

// RateLimiter is the quota gate at the front of the intake pipeline.
type RateLimiter interface {
	Check(ctx context.Context, key string) (ratelimit.Result, error)
}

// SubmissionService defines the submission intake pipeline and the
// owner-facing read operations over recorded submissions.
type SubmissionService interface {
	// Accept runs the pipeline for one inbound payload: rate-limit gate,
	// body parse, form lookup, origin check, persist, notification
	// fan-out. Failure modes: *RateLimitedError, ErrFormNotFound (also
	// covers inactive forms), ErrOriginRejected.
	Accept(ctx context.Context, req IntakeRequest) (IntakeResult, error)

	// ResolvePreflightOrigin decides the Access-Control-Allow-Origin value
	// for a CORS preflight against the given form.
	ResolvePreflightOrigin(ctx context.Context, formID, requestOrigin string) string

	// List returns one page of a form's submissions plus the total count.
	List(ctx context.Context, formID string, opts model.SubmissionListOptions) (*model.SubmissionListResult, error)

	// ListAll returns every submission for a form, oldest first.
	ListAll(ctx context.Context, formID string) ([]*model.Submission, error)
}
