package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrFormNotFound is returned by the intake pipeline when the form does not
// exist or is inactive. The two cases are deliberately indistinguishable so
// submitters cannot probe for disabled forms.
var ErrFormNotFound = errors.New("form not found")

// ErrOriginRejected is returned when the request Origin is not on the
// form's allow-list.
var ErrOriginRejected = errors.New("origin not allowed")

// ErrTargetNotFound is returned by Transfer when no user has the target email.
var ErrTargetNotFound = errors.New("target user not found")

// ErrSelfTransfer is returned by Transfer when the target already owns the form.
var ErrSelfTransfer = errors.New("target already owns this form")

// RateLimitedError is returned when the source key exceeded its quota.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}
