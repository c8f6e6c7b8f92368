package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/internal/origin"
	"github.com/formbridge/backend/internal/repository"
	"github.com/google/uuid"
)

// notifyTimeout bounds the background notification dispatch so a hung mail
// transport cannot pin a goroutine forever.
const notifyTimeout = 15 * time.Second

// maxPartSize caps how much of a single multipart field is read into the payload.
const maxPartSize = 1 << 20

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	limiter   RateLimiter
	validator *origin.Validator
	formRepo  repository.FormRepository
	subRepo   repository.SubmissionRepository
	userRepo  repository.UserRepository
	notifier  NotificationService

	// dispatch runs the notification fan-out. Overridable so tests can run
	// it synchronously.
	dispatch func(f func())
}

// NewSubmissionService creates a SubmissionService. notifier may be nil to
// disable email notifications entirely.
func NewSubmissionService(
	limiter RateLimiter,
	validator *origin.Validator,
	formRepo repository.FormRepository,
	subRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
) SubmissionService {
	return &submissionServiceImpl{
		limiter:   limiter,
		validator: validator,
		formRepo:  formRepo,
		subRepo:   subRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		dispatch:  func(f func()) { go f() },
	}
}

// Accept runs the intake pipeline. The submission is committed before the
// notification fan-out starts; a notification failure never surfaces to the
// submitter and never rolls anything back.
func (s *submissionServiceImpl) Accept(ctx context.Context, req IntakeRequest) (IntakeResult, error) {
	limit, err := s.limiter.Check(ctx, req.SourceIP)
	if err != nil {
		return IntakeResult{}, err
	}
	if !limit.Allowed {
		return IntakeResult{}, &RateLimitedError{RetryAfter: limit.RetryAfter}
	}

	data := parsePayload(req.ContentType, req.Body)

	form, err := s.formRepo.FindByID(ctx, req.FormID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return IntakeResult{}, ErrFormNotFound
		}
		return IntakeResult{}, err
	}
	if !form.IsActive {
		// Indistinguishable from a missing form on purpose.
		return IntakeResult{}, ErrFormNotFound
	}

	res := s.validator.Resolve(req.Origin, form.AllowedOrigins)
	if !res.Accepted {
		return IntakeResult{}, ErrOriginRejected
	}

	sub := &model.Submission{
		ID:     uuid.NewString(),
		FormID: form.ID,
		Data:   data,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return IntakeResult{}, err
	}

	if form.Settings.EmailNotifications && s.notifier != nil {
		s.dispatch(func() { s.notify(form, sub.Data) })
	}

	return IntakeResult{EffectiveOrigin: res.EffectiveOrigin}, nil
}

// notify performs the owner lookup and email send on its own context so the
// submitter's response is never coupled to mail transport latency.
func (s *submissionServiceImpl) notify(form *model.Form, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	owner, err := s.userRepo.FindByID(ctx, form.OwnerID)
	if err != nil {
		slog.Warn("notification skipped: owner lookup failed",
			"form_id", form.ID, "owner_id", form.OwnerID, "error", err)
		return
	}

	if err := s.notifier.Notify(ctx, form, owner, data); err != nil {
		slog.Warn("notification send failed", "form_id", form.ID, "error", err)
	}
}

// ResolvePreflightOrigin reflects the origin a preflight should allow. An
// unknown form or a rejected origin both fall back to the wildcard: the
// actual POST still fails, but with a readable error body.
func (s *submissionServiceImpl) ResolvePreflightOrigin(ctx context.Context, formID, requestOrigin string) string {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		return origin.Wildcard
	}
	res := s.validator.Resolve(requestOrigin, form.AllowedOrigins)
	if !res.Accepted {
		return origin.Wildcard
	}
	return res.EffectiveOrigin
}

func (s *submissionServiceImpl) List(ctx context.Context, formID string, opts model.SubmissionListOptions) (*model.SubmissionListResult, error) {
	subs, err := s.subRepo.ListByFormID(ctx, formID, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.subRepo.CountByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	return &model.SubmissionListResult{
		Submissions: subs,
		Total:       total,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	}, nil
}

func (s *submissionServiceImpl) ListAll(ctx context.Context, formID string) ([]*model.Submission, error) {
	return s.subRepo.ListAllByFormID(ctx, formID)
}

// parsePayload flattens the request body into the open-ended key-value
// payload. Unrecognized content types yield an empty payload: the
// submission is still recorded as an empty record.
func parsePayload(contentType string, body []byte) map[string]any {
	data := map[string]any{}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return data
	}

	switch mediaType {
	case "application/json":
		var parsed map[string]any
		if err := json.Unmarshal(body, &parsed); err == nil {
			data = parsed
		}

	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return data
		}
		for key, vals := range values {
			if len(vals) > 0 {
				data[key] = vals[0]
			}
		}

	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return data
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			name := part.FormName()
			if name == "" {
				continue
			}
			if part.FileName() != "" {
				// File uploads are not stored; only the filename is recorded.
				data[name] = part.FileName()
				continue
			}
			value, err := io.ReadAll(io.LimitReader(part, maxPartSize))
			if err == nil {
				data[name] = strings.ToValidUTF8(string(value), "")
			}
		}
	}

	return data
}
