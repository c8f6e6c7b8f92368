package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/formbridge/backend/internal/origin"
	"github.com/formbridge/backend/internal/service"
)

// maxSubmissionBody caps the accepted request body size.
const maxSubmissionBody = 2 << 20

// SubmitHandler serves the public intake surface: the endpoint form owners
// embed in their static sites. No session required; protection is the
// per-IP rate limit and the per-form origin allow-list.
type SubmitHandler struct {
	submissionService service.SubmissionService
}

// NewSubmitHandler creates a SubmitHandler with the given service.
func NewSubmitHandler(submissionService service.SubmissionService) *SubmitHandler {
	return &SubmitHandler{submissionService: submissionService}
}

// writeSubmitJSON writes a JSON response with the CORS origin the submit
// surface resolved. Every response, success or failure, carries
// Access-Control-Allow-Origin so browsers can read the body.
func writeSubmitJSON(w http.ResponseWriter, status int, allowOrigin string, body any) {
	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Preflight handles OPTIONS /api/submit/{formId}. Always 204; the reflected
// origin comes from the form's allow-list when it matches, the wildcard
// otherwise.
func (h *SubmitHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	allowOrigin := h.submissionService.ResolvePreflightOrigin(
		r.Context(), r.PathValue("formId"), r.Header.Get("Origin"))

	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/submit/{formId}.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBody))
	if err != nil {
		writeSubmitJSON(w, http.StatusBadRequest, origin.Wildcard,
			map[string]string{"error": "invalid_body"})
		return
	}

	result, err := h.submissionService.Accept(r.Context(), service.IntakeRequest{
		FormID:      r.PathValue("formId"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
		SourceIP:    clientIP(r),
		Origin:      r.Header.Get("Origin"),
	})
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	writeSubmitJSON(w, http.StatusOK, result.EffectiveOrigin,
		map[string]string{"message": "submission received"})
}

// writeSubmitError maps pipeline failures to the public status contract.
// Error responses reflect the wildcard origin: the submission was refused,
// but the browser should still be able to surface the error body.
func (h *SubmitHandler) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var rle *service.RateLimitedError
	switch {
	case errors.As(err, &rle):
		secs := int((rle.RetryAfter + time.Second - 1) / time.Second)
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeSubmitJSON(w, http.StatusTooManyRequests, origin.Wildcard,
			map[string]string{"error": "rate_limited"})

	case errors.Is(err, service.ErrFormNotFound):
		writeSubmitJSON(w, http.StatusNotFound, origin.Wildcard,
			map[string]string{"error": "form_not_found"})

	case errors.Is(err, service.ErrOriginRejected):
		writeSubmitJSON(w, http.StatusForbidden, origin.Wildcard,
			map[string]string{"error": "origin_not_allowed"})

	default:
		slog.Error("submission intake failed", "path", r.URL.Path, "error", err)
		writeSubmitJSON(w, http.StatusInternalServerError, origin.Wildcard,
			map[string]string{"error": "internal_error"})
	}
}
