package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/internal/repository"
	"github.com/formbridge/backend/internal/service"
	"github.com/formbridge/backend/pkg/auth"
)

const maxFormNameLength = 200

// FormHandler handles the authenticated form management surface.
// Every operation is scoped to the session user; a form owned by someone
// else is indistinguishable from a missing one.
type FormHandler struct {
	formService       service.FormService
	submissionService service.SubmissionService
}

// NewFormHandler creates a FormHandler with the given services.
func NewFormHandler(formService service.FormService, submissionService service.SubmissionService) *FormHandler {
	return &FormHandler{formService: formService, submissionService: submissionService}
}

// createRequest is the expected JSON body for POST /api/forms.
type createRequest struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Settings       *model.FormSettings `json:"settings"`
	AllowedOrigins []string            `json:"allowed_origins"`
}

// Create handles POST /api/forms.
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name_required"})
		return
	}
	if len([]rune(req.Name)) > maxFormNameLength {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name_too_long"})
		return
	}

	form := &model.Form{
		OwnerID:        userID,
		Name:           req.Name,
		Description:    req.Description,
		AllowedOrigins: req.AllowedOrigins,
	}
	if req.Settings != nil {
		form.Settings = *req.Settings
	} else {
		form.Settings = model.FormSettings{EmailNotifications: true}
	}

	if err := h.formService.Create(r.Context(), form); err != nil {
		slog.Error("form create failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(form)
}

// List handles GET /api/forms.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	forms, err := h.formService.ListByOwnerID(r.Context(), userID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	// Return [] not null for empty lists
	if forms == nil {
		forms = []*model.Form{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"forms": forms})
}

// Get handles GET /api/forms/{id}.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	form, err := h.formService.GetByIDAndOwner(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(form)
}

// Patch handles PATCH /api/forms/{id}. Absent fields are left unchanged.
func (h *FormHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var upd model.FormUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	form, err := h.formService.Update(r.Context(), r.PathValue("id"), userID, upd)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(form)
}

// Delete handles DELETE /api/forms/{id}. Removes the form and all its
// submissions.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.formService.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		h.writeFormError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "form deleted"})
}

// transferRequest is the expected JSON body for POST /api/forms/{id}/transfer.
type transferRequest struct {
	Email string `json:"email"`
}

// Transfer handles POST /api/forms/{id}/transfer.
func (h *FormHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.Email == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "email_required"})
		return
	}

	target, err := h.formService.Transfer(r.Context(), r.PathValue("id"), userID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTargetNotFound):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "user_not_found"})
		case errors.Is(err, service.ErrSelfTransfer):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "already_owner"})
		default:
			h.writeFormError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":   "form transferred",
		"new_owner": target.Email,
	})
}

// Submissions handles GET /api/forms/{id}/submissions.
// Supports query params: limit (<=100), offset.
func (h *FormHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	form, err := h.formService.GetByIDAndOwner(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	opts := model.SubmissionListOptions{Limit: 20, Offset: 0}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	result, err := h.submissionService.List(r.Context(), form.ID, opts)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// ExportCSV handles GET /api/forms/{id}/submissions/export.
// Columns are the union of payload keys across all submissions, sorted,
// prefixed by the submission timestamp.
func (h *FormHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	form, err := h.formService.GetByIDAndOwner(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeFormError(w, err)
		return
	}

	subs, err := h.submissionService.ListAll(r.Context(), form.ID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "submissions-"+form.ID+".csv"))

	cw := csv.NewWriter(w)
	header := append([]string{"submitted_at"}, payloadColumns(subs)...)
	_ = cw.Write(header)
	for _, sub := range subs {
		record := make([]string, 0, len(header))
		record = append(record, sub.CreatedAt.UTC().Format(time.RFC3339))
		for _, col := range header[1:] {
			if v, ok := sub.Data[col]; ok {
				record = append(record, fmt.Sprintf("%v", v))
			} else {
				record = append(record, "")
			}
		}
		_ = cw.Write(record)
	}
	cw.Flush()
}

// payloadColumns returns the sorted union of payload keys.
func payloadColumns(subs []*model.Submission) []string {
	seen := map[string]bool{}
	for _, sub := range subs {
		for k := range sub.Data {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// writeFormError maps service errors on the management surface.
func (h *FormHandler) writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "form_not_found"})
		return
	}
	slog.Error("form operation failed", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
}
