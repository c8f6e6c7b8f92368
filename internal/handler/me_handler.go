package handler

import (
	"encoding/json"
	"net/http"

	"github.com/formbridge/backend/internal/repository"
	"github.com/formbridge/backend/pkg/auth"
)

// MeHandler returns the current session user.
type MeHandler struct {
	userRepo repository.UserRepository
}

// NewMeHandler creates a MeHandler with the given repository.
func NewMeHandler(userRepo repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

// Me handles GET /api/me (auth required).
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "user_not_found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}
