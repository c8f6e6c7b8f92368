package handler

import (
	"net/http"
	"strings"

	"github.com/formbridge/backend/internal/repository"
)

// Handler carries shared dependencies for the infrastructure endpoints.
type Handler struct {
	db          repository.DB
	frontendURL string
}

// New creates the shared Handler.
func New(db repository.DB, frontendURL string) *Handler {
	return &Handler{db: db, frontendURL: frontendURL}
}

// CORS is the management-surface CORS middleware: it reflects the dashboard
// frontend origin with credentials. The public submit endpoint does not go
// through this; its CORS headers depend on the form's allow-list.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/submit/") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", h.frontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
