package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Handlers handles HTTP requests for auth.
type Handlers struct {
	service *Service
	env     string
}

func NewHandlers(service *Service, env string) *Handlers {
	return &Handlers{service: service, env: env}
}

type devAuthRequest struct {
	UserID string `json:"user_id"`
}

type devAuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// HandleDevAuth handles POST /v1/auth/dev — local dev token without an
// identity provider. Disabled in production.
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	if h.env == "production" {
		writeError(w, http.StatusNotFound, "not_found", "Not found")
		return
	}

	var req devAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	token, exp, err := h.service.IssueDevToken(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(devAuthResponse{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	})
}
