package auth

import (
	"net/http"
	"strings"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
)

// Middleware authenticates incoming requests.
type Middleware struct {
	config  *config.Config
	service *Service
}

func NewMiddleware(cfg *config.Config, service *Service) *Middleware {
	return &Middleware{config: cfg, service: service}
}

// RequireAuth rejects requests without a valid bearer token. Public paths
// pass through unchanged, as does everything when auth is globally disabled.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.AuthRequired || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.bearerSubject(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth attaches the user identity when a bearer token is present and
// valid, lets anonymous requests through, and still rejects tokens that fail
// verification.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) || strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.bearerSubject(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// bearerSubject extracts and verifies the Authorization header, returning the
// token subject.
func (m *Middleware) bearerSubject(r *http.Request) (string, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", ErrInvalidToken
	}
	return m.service.VerifyJWT(token)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}

// isPublicPath marks routes that never need a token: health probes and the
// auth endpoints themselves.
func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/v1/auth/")
}
