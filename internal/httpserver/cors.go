package httpserver

import (
	"net/http"
	"strings"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
)

const (
	corsAllowMethods = "GET,POST,PATCH,DELETE,OPTIONS"
	corsAllowHeaders = "Authorization,Content-Type"
	corsMaxAge       = "600"
)

// originSet is the allowlist of browser origins, keyed by exact match.
type originSet map[string]struct{}

func newOriginSet(origins []string) originSet {
	set := make(originSet, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) contains(origin string) bool {
	_, ok := s[origin]
	return ok
}

// CORSMiddleware reflects allowed origins and answers preflight requests.
// Requests from origins outside the allowlist pass through without CORS
// headers; the browser enforces the block.
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	allowed := newOriginSet(cfg.CORSAllowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigin := origin != "" && allowed.contains(origin)

		if allowedOrigin {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			if cfg.CORSAllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions && origin != "" {
			if allowedOrigin {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
