package httpserver

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
)

// cleanupInterval is how many getLimiter calls pass between idle-bucket sweeps.
const cleanupInterval = 1000

type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	counter  atomic.Int64
}

func newRateLimiterStore(rps int, burst int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (s *rateLimiterStore) allow(ip string) bool {
	return s.getLimiter(ip).Allow()
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(s.rps, s.burst)
		s.limiters[ip] = limiter
	}

	if s.counter.Add(1)%cleanupInterval == 0 {
		s.evictIdle()
	}

	return limiter
}

// evictIdle drops IPs whose bucket has refilled completely, keeping the map
// bounded under churny client populations. Caller holds the lock.
func (s *rateLimiterStore) evictIdle() {
	for ip, limiter := range s.limiters {
		if limiter.Tokens() >= float64(s.burst) {
			delete(s.limiters, ip)
		}
	}
}

// RateLimitMiddleware enforces a per-IP token bucket. With RateLimitRPS <= 0
// it returns next unchanged.
func RateLimitMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.RateLimitRPS <= 0 {
		return next
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}
	store := newRateLimiterStore(cfg.RateLimitRPS, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !store.allow(extractIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":"rate_limited","message":"Too many requests"}}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractIP prefers the first X-Forwarded-For hop for proxied setups and
// falls back to the connection's remote address.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
