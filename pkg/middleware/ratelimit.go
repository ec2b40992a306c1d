package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"skylarkhq/perch/pkg/config"
)

// window tracks one client's request count within the current fixed
// window.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter enforces a fixed-window request limit per originating
// client. Counters reset when their window expires; expired windows
// are reclaimed by Sweep.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window

	limit      int
	windowSize time.Duration
	message    string

	// now is replaceable for tests.
	now func() time.Time
}

// NewRateLimiter creates a fixed-window rate limiter from config.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		clients:    make(map[string]*window),
		limit:      cfg.MaxRequests,
		windowSize: cfg.Window,
		message:    cfg.Message,
		now:        time.Now,
	}
}

// Allow records one request for the client and reports whether it is
// within the window's limit. The first request past the limit and all
// subsequent ones in the same window are rejected.
func (rl *RateLimiter) Allow(client string) (allowed bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[client]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(rl.windowSize)}
		rl.clients[client] = w
	}

	w.count++
	if w.count > rl.limit {
		return false, 0, w.resetAt
	}
	return true, rl.limit - w.count, w.resetAt
}

// Sweep removes expired windows and returns how many were reclaimed.
// It is run periodically by the maintenance scheduler so that clients
// seen once do not accumulate forever.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for client, w := range rl.clients {
		if now.After(w.resetAt) {
			delete(rl.clients, client)
			removed++
		}
	}
	return removed
}

// Middleware limits requests on paths under prefix. Requests beyond
// the limit receive a 429 with the configured message and never reach
// downstream stages. Other paths pass through untouched.
func (rl *RateLimiter) Middleware(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !underPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetAt := rl.Allow(clientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": rl.message})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP identifies the originating client: the first hop of
// X-Forwarded-For when present, otherwise the remote address host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
