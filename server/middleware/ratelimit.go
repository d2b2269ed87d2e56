package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/kbukum/whispering/errors"
)

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	// RequestsPerMinute is the allowance per key. Zero disables limiting.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// PathPrefix restricts limiting to matching paths, e.g. "/api/".
	PathPrefix string `yaml:"path_prefix" mapstructure:"path_prefix"`
	// KeyFunc extracts the limit key. Defaults to the client IP.
	KeyFunc func(*http.Request) string `yaml:"-" mapstructure:"-"`
}

// RateLimit applies a sliding one-minute window per key. Every upstream call
// costs provider quota, so the transcription routes are limited per client.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.RequestsPerMinute <= 0 {
		return nil
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	rl := &rateLimiter{requests: make(map[string][]time.Time), limit: cfg.RequestsPerMinute, window: time.Minute}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, cfg.PathPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			if !rl.allow(cfg.KeyFunc(r), time.Now()) {
				w.Header().Set("Retry-After", "60")
				writeError(w, apperrors.New(apperrors.ErrCodeRateLimited, "Too many requests", http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the remote host without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func (rl *rateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.window)
	kept := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= rl.limit {
		rl.requests[key] = kept
		return false
	}
	rl.requests[key] = append(kept, now)
	return true
}
