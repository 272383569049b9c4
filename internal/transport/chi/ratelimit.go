package chi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by every caller of the routes it guards.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter returns a limiter allowing rps requests per second with the
// given burst. rps <= 0 disables limiting and returns nil.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Middleware rejects requests over the limit with 429. A nil limiter passes everything.
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, ErrorCodeRateLimited, "rate limited")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
