package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/ratelimit"
)

// RateLimit enforces the per-key read/write quotas and attaches the
// X-RateLimit-* headers to every authenticated response.
type RateLimit struct {
	limiter ratelimit.Limiter
}

// NewRateLimit creates a new RateLimit middleware.
func NewRateLimit(l ratelimit.Limiter) *RateLimit {
	return &RateLimit{limiter: l}
}

// Limit applies rate limiting keyed on the hash set by auth middleware.
func (rl *RateLimit) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash, ok := getKeyHash(r)
		if !ok {
			// No key hash means auth middleware didn't run; pass through
			next.ServeHTTP(w, r)
			return
		}

		class := ratelimit.ClassForMethod(r.Method)
		res, err := rl.limiter.Check(r.Context(), hash, class)
		if err != nil {
			// On limiter error, allow the request (fail open)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset",
			strconv.FormatInt(time.Now().Add(res.RetryAfter).Unix(), 10))

		if !res.Allowed {
			retrySecs := int((res.RetryAfter + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(retrySecs))
			response.RateLimited(w,
				fmt.Sprintf("Rate limit exceeded for %s requests", class),
				res.RetryAfter.Milliseconds())
			return
		}

		next.ServeHTTP(w, r)
	})
}
