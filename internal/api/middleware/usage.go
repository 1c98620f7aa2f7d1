package middleware

import (
	"net/http"
	"time"

	"github.com/recallwire/cms-api/pkg/models"
)

// Submitter is the interface the usage middleware needs from the recorder.
type Submitter interface {
	Record(rec models.UsageRecord)
}

// Usage captures one audit record per request attributed to an API key.
// It sits outside the auth middleware so that denied requests are still
// recorded when the presented key resolved to a row.
type Usage struct {
	recorder Submitter
}

// NewUsage creates a new Usage middleware.
func NewUsage(rec Submitter) *Usage {
	return &Usage{recorder: rec}
}

// Track installs the attribution slot, runs the rest of the chain, and
// submits the record after the response was written. Submission is
// fire-and-forget; it cannot delay or fail the response.
func (u *Usage) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := &RequestMeta{}
		r = r.WithContext(withRequestMeta(r.Context(), meta))

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if !meta.Identified {
			// No key resolved, nothing to attribute the request to.
			return
		}

		u.recorder.Record(models.UsageRecord{
			APIKeyID:       meta.KeyID,
			Endpoint:       r.URL.Path,
			Method:         r.Method,
			StatusCode:     rec.status,
			ResponseTimeMs: int(time.Since(start).Milliseconds()),
			CreatedAt:      time.Now().UTC(),
		})
	})
}
