// Package ratelimit provides per-key sliding-window admission control with
// independent read and write traffic classes.
package ratelimit

import (
	"context"
	"net/http"
	"time"
)

// Class selects which quota applies to a request.
type Class string

const (
	Read  Class = "read"
	Write Class = "write"
)

// ClassForMethod maps an HTTP method to its traffic class. GET and HEAD are
// reads; everything else mutates.
func ClassForMethod(method string) Class {
	switch method {
	case http.MethodGet, http.MethodHead:
		return Read
	default:
		return Write
	}
}

// Result reports the outcome of a quota check. Limit and Remaining feed the
// X-RateLimit-* response headers; RetryAfter is how long until the oldest
// admitted request ages out of the window.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits at most N requests per key per class in any trailing
// window. Implementations must be safe for concurrent use. A denied request
// must not extend the denial window.
type Limiter interface {
	Check(ctx context.Context, key string, class Class) (Result, error)
	Ping(ctx context.Context) error
}

// Limits holds the per-class quotas and the shared window length.
type Limits struct {
	Read   int
	Write  int
	Window time.Duration
}

func (l Limits) limitFor(class Class) int {
	if class == Write {
		return l.Write
	}
	return l.Read
}
