package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLimiter keeps sliding windows as per-key timestamp slices guarded by
// a mutex. State is process-local: when the gateway runs as N instances the
// effective quota is N times the configured limit. Use the Redis limiter
// wherever that matters.
type MemoryLimiter struct {
	limits Limits

	mu      sync.Mutex
	windows map[string][]time.Time

	now func() time.Time
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(limits Limits) *MemoryLimiter {
	return &MemoryLimiter{
		limits:  limits,
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Check(_ context.Context, key string, class Class) (Result, error) {
	limit := l.limits.limitFor(class)
	bucket := fmt.Sprintf("%s:%s", key, class)
	now := l.now()
	windowStart := now.Add(-l.limits.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Discard timestamps that aged out of the window.
	kept := l.windows[bucket][:0]
	for _, t := range l.windows[bucket] {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.windows[bucket] = kept
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			RetryAfter: kept[0].Add(l.limits.Window).Sub(now),
		}, nil
	}

	kept = append(kept, now)
	l.windows[bucket] = kept
	return Result{
		Allowed:    true,
		Limit:      limit,
		Remaining:  limit - len(kept),
		RetryAfter: kept[0].Add(l.limits.Window).Sub(now),
	}, nil
}

func (l *MemoryLimiter) Ping(_ context.Context) error {
	return nil
}
