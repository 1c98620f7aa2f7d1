// Package usage writes per-request audit records off the response path.
package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/recallwire/cms-api/pkg/models"
)

const insertTimeout = 5 * time.Second

// Store is the interface the recorder needs from the data layer.
type Store interface {
	InsertUsage(ctx context.Context, rec *models.UsageRecord) error
}

// Recorder buffers usage records and writes them from a background worker.
// Record never blocks and never fails the caller: a full buffer drops the
// record, a failed insert is logged and forgotten. Observability must not
// become a reliability hazard for the request path.
type Recorder struct {
	store Store
	ch    chan models.UsageRecord
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewRecorder creates a Recorder with the given buffer capacity.
func NewRecorder(store Store, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Recorder{
		store: store,
		ch:    make(chan models.UsageRecord, buffer),
	}
}

// Start launches the background writer. Non-blocking.
func (r *Recorder) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for rec := range r.ch {
			ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			if err := r.store.InsertUsage(ctx, &rec); err != nil {
				slog.Warn("usage record write failed",
					"endpoint", rec.Endpoint,
					"api_key_id", rec.APIKeyID,
					"error", err,
				)
			}
			cancel()
		}
	}()
}

// Record submits a usage record. It returns immediately; if the buffer is
// full the record is dropped with an operator log line.
func (r *Recorder) Record(rec models.UsageRecord) {
	select {
	case r.ch <- rec:
	default:
		slog.Warn("usage buffer full, dropping record",
			"endpoint", rec.Endpoint,
			"api_key_id", rec.APIKeyID,
		)
	}
}

// Shutdown stops accepting records and waits for the buffer to drain, or
// for ctx to expire, whichever comes first.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.ch) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
