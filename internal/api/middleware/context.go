package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestMetaKey contextKey = "request_meta"
	keyIDKey       contextKey = "api_key_id"
	keyHashKey     contextKey = "api_key_hash"
)

// RequestMeta is the mutable attribution slot the usage middleware installs
// before auth runs. Auth fills it whenever a key row resolves, valid or not,
// so denied attempts can still be attributed to the presented key.
type RequestMeta struct {
	KeyID      uuid.UUID
	Identified bool
}

func withRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, meta)
}

func requestMeta(r *http.Request) *RequestMeta {
	meta, _ := r.Context().Value(requestMetaKey).(*RequestMeta)
	return meta
}

func setKeyID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, keyIDKey, id)
}

// GetKeyID returns the authenticated API key id, if any.
func GetKeyID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(keyIDKey).(uuid.UUID)
	return id, ok
}

func setKeyHash(ctx context.Context, hash string) context.Context {
	return context.WithValue(ctx, keyHashKey, hash)
}

func getKeyHash(r *http.Request) (string, bool) {
	hash, ok := r.Context().Value(keyHashKey).(string)
	return hash, ok
}
