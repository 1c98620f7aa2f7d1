package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

// HeaderAPIKey is the request header carrying the raw API key.
const HeaderAPIKey = "x-api-key"

// KeyStore is the interface the auth middleware needs from the data layer.
type KeyStore interface {
	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	TouchAPIKey(ctx context.Context, id uuid.UUID) error
}

// Auth provides API-key authentication middleware.
type Auth struct {
	store KeyStore
	now   func() time.Time
}

// NewAuth creates a new Auth middleware.
func NewAuth(s KeyStore) *Auth {
	return &Auth{store: s, now: time.Now}
}

// Authenticate validates the x-api-key header, looks up the key by its
// digest, and sets the key id and hash in the request context. Unknown,
// inactive, and expired keys all produce the same 401 so a caller cannot
// probe which of the three applies.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawKey := r.Header.Get(HeaderAPIKey)
		if rawKey == "" {
			response.Error(w, http.StatusUnauthorized, "Unauthorized", "Missing API key")
			return
		}

		key, err := a.store.GetAPIKeyByHash(r.Context(), HashKey(rawKey))
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired API key")
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Internal Server Error", "Failed to validate API key")
			return
		}

		// The hash matched a row: attribute the request even if the key
		// turns out to be revoked or expired.
		if meta := requestMeta(r); meta != nil {
			meta.KeyID = key.ID
			meta.Identified = true
		}

		if !key.IsActive || key.Expired(a.now()) {
			response.Error(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired API key")
			return
		}

		ctx := setKeyID(r.Context(), key.ID)
		ctx = setKeyHash(ctx, key.KeyHash)

		// Update last_used_at async
		go a.store.TouchAPIKey(context.Background(), key.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HashKey returns the deterministic digest under which a raw key is stored
// and looked up. Raw key material is never persisted or compared directly.
func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
