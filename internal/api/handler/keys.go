package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/middleware"
	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

const keyPrefixLen = 11 // "rw_" plus the first 8 hex characters

type KeyStore interface {
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	UpdateAPIKey(ctx context.Context, id uuid.UUID, upd store.APIKeyUpdate) (*models.APIKey, error)
	DeleteAPIKey(ctx context.Context, id uuid.UUID) error
	ListUsage(ctx context.Context, keyID uuid.UUID, limit, offset int) ([]*models.UsageRecord, int, error)
}

// Keys is the admin surface for API key management.
type Keys struct {
	store KeyStore
	now   func() time.Time
}

func NewKeys(s KeyStore) *Keys {
	return &Keys{store: s, now: time.Now}
}

type createKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type createKeyResponse struct {
	*models.APIKey
	Key string `json:"key"`
}

// Create mints a key and returns the raw value exactly once. Only the
// hash survives; a lost key is replaced, not recovered.
func (h *Keys) Create(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "name is required")
		return
	}

	raw, err := generateKey()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	key := &models.APIKey{
		ID:        uuid.New(),
		Name:      req.Name,
		KeyHash:   middleware.HashKey(raw),
		KeyPrefix: raw[:keyPrefixLen],
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: h.now().UTC(),
	}
	if err := h.store.CreateAPIKey(r.Context(), key); err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, createKeyResponse{APIKey: key, Key: raw})
}

func (h *Keys) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	// The key set is small, so the window is cut here rather than in SQL.
	total := len(keys)
	if offset >= total {
		keys = nil
	} else {
		keys = keys[offset:]
	}
	if len(keys) > limit {
		keys = keys[:limit]
	}
	if keys == nil {
		keys = []*models.APIKey{}
	}
	response.List(w, keys, total, limit, offset)
}

type updateKeyRequest struct {
	Name      *string    `json:"name"`
	IsActive  *bool      `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *Keys) Update(w http.ResponseWriter, r *http.Request) {
	var req updateKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Key ID must be a valid UUID")
		return
	}
	key, err := h.store.UpdateAPIKey(r.Context(), id, store.APIKeyUpdate{
		Name:      req.Name,
		IsActive:  req.IsActive,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, key)
}

func (h *Keys) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Key ID must be a valid UUID")
		return
	}
	if err := h.store.DeleteAPIKey(r.Context(), id); err != nil {
		storeError(w, err)
		return
	}
	deleted(w, "API key")
}

func (h *Keys) Usage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Key ID must be a valid UUID")
		return
	}
	limit, offset := pagination(r)
	records, total, err := h.store.ListUsage(r.Context(), id, limit, offset)
	if err != nil {
		storeError(w, err)
		return
	}
	if records == nil {
		records = []*models.UsageRecord{}
	}
	response.List(w, records, total, limit, offset)
}

// generateKey returns a fresh raw key: "rw_" plus 48 hex characters.
func generateKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "rw_" + hex.EncodeToString(b), nil
}
