package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/middleware"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

func keysRouter(h *Keys) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/admin/keys", h.List)
	r.Post("/admin/keys", h.Create)
	r.Put("/admin/keys/{keyID}", h.Update)
	r.Delete("/admin/keys/{keyID}", h.Delete)
	r.Get("/admin/keys/{keyID}/usage", h.Usage)
	return r
}

func TestKeysCreate_ReturnsRawKeyOnce(t *testing.T) {
	var stored *models.APIKey
	fs := &fakeStore{createAPIKey: func(_ context.Context, k *models.APIKey) error {
		stored = k
		return nil
	}}
	h := NewKeys(fs)

	rec := httptest.NewRecorder()
	keysRouter(h).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/admin/keys", map[string]any{
		"name": "ingest worker",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	raw, _ := body["key"].(string)
	if !strings.HasPrefix(raw, "rw_") || len(raw) != 51 {
		t.Fatalf("unexpected raw key shape: %q", raw)
	}
	if stored.KeyHash != middleware.HashKey(raw) {
		t.Error("stored hash does not match the returned raw key")
	}
	if stored.KeyPrefix != raw[:keyPrefixLen] {
		t.Errorf("unexpected prefix %q for key %q", stored.KeyPrefix, raw)
	}
	if !stored.IsActive {
		t.Error("new keys must start active")
	}
	// The hash never leaves the server.
	if _, present := body["key_hash"]; present {
		t.Error("key_hash must not appear in responses")
	}
}

func TestKeysCreate_RequiresName(t *testing.T) {
	h := NewKeys(&fakeStore{})
	rec := httptest.NewRecorder()
	keysRouter(h).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/admin/keys", map[string]any{}))
	wantError(t, rec, http.StatusBadRequest, "name is required")
}

func TestKeysList_UsesCollectionEnvelope(t *testing.T) {
	fs := &fakeStore{listAPIKeys: func(_ context.Context) ([]*models.APIKey, error) {
		return []*models.APIKey{
			{ID: uuid.New(), Name: "ingest worker", KeyPrefix: "rw_00000000"},
			{ID: uuid.New(), Name: "dashboard", KeyPrefix: "rw_11111111"},
		}, nil
	}}
	h := NewKeys(fs)

	rec := httptest.NewRecorder()
	keysRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/keys?limit=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected enveloped data array, got %v", body)
	}
	if len(data) != 1 {
		t.Errorf("expected the window cut to 1 key, got %d", len(data))
	}
	if body["count"] != float64(2) {
		t.Errorf("expected count 2, got %v", body["count"])
	}
	if body["limit"] != float64(1) || body["offset"] != float64(0) {
		t.Errorf("unexpected window fields: limit=%v offset=%v", body["limit"], body["offset"])
	}
}

func TestKeysUpdate_Revoke(t *testing.T) {
	id := uuid.New()
	var gotUpd store.APIKeyUpdate
	fs := &fakeStore{updateAPIKey: func(_ context.Context, _ uuid.UUID, upd store.APIKeyUpdate) (*models.APIKey, error) {
		gotUpd = upd
		return &models.APIKey{ID: id, IsActive: false}, nil
	}}
	h := NewKeys(fs)

	rec := httptest.NewRecorder()
	keysRouter(h).ServeHTTP(rec, jsonRequest(t, http.MethodPut, "/admin/keys/"+id.String(), map[string]any{
		"is_active": false,
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUpd.IsActive == nil || *gotUpd.IsActive {
		t.Errorf("expected is_active=false update, got %+v", gotUpd)
	}
	if gotUpd.Name != nil {
		t.Error("name should be untouched when absent from the body")
	}
}

func TestKeysUsage_ListsRecords(t *testing.T) {
	id := uuid.New()
	fs := &fakeStore{listUsage: func(_ context.Context, keyID uuid.UUID, limit, offset int) ([]*models.UsageRecord, int, error) {
		if keyID != id {
			t.Errorf("unexpected key id %s", keyID)
		}
		return []*models.UsageRecord{
			{ID: 1, APIKeyID: keyID, Endpoint: "/api/v1/posts", Method: "GET", StatusCode: 200},
		}, 1, nil
	}}
	h := NewKeys(fs)

	rec := httptest.NewRecorder()
	keysRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/keys/"+id.String()+"/usage", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("expected count 1, got %v", body["count"])
	}
}

func TestKeysUsage_RequiresUUID(t *testing.T) {
	h := NewKeys(&fakeStore{})
	rec := httptest.NewRecorder()
	keysRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/keys/latest/usage", nil))
	wantError(t, rec, http.StatusBadRequest, "Key ID must be a valid UUID")
}
