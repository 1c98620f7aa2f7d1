package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallwire/cms-api/internal/api"
	"github.com/recallwire/cms-api/internal/api/handler"
	mw "github.com/recallwire/cms-api/internal/api/middleware"
	"github.com/recallwire/cms-api/internal/ratelimit"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

// stubKeyStore recognizes a single raw key.
type stubKeyStore struct {
	key *models.APIKey
}

func (s *stubKeyStore) GetAPIKeyByHash(_ context.Context, hash string) (*models.APIKey, error) {
	if s.key != nil && s.key.KeyHash == hash {
		return s.key, nil
	}
	return nil, store.ErrNotFound
}

func (s *stubKeyStore) TouchAPIKey(_ context.Context, _ uuid.UUID) error { return nil }

// stubPostStore serves an empty post collection.
type stubPostStore struct{}

func (s *stubPostStore) ListPosts(_ context.Context, _ store.PostFilter) ([]*models.Post, int, error) {
	return nil, 0, nil
}
func (s *stubPostStore) GetPost(_ context.Context, _ store.Ref) (*models.Post, error) {
	return nil, store.ErrNotFound
}
func (s *stubPostStore) CreatePost(_ context.Context, _ *models.Post) error { return nil }
func (s *stubPostStore) UpdatePost(_ context.Context, _ uuid.UUID, _ store.PostUpdate) (*models.Post, error) {
	return nil, store.ErrNotFound
}
func (s *stubPostStore) DeletePost(_ context.Context, _ uuid.UUID) error { return nil }

type recordingSubmitter struct {
	records []models.UsageRecord
}

func (r *recordingSubmitter) Record(rec models.UsageRecord) {
	r.records = append(r.records, rec)
}

const rawTestKey = "rw_0123456789abcdef0123456789abcdef0123456789abcdef"

func testRouter(t *testing.T) (http.Handler, *recordingSubmitter, *models.APIKey) {
	t.Helper()

	key := &models.APIKey{
		ID:       uuid.New(),
		Name:     "router test",
		KeyHash:  mw.HashKey(rawTestKey),
		IsActive: true,
	}
	sub := &recordingSubmitter{}
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Limits{Read: 10, Write: 2, Window: time.Second})

	deps := api.Dependencies{
		Usage:     mw.NewUsage(sub),
		Auth:      mw.NewAuth(&stubKeyStore{key: key}),
		RateLimit: mw.NewRateLimit(limiter),
		Health: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		Posts: handler.NewPosts(&stubPostStore{}),
	}
	return api.NewRouter(deps), sub, key
}

func errorShape(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error, env.Message
}

func TestRouterHealthIsPublic(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterProtectedRouteRequiresKey(t *testing.T) {
	router, sub, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	kind, msg := errorShape(t, rec)
	assert.Equal(t, "Unauthorized", kind)
	assert.Equal(t, "Missing API key", msg)
	assert.Empty(t, sub.records, "anonymous requests have no key to attribute")
}

func TestRouterValidKeyFlowsThrough(t *testing.T) {
	router, sub, key := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	r.Header.Set(mw.HeaderAPIKey, rawTestKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))

	require.Len(t, sub.records, 1)
	assert.Equal(t, key.ID, sub.records[0].APIKeyID)
	assert.Equal(t, "/api/v1/posts", sub.records[0].Endpoint)
	assert.Equal(t, http.StatusOK, sub.records[0].StatusCode)
}

func TestRouterRateLimitAcrossRequests(t *testing.T) {
	router, _, _ := testRouter(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 10; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
		r.Header.Set(mw.HeaderAPIKey, rawTestKey)
		last = httptest.NewRecorder()
		router.ServeHTTP(last, r)
		require.Equal(t, http.StatusOK, last.Code)
	}
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	r.Header.Set(mw.HeaderAPIKey, rawTestKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	var body struct {
		RetryAfterMs int64 `json:"retry_after_ms"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Greater(t, body.RetryAfterMs, int64(0))
}

func TestRouterUnknownRouteIsJSON(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/frogs", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	kind, _ := errorShape(t, rec)
	assert.Equal(t, "Not Found", kind)
}

func TestRouterDeniedRequestStillRecorded(t *testing.T) {
	router, sub, key := testRouter(t)
	key.IsActive = false

	r := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	r.Header.Set(mw.HeaderAPIKey, rawTestKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Len(t, sub.records, 1)
	assert.Equal(t, key.ID, sub.records[0].APIKeyID)
	assert.Equal(t, http.StatusUnauthorized, sub.records[0].StatusCode)
}
