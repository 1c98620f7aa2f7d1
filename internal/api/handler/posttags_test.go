package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

func postTagsRouter(h *PostTags) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/posts/{postRef}/tags", h.List)
	r.Post("/posts/{postRef}/tags", h.Replace)
	r.Delete("/posts/{postRef}/tags/{tagID}", h.Remove)
	return r
}

func TestPostTagsReplace_SwapsFullSet(t *testing.T) {
	postID := uuid.New()
	newTags := []uuid.UUID{uuid.New(), uuid.New()}

	var gotIDs []uuid.UUID
	fs := &fakeStore{
		getPost: func(_ context.Context, _ store.Ref) (*models.Post, error) {
			return &models.Post{ID: postID}, nil
		},
		replacePostTags: func(_ context.Context, _ uuid.UUID, tagIDs []uuid.UUID) error {
			gotIDs = tagIDs
			return nil
		},
		listPostTags: func(_ context.Context, _ uuid.UUID) ([]*models.Tag, error) {
			return []*models.Tag{{ID: newTags[0]}, {ID: newTags[1]}}, nil
		},
	}
	h := NewPostTags(fs)

	rec := httptest.NewRecorder()
	postTagsRouter(h).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/posts/"+postID.String()+"/tags", map[string]any{
		"tag_ids": newTags,
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(gotIDs) != 2 || gotIDs[0] != newTags[0] || gotIDs[1] != newTags[1] {
		t.Errorf("unexpected tag ids passed to store: %v", gotIDs)
	}
}

func TestPostTagsReplace_EmptyListDetachesAll(t *testing.T) {
	postID := uuid.New()
	called := false
	fs := &fakeStore{
		getPost: func(_ context.Context, _ store.Ref) (*models.Post, error) {
			return &models.Post{ID: postID}, nil
		},
		replacePostTags: func(_ context.Context, _ uuid.UUID, tagIDs []uuid.UUID) error {
			called = true
			if len(tagIDs) != 0 {
				t.Errorf("expected empty tag list, got %v", tagIDs)
			}
			return nil
		},
		listPostTags: func(_ context.Context, _ uuid.UUID) ([]*models.Tag, error) { return nil, nil },
	}
	h := NewPostTags(fs)

	rec := httptest.NewRecorder()
	postTagsRouter(h).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/posts/"+postID.String()+"/tags", map[string]any{
		"tag_ids": []string{},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !called {
		t.Error("expected ReplacePostTags to be called")
	}
	if rec.Body.String() != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestPostTagsReplace_UnknownTagID(t *testing.T) {
	fs := &fakeStore{
		getPost: func(_ context.Context, _ store.Ref) (*models.Post, error) {
			return &models.Post{ID: uuid.New()}, nil
		},
		replacePostTags: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
			return store.ErrInvalidReference
		},
	}
	h := NewPostTags(fs)

	rec := httptest.NewRecorder()
	postTagsRouter(h).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/posts/some-post/tags", map[string]any{
		"tag_ids": []uuid.UUID{uuid.New()},
	}))
	wantError(t, rec, http.StatusBadRequest, "Referenced resource does not exist")
}

func TestPostTagsRemove_RequiresUUID(t *testing.T) {
	h := NewPostTags(&fakeStore{})
	rec := httptest.NewRecorder()
	postTagsRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/posts/some-post/tags/not-a-uuid", nil))
	wantError(t, rec, http.StatusBadRequest, "Tag ID must be a valid UUID")
}
