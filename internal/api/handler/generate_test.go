package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/content"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

type mockGenerator struct {
	postFn func(ctx context.Context, req content.GenerateRequest) (*content.GenerateResult, error)
}

func (m *mockGenerator) GeneratePost(ctx context.Context, req content.GenerateRequest) (*content.GenerateResult, error) {
	return m.postFn(ctx, req)
}

func (m *mockGenerator) GenerateImage(_ context.Context, _ string) (*content.ImageResult, error) {
	return nil, content.ErrUnavailable
}

func TestGenerate_UnconfiguredReturns503(t *testing.T) {
	h := NewGenerate(&fakeStore{}, nil)
	rec := httptest.NewRecorder()
	h.Post(rec, jsonRequest(t, http.MethodPost, "/posts/generate", map[string]any{"topic": "listeria"}))
	wantError(t, rec, http.StatusServiceUnavailable, "Content generation is not configured")
}

func TestGenerate_RequiresTopic(t *testing.T) {
	h := NewGenerate(&fakeStore{}, &mockGenerator{})
	rec := httptest.NewRecorder()
	h.Post(rec, jsonRequest(t, http.MethodPost, "/posts/generate", map[string]any{}))
	wantError(t, rec, http.StatusBadRequest, "topic is required")
}

func TestGenerate_CreatesDraftWithSuggestedTags(t *testing.T) {
	existing := &models.Tag{ID: uuid.New(), Name: "Recalls", Slug: "recalls"}

	var createdPost *models.Post
	var createdTags []*models.Tag
	var linkedIDs []uuid.UUID
	fs := &fakeStore{
		createPost: func(_ context.Context, p *models.Post) error {
			createdPost = p
			return nil
		},
		getTag: func(_ context.Context, ref store.Ref) (*models.Tag, error) {
			if ref.Slug == existing.Slug {
				return existing, nil
			}
			return nil, store.ErrNotFound
		},
		createTag: func(_ context.Context, tag *models.Tag) error {
			createdTags = append(createdTags, tag)
			return nil
		},
		replacePostTags: func(_ context.Context, _ uuid.UUID, tagIDs []uuid.UUID) error {
			linkedIDs = tagIDs
			return nil
		},
	}
	gen := &mockGenerator{postFn: func(_ context.Context, req content.GenerateRequest) (*content.GenerateResult, error) {
		if req.Topic != "e. coli outbreak" {
			t.Errorf("unexpected topic: %q", req.Topic)
		}
		return &content.GenerateResult{
			Title:         "E. Coli Outbreak Traced to Spinach",
			Content:       "Long article body.",
			Excerpt:       "Outbreak traced.",
			SuggestedTags: []string{"Recalls", "E. Coli", "recalls"},
		}, nil
	}}
	h := NewGenerate(fs, gen)

	rec := httptest.NewRecorder()
	h.Post(rec, jsonRequest(t, http.MethodPost, "/posts/generate", map[string]any{
		"topic": "e. coli outbreak",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if createdPost.Status != models.StatusDraft {
		t.Errorf("generated posts must land as drafts, got %q", createdPost.Status)
	}
	if createdPost.Slug != "e-coli-outbreak-traced-to-spinach" {
		t.Errorf("unexpected slug: %q", createdPost.Slug)
	}
	if len(createdTags) != 1 || createdTags[0].Slug != "e-coli" {
		t.Errorf("expected one new tag e-coli, got %+v", createdTags)
	}
	// "Recalls" and "recalls" collapse to the existing tag; only two links total.
	if len(linkedIDs) != 2 {
		t.Errorf("expected 2 linked tags, got %d", len(linkedIDs))
	}
	if len(linkedIDs) == 2 && linkedIDs[0] != existing.ID {
		t.Errorf("expected the existing tag to be reused, got %v", linkedIDs)
	}
}

func TestGenerate_ServiceUnreachable(t *testing.T) {
	gen := &mockGenerator{postFn: func(_ context.Context, _ content.GenerateRequest) (*content.GenerateResult, error) {
		return nil, content.ErrUnavailable
	}}
	h := NewGenerate(&fakeStore{}, gen)

	rec := httptest.NewRecorder()
	h.Post(rec, jsonRequest(t, http.MethodPost, "/posts/generate", map[string]any{"topic": "x"}))
	wantError(t, rec, http.StatusServiceUnavailable, "Content generation service is unreachable")
}
