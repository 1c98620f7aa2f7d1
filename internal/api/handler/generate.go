package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/content"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
	"github.com/recallwire/cms-api/pkg/slug"
)

type GenerateStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetTag(ctx context.Context, ref store.Ref) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
}

// Generate drives the content-generation collaborator and saves the
// result as a draft post with the suggested tags attached.
type Generate struct {
	store GenerateStore
	gen   content.Generator
	now   func() time.Time
}

// NewGenerate creates the handler. gen may be nil when no generation
// service is configured; requests then fail with 503.
func NewGenerate(s GenerateStore, gen content.Generator) *Generate {
	return &Generate{store: s, gen: gen, now: time.Now}
}

type generateRequest struct {
	Topic              string `json:"topic"`
	TargetKeyword      string `json:"target_keyword"`
	WordCountMin       int    `json:"word_count_min"`
	WordCountMax       int    `json:"word_count_max"`
	CustomInstructions string `json:"custom_instructions"`
}

func (h *Generate) Post(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		response.Error(w, http.StatusServiceUnavailable, "Service Unavailable", "Content generation is not configured")
		return
	}
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Topic == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "topic is required")
		return
	}

	result, err := h.gen.GeneratePost(r.Context(), content.GenerateRequest{
		Topic:              req.Topic,
		TargetKeyword:      req.TargetKeyword,
		WordCountMin:       req.WordCountMin,
		WordCountMax:       req.WordCountMax,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		if errors.Is(err, content.ErrUnavailable) {
			response.Error(w, http.StatusServiceUnavailable, "Service Unavailable", "Content generation service is unreachable")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	postSlug := slug.Make(result.Title)
	if postSlug == "" {
		postSlug = uuid.NewString()
	}
	now := h.now().UTC()
	post := &models.Post{
		ID:              uuid.New(),
		Title:           result.Title,
		Slug:            postSlug,
		Content:         result.Content,
		Excerpt:         result.Excerpt,
		Status:          models.StatusDraft,
		MetaTitle:       result.MetaTitle,
		MetaDescription: result.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.store.CreatePost(r.Context(), post); err != nil {
		storeError(w, err)
		return
	}

	tagIDs, err := h.ensureTags(r.Context(), result.SuggestedTags)
	if err != nil {
		storeError(w, err)
		return
	}
	if len(tagIDs) > 0 {
		if err := h.store.ReplacePostTags(r.Context(), post.ID, tagIDs); err != nil {
			storeError(w, err)
			return
		}
	}
	response.JSON(w, http.StatusCreated, post)
}

// ensureTags resolves suggested tag names to ids, creating tags that do
// not exist yet. Names that collapse to the same slug dedupe to one tag.
func (h *Generate) ensureTags(ctx context.Context, names []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	seen := make(map[string]bool)
	for _, name := range names {
		s := slug.Make(name)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true

		tag, err := h.store.GetTag(ctx, store.Ref{Slug: s})
		if errors.Is(err, store.ErrNotFound) {
			tag = &models.Tag{ID: uuid.New(), Name: name, Slug: s, CreatedAt: h.now().UTC()}
			err = h.store.CreateTag(ctx, tag)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
