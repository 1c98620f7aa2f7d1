package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

type PostTagStore interface {
	GetPost(ctx context.Context, ref store.Ref) (*models.Post, error)
	ListPostTags(ctx context.Context, postID uuid.UUID) ([]*models.Tag, error)
	ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error
}

// PostTags serves the tag attachment sub-resource under a post.
type PostTags struct {
	store PostTagStore
}

func NewPostTags(s PostTagStore) *PostTags {
	return &PostTags{store: s}
}

func (h *PostTags) List(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPost(r.Context(), store.ParseRef(chi.URLParam(r, "postRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	tags, err := h.store.ListPostTags(r.Context(), post.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	response.JSON(w, http.StatusOK, tags)
}

type replacePostTagsRequest struct {
	TagIDs []uuid.UUID `json:"tag_ids"`
}

// Replace swaps the post's full tag set for the submitted one. An empty
// tag_ids list detaches everything.
func (h *PostTags) Replace(w http.ResponseWriter, r *http.Request) {
	var req replacePostTagsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	post, err := h.store.GetPost(r.Context(), store.ParseRef(chi.URLParam(r, "postRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	if err := h.store.ReplacePostTags(r.Context(), post.ID, req.TagIDs); err != nil {
		storeError(w, err)
		return
	}
	tags, err := h.store.ListPostTags(r.Context(), post.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	response.JSON(w, http.StatusOK, tags)
}

func (h *PostTags) Remove(w http.ResponseWriter, r *http.Request) {
	tagID, err := uuid.Parse(chi.URLParam(r, "tagID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Tag ID must be a valid UUID")
		return
	}
	post, err := h.store.GetPost(r.Context(), store.ParseRef(chi.URLParam(r, "postRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	if err := h.store.RemovePostTag(r.Context(), post.ID, tagID); err != nil {
		storeError(w, err)
		return
	}
	deleted(w, "Tag attachment")
}
