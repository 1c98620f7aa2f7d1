package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
	"github.com/recallwire/cms-api/pkg/slug"
)

type TagStore interface {
	ListTags(ctx context.Context, limit, offset int) ([]*models.Tag, int, error)
	GetTag(ctx context.Context, ref store.Ref) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	UpdateTag(ctx context.Context, id uuid.UUID, upd store.TagUpdate) (*models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	CountTagLinks(ctx context.Context, tagID uuid.UUID) (int, error)
}

type Tags struct {
	store TagStore
	now   func() time.Time
}

func NewTags(s TagStore) *Tags {
	return &Tags{store: s, now: time.Now}
}

func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tags, total, err := h.store.ListTags(r.Context(), limit, offset)
	if err != nil {
		storeError(w, err)
		return
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	response.List(w, tags, total, limit, offset)
}

func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
	tag, err := h.store.GetTag(r.Context(), store.ParseRef(chi.URLParam(r, "tagRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, tag)
}

type createTagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "name is required")
		return
	}
	if req.Slug == "" {
		req.Slug = slug.Make(req.Name)
	}
	if req.Slug == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Cannot derive a slug from the name; provide one explicitly")
		return
	}

	tag := &models.Tag{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      req.Slug,
		CreatedAt: h.now().UTC(),
	}
	if err := h.store.CreateTag(r.Context(), tag); err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, tag)
}

type updateTagRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prior, err := h.store.GetTag(r.Context(), store.ParseRef(chi.URLParam(r, "tagRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	tag, err := h.store.UpdateTag(r.Context(), prior.ID, store.TagUpdate{Name: req.Name, Slug: req.Slug})
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, tag)
}

func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	tag, err := h.store.GetTag(r.Context(), store.ParseRef(chi.URLParam(r, "tagRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	n, err := h.store.CountTagLinks(r.Context(), tag.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if n > 0 {
		response.Error(w, http.StatusBadRequest, "Bad Request",
			fmt.Sprintf("Tag is attached to %d posts. Detach it from them first.", n))
		return
	}
	if err := h.store.DeleteTag(r.Context(), tag.ID); err != nil {
		storeError(w, err)
		return
	}
	deleted(w, "Tag")
}
