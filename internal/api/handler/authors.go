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

type AuthorStore interface {
	ListAuthors(ctx context.Context, filter store.AuthorFilter) ([]*models.Author, int, error)
	GetAuthor(ctx context.Context, ref store.Ref) (*models.Author, error)
	CreateAuthor(ctx context.Context, author *models.Author) error
	UpdateAuthor(ctx context.Context, id uuid.UUID, upd store.AuthorUpdate) (*models.Author, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) error
	CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

type Authors struct {
	store AuthorStore
	now   func() time.Time
}

func NewAuthors(s AuthorStore) *Authors {
	return &Authors{store: s, now: time.Now}
}

func (h *Authors) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AuthorFilter{
		IncludeInactive: q.Get("include_inactive") == "true" || q.Get("include_inactive") == "1",
	}
	filter.Limit, filter.Offset = pagination(r)

	authors, total, err := h.store.ListAuthors(r.Context(), filter)
	if err != nil {
		storeError(w, err)
		return
	}
	if authors == nil {
		authors = []*models.Author{}
	}
	response.List(w, authors, total, filter.Limit, filter.Offset)
}

func (h *Authors) Get(w http.ResponseWriter, r *http.Request) {
	author, err := h.store.GetAuthor(r.Context(), store.ParseRef(chi.URLParam(r, "authorRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, author)
}

type createAuthorRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	IsActive  *bool  `json:"is_active"`
}

func (h *Authors) Create(w http.ResponseWriter, r *http.Request) {
	var req createAuthorRequest
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

	now := h.now().UTC()
	author := &models.Author{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      req.Slug,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.IsActive != nil {
		author.IsActive = *req.IsActive
	}
	if err := h.store.CreateAuthor(r.Context(), author); err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, author)
}

type updateAuthorRequest struct {
	Name      *string `json:"name"`
	Slug      *string `json:"slug"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	IsActive  *bool   `json:"is_active"`
}

func (h *Authors) Update(w http.ResponseWriter, r *http.Request) {
	var req updateAuthorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prior, err := h.store.GetAuthor(r.Context(), store.ParseRef(chi.URLParam(r, "authorRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	author, err := h.store.UpdateAuthor(r.Context(), prior.ID, store.AuthorUpdate{
		Name:      req.Name,
		Slug:      req.Slug,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		IsActive:  req.IsActive,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, author)
}

func (h *Authors) Delete(w http.ResponseWriter, r *http.Request) {
	author, err := h.store.GetAuthor(r.Context(), store.ParseRef(chi.URLParam(r, "authorRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	n, err := h.store.CountPostsByAuthor(r.Context(), author.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if n > 0 {
		response.Error(w, http.StatusBadRequest, "Bad Request",
			fmt.Sprintf("Author has %d posts. Reassign or delete them first.", n))
		return
	}
	if err := h.store.DeleteAuthor(r.Context(), author.ID); err != nil {
		storeError(w, err)
		return
	}
	deleted(w, "Author")
}
