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

type CategoryStore interface {
	ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, int, error)
	GetCategory(ctx context.Context, ref store.Ref) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, upd store.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountPostsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type Categories struct {
	store CategoryStore
	now   func() time.Time
}

func NewCategories(s CategoryStore) *Categories {
	return &Categories{store: s, now: time.Now}
}

func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	categories, total, err := h.store.ListCategories(r.Context(), limit, offset)
	if err != nil {
		storeError(w, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	response.List(w, categories, total, limit, offset)
}

func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.store.GetCategory(r.Context(), store.ParseRef(chi.URLParam(r, "categoryRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, category)
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
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
	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prior, err := h.store.GetCategory(r.Context(), store.ParseRef(chi.URLParam(r, "categoryRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	category, err := h.store.UpdateCategory(r.Context(), prior.ID, store.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, category)
}

func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	category, err := h.store.GetCategory(r.Context(), store.ParseRef(chi.URLParam(r, "categoryRef")))
	if err != nil {
		storeError(w, err)
		return
	}
	n, err := h.store.CountPostsByCategory(r.Context(), category.ID)
	if err != nil {
		storeError(w, err)
		return
	}
	if n > 0 {
		response.Error(w, http.StatusBadRequest, "Bad Request",
			fmt.Sprintf("Category has %d posts. Reassign or delete them first.", n))
		return
	}
	if err := h.store.DeleteCategory(r.Context(), category.ID); err != nil {
		storeError(w, err)
		return
	}
	deleted(w, "Category")
}
