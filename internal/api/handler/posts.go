package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
	"github.com/recallwire/cms-api/pkg/slug"
)

// PostStore is the slice of the store that post handlers need.
type PostStore interface {
	ListPosts(ctx context.Context, filter store.PostFilter) ([]*models.Post, int, error)
	GetPost(ctx context.Context, ref store.Ref) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, id uuid.UUID, upd store.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type Posts struct {
	store PostStore
	now   func() time.Time
}

func NewPosts(s PostStore) *Posts {
	return &Posts{store: s, now: time.Now}
}

func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PostFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Invalid status filter")
		return
	}
	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Bad Request", "category_id must be a valid UUID")
			return
		}
		filter.CategoryID = id
	}
	if v := q.Get("author_name_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Bad Request", "author_name_id must be a valid UUID")
			return
		}
		filter.AuthorNameID = id
	}
	filter.Limit, filter.Offset = pagination(r)

	posts, total, err := h.store.ListPosts(r.Context(), filter)
	if err != nil {
		storeError(w, err)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	response.List(w, posts, total, filter.Limit, filter.Offset)
}

func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	ref := store.ParseRef(chi.URLParam(r, "postRef"))
	post, err := h.store.GetPost(r.Context(), ref)
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, post)
}

type createPostRequest struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Content          string     `json:"content"`
	Excerpt          string     `json:"excerpt"`
	Status           string     `json:"status"`
	CategoryID       *uuid.UUID `json:"category_id"`
	AuthorNameID     *uuid.UUID `json:"author_name_id"`
	FeaturedImageURL string     `json:"featured_image_url"`
	MetaTitle        string     `json:"meta_title"`
	MetaDescription  string     `json:"meta_description"`
}

func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "title is required")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}
	if !models.ValidStatus(req.Status) {
		response.Error(w, http.StatusBadRequest, "Bad Request", "status must be draft, published, or archived")
		return
	}
	if req.Slug == "" {
		req.Slug = slug.Make(req.Title)
	}
	if req.Slug == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Cannot derive a slug from the title; provide one explicitly")
		return
	}

	now := h.now().UTC()
	post := &models.Post{
		ID:               uuid.New(),
		Title:            req.Title,
		Slug:             req.Slug,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		Status:           req.Status,
		CategoryID:       req.CategoryID,
		AuthorNameID:     req.AuthorNameID,
		FeaturedImageURL: req.FeaturedImageURL,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if post.Status == models.StatusPublished {
		post.PublishedAt = &now
	}

	if err := h.store.CreatePost(r.Context(), post); err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, post)
}

type updatePostRequest struct {
	Title            *string    `json:"title"`
	Slug             *string    `json:"slug"`
	Content          *string    `json:"content"`
	Excerpt          *string    `json:"excerpt"`
	Status           *string    `json:"status"`
	CategoryID       *uuid.UUID `json:"category_id"`
	AuthorNameID     *uuid.UUID `json:"author_name_id"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	MetaTitle        *string    `json:"meta_title"`
	MetaDescription  *string    `json:"meta_description"`
}

func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ref := store.ParseRef(chi.URLParam(r, "postRef"))
	prior, err := h.store.GetPost(r.Context(), ref)
	if err != nil {
		storeError(w, err)
		return
	}

	upd := store.PostUpdate{
		Title:            req.Title,
		Slug:             req.Slug,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		Status:           req.Status,
		CategoryID:       req.CategoryID,
		AuthorNameID:     req.AuthorNameID,
		FeaturedImageURL: req.FeaturedImageURL,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			response.Error(w, http.StatusBadRequest, "Bad Request", "status must be draft, published, or archived")
			return
		}
		// Any transition into published stamps the publication time.
		// Edits to an already-published post keep the existing stamp.
		if *req.Status == models.StatusPublished && prior.Status != models.StatusPublished {
			now := h.now().UTC()
			upd.PublishedAt = &now
		}
	}

	post, err := h.store.UpdatePost(r.Context(), prior.ID, upd)
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, post)
}

func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	ref := store.ParseRef(chi.URLParam(r, "postRef"))
	post, err := h.store.GetPost(r.Context(), ref)
	if err != nil {
		storeError(w, err)
		return
	}
	if err := h.store.DeletePost(r.Context(), post.ID); err != nil {
		storeError(w, err)
		return
	}
	deleted(w, "Post")
}
