package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/storage"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
	"github.com/recallwire/cms-api/pkg/slug"
)

type MediaStore interface {
	ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, int, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error)
	CreateMedia(ctx context.Context, media *models.Media) error
	UpdateMedia(ctx context.Context, id uuid.UUID, upd store.MediaUpdate) (*models.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// Media handles uploads. Bytes arrive base64-encoded in the JSON body and
// land in blob storage; the database row only carries metadata.
type Media struct {
	store MediaStore
	blobs storage.Store
	now   func() time.Time
}

func NewMedia(s MediaStore, blobs storage.Store) *Media {
	return &Media{store: s, blobs: blobs, now: time.Now}
}

func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	items, total, err := h.store.ListMedia(r.Context(), limit, offset)
	if err != nil {
		storeError(w, err)
		return
	}
	if items == nil {
		items = []*models.Media{}
	}
	response.List(w, items, total, limit, offset)
}

func (h *Media) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Media ID must be a valid UUID")
		return
	}
	item, err := h.store.GetMedia(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

type createMediaRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
	AltText     string `json:"alt_text"`
}

func (h *Media) Create(w http.ResponseWriter, r *http.Request) {
	var req createMediaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Filename == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "filename is required")
		return
	}
	if req.Data == "" {
		response.Error(w, http.StatusBadRequest, "Bad Request", "data is required")
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "data must be valid base64")
		return
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}

	now := h.now().UTC()
	blobPath := h.blobPath(now, req.Filename)
	if err := h.blobs.Put(r.Context(), blobPath, data); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	item := &models.Media{
		ID:          uuid.New(),
		Filename:    req.Filename,
		FilePath:    blobPath,
		FileURL:     h.blobs.URL(blobPath),
		ContentType: req.ContentType,
		SizeBytes:   int64(len(data)),
		AltText:     req.AltText,
		CreatedAt:   now,
	}
	if err := h.store.CreateMedia(r.Context(), item); err != nil {
		// The row failed, so the blob is an orphan. Clean it up best-effort.
		if derr := h.blobs.Delete(r.Context(), blobPath); derr != nil {
			slog.Warn("failed to remove orphaned blob", "path", blobPath, "error", derr)
		}
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, item)
}

type updateMediaRequest struct {
	Filename *string `json:"filename"`
	AltText  *string `json:"alt_text"`
}

// Update touches metadata only. Replacing the bytes means a new upload.
func (h *Media) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMediaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Media ID must be a valid UUID")
		return
	}
	item, err := h.store.UpdateMedia(r.Context(), id, store.MediaUpdate{
		Filename: req.Filename,
		AltText:  req.AltText,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// Delete removes the row first, then the blob. A blob the row no longer
// points at is unreachable garbage, which beats a row pointing at nothing.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Media ID must be a valid UUID")
		return
	}
	item, err := h.store.GetMedia(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	if err := h.store.DeleteMedia(r.Context(), item.ID); err != nil {
		storeError(w, err)
		return
	}
	if err := h.blobs.Delete(r.Context(), item.FilePath); err != nil {
		slog.Warn("failed to delete blob", "path", item.FilePath, "error", err)
	}
	deleted(w, "Media")
}

// blobPath builds a year/month-sharded key that cannot collide across
// concurrent uploads of the same filename.
func (h *Media) blobPath(now time.Time, filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	name := slug.Make(base)
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s/%d-%s-%s%s", now.Format("2006/01"), now.UnixNano(), randomHex(2), name, strings.ToLower(ext))
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
