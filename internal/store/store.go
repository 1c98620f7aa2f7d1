package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recallwire/cms-api/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")
var ErrInvalidReference = errors.New("referenced resource does not exist")

// Ref identifies a row by either its UUID or its slug. The variant is decided
// once when the path segment is parsed; lookups never re-sniff the string.
type Ref struct {
	ID   uuid.UUID
	Slug string
}

// ParseRef returns a UUID ref when the segment parses as a UUID and a slug
// ref otherwise.
func ParseRef(segment string) Ref {
	if id, err := uuid.Parse(segment); err == nil {
		return Ref{ID: id}
	}
	return Ref{Slug: segment}
}

// IsID reports whether the ref carries a UUID rather than a slug.
func (r Ref) IsID() bool {
	return r.Slug == ""
}

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	TouchAPIKey(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	UpdateAPIKey(ctx context.Context, id uuid.UUID, upd APIKeyUpdate) (*models.APIKey, error)
	DeleteAPIKey(ctx context.Context, id uuid.UUID) error

	InsertUsage(ctx context.Context, rec *models.UsageRecord) error
	ListUsage(ctx context.Context, keyID uuid.UUID, limit, offset int) ([]*models.UsageRecord, int, error)

	ListPosts(ctx context.Context, filter PostFilter) ([]*models.Post, int, error)
	GetPost(ctx context.Context, ref Ref) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, id uuid.UUID, upd PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	CountPostsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)

	ListPostTags(ctx context.Context, postID uuid.UUID) ([]*models.Tag, error)
	ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error
	CountTagLinks(ctx context.Context, tagID uuid.UUID) (int, error)

	ListTags(ctx context.Context, limit, offset int) ([]*models.Tag, int, error)
	GetTag(ctx context.Context, ref Ref) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	UpdateTag(ctx context.Context, id uuid.UUID, upd TagUpdate) (*models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

	ListAuthors(ctx context.Context, filter AuthorFilter) ([]*models.Author, int, error)
	GetAuthor(ctx context.Context, ref Ref) (*models.Author, error)
	CreateAuthor(ctx context.Context, author *models.Author) error
	UpdateAuthor(ctx context.Context, id uuid.UUID, upd AuthorUpdate) (*models.Author, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, int, error)
	GetCategory(ctx context.Context, ref Ref) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, upd CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, int, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error)
	CreateMedia(ctx context.Context, media *models.Media) error
	UpdateMedia(ctx context.Context, id uuid.UUID, upd MediaUpdate) (*models.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// PostFilter narrows the post collection listing. Zero values mean "no filter".
type PostFilter struct {
	Status       string
	CategoryID   uuid.UUID
	AuthorNameID uuid.UUID
	Search       string
	Limit        int
	Offset       int
}

// Update structs carry partial updates: only non-nil fields touch the row.
// A nil pointer means "leave as is", so a JSON null in a PUT body is treated
// the same as omitting the field. Nullable columns such as a post's
// category_id or a key's expires_at cannot be cleared back to null through
// these structs; that needs a dedicated operation if it is ever wanted.

type APIKeyUpdate struct {
	Name      *string
	IsActive  *bool
	ExpiresAt *time.Time
}

type PostUpdate struct {
	Title            *string
	Slug             *string
	Content          *string
	Excerpt          *string
	Status           *string
	CategoryID       *uuid.UUID
	AuthorNameID     *uuid.UUID
	MetaTitle        *string
	MetaDescription  *string
	FeaturedImageURL *string
	PublishedAt      *time.Time
}

type TagUpdate struct {
	Name *string
	Slug *string
}

type AuthorUpdate struct {
	Name      *string
	Slug      *string
	Bio       *string
	AvatarURL *string
	IsActive  *bool
}

type CategoryUpdate struct {
	Name        *string
	Slug        *string
	Description *string
}

type MediaUpdate struct {
	Filename *string
	AltText  *string
}

// AuthorFilter controls the author collection listing.
type AuthorFilter struct {
	IncludeInactive bool
	Limit           int
	Offset          int
}
