package models

import (
	"time"

	"github.com/google/uuid"
)

// Post statuses. Transitions are validated in the handlers; the store
// treats status as an opaque string.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post is a content article. Category and author references are optional;
// deleting a referenced category or author is rejected at the handler level.
type Post struct {
	ID               uuid.UUID  `db:"id"                 json:"id"`
	Title            string     `db:"title"              json:"title"`
	Slug             string     `db:"slug"               json:"slug"`
	Content          string     `db:"content"            json:"content"`
	Excerpt          string     `db:"excerpt"            json:"excerpt"`
	Status           string     `db:"status"             json:"status"`
	CategoryID       *uuid.UUID `db:"category_id"        json:"category_id,omitempty"`
	AuthorNameID     *uuid.UUID `db:"author_name_id"     json:"author_name_id,omitempty"`
	MetaTitle        string     `db:"meta_title"         json:"meta_title"`
	MetaDescription  string     `db:"meta_description"   json:"meta_description"`
	FeaturedImageURL string     `db:"featured_image_url" json:"featured_image_url"`
	PublishedAt      *time.Time `db:"published_at"       json:"published_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"         json:"updated_at"`
}

// ValidStatus reports whether s is a recognized post status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}
