package models

import (
	"time"

	"github.com/google/uuid"
)

// Author is a content byline. Inactive authors are hidden from the default
// collection listing but remain addressable by id or slug.
type Author struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Slug      string    `db:"slug"       json:"slug"`
	Bio       string    `db:"bio"        json:"bio"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	IsActive  bool      `db:"is_active"  json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
