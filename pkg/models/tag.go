package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a label attached to posts through the post_tags join table.
type Tag struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Slug      string    `db:"slug"       json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
