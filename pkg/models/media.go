package models

import (
	"time"

	"github.com/google/uuid"
)

// Media records an uploaded file. The bytes live in blob storage at
// FilePath; the row and the blob are deleted in separate steps, row first.
type Media struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	Filename    string    `db:"filename"     json:"filename"`
	FilePath    string    `db:"file_path"    json:"file_path"`
	FileURL     string    `db:"file_url"     json:"file_url"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes"   json:"size_bytes"`
	AltText     string    `db:"alt_text"     json:"alt_text"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
