package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is the audit row written for every gateway-authenticated
// request, including denied ones, attributed to the presented API key.
type UsageRecord struct {
	ID             int64     `db:"id"               json:"id"`
	APIKeyID       uuid.UUID `db:"api_key_id"       json:"api_key_id"`
	Endpoint       string    `db:"endpoint"         json:"endpoint"`
	Method         string    `db:"method"           json:"method"`
	StatusCode     int       `db:"status_code"      json:"status_code"`
	ResponseTimeMs int       `db:"response_time_ms" json:"response_time_ms"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
}
