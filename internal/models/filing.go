package models

import (
	"encoding/json"
	"time"
)

// Filing is a raw statement document fetched from the registry, kept for
// audit alongside the parsed JSON.
type Filing struct {
	ID           uint `gorm:"primaryKey"`
	FilingNumber string
	CIN          string
	BlobData     []byte
	BlobSize     int
	JSONData     json.RawMessage `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
