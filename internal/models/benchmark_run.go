package models

import (
	"encoding/json"
	"time"
)

// BenchmarkRun stores one completed comparability analysis. Analysis is the
// full ComparabilityAnalysis as jsonb; UsedTokens is non-zero when the
// narrative was produced by the generation service rather than the fallback.
type BenchmarkRun struct {
	ID              uint `gorm:"primaryKey"`
	TestedPartyName string
	PLIType         string
	UsedTokens      int64
	Analysis        json.RawMessage `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
