package models

import "time"

// PLIRecord is a derived profit level indicator for one company-year. Rows
// are recomputed by the worker whenever financials change, never hand-edited.
type PLIRecord struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint
	Year      string
	PLIType   string
	Value     float64
	IsOutlier bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
