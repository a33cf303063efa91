package models

import "time"

// Company is a candidate comparable from the corporate registry. CIN is the
// 21-character corporate identification number.
type Company struct {
	ID                 uint `gorm:"primaryKey"`
	CIN                string
	Name               string
	NICCode            string
	FunctionalCategory string
	Status             string
	DataQualityScore   float64
	RPTPercent         float64
	PersistentLosses   bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
