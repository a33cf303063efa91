package models

import "time"

// FinancialRecord is one fiscal year of a company's statement. One row per
// company per year; immutable once imported.
type FinancialRecord struct {
	ID               uint `gorm:"primaryKey"`
	CompanyID        uint
	Year             string
	Revenue          float64
	OperatingRevenue float64
	GrossProfit      float64
	OperatingProfit  float64
	NetProfit        float64
	OperatingCost    float64
	TotalCost        float64
	TotalAssets      float64
	Receivables      float64
	Payables         float64
	Inventory        float64
	CapitalEmployed  float64
	EmployeeCost     float64
	Depreciation     float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
