package benchmark

import "context"

// PLIType identifies a profit level indicator.
type PLIType string

const (
	PLIOperatingProfitOperatingCost    PLIType = "OP_OC"
	PLIOperatingProfitOperatingRevenue PLIType = "OP_OR"
	PLIOperatingProfitTotalCost        PLIType = "OP_TC"
	PLIGrossProfitSales                PLIType = "GP_SALES"
	PLIBerryRatio                      PLIType = "BERRY_RATIO"
	PLIReturnOnAssets                  PLIType = "ROA"
	PLIReturnOnCapitalEmployed         PLIType = "ROCE"
)

// KnownPLIType reports whether t is one of the supported indicators.
func KnownPLIType(t PLIType) bool {
	switch t {
	case PLIOperatingProfitOperatingCost, PLIOperatingProfitOperatingRevenue,
		PLIOperatingProfitTotalCost, PLIGrossProfitSales, PLIBerryRatio,
		PLIReturnOnAssets, PLIReturnOnCapitalEmployed:
		return true
	}
	return false
}

// Financials is one fiscal year's statement for a company. All amounts are in
// the same currency unit; Year is the fiscal-year label (e.g. "2023-24") and
// sorts descending lexicographically.
type Financials struct {
	Year             string  `json:"year"`
	Revenue          float64 `json:"revenue"`
	OperatingRevenue float64 `json:"operating_revenue"`
	GrossProfit      float64 `json:"gross_profit"`
	OperatingProfit  float64 `json:"operating_profit"`
	NetProfit        float64 `json:"net_profit"`
	OperatingCost    float64 `json:"operating_cost"`
	TotalCost        float64 `json:"total_cost"`
	TotalAssets      float64 `json:"total_assets"`
	Receivables      float64 `json:"receivables"`
	Payables         float64 `json:"payables"`
	Inventory        float64 `json:"inventory"`
	CapitalEmployed  float64 `json:"capital_employed"`
	EmployeeCost     float64 `json:"employee_cost"`
	Depreciation     float64 `json:"depreciation"`
}

// PLIValue is one computed indicator for one fiscal year.
type PLIValue struct {
	Type      PLIType `json:"pli_type"`
	Value     float64 `json:"value"`
	Year      string  `json:"year"`
	IsOutlier bool    `json:"is_outlier,omitempty"`
}

// ComparableCompany is a candidate from the repository pool. The analysis pass
// writes FARProfile, Comparability, Accepted and RejectionReasons into a fresh
// copy; records owned by the repository are never mutated.
type ComparableCompany struct {
	ID                 string             `json:"id"`
	RegistrationNumber string             `json:"registration_number"`
	Name               string             `json:"name"`
	NICCodes           []string           `json:"nic_codes"`
	FunctionalCategory FunctionalCategory `json:"functional_category"`
	Status             string             `json:"status"`
	Financials         []Financials       `json:"financials"` // most recent first
	PLIs               []PLIValue         `json:"plis"`
	DataQualityScore   float64            `json:"data_quality_score"`
	RPTPercent         float64            `json:"rpt_percent"`
	PersistentLosses   bool               `json:"persistent_losses"`

	FARProfile       *FARProfile         `json:"far_profile,omitempty"`
	Comparability    *ComparabilityScore `json:"comparability,omitempty"`
	Accepted         bool                `json:"accepted"`
	RejectionReasons []RejectionReason   `json:"rejection_reasons,omitempty"`
}

// LatestFinancials returns the most recent fiscal year on record.
func (c ComparableCompany) LatestFinancials() (Financials, bool) {
	if len(c.Financials) == 0 {
		return Financials{}, false
	}
	return c.Financials[0], true
}

// ComparabilityScore holds the six sub-scores and their weighted combination,
// all on a 0-100 scale.
type ComparabilityScore struct {
	Functional  float64 `json:"functional"`
	Financial   float64 `json:"financial"`
	Industry    float64 `json:"industry"`
	Geographic  float64 `json:"geographic"`
	Temporal    float64 `json:"temporal"`
	Qualitative float64 `json:"qualitative"`
	Overall     float64 `json:"overall"`
}

// Severity classifies a rejection reason.
type Severity string

const (
	SeverityHard Severity = "HARD"
	SeveritySoft Severity = "SOFT"
)

// Rejection reason codes.
const (
	ReasonRPTHigh        = "RPT_HIGH"
	ReasonPersistentLoss = "PERSISTENT_LOSS"
	ReasonLowDataQuality = "LOW_DATA_QUALITY"
	ReasonFARMismatch    = "FAR_MISMATCH"
)

// RejectionReason records why a candidate was flagged. HARD reasons
// disqualify; SOFT reasons are disclosed but never disqualify on their own.
type RejectionReason struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Details  string   `json:"details"`
}

// SearchCriteria filters the candidate pool. Zero values leave the
// corresponding filter inactive.
type SearchCriteria struct {
	NICCodePrefixes    []string           `json:"nic_code_prefixes,omitempty"`
	FunctionalCategory FunctionalCategory `json:"functional_category,omitempty"`
	MinRevenue         float64            `json:"min_revenue,omitempty"`
	MaxRevenue         float64            `json:"max_revenue,omitempty"`
	MaxRPTPercent      float64            `json:"max_rpt_percent,omitempty"`
	ExcludeLossMakers  bool               `json:"exclude_loss_makers,omitempty"`
	MinYearsData       int                `json:"min_years_data,omitempty"`
	Statuses           []string           `json:"statuses,omitempty"`
	ExcludeIDs         []string           `json:"exclude_ids,omitempty"`
}

// CandidateRepository supplies the candidate pool. Implementations may push
// criteria down to the data layer; the screening engine re-applies the same
// criteria in memory, so a coarse superset is fine.
type CandidateRepository interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]ComparableCompany, error)
}

// DistributionStats are the robust statistics over the accepted set's
// weighted PLI values, rounded to two decimals.
type DistributionStats struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	IQR        float64 `json:"iqr"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
}

// ArmsLengthRange is the 35th-65th percentile band, with the full range and
// interquartile bounds reported alongside.
type ArmsLengthRange struct {
	LowerBound         float64 `json:"lower_bound"`
	UpperBound         float64 `json:"upper_bound"`
	FullRangeMin       float64 `json:"full_range_min"`
	FullRangeMax       float64 `json:"full_range_max"`
	InterquartileLower float64 `json:"interquartile_lower"`
	InterquartileUpper float64 `json:"interquartile_upper"`
}

// TestedPartyPosition places the tested party's PLI within the accepted set.
// Adjustment is set only when the PLI falls outside the arm's length range.
type TestedPartyPosition struct {
	PLI                      float64  `json:"pli"`
	PercentileRank           float64  `json:"percentile_rank"`
	WithinArmsLengthRange    bool     `json:"within_arms_length_range"`
	WithinInterquartileRange bool     `json:"within_interquartile_range"`
	Adjustment               *float64 `json:"adjustment,omitempty"`
	AdjustedToMedian         bool     `json:"adjusted_to_median"`
}

// BenchmarkingSet is the statistical output of one analysis. It is computed
// fresh per call and never cached.
type BenchmarkingSet struct {
	PLIType     PLIType              `json:"pli_type"`
	Statistics  DistributionStats    `json:"statistics"`
	Range       ArmsLengthRange      `json:"arms_length_range"`
	TestedParty *TestedPartyPosition `json:"tested_party,omitempty"`
}

// WorkingCapitalAdjustment is the per-comparable record produced by the
// working-capital adjustment calculator.
type WorkingCapitalAdjustment struct {
	CompanyID          string  `json:"company_id"`
	CompanyName        string  `json:"company_name"`
	ReceivablesDays    float64 `json:"receivables_days"`
	InventoryDays      float64 `json:"inventory_days"`
	PayablesDays       float64 `json:"payables_days"`
	WorkingCapitalDays float64 `json:"working_capital_days"`
	Difference         float64 `json:"difference"`
	Adjustment         float64 `json:"adjustment"`
	OriginalPLI        float64 `json:"original_pli"`
	AdjustedPLI        float64 `json:"adjusted_pli"`
}

// TestedParty is the taxpayer entity being benchmarked.
type TestedParty struct {
	Name               string             `json:"name"`
	FunctionalCategory FunctionalCategory `json:"functional_category"`
	Financials         []Financials       `json:"financials"` // most recent first
}

// TestedPartySnapshot is the tested-party portion of an analysis.
type TestedPartySnapshot struct {
	Name               string             `json:"name"`
	FunctionalCategory FunctionalCategory `json:"functional_category"`
	FARProfile         FARProfile         `json:"far_profile"`
	WeightedPLI        float64            `json:"weighted_pli"`
}

// PoolFunnel tracks the candidate count through the analysis.
type PoolFunnel struct {
	Initial        int `json:"initial"`
	AfterScreening int `json:"after_screening"`
	Final          int `json:"final"`
}

// RejectionBucket aggregates all companies carrying one reason code. A company
// may appear in several buckets at once.
type RejectionBucket struct {
	Code      string   `json:"code"`
	Severity  Severity `json:"severity"`
	Count     int      `json:"count"`
	Companies []string `json:"companies"`
}

// Conclusion is the bottom line of an analysis; Narrative is consumed
// verbatim by the document layer.
type Conclusion struct {
	IsArmLength bool    `json:"is_arm_length"`
	TestedPLI   float64 `json:"tested_pli"`
	Narrative   string  `json:"narrative"`
}

// ComparabilityAnalysis is the top-level output of the orchestrator.
// Immutable once built.
type ComparabilityAnalysis struct {
	TestedParty     TestedPartySnapshot         `json:"tested_party"`
	Criteria        SearchCriteria              `json:"criteria"`
	PLIType         PLIType                     `json:"pli_type"`
	Funnel          PoolFunnel                  `json:"funnel"`
	Accepted        []ComparableCompany         `json:"accepted"`
	Rejected        []ComparableCompany         `json:"rejected"`
	RejectionMatrix map[string]*RejectionBucket `json:"rejection_matrix"`
	Benchmarking    BenchmarkingSet             `json:"benchmarking"`
	Conclusion      Conclusion                  `json:"conclusion"`
}
