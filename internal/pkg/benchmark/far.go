package benchmark

import "fmt"

// Rating grades one function, asset or risk item.
type Rating string

const (
	RatingLow    Rating = "LOW"
	RatingMedium Rating = "MEDIUM"
	RatingHigh   Rating = "HIGH"
)

// riskWeight maps a rating to its contribution to the FAR score.
func (r Rating) riskWeight() int {
	switch r {
	case RatingLow:
		return 1
	case RatingMedium:
		return 2
	case RatingHigh:
		return 3
	}
	panic(fmt.Sprintf("benchmark: unknown rating %q", r))
}

// FunctionalCategory tags the functional characterisation of an entity.
type FunctionalCategory string

const (
	CategoryFullFledgedManufacturer FunctionalCategory = "FULL_FLEDGED_MANUFACTURER"
	CategoryContractManufacturer    FunctionalCategory = "CONTRACT_MANUFACTURER"
	CategoryTollManufacturer        FunctionalCategory = "TOLL_MANUFACTURER"
	CategoryFullFledgedDistributor  FunctionalCategory = "FULL_FLEDGED_DISTRIBUTOR"
	CategoryLimitedRiskDistributor  FunctionalCategory = "LIMITED_RISK_DISTRIBUTOR"
	CategoryCommissionAgent         FunctionalCategory = "COMMISSION_AGENT"
	CategoryITServicesProvider      FunctionalCategory = "IT_SERVICES_PROVIDER"
	CategoryBPOProvider             FunctionalCategory = "BPO_PROVIDER"
	CategoryKPOProvider             FunctionalCategory = "KPO_PROVIDER"
	CategoryContractRDProvider      FunctionalCategory = "CONTRACT_RD_PROVIDER"
	CategoryIPOwner                 FunctionalCategory = "IP_OWNER"
	CategoryFinancingEntity         FunctionalCategory = "FINANCING_ENTITY"
	CategorySharedServicesProvider  FunctionalCategory = "SHARED_SERVICES_PROVIDER"
	CategoryHoldingCompany          FunctionalCategory = "HOLDING_COMPANY"
	CategoryTradingCompany          FunctionalCategory = "TRADING_COMPANY"
)

// Item names, in table order. 8 functions, 6 assets, 7 risks.
var (
	functionItems = []string{
		"manufacturing",
		"research_development",
		"procurement",
		"marketing",
		"sales_distribution",
		"quality_control",
		"logistics",
		"after_sales_service",
	}
	assetItems = []string{
		"plant_machinery",
		"land_building",
		"intangibles",
		"technology_software",
		"working_capital",
		"brand",
	}
	riskItems = []string{
		"market_risk",
		"inventory_risk",
		"credit_risk",
		"foreign_exchange_risk",
		"product_liability_risk",
		"capacity_utilisation_risk",
		"rd_failure_risk",
	}
)

const farItemCount = 21 // 8 functions + 6 assets + 7 risks

// FARProfile rates the functions performed, assets employed and risks assumed
// by a party. Score follows sum(riskWeights)/(3*21)*100.
type FARProfile struct {
	Category  FunctionalCategory `json:"category"`
	Functions map[string]Rating  `json:"functions"`
	Assets    map[string]Rating  `json:"assets"`
	Risks     map[string]Rating  `json:"risks"`
	Score     float64            `json:"score"`
}

// farBaseline holds the fixed per-category ratings in item order:
// L = LOW, M = MEDIUM, H = HIGH.
type farBaseline struct {
	functions [8]Rating
	assets    [6]Rating
	risks     [7]Rating
}

const (
	l = RatingLow
	m = RatingMedium
	h = RatingHigh
)

// farBaselines is regulatory reference data: the baseline FAR
// characterisation per functional category. It is a constant table, not
// derived from financials.
var farBaselines = map[FunctionalCategory]farBaseline{
	CategoryFullFledgedManufacturer: {
		functions: [8]Rating{h, h, h, m, m, h, m, m},
		assets:    [6]Rating{h, h, m, m, h, m},
		risks:     [7]Rating{h, h, m, m, h, h, m},
	},
	CategoryContractManufacturer: {
		functions: [8]Rating{h, l, m, l, l, h, m, l},
		assets:    [6]Rating{h, m, l, l, m, l},
		risks:     [7]Rating{l, m, l, l, m, h, l},
	},
	CategoryTollManufacturer: {
		functions: [8]Rating{h, l, l, l, l, m, l, l},
		assets:    [6]Rating{h, m, l, l, l, l},
		risks:     [7]Rating{l, l, l, l, l, h, l},
	},
	CategoryFullFledgedDistributor: {
		functions: [8]Rating{l, l, h, h, h, m, h, h},
		assets:    [6]Rating{l, m, m, m, h, h},
		risks:     [7]Rating{h, h, h, m, m, l, l},
	},
	CategoryLimitedRiskDistributor: {
		functions: [8]Rating{l, l, m, m, h, l, m, m},
		assets:    [6]Rating{l, l, l, l, m, l},
		risks:     [7]Rating{l, l, m, l, l, l, l},
	},
	CategoryCommissionAgent: {
		functions: [8]Rating{l, l, l, m, h, l, l, l},
		assets:    [6]Rating{l, l, l, l, l, l},
		risks:     [7]Rating{l, l, l, l, l, l, l},
	},
	CategoryITServicesProvider: {
		functions: [8]Rating{l, m, l, m, m, h, l, m},
		assets:    [6]Rating{l, l, m, h, m, m},
		risks:     [7]Rating{m, l, m, m, l, m, l},
	},
	CategoryBPOProvider: {
		functions: [8]Rating{l, l, l, l, m, h, l, m},
		assets:    [6]Rating{l, l, l, m, m, l},
		risks:     [7]Rating{l, l, l, m, l, m, l},
	},
	CategoryKPOProvider: {
		functions: [8]Rating{l, m, l, l, m, h, l, m},
		assets:    [6]Rating{l, l, m, m, m, l},
		risks:     [7]Rating{l, l, l, m, l, m, l},
	},
	CategoryContractRDProvider: {
		functions: [8]Rating{l, h, l, l, l, h, l, l},
		assets:    [6]Rating{m, m, l, h, m, l},
		risks:     [7]Rating{l, l, l, m, l, m, l},
	},
	CategoryIPOwner: {
		functions: [8]Rating{l, h, l, h, m, m, l, l},
		assets:    [6]Rating{l, l, h, h, m, h},
		risks:     [7]Rating{h, l, m, m, h, l, h},
	},
	CategoryFinancingEntity: {
		functions: [8]Rating{l, l, l, l, l, m, l, l},
		assets:    [6]Rating{l, l, l, l, h, l},
		risks:     [7]Rating{h, l, h, h, l, l, l},
	},
	CategorySharedServicesProvider: {
		functions: [8]Rating{l, l, m, l, l, m, m, m},
		assets:    [6]Rating{l, m, l, m, m, l},
		risks:     [7]Rating{l, l, l, l, l, m, l},
	},
	CategoryHoldingCompany: {
		functions: [8]Rating{l, l, l, l, l, l, l, l},
		assets:    [6]Rating{l, m, m, l, h, m},
		risks:     [7]Rating{h, l, m, h, l, l, l},
	},
	CategoryTradingCompany: {
		functions: [8]Rating{l, l, h, m, h, m, h, m},
		assets:    [6]Rating{l, m, l, l, h, m},
		risks:     [7]Rating{h, h, h, h, m, l, l},
	},
}

// KnownFunctionalCategory reports whether the category has a baseline entry.
func KnownFunctionalCategory(cat FunctionalCategory) bool {
	_, ok := farBaselines[cat]
	return ok
}

// BuildFARProfile maps a functional category to its baseline FAR profile and
// score. An unrecognised category is a programmer contract violation and
// panics rather than defaulting.
func BuildFARProfile(cat FunctionalCategory) FARProfile {
	base, ok := farBaselines[cat]
	if !ok {
		panic(fmt.Sprintf("benchmark: unknown functional category %q", cat))
	}

	p := FARProfile{
		Category:  cat,
		Functions: make(map[string]Rating, len(functionItems)),
		Assets:    make(map[string]Rating, len(assetItems)),
		Risks:     make(map[string]Rating, len(riskItems)),
	}

	total := 0
	for i, name := range functionItems {
		p.Functions[name] = base.functions[i]
		total += base.functions[i].riskWeight()
	}
	for i, name := range assetItems {
		p.Assets[name] = base.assets[i]
		total += base.assets[i].riskWeight()
	}
	for i, name := range riskItems {
		p.Risks[name] = base.risks[i]
		total += base.risks[i].riskWeight()
	}

	p.Score = float64(total) / float64(3*farItemCount) * 100
	return p
}

// FARSimilarity compares two profiles item by item: the absolute risk-weight
// difference per item is 0, 1 or 2, so the worst case over 21 items is 42.
// Returns (1 - sumDiff/42)*100 rounded to the nearest integer. Symmetric, and
// 100 for identical profiles.
func FARSimilarity(a, b FARProfile) int {
	diff := 0
	for _, name := range functionItems {
		diff += absInt(a.Functions[name].riskWeight() - b.Functions[name].riskWeight())
	}
	for _, name := range assetItems {
		diff += absInt(a.Assets[name].riskWeight() - b.Assets[name].riskWeight())
	}
	for _, name := range riskItems {
		diff += absInt(a.Risks[name].riskWeight() - b.Risks[name].riskWeight())
	}

	const maxDiff = 2 * farItemCount
	return int(roundScore((1 - float64(diff)/float64(maxDiff)) * 100))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
