package benchmark

import "math"

// Fixed weights of the six comparability dimensions. They must sum to 1.0.
var comparabilityWeights = struct {
	Functional  float64
	Financial   float64
	Industry    float64
	Geographic  float64
	Temporal    float64
	Qualitative float64
}{
	Functional:  0.3,
	Financial:   0.2,
	Industry:    0.2,
	Geographic:  0.1,
	Temporal:    0.1,
	Qualitative: 0.1,
}

// Both parties are assumed India-based with the same fiscal-year set, so the
// geographic and temporal dimensions are constants.
const (
	geographicScore = 85
	temporalScore   = 95
)

// Within the financial sub-score: revenue 0.4, assets 0.3, employee-cost
// ratio similarity 0.3.
const (
	financialRevenueWeight  = 0.4
	financialAssetWeight    = 0.3
	financialEmployeeWeight = 0.3
)

// ScoreComparability rates how comparable a candidate is to the tested party
// across six dimensions, each 0-100, and combines them with the fixed weight
// vector. farSimilarity is the precomputed FAR similarity between the two
// parties' profiles (0 when the candidate has no usable profile).
func ScoreComparability(testedFin Financials, testedCategory FunctionalCategory, farSimilarity int, c ComparableCompany) ComparabilityScore {
	s := ComparabilityScore{
		Functional:  float64(farSimilarity),
		Geographic:  geographicScore,
		Temporal:    temporalScore,
		Qualitative: c.DataQualityScore,
	}

	if candFin, ok := c.LatestFinancials(); ok {
		s.Financial = financialScore(testedFin, candFin)
	}

	if c.FunctionalCategory == testedCategory {
		s.Industry = 100
	} else {
		s.Industry = 70
	}

	s.Overall = roundScore(
		s.Functional*comparabilityWeights.Functional +
			s.Financial*comparabilityWeights.Financial +
			s.Industry*comparabilityWeights.Industry +
			s.Geographic*comparabilityWeights.Geographic +
			s.Temporal*comparabilityWeights.Temporal +
			s.Qualitative*comparabilityWeights.Qualitative)

	return s
}

// financialScore measures size and cost-structure similarity. Ratios of the
// smaller to the larger value keep each term in [0,1]; the employee-cost
// ratio term compares cost structure rather than size and is floored at 0.
func financialScore(a, b Financials) float64 {
	revRatio := minMaxRatio(a.Revenue, b.Revenue)
	assetRatio := minMaxRatio(a.TotalAssets, b.TotalAssets)

	empSimilarity := 1 - math.Abs(employeeCostRatio(a)-employeeCostRatio(b))
	if empSimilarity < 0 {
		empSimilarity = 0
	}

	return roundScore((revRatio*financialRevenueWeight +
		assetRatio*financialAssetWeight +
		empSimilarity*financialEmployeeWeight) * 100)
}

func minMaxRatio(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi <= 0 {
		return 0
	}
	return math.Min(a, b) / hi
}

func employeeCostRatio(f Financials) float64 {
	if f.Revenue <= 0 {
		return 0
	}
	return f.EmployeeCost / f.Revenue
}
