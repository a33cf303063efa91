package benchmark

import "sort"

// multiYearWeights are applied positionally, most recent year first.
var multiYearWeights = []float64{0.5, 0.35, 0.15}

// CalculatePLIs derives every profit level indicator that can be computed
// from one fiscal year. Indicators whose denominator is not strictly
// positive are omitted entirely; a zero placeholder would distort the
// downstream statistics.
func CalculatePLIs(f Financials) []PLIValue {
	var out []PLIValue

	add := func(t PLIType, v float64) {
		out = append(out, PLIValue{Type: t, Value: v, Year: f.Year})
	}

	if f.OperatingCost > 0 {
		add(PLIOperatingProfitOperatingCost, f.OperatingProfit/f.OperatingCost*100)
	}
	if f.OperatingRevenue > 0 {
		add(PLIOperatingProfitOperatingRevenue, f.OperatingProfit/f.OperatingRevenue*100)
	}
	if f.TotalCost > 0 {
		add(PLIOperatingProfitTotalCost, f.OperatingProfit/f.TotalCost*100)
	}
	if f.Revenue > 0 {
		add(PLIGrossProfitSales, f.GrossProfit/f.Revenue*100)
	}

	// Berry ratio is a plain ratio, not a percentage.
	operatingExpenses := f.OperatingCost - f.GrossProfit + f.OperatingProfit
	if operatingExpenses > 0 && f.GrossProfit > 0 {
		add(PLIBerryRatio, f.GrossProfit/operatingExpenses)
	}

	if f.TotalAssets > 0 {
		add(PLIReturnOnAssets, f.OperatingProfit/f.TotalAssets*100)
	}
	if f.CapitalEmployed > 0 {
		add(PLIReturnOnCapitalEmployed, f.OperatingProfit/f.CapitalEmployed*100)
	}

	return out
}

// WeightedPLI collapses a company's history of one indicator into a single
// value. The up-to-three most recent years are weighted 0.5/0.35/0.15 and the
// result is normalised by the weights actually used; years beyond the weight
// list are ignored. No matching years yields 0, not an error.
func WeightedPLI(plis []PLIValue, t PLIType) float64 {
	matched := make([]PLIValue, 0, len(plis))
	for _, p := range plis {
		if p.Type == t {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return 0
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Year > matched[j].Year })

	if len(matched) > len(multiYearWeights) {
		matched = matched[:len(multiYearWeights)]
	}

	var weightedSum, weightUsed float64
	for i, p := range matched {
		weightedSum += p.Value * multiYearWeights[i]
		weightUsed += multiYearWeights[i]
	}

	return weightedSum / weightUsed
}
