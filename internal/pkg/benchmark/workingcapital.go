package benchmark

// DefaultWCAdjustmentRate is the interest rate applied to working-capital
// differences when the caller does not supply one.
const DefaultWCAdjustmentRate = 0.10

const daysPerYear = 365.0

// WorkingCapitalDays derives the working-capital cycle of one fiscal year:
// receivables days on revenue, inventory and payables days on operating cost.
// A non-positive denominator contributes zero days.
func WorkingCapitalDays(f Financials) (receivables, inventory, payables float64) {
	if f.Revenue > 0 {
		receivables = f.Receivables / (f.Revenue / daysPerYear)
	}
	if f.OperatingCost > 0 {
		inventory = f.Inventory / (f.OperatingCost / daysPerYear)
		payables = f.Payables / (f.OperatingCost / daysPerYear)
	}
	return receivables, inventory, payables
}

// CalculateWorkingCapitalAdjustments adjusts each candidate's latest-year
// OP_OC margin for its working-capital position relative to the tested
// party. rate <= 0 selects the default 10% rate.
func CalculateWorkingCapitalAdjustments(candidates []ComparableCompany, testedPartyWCDays float64, rate float64) []WorkingCapitalAdjustment {
	if rate <= 0 {
		rate = DefaultWCAdjustmentRate
	}

	out := make([]WorkingCapitalAdjustment, 0, len(candidates))
	for _, c := range candidates {
		latest, ok := c.LatestFinancials()
		if !ok {
			continue
		}

		rec, inv, pay := WorkingCapitalDays(latest)
		wcDays := rec + inv - pay
		difference := wcDays - testedPartyWCDays
		adjustment := difference / daysPerYear * rate * 100

		originalPLI := 0.0
		for _, p := range CalculatePLIs(latest) {
			if p.Type == PLIOperatingProfitOperatingCost {
				originalPLI = p.Value
				break
			}
		}

		// Kept unrounded: the adjusted figures feed further computation,
		// and only reported statistics are rounded.
		out = append(out, WorkingCapitalAdjustment{
			CompanyID:          c.ID,
			CompanyName:        c.Name,
			ReceivablesDays:    rec,
			InventoryDays:      inv,
			PayablesDays:       pay,
			WorkingCapitalDays: wcDays,
			Difference:         difference,
			Adjustment:         adjustment,
			OriginalPLI:        originalPLI,
			AdjustedPLI:        originalPLI - adjustment,
		})
	}

	return out
}
