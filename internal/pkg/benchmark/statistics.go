package benchmark

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile bounds of the arm's length range.
const (
	armsLengthLowerPercentile = 35.0
	armsLengthUpperPercentile = 65.0
)

// Percentile computes the p-th percentile of values sorted ascending, using
// linear interpolation on index = (p/100)*(n-1). gonum's quantile kinds use
// different interpolation rules, and these numbers end up in a filed
// disclosure, so the rule is spelled out here.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch n {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	idx := p / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}

	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ComputeBenchmarkingSet derives the distribution statistics and arm's length
// range over the accepted candidates' weighted PLI values, and positions the
// tested party when a PLI is supplied. All reported figures are rounded to
// two decimals, half away from zero. An empty value set yields a fully
// populated all-zero result so downstream document generation always has a
// complete structure to render.
func ComputeBenchmarkingSet(values []float64, pliType PLIType, testedPLI *float64) BenchmarkingSet {
	set := BenchmarkingSet{PLIType: pliType}
	if len(values) == 0 {
		if testedPLI != nil {
			set.TestedParty = &TestedPartyPosition{PLI: Round2(*testedPLI)}
		}
		return set
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := Percentile(sorted, 25)
	q3 := Percentile(sorted, 75)
	iqr := q3 - q1

	stdDev := 0.0
	if n >= 2 {
		stdDev = stat.StdDev(sorted, nil) // sample std dev, n-1 denominator
	}

	set.Statistics = DistributionStats{
		Count:      n,
		Mean:       Round2(stat.Mean(sorted, nil)),
		Median:     Round2(Percentile(sorted, 50)),
		StdDev:     Round2(stdDev),
		Min:        Round2(sorted[0]),
		Max:        Round2(sorted[n-1]),
		Q1:         Round2(q1),
		Q3:         Round2(q3),
		IQR:        Round2(iqr),
		LowerFence: Round2(q1 - 1.5*iqr),
		UpperFence: Round2(q3 + 1.5*iqr),
	}

	set.Range = ArmsLengthRange{
		LowerBound:         Round2(Percentile(sorted, armsLengthLowerPercentile)),
		UpperBound:         Round2(Percentile(sorted, armsLengthUpperPercentile)),
		FullRangeMin:       Round2(sorted[0]),
		FullRangeMax:       Round2(sorted[n-1]),
		InterquartileLower: Round2(q1),
		InterquartileUpper: Round2(q3),
	}

	if testedPLI != nil {
		set.TestedParty = positionTestedParty(sorted, *testedPLI, set)
	}

	return set
}

func positionTestedParty(sorted []float64, pli float64, set BenchmarkingSet) *TestedPartyPosition {
	atOrBelow := 0
	for _, v := range sorted {
		if v <= pli {
			atOrBelow++
		}
	}

	pos := &TestedPartyPosition{
		PLI:                      Round2(pli),
		PercentileRank:           Round2(float64(atOrBelow) / float64(len(sorted)) * 100),
		WithinArmsLengthRange:    pli >= set.Range.LowerBound && pli <= set.Range.UpperBound,
		WithinInterquartileRange: pli >= set.Statistics.Q1 && pli <= set.Statistics.Q3,
	}

	if !pos.WithinArmsLengthRange {
		adjustment := Round2(set.Statistics.Median - pli)
		pos.Adjustment = &adjustment
		pos.AdjustedToMedian = true
	}

	return pos
}
