package benchmark

import (
	"context"
	"fmt"
)

// Engine runs end-to-end comparability analyses. It is stateless apart from
// the injected repository and safe for concurrent use.
type Engine struct {
	repo CandidateRepository
}

// NewEngine builds an engine over the given candidate repository.
func NewEngine(repo CandidateRepository) *Engine {
	return &Engine{repo: repo}
}

// Analyze performs a full comparability analysis: search, FAR profiling,
// scoring, screening, benchmarking statistics and the conclusion. The tested
// party's functional category and the PLI type must be known values; callers
// validating external input should check KnownFunctionalCategory and
// KnownPLIType first.
func (e *Engine) Analyze(ctx context.Context, tested TestedParty, criteria SearchCriteria, pliType PLIType) (*ComparabilityAnalysis, error) {
	if !KnownPLIType(pliType) {
		panic(fmt.Sprintf("benchmark: unknown PLI type %q", pliType))
	}

	pool, err := e.repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}

	testedFAR := BuildFARProfile(tested.FunctionalCategory)

	testedFin := Financials{}
	if len(tested.Financials) > 0 {
		testedFin = tested.Financials[0]
	}

	var screened []ComparableCompany
	for _, c := range pool {
		if MatchesCriteria(c, criteria) {
			screened = append(screened, c)
		}
	}

	var accepted, rejected []ComparableCompany
	for _, c := range screened {
		analyzed := e.analyzeCandidate(c, testedFAR, testedFin, tested.FunctionalCategory)
		if analyzed.Accepted {
			accepted = append(accepted, analyzed)
		} else {
			rejected = append(rejected, analyzed)
		}
	}

	testedPLI := weightedTestedPLI(tested, pliType)

	values := make([]float64, 0, len(accepted))
	for _, c := range accepted {
		values = append(values, WeightedPLI(c.PLIs, pliType))
	}

	set := ComputeBenchmarkingSet(values, pliType, &testedPLI)

	analysis := &ComparabilityAnalysis{
		TestedParty: TestedPartySnapshot{
			Name:               tested.Name,
			FunctionalCategory: tested.FunctionalCategory,
			FARProfile:         testedFAR,
			WeightedPLI:        Round2(testedPLI),
		},
		Criteria: criteria,
		PLIType:  pliType,
		Funnel: PoolFunnel{
			Initial:        len(pool),
			AfterScreening: len(screened),
			Final:          len(accepted),
		},
		Accepted:        accepted,
		Rejected:        rejected,
		RejectionMatrix: BuildRejectionMatrix(append(append([]ComparableCompany{}, accepted...), rejected...)),
		Benchmarking:    set,
	}
	analysis.Conclusion = buildConclusion(set)

	return analysis, nil
}

// analyzeCandidate scores and screens one candidate, writing all derived
// fields into a copy so the repository's records stay untouched.
func (e *Engine) analyzeCandidate(c ComparableCompany, testedFAR FARProfile, testedFin Financials, testedCategory FunctionalCategory) ComparableCompany {
	out := c

	farSimilarity := 0
	hasFAR := KnownFunctionalCategory(c.FunctionalCategory)
	if hasFAR {
		profile := BuildFARProfile(c.FunctionalCategory)
		out.FARProfile = &profile
		farSimilarity = FARSimilarity(testedFAR, profile)
	}

	score := ScoreComparability(testedFin, testedCategory, farSimilarity, c)
	out.Comparability = &score
	out.RejectionReasons = EvaluateRejections(c, farSimilarity, hasFAR)
	out.Accepted = IsAccepted(out.RejectionReasons, score.Overall)

	return out
}

func weightedTestedPLI(tested TestedParty, pliType PLIType) float64 {
	var plis []PLIValue
	for _, f := range tested.Financials {
		plis = append(plis, CalculatePLIs(f)...)
	}
	return WeightedPLI(plis, pliType)
}

// buildConclusion renders the arm's length determination. The narrative goes
// verbatim into the filed report, so every figure is formatted to two
// decimals.
func buildConclusion(set BenchmarkingSet) Conclusion {
	c := Conclusion{}
	if set.TestedParty == nil {
		return c
	}

	c.TestedPLI = set.TestedParty.PLI
	c.IsArmLength = set.TestedParty.WithinArmsLengthRange

	if set.Statistics.Count == 0 {
		c.Narrative = fmt.Sprintf(
			"No comparable companies survived the screening process; the tested party's %s of %.2f%% could not be benchmarked and no conclusion is drawn.",
			set.PLIType, c.TestedPLI)
		return c
	}

	if c.IsArmLength {
		c.Narrative = fmt.Sprintf(
			"The tested party's %s of %.2f%% falls within the arm's length range of %.2f%% to %.2f%% established by %d comparable companies; no adjustment is required.",
			set.PLIType, c.TestedPLI, set.Range.LowerBound, set.Range.UpperBound, set.Statistics.Count)
		return c
	}

	adjustment := 0.0
	if set.TestedParty.Adjustment != nil {
		adjustment = *set.TestedParty.Adjustment
	}
	c.Narrative = fmt.Sprintf(
		"The tested party's %s of %.2f%% falls outside the arm's length range of %.2f%% to %.2f%% established by %d comparable companies; an adjustment of %+.2f percentage points to the median of %.2f%% is required.",
		set.PLIType, c.TestedPLI, set.Range.LowerBound, set.Range.UpperBound, set.Statistics.Count, adjustment, set.Statistics.Median)
	return c
}
