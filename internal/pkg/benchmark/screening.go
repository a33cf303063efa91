package benchmark

import (
	"fmt"
	"strings"
)

// Screening thresholds.
const (
	rptCeilingPercent    = 25.0
	minDataQualityScore  = 70.0
	minFARSimilarity     = 60
	minComparabilityOverall = 65.0
)

// MatchesCriteria applies the candidate filters of a search. Every inactive
// filter (zero value) passes.
func MatchesCriteria(c ComparableCompany, criteria SearchCriteria) bool {
	if len(criteria.NICCodePrefixes) > 0 && !hasNICPrefix(c.NICCodes, criteria.NICCodePrefixes) {
		return false
	}

	if criteria.FunctionalCategory != "" && c.FunctionalCategory != criteria.FunctionalCategory {
		return false
	}

	if criteria.MinRevenue > 0 || criteria.MaxRevenue > 0 {
		latest, ok := c.LatestFinancials()
		if !ok {
			return false
		}
		if criteria.MinRevenue > 0 && latest.Revenue < criteria.MinRevenue {
			return false
		}
		if criteria.MaxRevenue > 0 && latest.Revenue > criteria.MaxRevenue {
			return false
		}
	}

	if criteria.MaxRPTPercent > 0 && c.RPTPercent > criteria.MaxRPTPercent {
		return false
	}

	if criteria.ExcludeLossMakers && c.PersistentLosses {
		return false
	}

	if criteria.MinYearsData > 0 && len(c.Financials) < criteria.MinYearsData {
		return false
	}

	if len(criteria.Statuses) > 0 && !containsFold(criteria.Statuses, c.Status) {
		return false
	}

	if containsFold(criteria.ExcludeIDs, c.ID) {
		return false
	}

	return true
}

// EvaluateRejections collects every rejection reason a candidate carries.
// farSimilarity is the candidate's FAR similarity with the tested party;
// pass hasFAR=false when no profile could be built for the candidate.
func EvaluateRejections(c ComparableCompany, farSimilarity int, hasFAR bool) []RejectionReason {
	var reasons []RejectionReason

	if c.RPTPercent > rptCeilingPercent {
		reasons = append(reasons, RejectionReason{
			Code:     ReasonRPTHigh,
			Severity: SeverityHard,
			Details:  fmt.Sprintf("related party transactions at %.2f%% exceed the %.0f%% ceiling", c.RPTPercent, rptCeilingPercent),
		})
	}

	if c.PersistentLosses {
		reasons = append(reasons, RejectionReason{
			Code:     ReasonPersistentLoss,
			Severity: SeverityHard,
			Details:  "operating losses in each of the examined years",
		})
	}

	if c.DataQualityScore < minDataQualityScore {
		reasons = append(reasons, RejectionReason{
			Code:     ReasonLowDataQuality,
			Severity: SeveritySoft,
			Details:  fmt.Sprintf("data quality score %.0f below %.0f", c.DataQualityScore, minDataQualityScore),
		})
	}

	if !hasFAR {
		reasons = append(reasons, RejectionReason{
			Code:     ReasonLowDataQuality,
			Severity: SeveritySoft,
			Details:  fmt.Sprintf("no FAR baseline for functional category %q", c.FunctionalCategory),
		})
	} else if farSimilarity < minFARSimilarity {
		reasons = append(reasons, RejectionReason{
			Code:     ReasonFARMismatch,
			Severity: SeveritySoft,
			Details:  fmt.Sprintf("FAR similarity %d below %d", farSimilarity, minFARSimilarity),
		})
	}

	return reasons
}

// IsAccepted applies the acceptance rule: no hard reason present and an
// overall comparability score of at least 65. Soft reasons are disclosed but
// never disqualify on their own.
func IsAccepted(reasons []RejectionReason, overall float64) bool {
	for _, r := range reasons {
		if r.Severity == SeverityHard {
			return false
		}
	}
	return overall >= minComparabilityOverall
}

// BuildRejectionMatrix aggregates, per reason code, the count and names of
// every company carrying that reason. A company appears under each of its
// reason codes.
func BuildRejectionMatrix(companies []ComparableCompany) map[string]*RejectionBucket {
	matrix := make(map[string]*RejectionBucket)
	for _, c := range companies {
		seen := make(map[string]bool, len(c.RejectionReasons))
		for _, r := range c.RejectionReasons {
			if seen[r.Code] {
				continue
			}
			seen[r.Code] = true

			bucket, ok := matrix[r.Code]
			if !ok {
				bucket = &RejectionBucket{Code: r.Code, Severity: r.Severity}
				matrix[r.Code] = bucket
			}
			bucket.Count++
			bucket.Companies = append(bucket.Companies, c.Name)
		}
	}
	return matrix
}

func hasNICPrefix(codes, prefixes []string) bool {
	for _, code := range codes {
		for _, prefix := range prefixes {
			if strings.HasPrefix(code, prefix) {
				return true
			}
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
