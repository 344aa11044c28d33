package domain

import "sort"

// MetricScore is one metric's normalized result for a pair of texts.
// Failed marks a computation error; a failed metric scores 0 in the
// weighted aggregate.
type MetricScore struct {
	Metric string
	Score  float64
	Failed bool
}

// RiskTier classifies an overall similarity score into fixed bands.
type RiskTier string

const (
	TierVeryHigh RiskTier = "very-high"
	TierHigh     RiskTier = "high"
	TierMedium   RiskTier = "medium"
	TierLow      RiskTier = "low"
	TierMinimal  RiskTier = "minimal"
)

// TierForScore maps an overall score to its risk tier. Bands are
// exclusive at the lower bound: a score exactly on an edge falls into
// the lower tier.
func TierForScore(score float64) RiskTier {
	switch {
	case score > 0.9:
		return TierVeryHigh
	case score > 0.8:
		return TierHigh
	case score > 0.7:
		return TierMedium
	case score > 0.5:
		return TierLow
	default:
		return TierMinimal
	}
}

// Recommendation returns the one-sentence review guidance for a tier.
func (t RiskTier) Recommendation() string {
	switch t {
	case TierVeryHigh:
		return "Extremely high similarity; likely direct copying."
	case TierHigh:
		return "High similarity; further review required."
	case TierMedium:
		return "Moderate similarity; possible shared reference material."
	case TierLow:
		return "Low similarity; within the normal range."
	default:
		return "Very low similarity; contents differ substantially."
	}
}

// PlagiarismLabel collapses a tier into the coarse HIGH/MEDIUM label
// attached to bid-response scan results.
func (t RiskTier) PlagiarismLabel() string {
	if t == TierVeryHigh || t == TierHigh {
		return "HIGH"
	}
	return "MEDIUM"
}

// Comparison is the ensemble output for one pair of texts.
type Comparison struct {
	Scores    map[string]MetricScore
	Overall   float64
	IsSimilar bool
	Tier      RiskTier
}

// MetricNames returns the computed metric names in sorted order, so
// renderers and aggregators walk the score map deterministically.
func (c Comparison) MetricNames() []string {
	names := make([]string, 0, len(c.Scores))
	for name := range c.Scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimilarityResult ties a Comparison to a canonical document pair.
// FileA always precedes FileB in the scan's input order, so {A,B} and
// {B,A} never both appear.
type SimilarityResult struct {
	FileA    string
	FileB    string
	CompanyA string
	CompanyB string
	Comparison

	// PlagiarismRisk is set on bid-response scans.
	PlagiarismRisk string
	// Patterns is set on per-company analysis.
	Patterns []string
}

// Match is one hit of a find-similar query.
type Match struct {
	FileName string
	Type     DocType
	Company  string
	Comparison
}
