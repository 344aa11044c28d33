package domain

import "time"

// ScanSummary counts results per risk tier.
type ScanSummary struct {
	VeryHigh int
	High     int
	Medium   int
	Low      int
	Minimal  int
}

// Add records one result in the tally.
func (s *ScanSummary) Add(t RiskTier) {
	switch t {
	case TierVeryHigh:
		s.VeryHigh++
	case TierHigh:
		s.High++
	case TierMedium:
		s.Medium++
	case TierLow:
		s.Low++
	default:
		s.Minimal++
	}
}

// Total returns the number of tallied results.
func (s ScanSummary) Total() int {
	return s.VeryHigh + s.High + s.Medium + s.Low + s.Minimal
}

// ScanOutcome is the structured result of one scanner mode. Results are
// sorted by overall score descending; ties keep input order.
// InsufficientData distinguishes "fewer than two eligible documents"
// from a scan that simply found nothing.
type ScanOutcome struct {
	Mode             string
	Threshold        float64
	EligibleDocs     int
	Results          []SimilarityResult
	InsufficientData bool
	// Partial marks an outcome cut short by cancellation; Results holds
	// the pairs evaluated before the cutoff.
	Partial bool
}

// CompanyAnalysis is the outcome of scanning one company's submissions
// against each other.
type CompanyAnalysis struct {
	Company          string
	TotalDocuments   int
	SimilarPairs     int
	Results          []SimilarityResult
	InsufficientData bool
}

// ScanReport is the assembled input of the report renderer. Rendering
// depends only on this value: identical reports produce identical bytes.
type ScanReport struct {
	GeneratedAt time.Time
	Sections    []ScanOutcome
	Summary     ScanSummary
}
