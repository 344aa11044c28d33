package domain

import "testing"

func TestTierForScore_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskTier
	}{
		{0.95, TierVeryHigh},
		{0.91, TierVeryHigh},
		{0.9, TierHigh}, // band edges fall into the lower tier
		{0.85, TierHigh},
		{0.8, TierMedium},
		{0.75, TierMedium},
		{0.7, TierLow},
		{0.6, TierLow},
		{0.5, TierMinimal},
		{0.1, TierMinimal},
		{0, TierMinimal},
	}
	for _, tc := range cases {
		if got := TierForScore(tc.score); got != tc.want {
			t.Errorf("TierForScore(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestPlagiarismLabel(t *testing.T) {
	if TierVeryHigh.PlagiarismLabel() != "HIGH" || TierHigh.PlagiarismLabel() != "HIGH" {
		t.Error("very-high and high tiers must map to HIGH")
	}
	if TierMedium.PlagiarismLabel() != "MEDIUM" || TierMinimal.PlagiarismLabel() != "MEDIUM" {
		t.Error("lower tiers must map to MEDIUM")
	}
}

func TestRecommendation_OneSentencePerTier(t *testing.T) {
	tiers := []RiskTier{TierVeryHigh, TierHigh, TierMedium, TierLow, TierMinimal}
	seen := make(map[string]bool)
	for _, tier := range tiers {
		rec := tier.Recommendation()
		if rec == "" {
			t.Fatalf("tier %s has no recommendation", tier)
		}
		if seen[rec] {
			t.Fatalf("tier %s reuses another tier's recommendation", tier)
		}
		seen[rec] = true
	}
}

func TestScanSummary(t *testing.T) {
	var s ScanSummary
	for _, tier := range []RiskTier{TierVeryHigh, TierHigh, TierHigh, TierMedium, TierMinimal} {
		s.Add(tier)
	}
	if s.VeryHigh != 1 || s.High != 2 || s.Medium != 1 || s.Low != 0 || s.Minimal != 1 {
		t.Errorf("unexpected tally: %+v", s)
	}
	if s.Total() != 5 {
		t.Errorf("Total() = %d, want 5", s.Total())
	}
}

func TestParseDocType(t *testing.T) {
	if ParseDocType("bid-response") != TypeBidResponse {
		t.Error("bid-response not recognized")
	}
	if ParseDocType("weird") != TypeUnspecified {
		t.Error("unknown type must default to unspecified")
	}
}

func TestCompanyLabel(t *testing.T) {
	d := Document{Company: "acme", Purchaser: "city hall"}
	if d.CompanyLabel() != "city hall" {
		t.Error("purchaser should win when present")
	}
	d.Purchaser = ""
	if d.CompanyLabel() != "acme" {
		t.Error("submitting company expected as fallback")
	}
}
