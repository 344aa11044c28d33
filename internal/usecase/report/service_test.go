package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tonyispowerful/pdf-process/internal/domain"
)

type fakeScanner struct {
	full    domain.ScanOutcome
	bids    domain.ScanOutcome
	fullErr error
	bidsErr error

	fullThreshold float64
	bidsThreshold float64
}

func (f *fakeScanner) ScanAll(ctx context.Context, threshold float64) (domain.ScanOutcome, error) {
	f.fullThreshold = threshold
	return f.full, f.fullErr
}

func (f *fakeScanner) ScanBidResponses(ctx context.Context, threshold float64) (domain.ScanOutcome, error) {
	f.bidsThreshold = threshold
	return f.bids, f.bidsErr
}

type fakeSink struct {
	path string
	data []byte
	err  error
}

func (f *fakeSink) Write(path string, data []byte) error {
	f.path = path
	f.data = data
	return f.err
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func sampleResult(fileA, fileB string, overall float64) domain.SimilarityResult {
	return domain.SimilarityResult{
		FileA: fileA,
		FileB: fileB,
		Comparison: domain.Comparison{
			Scores: map[string]domain.MetricScore{
				"lexical-overlap": {Metric: "lexical-overlap", Score: overall},
				"edit-distance":   {Metric: "edit-distance", Score: overall - 0.05},
			},
			Overall:   overall,
			IsSimilar: overall > 0.7,
			Tier:      domain.TierForScore(overall),
		},
	}
}

func TestBuildUsesSectionThresholds(t *testing.T) {
	scanner := &fakeScanner{
		full: domain.ScanOutcome{Mode: "full-corpus", Threshold: 0.6, EligibleDocs: 3},
		bids: domain.ScanOutcome{Mode: "bid-responses", Threshold: 0.7, EligibleDocs: 2},
	}
	svc := New(scanner, &fakeSink{}, zap.NewNop()).WithClock(fixedClock)

	rep, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if scanner.fullThreshold != 0.6 {
		t.Errorf("full-corpus threshold = %v, want 0.6", scanner.fullThreshold)
	}
	if scanner.bidsThreshold != 0.7 {
		t.Errorf("bid-response threshold = %v, want 0.7", scanner.bidsThreshold)
	}
	if len(rep.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(rep.Sections))
	}
	if !rep.GeneratedAt.Equal(fixedClock()) {
		t.Errorf("GeneratedAt = %v, want fixed clock", rep.GeneratedAt)
	}
}

func TestBuildTalliesSummary(t *testing.T) {
	scanner := &fakeScanner{
		full: domain.ScanOutcome{Mode: "full-corpus", Results: []domain.SimilarityResult{
			sampleResult("a.pdf", "b.pdf", 0.95),
			sampleResult("a.pdf", "c.pdf", 0.65),
		}},
		bids: domain.ScanOutcome{Mode: "bid-responses", Results: []domain.SimilarityResult{
			sampleResult("x.pdf", "y.pdf", 0.85),
		}},
	}
	svc := New(scanner, &fakeSink{}, zap.NewNop()).WithClock(fixedClock)

	rep, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Summary.Total() != 3 {
		t.Errorf("Summary.Total = %d, want 3", rep.Summary.Total())
	}
	if rep.Summary.VeryHigh != 1 || rep.Summary.High != 1 || rep.Summary.Low != 1 {
		t.Errorf("summary tally = %+v", rep.Summary)
	}
}

func TestBuildScanError(t *testing.T) {
	wantErr := errors.New("store down")
	svc := New(&fakeScanner{bidsErr: wantErr}, &fakeSink{}, zap.NewNop())

	_, err := svc.Build(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped scan error", err)
	}
}

func TestGenerateWritesRenderedReport(t *testing.T) {
	scanner := &fakeScanner{
		full: domain.ScanOutcome{Mode: "full-corpus", Threshold: 0.6, EligibleDocs: 2,
			Results: []domain.SimilarityResult{sampleResult("a.pdf", "b.pdf", 0.95)}},
		bids: domain.ScanOutcome{Mode: "bid-responses", Threshold: 0.7, InsufficientData: true},
	}
	sink := &fakeSink{}
	svc := New(scanner, sink, zap.NewNop()).WithClock(fixedClock)

	rep, err := svc.Generate(context.Background(), "out/report.txt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if sink.path != "out/report.txt" {
		t.Errorf("sink path = %q", sink.path)
	}
	if string(sink.data) != Render(rep) {
		t.Error("persisted bytes differ from Render output")
	}
}

func TestGeneratePersistFailureKeepsReport(t *testing.T) {
	scanner := &fakeScanner{
		full: domain.ScanOutcome{Mode: "full-corpus",
			Results: []domain.SimilarityResult{sampleResult("a.pdf", "b.pdf", 0.95)}},
		bids: domain.ScanOutcome{Mode: "bid-responses", InsufficientData: true},
	}
	sinkErr := errors.New("read-only fs")
	svc := New(scanner, &fakeSink{err: sinkErr}, zap.NewNop()).WithClock(fixedClock)

	rep, err := svc.Generate(context.Background(), "out/report.txt")
	if !errors.Is(err, domain.ErrPersist) {
		t.Fatalf("err = %v, want ErrPersist", err)
	}
	if !errors.Is(err, sinkErr) {
		t.Fatalf("err = %v, want the sink failure preserved in the chain", err)
	}
	if rep.Summary.Total() != 1 {
		t.Error("built report must survive a persist failure")
	}
}

func TestRenderDeterministic(t *testing.T) {
	rep := domain.ScanReport{
		GeneratedAt: fixedClock(),
		Sections: []domain.ScanOutcome{
			{Mode: "full-corpus", Threshold: 0.6, EligibleDocs: 3,
				Results: []domain.SimilarityResult{sampleResult("a.pdf", "b.pdf", 0.95)}},
			{Mode: "bid-responses", Threshold: 0.7, EligibleDocs: 2},
		},
	}
	rep.Summary.Add(domain.TierVeryHigh)

	first := Render(rep)
	for i := 0; i < 5; i++ {
		if got := Render(rep); got != first {
			t.Fatal("Render must be byte-identical for an identical report")
		}
	}
}

func TestRenderContent(t *testing.T) {
	result := sampleResult("a.pdf", "b.pdf", 0.95)
	result.CompanyA = "Acme"
	result.CompanyB = "Globex"
	result.PlagiarismRisk = "HIGH"

	rep := domain.ScanReport{
		GeneratedAt: fixedClock(),
		Sections: []domain.ScanOutcome{
			{Mode: "full-corpus", Threshold: 0.6, InsufficientData: true},
			{Mode: "bid-responses", Threshold: 0.7, EligibleDocs: 4,
				Results: []domain.SimilarityResult{result}},
		},
	}
	rep.Summary.Add(domain.TierVeryHigh)

	out := Render(rep)
	for _, want := range []string{
		"Generated: 2026-03-14T09:30:00Z",
		"1. Full corpus scan (threshold 0.60)",
		"Not enough documents to compare.",
		"2. Bid response cross-check (threshold 0.70)",
		"a.pdf <-> b.pdf: 0.950 (very-high)",
		"companies: Acme / Globex",
		"plagiarism risk: HIGH",
		"edit-distance: 0.900",
		"lexical-overlap: 0.950",
		"Extremely high similarity; likely direct copying.",
		"similar pairs: 1 (very-high 1, high 0, medium 0, low 0, minimal 0)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q\n%s", want, out)
		}
	}
}

func TestRenderMetricLinesSorted(t *testing.T) {
	rep := domain.ScanReport{
		GeneratedAt: fixedClock(),
		Sections: []domain.ScanOutcome{
			{Mode: "full-corpus", Threshold: 0.6, EligibleDocs: 2,
				Results: []domain.SimilarityResult{sampleResult("a.pdf", "b.pdf", 0.95)}},
		},
	}

	out := Render(rep)
	if strings.Index(out, "edit-distance") > strings.Index(out, "lexical-overlap") {
		t.Error("per-metric lines must be in sorted name order")
	}
}
