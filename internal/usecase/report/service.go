// Package report builds the composite similarity report: a full-corpus
// scan plus a bid-response scan, rendered as plain text and written
// through a sink.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tonyispowerful/pdf-process/internal/domain"
)

// Fixed thresholds of the composite report's two sections.
const (
	fullScanThreshold = 0.6
	bidScanThreshold  = 0.7
)

// Scanner runs the scan modes the report aggregates.
type Scanner interface {
	ScanAll(ctx context.Context, threshold float64) (domain.ScanOutcome, error)
	ScanBidResponses(ctx context.Context, threshold float64) (domain.ScanOutcome, error)
}

// Sink persists a rendered report.
type Sink interface {
	Write(path string, data []byte) error
}

// Service assembles and persists similarity reports.
type Service struct {
	scanner Scanner
	sink    Sink
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a report service.
func New(scanner Scanner, sink Sink, logger *zap.Logger) *Service {
	return &Service{
		scanner: scanner,
		sink:    sink,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Build runs both report sections and assembles the tallied report.
func (s *Service) Build(ctx context.Context) (domain.ScanReport, error) {
	full, err := s.scanner.ScanAll(ctx, fullScanThreshold)
	if err != nil {
		return domain.ScanReport{}, fmt.Errorf("full-corpus scan: %w", err)
	}
	bids, err := s.scanner.ScanBidResponses(ctx, bidScanThreshold)
	if err != nil {
		return domain.ScanReport{}, fmt.Errorf("bid-response scan: %w", err)
	}

	rep := domain.ScanReport{
		GeneratedAt: s.now().UTC(),
		Sections:    []domain.ScanOutcome{full, bids},
	}
	for _, section := range rep.Sections {
		for _, r := range section.Results {
			rep.Summary.Add(r.Tier)
		}
	}
	return rep, nil
}

// Generate builds, renders and persists a report. A persist failure
// returns the built report alongside the error, so callers can still
// print it.
func (s *Service) Generate(ctx context.Context, path string) (domain.ScanReport, error) {
	rep, err := s.Build(ctx)
	if err != nil {
		return domain.ScanReport{}, err
	}
	if err := s.sink.Write(path, []byte(Render(rep))); err != nil {
		return rep, fmt.Errorf("write report %s: %w: %w", path, domain.ErrPersist, err)
	}
	s.logger.Info("Report written",
		zap.String("path", path),
		zap.Int("similar_pairs", rep.Summary.Total()),
	)
	return rep, nil
}

// Render formats a report as plain text. The output is a pure function
// of the report value.
func Render(rep domain.ScanReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	b.WriteString(rule + "\n")
	b.WriteString("Bid Document Similarity Report\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format(time.RFC3339))

	for i, section := range rep.Sections {
		fmt.Fprintf(&b, "%d. %s (threshold %.2f)\n", i+1, sectionTitle(section.Mode), section.Threshold)
		renderSection(&b, section)
		b.WriteString("\n")
	}

	b.WriteString("Summary\n")
	fmt.Fprintf(&b, "  similar pairs: %d (very-high %d, high %d, medium %d, low %d, minimal %d)\n",
		rep.Summary.Total(),
		rep.Summary.VeryHigh, rep.Summary.High, rep.Summary.Medium,
		rep.Summary.Low, rep.Summary.Minimal,
	)
	return b.String()
}

func sectionTitle(mode string) string {
	switch mode {
	case "bid-responses":
		return "Bid response cross-check"
	case "company":
		return "Company submission analysis"
	default:
		return "Full corpus scan"
	}
}

func renderSection(b *strings.Builder, section domain.ScanOutcome) {
	if section.InsufficientData {
		b.WriteString("  Not enough documents to compare.\n")
		return
	}
	if section.Partial {
		b.WriteString("  Scan interrupted; results below are incomplete.\n")
	}
	if len(section.Results) == 0 {
		fmt.Fprintf(b, "  No pairs above threshold among %d documents.\n", section.EligibleDocs)
		return
	}
	fmt.Fprintf(b, "  %d similar pair(s) among %d documents:\n", len(section.Results), section.EligibleDocs)
	for _, r := range section.Results {
		renderResult(b, r)
	}
}

func renderResult(b *strings.Builder, r domain.SimilarityResult) {
	fmt.Fprintf(b, "  - %s <-> %s: %.3f (%s)\n", r.FileA, r.FileB, r.Overall, r.Tier)
	if r.CompanyA != "" || r.CompanyB != "" {
		fmt.Fprintf(b, "    companies: %s / %s\n", orDash(r.CompanyA), orDash(r.CompanyB))
	}
	if r.PlagiarismRisk != "" {
		fmt.Fprintf(b, "    plagiarism risk: %s\n", r.PlagiarismRisk)
	}
	for _, name := range r.MetricNames() {
		ms := r.Scores[name]
		if ms.Failed {
			fmt.Fprintf(b, "    %s: failed\n", name)
			continue
		}
		fmt.Fprintf(b, "    %s: %.3f\n", name, ms.Score)
	}
	fmt.Fprintf(b, "    %s\n", r.Tier.Recommendation())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
