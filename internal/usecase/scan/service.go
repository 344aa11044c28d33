// Package scan implements the corpus scanner: it enumerates document
// pairs and feeds them to the ensemble scorer in its four modes, plus
// the per-company analysis.
package scan

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tonyispowerful/pdf-process/internal/domain"
	"github.com/tonyispowerful/pdf-process/internal/metric"
	"github.com/tonyispowerful/pdf-process/internal/metrics"
)

// Scan mode names, used in outcomes and metrics labels.
const (
	ModeFullCorpus   = "full-corpus"
	ModeBidResponses = "bid-responses"
	ModeCompany      = "company"
)

// DefaultTopN caps find-similar results when the caller passes none.
const DefaultTopN = 5

// patternBound is the per-metric score above which a similarity
// pattern label is attached in company analysis.
const patternBound = 0.8

// Service runs corpus scans.
type Service struct {
	store    DocumentStore
	comparer Comparer
	workers  int
	topN     int
	logger   *zap.Logger
}

// New creates a scanner service.
func New(store DocumentStore, comparer Comparer, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		comparer: comparer,
		workers:  runtime.NumCPU(),
		topN:     DefaultTopN,
		logger:   logger,
	}
}

// WithWorkers configures the pair comparison concurrency.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithTopN configures the default find-similar result cap.
func (s *Service) WithTopN(n int) *Service {
	if n > 0 {
		s.topN = n
	}
	return s
}

// ScanAll compares every unordered pair of eligible documents in the
// corpus and returns the pairs scoring strictly above threshold,
// sorted by overall score descending. Fewer than two eligible
// documents yield an insufficient-data outcome, not an error.
func (s *Service) ScanAll(ctx context.Context, threshold float64) (domain.ScanOutcome, error) {
	docs, err := s.store.FetchAll(ctx)
	if err != nil {
		return domain.ScanOutcome{}, fmt.Errorf("fetch corpus: %w", err)
	}
	return s.scanPairs(ctx, ModeFullCorpus, docs, threshold, nil)
}

// ScanBidResponses restricts the scan to bid responses. Each result
// carries the submitting companies and a coarse plagiarism-risk label.
func (s *Service) ScanBidResponses(ctx context.Context, threshold float64) (domain.ScanOutcome, error) {
	docs, err := s.store.FetchByType(ctx, domain.TypeBidResponse)
	if err != nil {
		return domain.ScanOutcome{}, fmt.Errorf("fetch bid responses: %w", err)
	}
	return s.scanPairs(ctx, ModeBidResponses, docs, threshold, func(r *domain.SimilarityResult) {
		r.PlagiarismRisk = r.Tier.PlagiarismLabel()
	})
}

// CompareNamed compares one named document against another (the
// target-vs-template mode). A missing name yields
// domain.ErrDocumentNotFound; a text-less document yields
// domain.ErrEmptyContent.
func (s *Service) CompareNamed(ctx context.Context, target, template string) (domain.SimilarityResult, error) {
	targetDoc, err := s.store.FetchByName(ctx, target)
	if err != nil {
		return domain.SimilarityResult{}, fmt.Errorf("fetch target: %w", err)
	}
	templateDoc, err := s.store.FetchByName(ctx, template)
	if err != nil {
		return domain.SimilarityResult{}, fmt.Errorf("fetch template: %w", err)
	}
	if !targetDoc.HasText() {
		return domain.SimilarityResult{}, fmt.Errorf("target %s: %w", target, domain.ErrEmptyContent)
	}
	if !templateDoc.HasText() {
		return domain.SimilarityResult{}, fmt.Errorf("template %s: %w", template, domain.ErrEmptyContent)
	}

	return domain.SimilarityResult{
		FileA:      targetDoc.FileName,
		FileB:      templateDoc.FileName,
		CompanyA:   targetDoc.CompanyLabel(),
		CompanyB:   templateDoc.CompanyLabel(),
		Comparison: s.comparer.Compare(ctx, targetDoc.Text, templateDoc.Text),
	}, nil
}

// FindSimilar compares one named document against every other document
// in the corpus and returns the top-N matches strictly above
// threshold, descending. topN <= 0 selects the configured default.
func (s *Service) FindSimilar(
	ctx context.Context, fileName string, threshold float64, topN int,
) ([]domain.Match, error) {
	target, err := s.store.FetchByName(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("fetch target: %w", err)
	}
	if !target.HasText() {
		return nil, fmt.Errorf("target %s: %w", fileName, domain.ErrEmptyContent)
	}

	docs, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}
	if topN <= 0 {
		topN = s.topN
	}

	// On cancellation the matches gathered so far are still returned,
	// alongside the context error.
	var matches []domain.Match
	var scanErr error
	for _, doc := range docs {
		if doc.FileName == fileName || !doc.HasText() {
			continue
		}
		if err := ctx.Err(); err != nil {
			scanErr = err
			break
		}
		cmp := s.comparer.Compare(ctx, target.Text, doc.Text)
		if cmp.Overall > threshold {
			matches = append(matches, domain.Match{
				FileName:   doc.FileName,
				Type:       doc.Type,
				Company:    doc.CompanyLabel(),
				Comparison: cmp,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Overall > matches[j].Overall
	})
	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, scanErr
}

// AnalyzeCompany scans one company's submissions against each other.
// Qualifying pairs carry similarity-pattern labels derived from the
// per-metric scores.
func (s *Service) AnalyzeCompany(
	ctx context.Context, company string, threshold float64,
) (domain.CompanyAnalysis, error) {
	docs, err := s.store.FetchByCompany(ctx, company)
	if err != nil {
		return domain.CompanyAnalysis{}, fmt.Errorf("fetch company documents: %w", err)
	}

	outcome, err := s.scanPairs(ctx, ModeCompany, docs, threshold, func(r *domain.SimilarityResult) {
		r.Patterns = similarityPatterns(r.Comparison)
	})
	analysis := domain.CompanyAnalysis{
		Company:          company,
		TotalDocuments:   len(docs),
		SimilarPairs:     len(outcome.Results),
		Results:          outcome.Results,
		InsufficientData: outcome.InsufficientData,
	}
	if err != nil {
		return analysis, err
	}
	return analysis, nil
}

// scanPairs is the shared all-pairs core. Pair evaluation fans out to
// a bounded worker set keyed by pair index; results land in
// pre-allocated slots, so concurrency never reorders the outcome.
// Cancellation is checked between pair submissions; an interrupted
// scan returns the pairs finished so far, marked Partial, together
// with the context error.
func (s *Service) scanPairs(
	ctx context.Context,
	mode string,
	docs []domain.Document,
	threshold float64,
	decorate func(*domain.SimilarityResult),
) (domain.ScanOutcome, error) {
	start := time.Now()

	eligible := eligibleDocuments(docs)
	outcome := domain.ScanOutcome{
		Mode:         mode,
		Threshold:    threshold,
		EligibleDocs: len(eligible),
	}
	if len(eligible) < 2 {
		outcome.InsufficientData = true
		s.logger.Info("Skipping scan: not enough eligible documents",
			zap.String("mode", mode),
			zap.Int("eligible", len(eligible)),
		)
		return outcome, nil
	}

	type pair struct{ i, j int }
	pairs := make([]pair, 0, len(eligible)*(len(eligible)-1)/2)
	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	s.logger.Info("Scanning document pairs",
		zap.String("mode", mode),
		zap.Int("documents", len(eligible)),
		zap.Int("pairs", len(pairs)),
		zap.Float64("threshold", threshold),
	)

	comparisons := make([]domain.Comparison, len(pairs))
	computed := make([]bool, len(pairs))

	type job struct{ idx int }
	jobs := make(chan job)
	var wg sync.WaitGroup
	workers := s.workers
	if workers > len(pairs) {
		workers = len(pairs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				p := pairs[jb.idx]
				comparisons[jb.idx] = s.comparer.Compare(ctx, eligible[p.i].Text, eligible[p.j].Text)
				computed[jb.idx] = true
			}
		}()
	}

	var scanErr error
submit:
	for idx := range pairs {
		if err := ctx.Err(); err != nil {
			scanErr = err
			break submit
		}
		select {
		case <-ctx.Done():
			scanErr = ctx.Err()
			break submit
		case jobs <- job{idx: idx}:
		}
	}
	close(jobs)
	wg.Wait()

	for idx, p := range pairs {
		if !computed[idx] {
			continue
		}
		cmp := comparisons[idx]
		if cmp.Overall <= threshold {
			continue
		}
		result := domain.SimilarityResult{
			FileA:      eligible[p.i].FileName,
			FileB:      eligible[p.j].FileName,
			CompanyA:   eligible[p.i].CompanyLabel(),
			CompanyB:   eligible[p.j].CompanyLabel(),
			Comparison: cmp,
		}
		if decorate != nil {
			decorate(&result)
		}
		outcome.Results = append(outcome.Results, result)
	}

	// descending by score; stable keeps first-encountered pairs ahead on ties
	sort.SliceStable(outcome.Results, func(i, j int) bool {
		return outcome.Results[i].Overall > outcome.Results[j].Overall
	})

	outcome.Partial = scanErr != nil
	metrics.ScanDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	s.logger.Info("Scan finished",
		zap.String("mode", mode),
		zap.Int("similar_pairs", len(outcome.Results)),
		zap.Bool("partial", outcome.Partial),
		zap.Duration("duration", time.Since(start)),
	)
	return outcome, scanErr
}

// eligibleDocuments deduplicates by file name (first occurrence wins)
// and drops documents without text, preserving input order.
func eligibleDocuments(docs []domain.Document) []domain.Document {
	seen := make(map[string]bool, len(docs))
	eligible := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if !doc.HasText() || seen[doc.FileName] {
			continue
		}
		seen[doc.FileName] = true
		eligible = append(eligible, doc)
	}
	return eligible
}

// similarityPatterns labels which signals drive a high-similarity pair.
func similarityPatterns(cmp domain.Comparison) []string {
	var patterns []string
	if cmp.Scores[metric.NameLexical].Score > patternBound {
		patterns = append(patterns, "heavy vocabulary reuse")
	}
	if cmp.Scores[metric.NameStructural].Score > patternBound {
		patterns = append(patterns, "near-identical structure")
	}
	if cmp.Scores[metric.NameSemantic].Score > patternBound {
		patterns = append(patterns, "semantically equivalent content")
	}
	if len(patterns) == 0 {
		patterns = []string{"generally similar"}
	}
	return patterns
}
