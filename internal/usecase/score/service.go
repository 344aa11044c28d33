// Package score implements the ensemble scorer: it combines the
// configured metric subset into one weighted similarity score and a
// risk classification.
package score

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tonyispowerful/pdf-process/internal/domain"
	"github.com/tonyispowerful/pdf-process/internal/metric"
	"github.com/tonyispowerful/pdf-process/internal/metrics"
)

// DefaultThreshold is the similarity decision threshold when the
// caller configures none.
const DefaultThreshold = 0.7

// Config holds the ensemble settings.
type Config struct {
	// Metrics selects the subset to run; empty selects every metric
	// the provider registers.
	Metrics []string
	// Weights overrides entries of the built-in weight table. Weights
	// must be non-negative.
	Weights map[string]float64
	// Threshold is the is_similar decision bound; <= 0 selects
	// DefaultThreshold. The decision is strict: a score exactly at the
	// threshold is not similar.
	Threshold float64
	// Renormalize divides the weighted sum by the sum of the selected
	// weights. Off by default: with a strict subset the overall score
	// then stays capped below 1.0 by the unused weights. The two modes
	// must not be mixed within one scan.
	Renormalize bool
}

// Service scores pairs of texts.
type Service struct {
	registry    MetricProvider
	weights     map[string]float64
	selected    []string
	threshold   float64
	renormalize bool
	logger      *zap.Logger
}

// New creates an ensemble scorer. Metric names in cfg must be
// registered and weights non-negative.
func New(registry MetricProvider, cfg Config, logger *zap.Logger) (*Service, error) {
	selected := cfg.Metrics
	if len(selected) == 0 {
		selected = registry.Names()
	}
	// sorted copy: the aggregation order is part of determinism
	selected = append([]string(nil), selected...)
	sort.Strings(selected)

	weights := metric.DefaultWeights()
	for name, w := range cfg.Weights {
		if w < 0 {
			return nil, fmt.Errorf("metric %s: weight %v: %w", name, w, domain.ErrInvalidWeight)
		}
		weights[name] = w
	}

	for _, name := range selected {
		if _, ok := registry.Get(name); !ok {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrUnknownMetric)
		}
	}

	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Service{
		registry:    registry,
		weights:     weights,
		selected:    selected,
		threshold:   threshold,
		renormalize: cfg.Renormalize,
		logger:      logger,
	}, nil
}

// Threshold returns the configured is_similar decision bound.
func (s *Service) Threshold() float64 { return s.threshold }

// Compare runs every selected metric on the pair and aggregates the
// weighted overall score. A metric failure is logged, counted, scored
// as 0, and never aborts the comparison.
func (s *Service) Compare(ctx context.Context, textA, textB string) domain.Comparison {
	metrics.ComparisonsTotal.Inc()

	scores := make(map[string]domain.MetricScore, len(s.selected))
	var overall, usedWeight float64

	for _, name := range s.selected {
		m, _ := s.registry.Get(name)
		value, err := m.Compare(ctx, textA, textB)
		if err != nil {
			metrics.MetricFailuresTotal.WithLabelValues(name).Inc()
			s.logger.Warn("Metric computation failed",
				zap.String("metric", name),
				zap.Error(err),
			)
			scores[name] = domain.MetricScore{Metric: name, Failed: true}
		} else {
			scores[name] = domain.MetricScore{Metric: name, Score: value}
		}

		w := s.weights[name]
		overall += w * scores[name].Score
		usedWeight += w
	}

	if s.renormalize && usedWeight > 0 {
		overall /= usedWeight
	}

	return domain.Comparison{
		Scores:    scores,
		Overall:   overall,
		IsSimilar: overall > s.threshold,
		Tier:      domain.TierForScore(overall),
	}
}
