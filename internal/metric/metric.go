// Package metric holds the similarity metric library: independent,
// stateless scoring functions mapping a pair of texts to [0,1].
package metric

import (
	"context"
	"sort"

	"github.com/tonyispowerful/pdf-process/internal/domain"
)

// Metric names, used as weight-table and config keys.
const (
	NameLexical        = "lexical-overlap"
	NameEditDistance   = "edit-distance"
	NameSequenceRatio  = "sequence-ratio"
	NameJaroWinkler    = "jaro-winkler"
	NameNGramJaccard   = "n-gram-jaccard"
	NameShingleJaccard = "shingle-jaccard"
	NameStructural     = "structural"
	NameSemantic       = "semantic-embedding"
)

// Metric computes a normalized similarity score for a pair of texts.
// Implementations are symmetric, safe for concurrent use, and return
// 1.0 for two empty texts and 0.0 when exactly one text is empty.
type Metric interface {
	Name() string
	Compare(ctx context.Context, a, b string) (float64, error)
}

// DefaultWeights is the built-in weight table. It sums to 1.0 across
// the full metric set.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		NameLexical:        0.25,
		NameSemantic:       0.20,
		NameEditDistance:   0.15,
		NameNGramJaccard:   0.15,
		NameStructural:     0.10,
		NameSequenceRatio:  0.05,
		NameJaroWinkler:    0.05,
		NameShingleJaccard: 0.05,
	}
}

// Registry maps metric names to ready-to-use implementations.
// Heavyweight handles (the embedding provider) are created once when
// the registry is built and shared by every comparison.
type Registry struct {
	byName map[string]Metric
}

// NewRegistry creates a registry holding the given metrics.
func NewRegistry(metrics ...Metric) *Registry {
	r := &Registry{byName: make(map[string]Metric, len(metrics))}
	for _, m := range metrics {
		r.byName[m.Name()] = m
	}
	return r
}

// Get returns the metric registered under name.
func (r *Registry) Get(name string) (Metric, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names returns the registered metric names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures the default metric set.
type Options struct {
	NGramSize   int  // default 3
	ShingleSize int  // default 5
	Stemming    bool // English stemming in the lexical tokenizer
	// Embedder backs the semantic metric. A nil embedder keeps the
	// metric registered; it then fails per comparison and is scored 0
	// by the ensemble.
	Embedder domain.Embedder
}

// NewDefaultRegistry builds the full metric set.
func NewDefaultRegistry(opts Options) *Registry {
	return NewRegistry(
		NewLexical(opts.Stemming),
		NewEditDistance(),
		NewSequenceRatio(),
		NewJaroWinkler(),
		NewNGramJaccard(opts.NGramSize),
		NewShingleJaccard(opts.ShingleSize),
		NewStructural(),
		NewSemantic(opts.Embedder),
	)
}

// emptyScore handles the shared empty-text boundary. handled is false
// when both texts are non-empty and the metric must compute.
func emptyScore(a, b string) (score float64, handled bool) {
	switch {
	case a == "" && b == "":
		return 1, true
	case a == "" || b == "":
		return 0, true
	}
	return 0, false
}
