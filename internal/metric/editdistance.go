package metric

import (
	"context"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

// EditDistance is normalized Levenshtein similarity:
// 1 - distance / max(len(a), len(b)), lengths in runes.
type EditDistance struct {
	lev *metrics.Levenshtein
}

// NewEditDistance creates the edit-distance metric with unit costs.
func NewEditDistance() *EditDistance {
	return &EditDistance{lev: metrics.NewLevenshtein()}
}

func (m *EditDistance) Name() string { return NameEditDistance }

func (m *EditDistance) Compare(_ context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	dist := m.lev.Distance(a, b)
	return 1 - float64(dist)/float64(maxLen), nil
}
