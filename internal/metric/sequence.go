package metric

import (
	"context"

	"github.com/pmezard/go-difflib/difflib"
)

// SequenceRatio is the classic matching-block ratio over raw character
// sequences: 2*M / T, where M is the total matched length and T the
// combined length of both sequences.
type SequenceRatio struct{}

// NewSequenceRatio creates the sequence-ratio metric.
func NewSequenceRatio() *SequenceRatio { return &SequenceRatio{} }

func (m *SequenceRatio) Name() string { return NameSequenceRatio }

func (m *SequenceRatio) Compare(_ context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	// The matcher's ratio is order-sensitive; fix the argument order so
	// the score does not depend on which text came first.
	if a > b {
		a, b = b, a
	}
	return difflib.NewMatcher(runeStrings(a), runeStrings(b)).Ratio(), nil
}

// runeStrings splits a string into per-rune elements so the matcher
// compares characters, not lines.
func runeStrings(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
