package metric

import (
	"context"

	"github.com/adrg/strutil/metrics"
)

// JaroWinkler is standard Jaro-Winkler string similarity, weighting
// common prefixes more heavily than generic edit distance.
type JaroWinkler struct {
	jw *metrics.JaroWinkler
}

// NewJaroWinkler creates the jaro-winkler metric.
func NewJaroWinkler() *JaroWinkler {
	return &JaroWinkler{jw: metrics.NewJaroWinkler()}
}

func (m *JaroWinkler) Name() string { return NameJaroWinkler }

func (m *JaroWinkler) Compare(_ context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	return m.jw.Compare(a, b), nil
}
