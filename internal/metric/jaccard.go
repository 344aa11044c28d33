package metric

import "context"

const (
	defaultNGramSize   = 3
	defaultShingleSize = 5
)

// Jaccard scores the set overlap of fixed-length character windows.
// The n-gram and shingle metrics share the algorithm and differ only in
// window size, kept as separately configurable metrics.
type Jaccard struct {
	name   string
	window int
}

// NewNGramJaccard creates the character n-gram Jaccard metric.
func NewNGramJaccard(n int) *Jaccard {
	if n <= 0 {
		n = defaultNGramSize
	}
	return &Jaccard{name: NameNGramJaccard, window: n}
}

// NewShingleJaccard creates the character shingle Jaccard metric.
func NewShingleJaccard(k int) *Jaccard {
	if k <= 0 {
		k = defaultShingleSize
	}
	return &Jaccard{name: NameShingleJaccard, window: k}
}

func (m *Jaccard) Name() string { return m.name }

func (m *Jaccard) Compare(_ context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	setA := windows(a, m.window)
	setB := windows(b, m.window)

	union := len(setB)
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		// Both texts are shorter than the window; no grams exist, so
		// fall back to exact equality.
		if a == b {
			return 1, nil
		}
		return 0, nil
	}
	return float64(inter) / float64(union), nil
}

func windows(s string, n int) map[string]struct{} {
	runes := []rune(s)
	if len(runes) < n {
		return nil
	}
	set := make(map[string]struct{}, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}
