package metric

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

var (
	sentenceRe = regexp.MustCompile(`[.!?。！？]`)
	numberRe   = regexp.MustCompile(`\d+`)
)

// Structural compares small per-text feature vectors: paragraph count,
// sentence count, numeric-token count, and punctuation-mark count.
// Each feature contributes 1 - |f1-f2|/(f1+f2), defined as 1 when both
// counts are zero, averaged across features.
type Structural struct{}

// NewStructural creates the structural metric.
func NewStructural() *Structural { return &Structural{} }

func (m *Structural) Name() string { return NameStructural }

func (m *Structural) Compare(_ context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	fa := structuralFeatures(a)
	fb := structuralFeatures(b)

	var sum float64
	for i := range fa {
		sum += featureSimilarity(fa[i], fb[i])
	}
	return sum / float64(len(fa)), nil
}

func structuralFeatures(text string) [4]int {
	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punct++
		}
	}
	return [4]int{
		len(strings.Split(text, "\n\n")),
		len(sentenceRe.Split(text, -1)),
		len(numberRe.FindAllString(text, -1)),
		punct,
	}
}

func featureSimilarity(f1, f2 int) float64 {
	if f1+f2 == 0 {
		return 1
	}
	diff := f1 - f2
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(f1+f2)
}
