package metric

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
	"github.com/rivo/uniseg"
)

// Lexical scores token-level overlap: TF-IDF vectors are built over the
// two-document mini-corpus and compared by cosine similarity.
type Lexical struct {
	stem bool
}

// NewLexical creates the lexical-overlap metric. stem enables English
// stemming and stopword removal in the tokenizer.
func NewLexical(stem bool) *Lexical { return &Lexical{stem: stem} }

func (m *Lexical) Name() string { return NameLexical }

func (m *Lexical) Compare(_ context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	return tfidfCosine(m.tokenize(a), m.tokenize(b)), nil
}

// tokenize splits on UAX#29 word boundaries, lowercases, and drops
// tokens without letters or digits. CJK ideographs come out as single
// tokens, which stands in for dictionary-based segmentation.
func (m *Lexical) tokenize(text string) []string {
	var tokens []string
	state := -1
	var word string
	for text != "" {
		word, text, state = uniseg.FirstWordInString(text, state)
		tok := strings.ToLower(strings.TrimSpace(word))
		if tok == "" || !hasAlnum(tok) {
			continue
		}
		if m.stem {
			if snowballeng.IsStopWord(tok) {
				continue
			}
			tok = snowballeng.Stem(tok, false)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// tfidfCosine weighs raw term frequencies by smoothed inverse document
// frequency over the two-document corpus and returns the cosine of the
// resulting vectors. Terms are walked in sorted order so the float
// accumulation is reproducible.
func tfidfCosine(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	tfA, tfB := termFreq(a), termFreq(b)
	vocab := make([]string, 0, len(tfA)+len(tfB))
	seen := make(map[string]bool, len(tfA)+len(tfB))
	for _, tf := range []map[string]float64{tfA, tfB} {
		for term := range tf {
			if !seen[term] {
				seen[term] = true
				vocab = append(vocab, term)
			}
		}
	}
	sort.Strings(vocab)

	var dot, normA, normB float64
	for _, term := range vocab {
		df := 0
		if tfA[term] > 0 {
			df++
		}
		if tfB[term] > 0 {
			df++
		}
		// smoothed idf: log((n+1)/(df+1)) + 1 with n = 2 documents
		idf := math.Log(3/float64(df+1)) + 1
		wa := tfA[term] * idf
		wb := tfB[term] * idf
		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFreq(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	return tf
}
