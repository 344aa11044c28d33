package metric

import (
	"context"
	"fmt"
	"math"

	"github.com/tonyispowerful/pdf-process/internal/domain"
)

// Semantic encodes each text with a sentence-embedding model and
// returns the cosine similarity of the two vectors. The embedder
// handle is injected once and reused across comparisons.
type Semantic struct {
	embedder domain.Embedder
}

// NewSemantic creates the semantic-embedding metric. A nil embedder is
// allowed; every comparison then fails and the ensemble scores it 0.
func NewSemantic(e domain.Embedder) *Semantic { return &Semantic{embedder: e} }

func (m *Semantic) Name() string { return NameSemantic }

func (m *Semantic) Compare(ctx context.Context, a, b string) (float64, error) {
	if s, ok := emptyScore(a, b); ok {
		return s, nil
	}
	if m.embedder == nil {
		return 0, fmt.Errorf("no embedding provider configured: %w", domain.ErrEmbeddingProviderError)
	}

	ra, err := m.embedder.Embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("embed first text: %w", err)
	}
	rb, err := m.embedder.Embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("embed second text: %w", err)
	}

	sim, err := cosine(ra.Embedding, rb.Embedding)
	if err != nil {
		return 0, err
	}
	// Float32 vectors can drift a hair outside [0,1]; anti-correlated
	// embeddings carry no similarity signal.
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions mismatch: %d vs %d: %w",
			len(a), len(b), domain.ErrEmbeddingProviderError)
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
