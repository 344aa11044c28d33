package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Implementations hold warm model handles: they are constructed once
// per process and reused across comparisons.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage through
// the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
