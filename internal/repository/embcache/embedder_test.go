package embcache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tonyispowerful/pdf-process/internal/db"
	"github.com/tonyispowerful/pdf-process/internal/domain"
)

type mapStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMapStore() *mapStore { return &mapStore{data: make(map[string][]byte)} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 7}, nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.5, -1.25, 3}}
	cache := New(inner, newMapStore(), zap.NewNop())
	ctx := context.Background()

	first, err := cache.Embed(ctx, "bid text")
	require.NoError(t, err)
	require.Equal(t, inner.vec, first.Embedding)
	require.Equal(t, 7, first.TotalTokens)
	require.Equal(t, 1, inner.calls)

	second, err := cache.Embed(ctx, "bid text")
	require.NoError(t, err)
	require.Equal(t, inner.vec, second.Embedding, "cached vector must round-trip exactly")
	require.Zero(t, second.TotalTokens, "cache hits consume no tokens")
	require.Equal(t, 1, inner.calls, "inner embedder must not be called again")
}

func TestCachedEmbedder_DistinctTextsDistinctEntries(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	cache := New(inner, newMapStore(), zap.NewNop())
	ctx := context.Background()

	_, err := cache.Embed(ctx, "text one")
	require.NoError(t, err)
	_, err = cache.Embed(ctx, "text two")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestCachedEmbedder_StoreFailuresFallThrough(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2}}
	s := newMapStore()
	s.getErr = errors.New("disk trouble")
	s.setErr = errors.New("disk trouble")
	cache := New(inner, s, zap.NewNop())

	res, err := cache.Embed(context.Background(), "text")
	require.NoError(t, err, "cache trouble must not fail the embedding")
	require.Equal(t, inner.vec, res.Embedding)
}

func TestCachedEmbedder_InnerErrorPropagates(t *testing.T) {
	inner := &countingEmbedder{err: domain.ErrEmbeddingProviderError}
	cache := New(inner, newMapStore(), zap.NewNop())

	_, err := cache.Embed(context.Background(), "text")
	require.ErrorIs(t, err, domain.ErrEmbeddingProviderError)
}
