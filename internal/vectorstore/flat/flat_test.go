package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-rag/internal/models"
)

func chunksFor(texts ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{Text: text, Source: "doc.json"}
	}
	return chunks
}

func TestAddLengthMismatch(t *testing.T) {
	s := New()
	err := s.Add(context.Background(), chunksFor("a", "b"), [][]float32{{1, 0}})
	assert.Error(t, err)
}

func TestAddDimensionMismatch(t *testing.T) {
	s := New()
	err := s.Add(context.Background(), chunksFor("a", "b"), [][]float32{{1, 0}, {1, 0, 0}})
	assert.Error(t, err)
}

func TestSearchRanksByDistance(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Add(ctx, chunksFor("zero", "um", "dois"), [][]float32{{0, 0}, {1, 0}, {2, 0}}))

	results, err := s.Search(ctx, []float32{0.9, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Ordinal)
	assert.Equal(t, "um", results[0].Text)
	assert.Equal(t, 0, results[1].Ordinal)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestSearchTopKLargerThanIndex(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Add(ctx, chunksFor("a", "b"), [][]float32{{0, 0}, {1, 0}}))

	results, err := s.Search(ctx, []float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchStableTies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Add(ctx, chunksFor("primeiro", "segundo", "terceiro"), [][]float32{{1, 0}, {1, 0}, {1, 0}}))

	results, err := s.Search(ctx, []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	// equal distances keep insertion order
	assert.Equal(t, []int{0, 1, 2}, []int{results[0].Ordinal, results[1].Ordinal, results[2].Ordinal})
}

func TestSearchEmptyStore(t *testing.T) {
	results, err := New().Search(context.Background(), []float32{1, 2}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Add(ctx, chunksFor("a"), [][]float32{{1, 0}}))
	_, err := s.Search(ctx, []float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestCountAndReset(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Add(ctx, chunksFor("a", "b"), [][]float32{{0, 1}, {1, 0}}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.Reset(ctx))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
