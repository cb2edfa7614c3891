package flat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"legal-rag/internal/models"
)

// Store is the canonical in-memory index: brute-force exact Euclidean
// search over a pair of parallel slices, chunks[i] owning vectors[i].
type Store struct {
	dimension int
	vectors   [][]float32
	chunks    []models.Chunk
}

func New() *Store { return &Store{} }

func (s *Store) Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("vector %d is empty", i)
		}
		if s.dimension == 0 && i == 0 && len(s.vectors) == 0 {
			s.dimension = len(v)
		}
		if len(v) != s.dimension {
			return fmt.Errorf("vector %d has dimension %d, index expects %d", i, len(v), s.dimension)
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]models.RetrievedChunk, error) {
	if len(s.vectors) == 0 || topK <= 0 {
		return nil, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, index expects %d", len(vector), s.dimension)
	}

	ordinals := make([]int, len(s.vectors))
	distances := make([]float32, len(s.vectors))
	for i := range s.vectors {
		ordinals[i] = i
		distances[i] = euclidean(s.vectors[i], vector)
	}
	// stable: equal distances keep insertion order
	sort.SliceStable(ordinals, func(a, b int) bool {
		return distances[ordinals[a]] < distances[ordinals[b]]
	})

	if topK > len(ordinals) {
		topK = len(ordinals)
	}
	results := make([]models.RetrievedChunk, 0, topK)
	for _, ord := range ordinals[:topK] {
		results = append(results, models.RetrievedChunk{
			Chunk:    s.chunks[ord],
			Distance: distances[ord],
			Ordinal:  ord,
		})
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return len(s.vectors), nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.dimension = 0
	s.vectors = nil
	s.chunks = nil
	return nil
}

func euclidean(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
