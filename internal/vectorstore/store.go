package vectorstore

import (
	"context"

	"legal-rag/internal/models"
)

// Store holds chunk vectors and answers nearest-neighbor queries. Vectors
// are inserted in bulk at build time and never reordered afterwards: the
// ordinal handed back by Search always identifies the chunk inserted at
// that position.
type Store interface {
	// Add inserts chunks and their vectors, one vector per chunk, in the
	// given order.
	Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error

	// Search returns at most topK chunks ranked by ascending distance to
	// the query vector.
	Search(ctx context.Context, vector []float32, topK int) ([]models.RetrievedChunk, error)

	// Count reports the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Reset drops every indexed chunk.
	Reset(ctx context.Context) error
}
