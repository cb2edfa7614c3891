package chromemdb

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"legal-rag/internal/config"
	"legal-rag/internal/helper"
	"legal-rag/internal/models"
)

const compress = false

// Store keeps chunk vectors in a chromem-go collection, optionally backed
// by disk so the built index survives process restarts. chromem ranks by
// cosine similarity; the reported distance is 1 - similarity, which keeps
// ascending-order semantics. Exact Euclidean parity is only promised by the
// flat backend.
type Store struct {
	db             *chromem.DB
	collection     *chromem.Collection
	dbPath         string
	collectionName string
	encryptionKey  string
	filePath       string
}

// New opens (or creates) the collection named in cfg. An in-memory store
// with an encryption key set can be exported to a single file and imported
// later.
func New(cfg *config.StoreConfig, encryptionKey string) (*Store, error) {
	var db *chromem.DB
	var err error
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	s := &Store{
		db:             db,
		dbPath:         cfg.Path,
		collectionName: cfg.Collection,
		encryptionKey:  encryptionKey,
		filePath:       cfg.Path + "/" + cfg.Collection + ".chromem",
	}
	s.collection, err = db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}
	return s, nil
}

func (s *Store) Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	base := s.collection.Count()
	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		id, err := helper.GenerateUUID()
		if err != nil {
			return err
		}
		meta, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode chunk metadata: %w", err)
		}
		docs = append(docs, chromem.Document{
			ID:        id,
			Content:   chunk.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"source":   chunk.Source,
				"ordinal":  strconv.Itoa(base + i),
				"metadata": string(meta),
			},
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]models.RetrievedChunk, error) {
	count := s.collection.Count()
	if count == 0 || topK <= 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	retrieved := make([]models.RetrievedChunk, 0, len(results))
	for _, res := range results {
		ordinal, err := strconv.Atoi(res.Metadata["ordinal"])
		if err != nil {
			log.Warn().Str("id", res.ID).Msg("Stored document has no ordinal, skipping")
			continue
		}
		var meta models.ChunkMetadata
		if err := json.Unmarshal([]byte(res.Metadata["metadata"]), &meta); err != nil {
			log.Warn().Str("id", res.ID).Err(err).Msg("Failed to decode chunk metadata")
		}
		retrieved = append(retrieved, models.RetrievedChunk{
			Chunk: models.Chunk{
				Text:     res.Content,
				Source:   res.Metadata["source"],
				Metadata: meta,
			},
			Distance: 1 - res.Similarity,
			Ordinal:  ordinal,
		})
	}
	return retrieved, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	c, err := s.db.GetOrCreateCollection(s.collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	s.collection = c
	return nil
}

// Export writes the collection to an encrypted file. Only meaningful for
// in-memory stores.
func (s *Store) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	log.Debug().Str("file", s.filePath).Str("collection", s.collectionName).Msg("Exporting collection")
	if err := s.db.ExportToFile(s.filePath, compress, s.encryptionKey, s.collectionName); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return nil
}

// Import restores a previously exported collection.
func (s *Store) Import(ctx context.Context) error {
	if err := s.db.ImportFromFile(s.filePath, s.encryptionKey); err != nil {
		return fmt.Errorf("failed to import database: %w", err)
	}
	c, err := s.db.GetOrCreateCollection(s.collectionName, nil, nil)
	if err != nil {
		return err
	}
	s.collection = c
	return nil
}
