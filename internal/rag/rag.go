package rag

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"legal-rag/internal/models"
	"legal-rag/internal/vectorstore"
)

// Generator produces an answer from an assembled prompt. The concrete
// implementation lives in llmservice; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline bundles the store, embedder and generator for the lifetime of a
// corpus load. It is the explicit context object handed into every call;
// the package itself keeps no global state, so callers may rebuild or
// discard instances freely.
type Pipeline struct {
	store     vectorstore.Store
	embedder  embeddings.Embedder
	generator Generator
	topK      int
}

func NewPipeline(store vectorstore.Store, embedder embeddings.Embedder, generator Generator, topK int) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	return &Pipeline{store: store, embedder: embedder, generator: generator, topK: topK}
}

// Ingest chunks the documents and builds the vector index in one pass.
func (p *Pipeline) Ingest(ctx context.Context, docs []models.SourceDocument, window, overlap int) ([]models.Chunk, error) {
	chunks, err := ProcessDocuments(docs, window, overlap)
	if err != nil {
		return nil, err
	}
	if err := BuildIndex(ctx, p.store, p.embedder, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// Answer retrieves the most relevant chunks for the query and asks the
// generator for a grounded answer. External-capability failures degrade to
// a fixed user-safe message; the cited sources that were successfully
// retrieved are returned either way. Only an empty query is the caller's
// error.
func (p *Pipeline) Answer(ctx context.Context, query string) (models.Answer, error) {
	retrieved, err := Retrieve(ctx, p.store, p.embedder, query, p.topK)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			return models.Answer{}, err
		}
		log.Error().Err(err).Msg("Retrieval failed")
		return models.Answer{Text: models.GenerationFallback}, nil
	}

	prompt := BuildPrompt(query, retrieved)
	sources := CitedSources(retrieved)

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate answer")
		return models.Answer{Text: models.GenerationFallback, CitedSources: sources}, nil
	}
	return models.Answer{Text: text, CitedSources: sources}, nil
}
