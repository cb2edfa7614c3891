package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"legal-rag/internal/chunker"
	"legal-rag/internal/embedding"
	"legal-rag/internal/models"
	"legal-rag/internal/vectorstore"
)

// ErrEmptyQuery rejects blank queries before any external call is made.
var ErrEmptyQuery = errors.New("query must not be empty")

// ProcessDocuments turns the extracted documents into the flat chunk
// sequence that gets embedded and indexed. Each chunk carries a
// denormalized snapshot of its document's headnote and metadata, so it
// stays valid if the document list is reloaded.
func ProcessDocuments(docs []models.SourceDocument, window, overlap int) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for _, doc := range docs {
		if strings.TrimSpace(doc.FullText) == "" {
			log.Warn().Str("source", doc.Source).Msg("Document has no textual content to process")
			continue
		}
		texts, err := chunker.Chunk(doc.FullText, window, overlap)
		if err != nil {
			return nil, err
		}
		meta := models.ChunkMetadata{
			SourceDocument: doc.Source,
			Ementa:         doc.Ementa,
			DocMetadata:    doc.Metadata,
		}
		for _, text := range texts {
			chunks = append(chunks, models.Chunk{
				Text:     text,
				Source:   doc.Source,
				Metadata: meta,
			})
		}
	}
	if len(chunks) == 0 {
		log.Warn().Msg("No text chunks were generated")
	}
	log.Info().Int("chunks", len(chunks)).Msg("Text chunks created")
	return chunks, nil
}

// BuildIndex embeds every chunk text in one batch and bulk-inserts the
// vectors in chunk order. An empty chunk list leaves the store empty;
// retrieval then reports no information rather than failing.
func BuildIndex(ctx context.Context, store vectorstore.Store, embedder embeddings.Embedder, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		log.Warn().Msg("No chunks provided, index not built")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	log.Info().Int("chunks", len(texts)).Msg("Generating embeddings")
	vectors, err := embedding.EmbedTexts(ctx, embedder, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) == 0 {
		log.Warn().Msg("No embeddings were generated, index not built")
		return nil
	}

	if err := store.Add(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("failed to add vectors to store: %w", err)
	}
	log.Info().Int("vectors", len(vectors)).Msg("Vector store built")
	return nil
}

// Retrieve maps a query to its topK nearest chunks. A nil or empty store is
// a normal "no information available" outcome, not an error.
func Retrieve(ctx context.Context, store vectorstore.Store, embedder embeddings.Embedder, query string, topK int) ([]models.RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if store == nil {
		log.Warn().Msg("Vector store not initialized")
		return nil, nil
	}
	count, err := store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect vector store: %w", err)
	}
	if count == 0 {
		log.Warn().Msg("Vector store is empty")
		return nil, nil
	}

	vectors, err := embedding.EmbedTexts(ctx, embedder, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := store.Search(ctx, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	// Stores enforce the ordinal/chunk parity themselves; this guards
	// against a backend handing back an impossible position.
	retrieved := results[:0]
	for _, res := range results {
		if res.Ordinal < 0 || res.Ordinal >= count {
			log.Warn().Int("ordinal", res.Ordinal).Int("count", count).Msg("Search returned out-of-range ordinal, skipping")
			continue
		}
		retrieved = append(retrieved, res)
	}
	log.Info().Int("results", len(retrieved)).Msg("Relevant chunks found")
	return retrieved, nil
}

// CitedSources lists the distinct source documents of the retrieved chunks
// in rank order.
func CitedSources(retrieved []models.RetrievedChunk) []string {
	var sources []string
	seen := make(map[string]struct{}, len(retrieved))
	for _, res := range retrieved {
		if _, ok := seen[res.Source]; ok {
			continue
		}
		seen[res.Source] = struct{}{}
		sources = append(sources, res.Source)
	}
	return sources
}

// BuildPrompt assembles the grounded-generation prompt. When nothing was
// retrieved the context block is a fixed placeholder so the prompt shape
// stays stable.
func BuildPrompt(query string, retrieved []models.RetrievedChunk) string {
	contextBlock := models.NoContextPlaceholder
	sourcesInfo := models.NoSourcesLine
	if len(retrieved) > 0 {
		texts := make([]string, len(retrieved))
		for i, res := range retrieved {
			texts[i] = res.Text
		}
		contextBlock = strings.Join(texts, models.ContextSeparator)
		sourcesInfo = models.SourcesPrefix + strings.Join(CitedSources(retrieved), ", ")
	}
	return fmt.Sprintf(models.AnswerPromptTemplate, contextBlock, query, sourcesInfo)
}
