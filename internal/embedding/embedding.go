package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"legal-rag/internal/config"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewEmbedder builds the embedding client for the configured provider.
// "openai" covers any OpenAI-compatible endpoint (OpenRouter included).
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama embedding client: %w", err)
		}
		return embeddings.NewEmbedder(llm)
	case "openai", "":
		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
		}
		return embeddings.NewEmbedder(llm)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// EmbedTexts embeds a batch of texts, one vector per input in input order.
// A batch whose row count differs from the input count is a hard failure,
// never a silently patched shape.
func EmbedTexts(ctx context.Context, embedder embeddings.Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		log.Info().Msg("No texts to embed")
		return nil, nil
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding batch shape mismatch: %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
