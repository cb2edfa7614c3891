package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legal-rag/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// newLLM builds the generation client for the configured provider.
func newLLM(ctx context.Context, cfg *config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "googleai":
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.Key),
			googleai.WithDefaultModel(cfg.Model),
		)
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	case "openai", "":
		return openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.Provider)
	}
}

// GenerateContent calls the configured LLM with the given messages.
func GenerateContent(ctx context.Context, llmConfig *config.LLMConfig, messages []llms.MessageContent) (*llms.ContentResponse, error) {
	log.Debug().Str("provider", llmConfig.Provider).Str("model", llmConfig.Model).Msg("Generating content")
	llm, err := newLLM(ctx, llmConfig)
	if err != nil {
		return nil, err
	}
	return llm.GenerateContent(ctx, messages)
}

// Client answers single-prompt generation requests. It satisfies the rag
// package's Generator interface.
type Client struct {
	cfg *config.LLMConfig
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := GenerateContent(ctx, c.cfg, messages)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", errors.New("generation returned no choices")
	}
	return res.Choices[0].Content, nil
}
