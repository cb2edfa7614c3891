package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig points at one model endpoint, either for embeddings or for
// generation. Provider selects the client: "openai" (any OpenAI-compatible
// API, OpenRouter included), "ollama" or "googleai".
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	ChunkSize     int    `yaml:"chunk_size"`
	ChunkOverlap  int    `yaml:"chunk_overlap"`
	TopK          int    `yaml:"top_k"`
	EncryptionKey string `yaml:"encryption_key"`
}

// StoreConfig selects the vector store backend: "flat" (in-memory exact L2,
// the default), "chromem" or "pgvector".
type StoreConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type Config struct {
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	GenLLM   LLMConfig      `yaml:"gen_llm"`
	RAG      RAGConfig      `yaml:"rag"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}
