package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `embed_llm:
  provider: ollama
  base_url: http://localhost:11434
  model: paraphrase-multilingual-minilm
gen_llm:
  provider: googleai
  key: segredo
  model: gemini-1.5-flash-latest
rag:
  chunk_size: 500
  chunk_overlap: 50
  top_k: 5
store:
  backend: chromem
  path: ./chromemdb
  collection: jurisprudencia
  in_memory: true
database:
  dsn: postgres://localhost:5432/legalrag
  debug: true
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
	assert.Equal(t, "paraphrase-multilingual-minilm", cfg.EmbedLLM.Model)
	assert.Equal(t, "googleai", cfg.GenLLM.Provider)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, "chromem", cfg.Store.Backend)
	assert.True(t, cfg.Store.InMemory)
	assert.True(t, cfg.Database.Debug)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embed_llm: ["), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
