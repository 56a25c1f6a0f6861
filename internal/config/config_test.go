package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.EmbedLLM.Provider)
	assert.Equal(t, "text-embedding-ada-002", cfg.EmbedLLM.Model)
	assert.Equal(t, "gpt-3.5-turbo", cfg.InferenceLLM.Model)
	assert.InDelta(t, 0.1, cfg.InferenceLLM.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Equal(t, BackendChromem, cfg.Store.Backend)
	assert.Equal(t, "Bharat", cfg.Persona.Name)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := writeConfig(t, `
embed_llm:
  provider: ollama
inference_llm:
  provider: ollama
  temperature: 0.5
rag:
  top_k: 2
  min_similarity: 0.3
persona:
  name: Asha
server:
  session_ttl: 5m
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", cfg.EmbedLLM.Model)
	assert.Equal(t, "llama3", cfg.InferenceLLM.Model)
	assert.InDelta(t, 0.5, cfg.InferenceLLM.Temperature, 1e-9)
	assert.Equal(t, 2, cfg.RAG.TopK)
	assert.InDelta(t, 0.3, cfg.RAG.MinSimilarity, 1e-6)
	assert.Equal(t, "Asha", cfg.Persona.Name)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionTTL)
}

func TestLoadConfigKeepsExplicitZero(t *testing.T) {
	path := writeConfig(t, `
inference_llm:
  model: gpt-4o-mini
  temperature: 0
rag:
  chunk_size: 300
  chunk_overlap: 0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.InferenceLLM.Temperature)
	assert.Zero(t, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 300, cfg.RAG.ChunkSize)
	assert.Equal(t, "gpt-4o-mini", cfg.InferenceLLM.Model)
	assert.Equal(t, ProviderOpenAI, cfg.InferenceLLM.Provider)

	// sections present without those keys keep the defaults
	cfg, err = LoadConfig(writeConfig(t, `inference_llm:
  model: gpt-4o-mini
rag:
  top_k: 3
`))
	require.NoError(t, err)
	assert.InDelta(t, 0.1, cfg.InferenceLLM.Temperature, 1e-9)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
}

func TestLoadConfigEnvSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RESUME_CHAT_DATABASE_DSN", "postgres://localhost/resume")
	path := writeConfig(t, `
inference_llm:
  key: explicit
store:
  backend: postgres
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.EmbedLLM.Key)
	assert.Equal(t, "explicit", cfg.InferenceLLM.Key)
	assert.Equal(t, "postgres://localhost/resume", cfg.Database.DSN)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("RESUME_CHAT_DATABASE_DSN", "")
	cases := map[string]string{
		"overlap":   "rag:\n  chunk_size: 100\n  chunk_overlap: 100\n",
		"backend":   "store:\n  backend: faiss\n",
		"postgres":  "store:\n  backend: postgres\n",
		"provider":  "embed_llm:\n  provider: cohere\n",
		"key":       "store:\n  encryption_key: short\n",
		"bad yaml":  "rag: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}
