package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/embeddings"

	"resume-chat/internal/config"
	"resume-chat/internal/models"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return s.vectors, s.err
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[0], nil
}

var _ embeddings.Embedder = (*stubEmbedder)(nil)

func TestGenerateEmbedding(t *testing.T) {
	chunks := []models.Chunk{
		{Content: "one", SourceFilename: "resume.pdf", PageNumber: 1, ChunkID: 1},
		{Content: "two", SourceFilename: "resume.pdf", PageNumber: 1, ChunkID: 2},
	}
	out, err := GenerateEmbedding(context.Background(), &stubEmbedder{vectors: [][]float32{{1, 0}, {0, 1}}}, chunks)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "two", out[1].Content)
	assert.Equal(t, []float32{0, 1}, out[1].Embedding)
}

func TestGenerateEmbeddingEmpty(t *testing.T) {
	out, err := GenerateEmbedding(context.Background(), &stubEmbedder{}, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestGenerateEmbeddingErrors(t *testing.T) {
	chunks := []models.Chunk{{Content: "one"}, {Content: "two"}}

	_, err := GenerateEmbedding(context.Background(), &stubEmbedder{err: errors.New("503")}, chunks)
	assert.ErrorIs(t, err, models.ErrDependencyUnavailable)

	_, err = GenerateEmbedding(context.Background(), &stubEmbedder{vectors: [][]float32{{1}}}, chunks)
	assert.Error(t, err)

	_, err = GenerateEmbedding(context.Background(), &stubEmbedder{vectors: [][]float32{{1, 0}, {1}}}, chunks)
	assert.Error(t, err)
}

func TestNewEmbedderProviders(t *testing.T) {
	e, err := NewEmbedder(&config.LLMConfig{Provider: config.ProviderOpenAI, Key: "Bearer sk-test", Model: "text-embedding-ada-002"})
	require.NoError(t, err)
	assert.NotNil(t, e)

	e, err = NewEmbedder(&config.LLMConfig{Provider: config.ProviderOllama, BaseURL: "http://localhost:11434", Model: "nomic-embed-text"})
	require.NoError(t, err)
	assert.NotNil(t, e)

	_, err = NewEmbedder(&config.LLMConfig{Provider: "cohere"})
	assert.Error(t, err)
}
