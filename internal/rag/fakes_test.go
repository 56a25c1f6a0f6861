package rag

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/embeddings"

	"resume-chat/internal/models"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

var _ embeddings.Embedder = (*fakeEmbedder)(nil)

type fakeIndex struct {
	results []models.ScoredChunk
	err     error
	lastK   int
}

func (f *fakeIndex) Search(ctx context.Context, embedding []float32, k int) ([]models.ScoredChunk, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

var _ ChunkIndex = (*fakeIndex)(nil)

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

var _ Generator = (*fakeGenerator)(nil)

var errBackendDown = errors.New("connection refused")

func scored(content string, sim float32) models.ScoredChunk {
	return models.ScoredChunk{
		Chunk:      models.Chunk{Content: content, SourceFilename: "resume.pdf", PageNumber: 1},
		Similarity: sim,
	}
}
