package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"resume-chat/internal/models"
)

// ChunkIndex is the read side of a chunk store. Search returns at most k chunks
// ordered by descending similarity; an empty store yields no chunks and no error.
type ChunkIndex interface {
	Search(ctx context.Context, embedding []float32, k int) ([]models.ScoredChunk, error)
}

// Retriever embeds a query and looks up its nearest chunks.
type Retriever struct {
	index         ChunkIndex
	embedder      embeddings.Embedder
	topK          int
	minSimilarity float32
}

// NewRetriever returns a retriever over index. A positive minSimilarity drops
// results scoring below it; zero keeps every nearest neighbour.
func NewRetriever(index ChunkIndex, embedder embeddings.Embedder, topK int, minSimilarity float32) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{index: index, embedder: embedder, topK: topK, minSimilarity: minSimilarity}
}

// Retrieve returns the chunks most similar to query. Failures of the embedding
// backend or the index are reported as models.ErrDependencyUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.ErrEmptyQuery
	}
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", models.ErrDependencyUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embed query: %w: empty embedding", models.ErrDependencyUnavailable)
	}

	found, err := r.index.Search(ctx, vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w: %w", models.ErrDependencyUnavailable, err)
	}

	chunks := make([]models.ScoredChunk, 0, len(found))
	for _, c := range found {
		if r.minSimilarity > 0 && c.Similarity < r.minSimilarity {
			continue
		}
		chunks = append(chunks, c)
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Similarity > chunks[j].Similarity })
	if len(chunks) > r.topK {
		chunks = chunks[:r.topK]
	}

	log.Debug().Int("found", len(found)).Int("kept", len(chunks)).Msg("Retrieved chunks")
	return chunks, nil
}
