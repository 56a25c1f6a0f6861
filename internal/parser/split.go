package parser

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"resume-chat/internal/models"
)

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

// Splitter cuts pages into overlapping chunks, preferring paragraph, line and
// word boundaries in that order.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = defaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}
	return &Splitter{splitter: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)}, nil
}

// Split returns the chunks of every page. ChunkID counts from 1 within a page.
func (s *Splitter) Split(pages []models.Page) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for _, p := range pages {
		parts, err := s.splitter.SplitText(p.Text)
		if err != nil {
			return nil, fmt.Errorf("split %s page %d: %w", p.Source, p.PageNumber, err)
		}
		id := 0
		for _, part := range parts {
			if part == "" {
				continue
			}
			id++
			chunks = append(chunks, models.Chunk{
				Content:        part,
				SourceFilename: p.Source,
				PageNumber:     p.PageNumber,
				ChunkID:        id,
			})
		}
	}
	return chunks, nil
}
