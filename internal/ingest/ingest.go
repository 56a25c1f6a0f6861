package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"resume-chat/internal/embedding"
	"resume-chat/internal/helper"
	"resume-chat/internal/models"
	"resume-chat/internal/parser"
)

// ChunkWriter is the write side of a chunk store. Discard removes whatever a
// failed build left behind.
type ChunkWriter interface {
	StoreChunks(ctx context.Context, chunks []models.ChunkEmbedding) error
	Persist(ctx context.Context) error
	Discard(ctx context.Context) error
}

// CreateFunc resets the target store and returns a writer for it. Build calls
// it only once every chunk is embedded, so a failed load or embedding run
// leaves the previous store untouched.
type CreateFunc func(ctx context.Context) (ChunkWriter, error)

type Options struct {
	Dir          string
	ChunkSize    int
	ChunkOverlap int
	// DryRun prints the chunks instead of embedding and storing them.
	DryRun bool
}

type Result struct {
	Pages  int
	Chunks int
}

// Prepare loads every document in opts.Dir and splits it into chunks.
func Prepare(opts Options) ([]models.Chunk, Result, error) {
	pages, err := parser.LoadDir(opts.Dir)
	if err != nil {
		return nil, Result{}, fmt.Errorf("load documents: %w", err)
	}
	if len(pages) == 0 {
		return nil, Result{}, fmt.Errorf("no readable documents in %s", opts.Dir)
	}

	splitter, err := parser.NewSplitter(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, Result{}, err
	}
	chunks, err := splitter.Split(pages)
	if err != nil {
		return nil, Result{}, err
	}
	if len(chunks) == 0 {
		return nil, Result{}, fmt.Errorf("documents in %s produced no chunks", opts.Dir)
	}
	res := Result{Pages: len(pages), Chunks: len(chunks)}
	log.Info().Int("pages", res.Pages).Int("chunks", res.Chunks).Msg("Split documents")
	return chunks, res, nil
}

// Build loads, splits and embeds the documents, then creates the store and
// writes them. A write failure discards the new store.
func Build(ctx context.Context, opts Options, embedder embeddings.Embedder, create CreateFunc) (Result, error) {
	chunks, res, err := Prepare(opts)
	if err != nil {
		return Result{}, err
	}
	if opts.DryRun {
		helper.PrettyPrint(chunks)
		return res, nil
	}

	embedded, err := embedding.GenerateEmbedding(ctx, embedder, chunks)
	if err != nil {
		return Result{}, err
	}

	writer, err := create(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("create store: %w", err)
	}
	if err := write(ctx, writer, embedded); err != nil {
		if derr := writer.Discard(ctx); derr != nil {
			log.Error().Err(derr).Msg("Discarding partial store failed")
		}
		return Result{}, err
	}
	log.Info().Int("chunks", len(embedded)).Msg("Vector store built")
	return res, nil
}

// Run is Build against an already created writer.
func Run(ctx context.Context, opts Options, embedder embeddings.Embedder, writer ChunkWriter) (Result, error) {
	return Build(ctx, opts, embedder, func(context.Context) (ChunkWriter, error) {
		return writer, nil
	})
}

func write(ctx context.Context, writer ChunkWriter, embedded []models.ChunkEmbedding) error {
	if err := writer.StoreChunks(ctx, embedded); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	if err := writer.Persist(ctx); err != nil {
		return fmt.Errorf("persist store: %w", err)
	}
	return nil
}
