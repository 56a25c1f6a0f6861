package chromemdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"resume-chat/internal/models"
)

// Options locate a chunk collection on disk. With SnapshotFile set the
// collection lives in memory and is imported from / exported to that single
// (optionally encrypted) file instead of the persistent directory at Path.
type Options struct {
	Path          string
	Collection    string
	Compress      bool
	SnapshotFile  string
	EncryptionKey string
}

// VectorDBManager wraps a chromem-go database holding one chunk collection.
type VectorDBManager struct {
	db         *chromem.DB
	collection *chromem.Collection
	opts       Options
}

// Open loads an existing collection for serving. It fails with
// models.ErrStoreNotFound when ingestion has not produced one yet or left
// it empty.
func Open(opts Options) (*VectorDBManager, error) {
	if opts.SnapshotFile != "" {
		if _, err := os.Stat(opts.SnapshotFile); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", models.ErrStoreNotFound, opts.SnapshotFile)
			}
			return nil, err
		}
		db := chromem.NewDB()
		if err := db.ImportFromFile(opts.SnapshotFile, opts.EncryptionKey, opts.Collection); err != nil {
			return nil, fmt.Errorf("failed to import snapshot: %w", err)
		}
		return attach(db, opts)
	}

	if _, err := os.Stat(opts.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrStoreNotFound, opts.Path)
		}
		return nil, err
	}
	db, err := chromem.NewPersistentDB(opts.Path, opts.Compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return attach(db, opts)
}

func attach(db *chromem.DB, opts Options) (*VectorDBManager, error) {
	c := db.GetCollection(opts.Collection, nil)
	if c == nil {
		return nil, fmt.Errorf("%w: collection %q", models.ErrStoreNotFound, opts.Collection)
	}
	if c.Count() == 0 {
		return nil, fmt.Errorf("%w: collection %q is empty", models.ErrStoreNotFound, opts.Collection)
	}
	log.Info().Str("collection", opts.Collection).Int("chunks", c.Count()).Msg("Loaded vector store")
	return &VectorDBManager{db: db, collection: c, opts: opts}, nil
}

// Create starts a fresh collection for ingestion, dropping any previous one.
func Create(opts Options) (*VectorDBManager, error) {
	var db *chromem.DB
	if opts.SnapshotFile != "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(opts.Path, opts.Compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	if err := db.DeleteCollection(opts.Collection); err != nil {
		return nil, fmt.Errorf("failed to drop collection: %w", err)
	}
	c, err := db.CreateCollection(opts.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &VectorDBManager{db: db, collection: c, opts: opts}, nil
}

// Count returns the number of stored chunks.
func (m *VectorDBManager) Count() int {
	return m.collection.Count()
}

// StoreChunks adds embedded chunks to the collection.
func (m *VectorDBManager) StoreChunks(ctx context.Context, chunks []models.ChunkEmbedding) error {
	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %s#%d has no embedding", c.SourceFilename, c.ChunkID)
		}
		docs = append(docs, chromem.Document{
			ID:        fmt.Sprintf("%s-%d-%d", c.SourceFilename, c.PageNumber, c.ChunkID),
			Content:   c.Content,
			Metadata:  createMetadata(c.Chunk),
			Embedding: c.Embedding,
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Search returns up to k chunks nearest to embedding. chromem rejects k larger
// than the collection, so k is clamped and an empty collection returns nothing.
func (m *VectorDBManager) Search(ctx context.Context, embedding []float32, k int) ([]models.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, errors.New("query embedding is required")
	}
	n := min(k, m.collection.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	chunks := make([]models.ScoredChunk, len(results))
	for i, r := range results {
		chunks[i] = models.ScoredChunk{Chunk: parseMetadata(r.Content, r.Metadata), Similarity: r.Similarity}
	}
	return chunks, nil
}

// Export writes the collection to the snapshot file, encrypted when a key is set.
func (m *VectorDBManager) Export() error {
	if m.opts.SnapshotFile == "" {
		return errors.New("snapshot file is required")
	}
	log.Debug().Str("collection", m.collection.Name).Str("file", m.opts.SnapshotFile).Bool("compress", m.opts.Compress).Bool("encrypted", m.opts.EncryptionKey != "").Msg("Exporting collection")
	if err := m.db.ExportToFile(m.opts.SnapshotFile, m.opts.Compress, m.opts.EncryptionKey, m.collection.Name); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return nil
}

// Persist makes the collection durable: snapshot mode exports, directory mode
// already wrote every document on insert.
func (m *VectorDBManager) Persist(ctx context.Context) error {
	if m.opts.SnapshotFile != "" {
		return m.Export()
	}
	return nil
}

// Discard drops the collection, and the snapshot file in snapshot mode.
func (m *VectorDBManager) Discard(ctx context.Context) error {
	if err := m.db.DeleteCollection(m.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	if m.opts.SnapshotFile != "" {
		if err := os.Remove(m.opts.SnapshotFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove snapshot: %w", err)
		}
	}
	return nil
}

func createMetadata(c models.Chunk) map[string]string {
	return map[string]string{
		models.MetaSource: c.SourceFilename,
		models.MetaPage:   strconv.Itoa(c.PageNumber),
		models.MetaChunk:  strconv.Itoa(c.ChunkID),
	}
}

func parseMetadata(content string, meta map[string]string) models.Chunk {
	page, _ := strconv.Atoi(meta[models.MetaPage])
	chunk, _ := strconv.Atoi(meta[models.MetaChunk])
	return models.Chunk{
		Content:        content,
		SourceFilename: meta[models.MetaSource],
		PageNumber:     page,
		ChunkID:        chunk,
	}
}
