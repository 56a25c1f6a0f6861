package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"resume-chat/internal/config"
	"resume-chat/internal/models"
)

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Document is one chunk row. The table name is chosen at query time.
type Document struct {
	bun.BaseModel `bun:"table:resume_chunks,alias:d"`

	ID             int64           `bun:"id,pk,autoincrement"`
	Content        string          `bun:"content,notnull"`
	Embedding      pgvector.Vector `bun:"embedding,notnull,type:vector"`
	SourceFilename string          `bun:"source_filename,notnull"`
	PageNumber     int             `bun:"page_number,notnull"`
	ChunkID        int             `bun:"chunk_id,notnull"`
	Similarity     float32         `bun:"similarity,scanonly"`
}

// Store keeps chunks in a Postgres table with a pgvector column.
type Store struct {
	db        *bun.DB
	table     string
	dimension int
}

func ConnectDB(dbConfig *config.DatabaseConfig) (*sql.DB, error) {
	if dbConfig.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dbConfig.DSN))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func NewStore(db *bun.DB, table string, dimension int) (*Store, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid vector dimension %d", dimension)
	}
	return &Store{db: db, table: table, dimension: dimension}, nil
}

// Open checks that the chunk table exists and returns a store over it.
func Open(ctx context.Context, db *bun.DB, dbConfig *config.DatabaseConfig) (*Store, error) {
	s, err := NewStore(db, dbConfig.Table, dbConfig.Dimension)
	if err != nil {
		return nil, err
	}
	var name sql.NullString
	if err := db.NewRaw("SELECT to_regclass(?)", s.table).Scan(ctx, &name); err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", s.table, err)
	}
	if !name.Valid {
		return nil, fmt.Errorf("%w: table %s", models.ErrStoreNotFound, s.table)
	}
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: table %s is empty", models.ErrStoreNotFound, s.table)
	}
	log.Info().Str("table", s.table).Int("chunks", count).Msg("Loaded vector store")
	return s, nil
}

// Reset drops and recreates the chunk table for a fresh ingestion.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+s.table); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Discard drops the chunk table after a failed ingestion.
func (s *Store) Discard(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+s.table); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	return nil
}

func (s *Store) createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE %s (
	id BIGSERIAL PRIMARY KEY,
	content TEXT NOT NULL,
	embedding vector(%d) NOT NULL,
	source_filename TEXT NOT NULL,
	page_number INTEGER NOT NULL,
	chunk_id INTEGER NOT NULL
)`, s.table, s.dimension)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*Document)(nil)).ModelTableExpr(s.table + " AS d").Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func (s *Store) StoreChunks(ctx context.Context, chunks []models.ChunkEmbedding) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]Document, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) != s.dimension {
			return fmt.Errorf("chunk %s#%d: embedding dimension %d, table expects %d", c.SourceFilename, c.ChunkID, len(c.Embedding), s.dimension)
		}
		docs[i] = Document{
			Content:        c.Content,
			Embedding:      pgvector.NewVector(c.Embedding),
			SourceFilename: c.SourceFilename,
			PageNumber:     c.PageNumber,
			ChunkID:        c.ChunkID,
		}
	}
	if _, err := s.db.NewInsert().Model(&docs).ModelTableExpr(s.table).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

// Persist adds the cosine HNSW index once all rows are loaded.
func (s *Store) Persist(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)", s.table, s.table))
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	return nil
}

// Search returns up to k chunks ordered by cosine distance, with similarity = 1 - distance.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	var docs []Document
	if err := s.searchQuery(&docs, embedding, k).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	chunks := make([]models.ScoredChunk, len(docs))
	for i, d := range docs {
		chunks[i] = models.ScoredChunk{
			Chunk: models.Chunk{
				Content:        d.Content,
				SourceFilename: d.SourceFilename,
				PageNumber:     d.PageNumber,
				ChunkID:        d.ChunkID,
			},
			Similarity: d.Similarity,
		}
	}
	return chunks, nil
}

func (s *Store) searchQuery(dest *[]Document, embedding []float32, k int) *bun.SelectQuery {
	vec := pgvector.NewVector(embedding)
	return s.db.NewSelect().
		Model(dest).
		ModelTableExpr(s.table+" AS d").
		Column("content", "source_filename", "page_number", "chunk_id").
		ColumnExpr("1 - (embedding <=> ?) AS similarity", vec).
		OrderExpr("embedding <=> ?", vec).
		Limit(k)
}

func (s *Store) Close() error {
	return s.db.Close()
}
