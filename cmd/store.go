package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"resume-chat/internal/chromemdb"
	"resume-chat/internal/config"
	"resume-chat/internal/db"
	"resume-chat/internal/ingest"
	"resume-chat/internal/models"
	"resume-chat/internal/rag"
)

func chromemOptions(cfg *config.Config) chromemdb.Options {
	return chromemdb.Options{
		Path:          cfg.Store.Path,
		Collection:    cfg.Store.Collection,
		Compress:      cfg.Store.Compress,
		SnapshotFile:  cfg.Store.SnapshotFile,
		EncryptionKey: cfg.Store.EncryptionKey,
	}
}

// openStore loads the configured chunk store read-only.
func openStore(ctx context.Context, cfg *config.Config) (rag.ChunkIndex, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		sqldb, err := db.ConnectDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		bunDB := db.NewDB(sqldb, cfg.Database.Debug)
		store, err := db.Open(ctx, bunDB, &cfg.Database)
		if err != nil {
			bunDB.Close()
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := chromemdb.Open(chromemOptions(cfg))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

// buildStore runs ingestion. The store is reset only after every chunk has
// been embedded, so a failed run keeps whatever was there before.
func buildStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) error {
	closeFn := func() {}
	defer func() { closeFn() }()

	create := func(ctx context.Context) (ingest.ChunkWriter, error) {
		if cfg.Store.Backend != config.BackendPostgres {
			store, err := chromemdb.Create(chromemOptions(cfg))
			if err != nil {
				return nil, err
			}
			return store, nil
		}
		sqldb, err := db.ConnectDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		bunDB := db.NewDB(sqldb, cfg.Database.Debug)
		store, err := db.NewStore(bunDB, cfg.Database.Table, cfg.Database.Dimension)
		if err != nil {
			bunDB.Close()
			return nil, err
		}
		closeFn = func() { store.Close() }
		if err := store.Reset(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	res, err := ingest.Build(ctx, ingestOptions(cfg, false), embedder, create)
	if err != nil {
		return err
	}
	log.Info().Str("dir", cfg.KnowledgeDir).Int("pages", res.Pages).Int("chunks", res.Chunks).Msg("Ingestion complete")
	return nil
}

// openOrBuildStore opens the chunk store, running ingestion first when it
// does not exist yet. A store that still cannot be opened is an error.
func openOrBuildStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (rag.ChunkIndex, func(), error) {
	index, closeFn, err := openStore(ctx, cfg)
	if err == nil {
		return index, closeFn, nil
	}
	if !errors.Is(err, models.ErrStoreNotFound) {
		return nil, nil, err
	}

	log.Warn().Err(err).Str("dir", cfg.KnowledgeDir).Msg("Vector store missing, building it")
	if err := buildStore(ctx, cfg, embedder); err != nil {
		return nil, nil, fmt.Errorf("%w: ingestion failed: %w", models.ErrStoreNotFound, err)
	}
	return openStore(ctx, cfg)
}
