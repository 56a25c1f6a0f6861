package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"resume-chat/internal/api"
	"resume-chat/internal/classifier"
	"resume-chat/internal/config"
	"resume-chat/internal/embedding"
	"resume-chat/internal/ingest"
	"resume-chat/internal/llmservice"
	"resume-chat/internal/models"
	"resume-chat/internal/rag"
	"resume-chat/internal/tui"
)

const (
	defaultConfigPath = "./configs/config.yaml"
	tuiLogFile        = "resume-chat.log"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	ingestDocs := flag.Bool("ingest", false, "Build the vector store from the knowledge directory")
	dryRun := flag.Bool("dry-run", false, "Print the chunks ingestion would store, do not embed or save")
	query := flag.String("query", "", "Answer a single question and exit")
	serve := flag.Bool("serve", false, "Serve the web chat")
	tuiMode := flag.Bool("tui", false, "Chat in the terminal")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	closeLog := setupLogging(cfg.LogLevel, *tuiMode)
	defer closeLog()
	log.Debug().Str("config", *configPath).Str("backend", cfg.Store.Backend).Str("embed_model", cfg.EmbedLLM.Model).Str("inference_model", cfg.InferenceLLM.Model).Msg("Loaded config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *dryRun {
		if _, err := ingest.Run(ctx, ingestOptions(cfg, true), nil, nil); err != nil {
			log.Fatal().Err(err).Msg("Error running ingestion")
		}
		return
	}

	if !*ingestDocs && !*serve && !*tuiMode && *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	if *ingestDocs {
		if err := buildStore(ctx, cfg, embedder); err != nil {
			log.Fatal().Err(err).Msg("Error building vector store")
		}
		if !*serve && !*tuiMode && *query == "" {
			return
		}
	}

	index, closeIndex, err := openOrBuildStore(ctx, cfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	defer closeIndex()

	router, err := newRouter(cfg, embedder, index)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building router")
	}

	switch {
	case *query != "":
		reply, _ := router.Answer(ctx, *query, rag.Session{})
		fmt.Println(reply.Text)
		if reply.Kind == models.ReplyFailure {
			os.Exit(1)
		}
	case *tuiMode:
		p := tea.NewProgram(tui.New(ctx, router, cfg.Persona.Name), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.Fatal().Err(err).Msg("Error running terminal chat")
		}
	case *serve:
		if err := api.New(router, cfg.Server).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error serving chat")
		}
	}
}

// setupLogging configures the global logger. The terminal chat owns the
// screen, so its logs go to a file instead.
func setupLogging(level string, toFile bool) func() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	closer := func() {}
	if toFile {
		f, err := os.OpenFile(tuiLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			out = io.Discard
		} else {
			out = zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}
			closer = func() { f.Close() }
		}
	}
	log.Logger = log.Output(out).With().Caller().Logger()
	if err != nil {
		log.Warn().Str("log_level", level).Msg("Unknown log level, using info")
	}
	return closer
}

func newRouter(cfg *config.Config, embedder embeddings.Embedder, index rag.ChunkIndex) (*rag.Router, error) {
	categories := classifier.DefaultCategories()
	if cfg.RulesFile != "" {
		var err error
		categories, err = classifier.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
	}
	keywords, err := classifier.New(categories, cfg.Persona.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid rule table: %w", err)
	}
	log.Debug().Strs("categories", keywords.Categories()).Msg("Loaded keyword rules")

	llm, err := llmservice.NewClient(&cfg.InferenceLLM)
	if err != nil {
		return nil, err
	}

	fallbacks := rag.Fallbacks{
		First:    cfg.Fallbacks.First,
		Second:   cfg.Fallbacks.Second,
		Repeated: cfg.Fallbacks.Repeated,
		Failure:  cfg.Fallbacks.Failure,
	}.Merge(rag.DefaultFallbacks())

	return rag.NewRouter(
		keywords,
		rag.NewRetriever(index, embedder, cfg.RAG.TopK, cfg.RAG.MinSimilarity),
		rag.NewComposer(llm, cfg.Persona.Name, fallbacks),
		cfg.Persona.Name,
	), nil
}

func ingestOptions(cfg *config.Config, dryRun bool) ingest.Options {
	return ingest.Options{
		Dir:          cfg.KnowledgeDir,
		ChunkSize:    cfg.RAG.ChunkSize,
		ChunkOverlap: cfg.RAG.ChunkOverlap,
		DryRun:       dryRun,
	}
}
