package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lightrag/internal/chunker"
	"lightrag/internal/config"
	"lightrag/internal/domain"
	"lightrag/internal/embedding"
	"lightrag/internal/loader"
	"lightrag/internal/logger"
	"lightrag/internal/logger/console"
	"lightrag/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lightrag",
		Short: "Graph-augmented retrieval over local documents",
		Long: `Build an in-memory LightRAG index from text files or a SQLite table and
query it with vector similarity, knowledge-graph signals, or both.

The index lives in memory, so every command indexes its inputs first.

Examples:
  lightrag index notes/*.md
  lightrag query docs/ -q "What does Alice love?" --mode hybrid -n 5
  lightrag query --sqlite chats.db --sql "SELECT chat, body FROM messages" -q "release"
  lightrag tui docs/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to YAML config (default ./lightrag.yaml or ~/.config/lightrag/config.yaml)")
	pf.Bool("debug", false, "Enable debug logging")
	pf.String("sqlite", "", "Read documents from this SQLite database instead of files")
	pf.String("sql", "", "Query returning (source, text) rows; used with --sqlite")
	pf.Int("batch-size", 0, "Documents per embedding call (default from config)")

	root.AddCommand(newIndexCmd(), newQueryCmd(), newTUICmd())
	return root
}

// session is an indexed retriever ready to answer queries.
type session struct {
	cfg       *config.AppConfig
	retriever *service.Synchronized
	documents int
}

func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func openSession(cmd *cobra.Command, args []string) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger.Init(console.New(console.Params{Debug: debug || cfg.Log.Debug, Output: cmd.ErrOrStderr()}))

	docs, err := loadDocuments(ctx, cmd, cfg, args)
	if err != nil {
		return nil, err
	}

	backend, err := embedding.New(cfg.EmbeddingConfig())
	if err != nil {
		return nil, err
	}

	var opts []service.Option
	if cfg.Chunker.Type == "sentence" {
		opts = append(opts, service.WithChunker(
			chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)))
	}
	r := service.NewSynchronized(service.New(cfg.ServiceConfig(), backend, opts...))

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	if batchSize <= 0 {
		batchSize = cfg.Loader.BatchSize
	}
	logger.Info("indexing", "documents", len(docs), "batch_size", batchSize, "backend", backend.Name())
	size, err := r.IngestInBatches(ctx, docs, batchSize)
	if err != nil {
		return nil, fmt.Errorf("index documents: %w", err)
	}
	logger.Info("index ready", "documents", len(docs), "chunks", size)

	return &session{cfg: cfg, retriever: r, documents: len(docs)}, nil
}

func loadDocuments(ctx context.Context, cmd *cobra.Command, cfg *config.AppConfig, args []string) ([]domain.Document, error) {
	dbPath, _ := cmd.Flags().GetString("sqlite")
	query, _ := cmd.Flags().GetString("sql")
	if dbPath == "" && cfg.Loader.Type == "sqlite" {
		dbPath = cfg.Loader.SQLite.Path
	}
	if query == "" {
		query = cfg.Loader.SQLite.Query
	}

	if dbPath != "" {
		return loader.SQLite(ctx, dbPath, query)
	}
	if len(args) == 0 {
		return nil, errors.New("no inputs: pass files, globs or directories, or use --sqlite")
	}
	return loader.Files(ctx, args)
}
