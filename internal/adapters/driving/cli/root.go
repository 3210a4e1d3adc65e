// Package cli wires the document pipeline behind a cobra command tree.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talentstack/docpipe/internal/adapters/driven/embedding/openai"
	"github.com/talentstack/docpipe/internal/adapters/driven/extract/plaintext"
	"github.com/talentstack/docpipe/internal/adapters/driven/nlp/heuristic"
	"github.com/talentstack/docpipe/internal/adapters/driven/storage/sqlite"
	"github.com/talentstack/docpipe/internal/chunker"
	"github.com/talentstack/docpipe/internal/config"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
	"github.com/talentstack/docpipe/internal/core/ports/driving"
	"github.com/talentstack/docpipe/internal/core/services"
	"github.com/talentstack/docpipe/internal/logger"
	"github.com/talentstack/docpipe/internal/parser"
)

// version is set via Execute from the build.
var version = "dev"

// Services available to subcommands, wired in initServices.
var (
	cfg              *config.Config
	processorService driving.Processor
	retrieverService driving.Retriever
	matcherService   driving.Matcher
	store            *sqlite.Store
)

var (
	configPath string
	debugLogs  bool
	jsonLogs   bool
)

var rootCmd = &cobra.Command{
	Use:   "docpipe",
	Short: "Document intelligence pipeline",
	Long: `docpipe extracts, parses, chunks and indexes documents such as
resumes, and answers similarity searches and resume-to-job matches
over the indexed content.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log in JSON format")
}

// Execute runs the CLI with the given build version.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}

// initServices assembles the pipeline from configuration. Runs once
// before any subcommand.
func initServices(_ *cobra.Command, _ []string) error {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	if err := logger.Init(jsonLogs, debugLogs); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	vocab := parser.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		vocab, err = parser.LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			return fmt.Errorf("loading vocabulary: %w", err)
		}
	}

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	embedder := buildEmbedder()

	resumeParser := parser.New(vocab)
	analyzer := heuristic.New(vocab)
	chunkEngine := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlapWords(cfg.Chunking.OverlapWords),
	)

	retriever := services.NewRetrievalService(store, embedder,
		services.WithStoreBatchSize(cfg.Retrieval.StoreBatchSize))

	retrieverService = retriever
	processorService = services.NewPipelineService(
		plaintext.New(), resumeParser, analyzer, chunkEngine, embedder, store, retriever)
	matcherService = services.NewMatchService(analyzer, store)

	return nil
}

// buildEmbedder returns the configured embedding service, or nil when
// no API key is available. A nil embedder degrades search to lexical
// matching rather than failing.
func buildEmbedder() driven.EmbeddingService {
	apiKey := os.Getenv(cfg.Embedding.APIKeyEnv)
	if apiKey == "" {
		logger.Info("cli: %s not set, embeddings disabled", cfg.Embedding.APIKeyEnv)
		return nil
	}

	svc, err := openai.New(openai.Config{
		APIKey:            apiKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		Timeout:           time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	if err != nil {
		logger.Warn("cli: embedding service unavailable: %v", err)
		return nil
	}
	return svc
}
