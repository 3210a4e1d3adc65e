// Package config loads the pipeline configuration from a TOML file,
// layering file values over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all runtime configuration.
type Config struct {
	// DataDir is where the SQLite database lives. Empty means
	// ~/.docpipe/data.
	DataDir string `toml:"data_dir"`

	// VocabularyFile optionally overrides the built-in extraction
	// vocabulary.
	VocabularyFile string `toml:"vocabulary_file"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Batch     BatchConfig     `toml:"batch"`
}

// ChunkingConfig controls how documents are split for retrieval.
type ChunkingConfig struct {
	// ChunkSize is the token budget per chunk.
	ChunkSize int `toml:"chunk_size"`

	// OverlapWords is how many trailing words carry into the next
	// chunk.
	OverlapWords int `toml:"overlap_words"`
}

// EmbeddingConfig controls the embedding provider.
type EmbeddingConfig struct {
	// APIKeyEnv names the environment variable holding the API key.
	// An unset or empty variable disables embeddings; search degrades
	// to lexical matching.
	APIKeyEnv string `toml:"api_key_env"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerSecond paces embedding requests.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// RetrievalConfig controls chunk storage and search.
type RetrievalConfig struct {
	// StoreBatchSize is how many chunks are written per store call.
	StoreBatchSize int `toml:"store_batch_size"`

	// SearchLimit caps result counts when the caller does not.
	SearchLimit int `toml:"search_limit"`

	// SimilarityThreshold filters vector search results.
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// BatchConfig controls batch processing.
type BatchConfig struct {
	// MaxConcurrent bounds in-flight documents per group.
	MaxConcurrent int `toml:"max_concurrent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			ChunkSize:    512,
			OverlapWords: 50,
		},
		Embedding: EmbeddingConfig{
			APIKeyEnv:         "OPENAI_API_KEY",
			Model:             "text-embedding-3-small",
			TimeoutSeconds:    60,
			RequestsPerSecond: 5,
		},
		Retrieval: RetrievalConfig{
			StoreBatchSize:      100,
			SearchLimit:         10,
			SimilarityThreshold: 0.3,
		},
		Batch: BatchConfig{
			MaxConcurrent: 3,
		},
	}
}

// Load reads configuration from path, applying defaults for anything
// unset. An empty path checks ~/.docpipe/config.toml; a missing file
// there is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".docpipe", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// EmbeddingTimeout returns the embedding timeout as a duration.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSeconds) * time.Second
}
