package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 512, cfg.Chunking.ChunkSize)
	assert.Equal(t, 50, cfg.Chunking.OverlapWords)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedding.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 60*time.Second, cfg.EmbeddingTimeout())
	assert.Equal(t, 100, cfg.Retrieval.StoreBatchSize)
	assert.Equal(t, 10, cfg.Retrieval.SearchLimit)
	assert.InDelta(t, 0.3, cfg.Retrieval.SimilarityThreshold, 1e-9)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrent)
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "/var/lib/docpipe"

[chunking]
chunk_size = 256

[batch]
max_concurrent = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docpipe", cfg.DataDir)
	assert.Equal(t, 256, cfg.Chunking.ChunkSize)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrent)
	// Unset values keep their defaults.
	assert.Equal(t, 50, cfg.Chunking.OverlapWords)
	assert.Equal(t, 10, cfg.Retrieval.SearchLimit)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("chunking = ["), 0600))

	_, err := Load(path)
	require.Error(t, err)
}
