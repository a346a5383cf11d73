package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, "text-embedding-3-small", cfg.LLM.EmbeddingModel)
	require.Equal(t, 1536, cfg.LLM.EmbeddingDimensions)
	require.Equal(t, 3, cfg.Assistant.SearchLimit)
	require.InDelta(t, 0.7, cfg.Assistant.SimilarityFloor, 1e-9)
	require.Equal(t, 2048, cfg.Assistant.MaxContextTokens)
	require.Equal(t, 6*time.Hour, cfg.Assistant.CacheTTL)
	require.Equal(t, []string{"faq", "help"}, cfg.Ingest.SectionMarkers)
	require.False(t, cfg.Cache.Enabled)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
assistant:
  searchLimit: 5
ingest:
  sourceUrl: https://shop.example/help
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ASSISTANT_SIMILARITY_FLOOR", "0.8")
	t.Setenv("INGEST_SECTION_MARKERS", "faq, support")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 5, cfg.Assistant.SearchLimit)
	require.Equal(t, "https://shop.example/help", cfg.Ingest.SourceURL)
	require.InDelta(t, 0.8, cfg.Assistant.SimilarityFloor, 1e-9)
	require.Equal(t, []string{"faq", "support"}, cfg.Ingest.SectionMarkers)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "localhost:6379", cfg.Cache.Addr)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Assistant.SimilarityFloor = 1.5
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Cache.Enabled = true
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Archive.Enabled = true
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.LLM.EmbeddingDimensions = 0
	require.Error(t, cfg.Validate())
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [broken"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
}
