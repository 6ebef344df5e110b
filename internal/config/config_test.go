package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, nil, err)
	assert.Equal(t, "gnews", cfg.News.Provider)
	assert.Equal(t, 100, cfg.Analyzer.DailyLimit)
	assert.Equal(t, 3, len(cfg.Trend.Candidates))
	assert.Equal(t, "once", cfg.Pipeline.Mode)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
news:
  provider: googlerss
  queries: ["only query"]
analyzer:
  daily_limit: 7
cache:
  ttl: 1h
pipeline:
  mode: daily
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	assert.Equal(t, nil, err)
	assert.Equal(t, "googlerss", cfg.News.Provider)
	assert.Equal(t, []string{"only query"}, cfg.News.Queries)
	assert.Equal(t, 7, cfg.Analyzer.DailyLimit)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Std())
	assert.Equal(t, "daily", cfg.Pipeline.Mode)
	// untouched sections keep their defaults
	assert.Equal(t, "file", cfg.Report.Backend)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PIPELINE_MODE", "schedule")
	t.Setenv("LLM_DAILY_LIMIT", "5")
	t.Setenv("GNEWS_API_KEY", "test-key")

	cfg, err := Load("")
	assert.Equal(t, nil, err)
	assert.Equal(t, "schedule", cfg.Pipeline.Mode)
	assert.Equal(t, 5, cfg.Analyzer.DailyLimit)
	assert.Equal(t, "test-key", cfg.News.APIKey)
}

func TestEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("LLM_DAILY_LIMIT", "not-a-number")

	cfg, err := Load("")
	assert.Equal(t, nil, err)
	assert.Equal(t, 100, cfg.Analyzer.DailyLimit)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("news: ["), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	assert.NotEqual(t, nil, err)
}
