package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(llmProviderEnv, "")
	t.Setenv(serpAPIKeyEnv, "")

	cfg := Load("")

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 4000, cfg.LLM.MaxTokens)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, time.Second, cfg.Enhancement.FetchDelay)
	assert.Equal(t, 2*time.Second, cfg.Enhancement.ArticleDelay)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.False(t, cfg.Search.SerpAPIConfigured())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
database:
  driver: sqlite3
  dsn: /tmp/articles.db
llm:
  provider: anthropic
  maxRetries: 5
  anthropic:
    model: claude-test
enhancement:
  fetchDelay: 250ms
scheduler:
  timezone: Europe/Berlin
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	t.Setenv(anthropicAPIKeyEnv, "sk-ant")
	t.Setenv(serpAPIKeyEnv, "serp-key")
	t.Setenv(portEnv, "8081")
	t.Setenv(llmProviderEnv, "")

	cfg := Load(path)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "/tmp/articles.db", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.LLM.MaxRetries)
	assert.Equal(t, "claude-test", cfg.LLM.Anthropic.Model)
	assert.Equal(t, "https://api.anthropic.com/v1/messages", cfg.LLM.Anthropic.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.Enhancement.FetchDelay)
	assert.Equal(t, 2*time.Second, cfg.Enhancement.ArticleDelay)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	assert.True(t, cfg.Search.SerpAPIConfigured())

	backend, err := cfg.LLM.Active()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", backend.APIKey)
	require.NoError(t, cfg.Validate())
}

func TestSerpAPIPlaceholderIsNotConfigured(t *testing.T) {
	t.Parallel()

	assert.False(t, SearchConfig{SerpAPIKey: SerpAPIPlaceholder}.SerpAPIConfigured())
	assert.False(t, SearchConfig{SerpAPIKey: "  "}.SerpAPIConfigured())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	assert.ErrorContains(t, cfg.Validate(), "api key for llm provider openai")

	cfg.LLM.OpenAI.APIKey = "sk"
	assert.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "cohere"
	assert.ErrorContains(t, cfg.Validate(), "unknown llm provider")

	cfg = defaultConfig()
	cfg.Database.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")
}
