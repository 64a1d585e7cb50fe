package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Tavily.MaxResults)
	assert.Equal(t, "basic", cfg.Tavily.SearchDepth)
	assert.Equal(t, 30, cfg.Tavily.RatePerMinute)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.Groq.Model)
	assert.Equal(t, 60*time.Second, cfg.Groq.Timeout)
	assert.Equal(t, 6000, cfg.Pipeline.ContextBudget)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.Validate(), "tavily api_key")

	cfg.Tavily.APIKey = "tvly-key"
	assert.ErrorContains(t, cfg.Validate(), "groq api_key")

	cfg.Groq.APIKey = "gsk-key"
	assert.NoError(t, cfg.Validate())
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
tavily:
  api_key: tvly-from-file
  max_results: 8
groq:
  api_key: gsk-from-file
  model: llama-3.1-8b-instant
pipeline:
  context_budget: 4000
cache:
  enabled: true
  redis_addr: redis:6379
  ttl: 10m
log:
  level: debug
  development: true
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "tvly-from-file", cfg.Tavily.APIKey)
	assert.Equal(t, 8, cfg.Tavily.MaxResults)
	assert.Equal(t, "basic", cfg.Tavily.SearchDepth, "unset file fields keep defaults")
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Groq.Model)
	assert.Equal(t, 4000, cfg.Pipeline.ContextBudget)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
tavily:
  api_key: from-file
groq:
  api_key: from-file
`)

	t.Setenv("RESEARCHFLOW_TAVILY_API_KEY", "from-env")
	t.Setenv("RESEARCHFLOW_TAVILY_MAX_RESULTS", "2")
	t.Setenv("RESEARCHFLOW_GROQ_TIMEOUT", "90s")
	t.Setenv("RESEARCHFLOW_CACHE_ENABLED", "true")
	t.Setenv("RESEARCHFLOW_PIPELINE_CONTEXT_BUDGET", "2500")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Tavily.APIKey)
	assert.Equal(t, 2, cfg.Tavily.MaxResults)
	assert.Equal(t, "from-file", cfg.Groq.APIKey, "env only overrides what it names")
	assert.Equal(t, 90*time.Second, cfg.Groq.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2500, cfg.Pipeline.ContextBudget)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("RF_GROQ_MODEL", "llama-3.3-70b-versatile")

	cfg, err := NewLoader().WithEnvPrefix("RF").Load()
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Groq.Model)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader().WithConfigPath("/nonexistent/config.yaml").Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestLoader_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "tavily: [not a mapping")
	_, err := NewLoader().WithConfigPath(path).Load()
	assert.ErrorContains(t, err, "parse config file")
}

func TestLoader_BadEnvValue(t *testing.T) {
	t.Setenv("RESEARCHFLOW_TAVILY_MAX_RESULTS", "lots")
	_, err := NewLoader().Load()
	assert.ErrorContains(t, err, "RESEARCHFLOW_TAVILY_MAX_RESULTS")
}
