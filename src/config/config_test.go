package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, int64(500*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 20, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 3, cfg.Upstream.Attempts)
	assert.Equal(t, 1500*time.Millisecond, cfg.Upstream.RetryDelay)
	assert.True(t, cfg.Upstream.RetryClientErrors)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 120*time.Second, cfg.Cache.SweepEvery)
	assert.Equal(t, 15*time.Second, cfg.Scanner.Timeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medshield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8080"
upstream:
  model: gemini-2.5-flash
  retryDelay: 250ms
  retryClientErrors: false
cache:
  backend: Redis
  redisUrl: redis://localhost:6379/0
`), 0o600))

	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("UPSTREAM_ATTEMPTS", "5")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("UPSTREAM_DELAY", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Server.RateLimit, "unset keys keep defaults")
	assert.Equal(t, "gemini-2.5-flash", cfg.Upstream.Model)
	assert.Equal(t, 250*time.Millisecond, cfg.Upstream.RetryDelay)
	assert.False(t, cfg.Upstream.RetryClientErrors)
	assert.Equal(t, 5, cfg.Upstream.Attempts)
	assert.Equal(t, "secret", cfg.Upstream.APIKey)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	require.NoError(t, cfg.Validate())
}

func TestEnvDurationMilliseconds(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("UPSTREAM_DELAY", "1500")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Upstream.RetryDelay)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("RATE_LIMIT", "twenty")
	_, err := Load("")
	assert.ErrorContains(t, err, "RATE_LIMIT")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.Validate()
	assert.ErrorContains(t, err, "GEMINI_API_KEY missing")

	cfg.Upstream.APIKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Cache.Backend = CacheRedis
	assert.ErrorContains(t, cfg.Validate(), "REDIS_URL")

	cfg.Cache.Backend = "memcached"
	assert.ErrorContains(t, cfg.Validate(), `unknown cache backend "memcached"`)
}
