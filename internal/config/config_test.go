package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/config"
)

var keys = []string{
	"PORT", "LOG_LEVEL", "STORE_BACKEND", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
	"REDIS_DB", "CACHE_ENABLED", "SEARCH_CACHE_TTL", "SEARCH_TIMEOUT", "MOCK_SEED",
	"CLIENT_RPS", "CLIENT_BURST",
}

// clearEnv empties every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, config.StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Zero(t, cfg.RedisDB)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, 2*time.Second, cfg.SearchTimeout)
	assert.Zero(t, cfg.MockSeed)
	assert.Equal(t, 20.0, cfg.ClientRPS)
	assert.Equal(t, 40, cfg.ClientBurst)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("SEARCH_CACHE_TTL", "30s")
	t.Setenv("MOCK_SEED", "42")
	t.Setenv("CLIENT_RPS", "2.5")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, config.StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, int64(42), cfg.MockSeed)
	assert.Equal(t, 2.5, cfg.ClientRPS)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_TIMEOUT", "soon")
	t.Setenv("CLIENT_BURST", "lots")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 40, cfg.ClientBurst)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	os.Unsetenv("MOCK_SEED")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nMOCK_SEED=7\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, int64(7), cfg.MockSeed)
}

func TestLoad_Rejects(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "etcd")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "")
	t.Setenv("LOG_LEVEL", "chatty")

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
