package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "NATS_URL", "CLICKHOUSE_DSN", "CHAT_API_KEY", "SEED_CATALOG", "DEADLINE_SWEEP_INTERVAL", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8080")
	t.Setenv("SEED_CATALOG", "false")
	t.Setenv("DEADLINE_SWEEP_INTERVAL", "1h")
	t.Setenv("ALLOWED_ORIGINS", "*")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.NATSURL)
	assert.False(t, cfg.SeedCatalog)
	assert.False(t, cfg.ChatEnabled())
	assert.Equal(t, time.Hour, cfg.DeadlineSweepInterval)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SEED_CATALOG", "true")
	t.Setenv("CHAT_API_KEY", "sk-test")
	t.Setenv("CHAT_RATE_PER_MINUTE", "2.5")
	t.Setenv("DEADLINE_SWEEP_INTERVAL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.SeedCatalog)
	assert.True(t, cfg.ChatEnabled())
	assert.Equal(t, 2.5, cfg.ChatRatePerMinute)
	assert.Equal(t, 5*time.Minute, cfg.DeadlineSweepInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("SEED_CATALOG", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.SeedCatalog)
}
