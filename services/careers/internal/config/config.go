package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	SQLitePath  string
	SeedCatalog bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration

	ClickHouseDSN      string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	ChatAPIBaseURL    string
	ChatAPIKey        string
	ChatModel         string
	ChatTimeout       time.Duration
	ChatRatePerMinute float64
	ChatBurst         int

	DeadlineSweepInterval time.Duration
	SweepWorkers          int

	OTELCollectorURL string
	AllowedOrigins   []string
}

// LoadConfig reads the environment. Optional backends are disabled by
// leaving their address empty: no REDIS_ADDR means an in-process cache, no
// NATS_URL means events are dropped, no CLICKHOUSE_DSN means engagement
// analytics report unavailable.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:            getEnvString("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		SQLitePath:  getEnvString("SQLITE_PATH", "abletech.db"),
		SeedCatalog: getEnvBool("SEED_CATALOG", false),

		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),

		NATSURL:         getEnvString("NATS_URL", ""),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		ClickHouseDSN:      getEnvString("CLICKHOUSE_DSN", ""),
		ClickHouseDatabase: getEnvString("CLICKHOUSE_DATABASE", "abletech"),
		ClickHouseUsername: getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnvString("CLICKHOUSE_PASSWORD", ""),

		ChatAPIBaseURL:    getEnvString("CHAT_API_BASE", "https://api.openai.com/v1"),
		ChatAPIKey:        getEnvString("CHAT_API_KEY", ""),
		ChatModel:         getEnvString("CHAT_MODEL", "gpt-4o-mini"),
		ChatTimeout:       getEnvDuration("CHAT_TIMEOUT", 20*time.Second),
		ChatRatePerMinute: getEnvFloat("CHAT_RATE_PER_MINUTE", 10),
		ChatBurst:         getEnvInt("CHAT_BURST", 3),

		DeadlineSweepInterval: getEnvDuration("DEADLINE_SWEEP_INTERVAL", time.Hour),
		SweepWorkers:          getEnvInt("SWEEP_WORKERS", 4),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", []string{"*"}),
	}

	return config, nil
}

// ChatEnabled reports whether an upstream completion API is configured.
func (c *Config) ChatEnabled() bool {
	return c.ChatAPIKey != ""
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
