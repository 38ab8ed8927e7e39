// Package config reads service settings from the environment, after
// loading an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port     string
	LogLevel zerolog.Level

	StoreBackend  string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	CacheEnabled   bool
	SearchCacheTTL time.Duration
	SearchTimeout  time.Duration
	MockSeed       int64

	ClientRPS   float64
	ClientBurst int
}

// Load reads .env files if present and builds the config from the
// environment. Unparseable values fall back to defaults.
func Load(files ...string) (*Config, error) {
	// Missing .env files are fine; the environment may be set directly.
	_ = godotenv.Load(files...)

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: level,

		StoreBackend:  getEnv("STORE_BACKEND", StoreMemory),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheEnabled:   getEnvBool("CACHE_ENABLED", true),
		SearchCacheTTL: getEnvDuration("SEARCH_CACHE_TTL", 5*time.Minute),
		SearchTimeout:  getEnvDuration("SEARCH_TIMEOUT", 2*time.Second),
		MockSeed:       int64(getEnvInt("MOCK_SEED", 0)),

		ClientRPS:   getEnvFloat("CLIENT_RPS", 20),
		ClientBurst: getEnvInt("CLIENT_BURST", 40),
	}

	switch cfg.StoreBackend {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
