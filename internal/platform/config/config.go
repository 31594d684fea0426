// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates per-subsystem settings.
type Config struct {
	Server ServerConfig
	Pg     PostgresConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Engine EngineConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
}

// PostgresConfig captures the relational store connection. Empty URL means
// the process runs on in-memory stores (dev / tests).
type PostgresConfig struct {
	URL string
}

// RedisConfig captures the shared-counter store connection. Empty URL means
// the ledger and alert dedup run in-process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures the alert event sink. Empty brokers means alerts go
// to the in-process sink only.
type KafkaConfig struct {
	Brokers    []string
	AlertTopic string
}

// EngineConfig carries underwriting defaults that are not per-lender.
type EngineConfig struct {
	// DefaultNoMatchPolicy applies when a lender record does not set one:
	// "deny" or "defer".
	DefaultNoMatchPolicy string

	// AlertDedupTTL bounds how long an emitted alert suppresses
	// re-emission of the same (rule, entity, day) event.
	AlertDedupTTL time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			Addr:          envOr("FUNDLINE_ADDR", ":8080"),
			LogLevel:      envOr("FUNDLINE_LOG_LEVEL", "info"),
			JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Pg: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AlertTopic: envOr("KAFKA_ALERT_TOPIC", "fundline.alerts"),
		},
		Engine: EngineConfig{
			DefaultNoMatchPolicy: envOr("ENGINE_NO_MATCH_POLICY", "deny"),
			AlertDedupTTL:        envDurationOr("ALERT_DEDUP_TTL", 24*time.Hour),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
