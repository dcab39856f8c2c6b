package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds the connection settings for the external identity
// provider.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// WebhookConfig holds the fixed automation endpoints submissions are
// forwarded to, plus delivery tuning.
type WebhookConfig struct {
	ContentURL      string
	OccurrenceURL   string
	AnnouncementURL string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// KafkaConfig holds the event publishing settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	Casdoor CasdoorConfig
	Webhook WebhookConfig
	Kafka   KafkaConfig
}

// LoadConfig reads configuration from .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: getEnv("CASDOOR_ORGANIZATION", "school"),
			Application:  getEnv("CASDOOR_APPLICATION", "forms-service"),
		},
		Webhook: WebhookConfig{
			ContentURL:      getEnv("WEBHOOK_CONTENT_URL", "https://n8n.colegiozampieri.com/webhook/agendadigital"),
			OccurrenceURL:   getEnv("WEBHOOK_OCCURRENCE_URL", "https://n8n.colegiozampieri.com/webhook/agendadigital2"),
			AnnouncementURL: getEnv("WEBHOOK_ANNOUNCEMENT_URL", "https://n8n.colegiozampieri.com/webhook/agendadigital2"),
			Timeout:         getDurationEnv("WEBHOOK_TIMEOUT", 15*time.Second),
			MaxRetries:      getIntEnv("WEBHOOK_MAX_RETRIES", 2),
			RetryDelay:      getDurationEnv("WEBHOOK_RETRY_DELAY", time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitEnv("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "forms.submissions"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
