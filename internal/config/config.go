package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string
	AppName  string

	// Ledger API
	LedgerAPIURL string

	// HTTP client. Zero means no timeout.
	HTTPTimeout time.Duration

	// Resilience
	MaxConcurrency int

	// Observability
	OTLPEndpoint string

	// Session
	SessionSecret string
	SessionTTL    time.Duration

	// Presentation
	Locale            string
	SidebarBreakpoint int
}

// LoadDotEnv reads a .env file into the environment.
// Existing env vars are never overridden.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppName:  getEnv("APP_NAME", "Financeiro"),

		LedgerAPIURL: getEnv("LEDGER_API_URL", "http://localhost:5002"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 0),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SessionSecret: getEnv("SESSION_SECRET", "financeiro-dev-secret-change-me"),
		SessionTTL:    getEnvDuration("SESSION_TTL", time.Hour),

		Locale:            getEnv("LOCALE", "pt-BR"),
		SidebarBreakpoint: getEnvInt("SIDEBAR_BREAKPOINT", 768),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
