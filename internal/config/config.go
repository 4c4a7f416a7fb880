// Package config loads the enumerated configuration surface of spec.md §6:
// database URL, LLM provider settings, vector-backend settings, delivery
// fee, operating hours, session expiry, timezone, and tax-inclusion flag.
// Unknown environment keys are ignored, matching spec.md's contract.
// Grounded on the teacher's pkg/config/env.go (.env loading via godotenv,
// ${VAR:-default} expansion) generalized to a flat struct instead of the
// teacher's full koanf-style layered loader, since this core has far fewer
// knobs than a general agent runtime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the fully-resolved runtime configuration.
type Config struct {
	DatabaseURL string

	LLMProvider string // "anthropic" or "openai"
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string

	VectorBackend string // "pinecone", "qdrant", "chromem", or "" (lexical-only)
	VectorAPIKey  string
	VectorIndex   string
	VectorEnv     string

	DeliveryFeeHalalas int64
	OpeningHour        int
	ClosingHour        int
	SessionExpiryHours int
	Timezone           string
	TaxIncluded        bool

	HTTPAddr string
}

// Load reads a .env file if present (ignored if absent) then resolves every
// field from the environment, applying the documented defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("SAWT_DATABASE_URL", "sqlite://sawt.db"),

		LLMProvider: getEnv("SAWT_LLM_PROVIDER", "anthropic"),
		LLMAPIKey:   getEnv("SAWT_LLM_API_KEY", ""),
		LLMModel:    getEnv("SAWT_LLM_MODEL", "claude-3-5-sonnet-20241022"),
		LLMBaseURL:  getEnv("SAWT_LLM_BASE_URL", ""),

		VectorBackend: getEnv("SAWT_VECTOR_BACKEND", ""),
		VectorAPIKey:  getEnv("SAWT_VECTOR_API_KEY", ""),
		VectorIndex:   getEnv("SAWT_VECTOR_INDEX", "sawt-menu"),
		VectorEnv:     getEnv("SAWT_VECTOR_ENVIRONMENT", ""),

		Timezone: getEnv("SAWT_TIMEZONE", "Asia/Riyadh"),
		HTTPAddr: getEnv("SAWT_HTTP_ADDR", ":8080"),
	}

	var err error
	if cfg.DeliveryFeeHalalas, err = getEnvInt64("SAWT_DELIVERY_FEE_HALALAS", 1500); err != nil {
		return nil, err
	}
	if cfg.OpeningHour, err = getEnvInt("SAWT_OPENING_HOUR", 9); err != nil {
		return nil, err
	}
	if cfg.ClosingHour, err = getEnvInt("SAWT_CLOSING_HOUR", 3); err != nil {
		return nil, err
	}
	if cfg.SessionExpiryHours, err = getEnvInt("SAWT_SESSION_EXPIRY_HOURS", 2); err != nil {
		return nil, err
	}
	if cfg.TaxIncluded, err = getEnvBool("SAWT_TAX_INCLUDED", true); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid SAWT_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// SessionExpiry returns the configured inactivity window as a duration.
func (c *Config) SessionExpiry() time.Duration {
	return time.Duration(c.SessionExpiryHours) * time.Hour
}

// Location returns the loaded restaurant timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %w", key, err)
	}
	return b, nil
}
