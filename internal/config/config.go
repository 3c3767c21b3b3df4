// Package config reads service settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"PawPulse/internal/database"
	"PawPulse/internal/geminiservice"
	"PawPulse/internal/responsecache"
)

var ErrMissingGeminiKey = errors.New("GEMINI_API_KEY environment variable is not set")

type Config struct {
	Port   int
	AppEnv string

	GeminiAPIKey string
	Models       geminiservice.Models

	CacheTTL        time.Duration
	CacheMaxEntries int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	// Database is nil when BLUEPRINT_DB_HOST is unset.
	Database *database.Config

	PhotoBucket string
	AWSRegion   string

	GoogleMapsAPIKey string

	PetfinderClientID     string
	PetfinderClientSecret string

	RateLimitPerMinute int
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load gathers the configuration. Only the Gemini key is required; every
// other collaborator is optional.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:       getenv("APP_ENV", "development"),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Models: geminiservice.Models{
			Fast: getenv("GEMINI_MODEL_FAST", geminiservice.DefaultFastModel),
			Pro:  getenv("GEMINI_MODEL_PRO", geminiservice.DefaultProModel),
		},
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		PhotoBucket:           os.Getenv("PHOTO_BUCKET"),
		AWSRegion:             os.Getenv("AWS_REGION"),
		GoogleMapsAPIKey:      os.Getenv("GOOGLE_MAPS_API_KEY"),
		PetfinderClientID:     os.Getenv("PETFINDER_CLIENT_ID"),
		PetfinderClientSecret: os.Getenv("PETFINDER_CLIENT_SECRET"),
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, ErrMissingGeminiKey
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return Config{}, err
	}
	if cfg.CacheMaxEntries, err = getInt("CACHE_MAX_ENTRIES", responsecache.DefaultMaxEntries); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return Config{}, err
	}

	cfg.CacheTTL = responsecache.DefaultTTL
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q: want a positive duration like 5m", raw)
		}
		cfg.CacheTTL = ttl
	}

	if host := os.Getenv("BLUEPRINT_DB_HOST"); host != "" {
		cfg.Database = &database.Config{
			Host:     host,
			Port:     getenv("BLUEPRINT_DB_PORT", "5432"),
			Database: os.Getenv("BLUEPRINT_DB_DATABASE"),
			Username: os.Getenv("BLUEPRINT_DB_USERNAME"),
			Password: os.Getenv("BLUEPRINT_DB_PASSWORD"),
			Schema:   os.Getenv("BLUEPRINT_DB_SCHEMA"),
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
