package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PawPulse/internal/geminiservice"
	"PawPulse/internal/responsecache"
)

var managedVars = []string{
	"GEMINI_API_KEY", "PORT", "APP_ENV", "GEMINI_MODEL_FAST", "GEMINI_MODEL_PRO",
	"CACHE_TTL", "CACHE_MAX_ENTRIES", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"BLUEPRINT_DB_HOST", "BLUEPRINT_DB_PORT", "BLUEPRINT_DB_DATABASE",
	"BLUEPRINT_DB_USERNAME", "BLUEPRINT_DB_PASSWORD", "BLUEPRINT_DB_SCHEMA",
	"PHOTO_BUCKET", "AWS_REGION", "GOOGLE_MAPS_API_KEY",
	"PETFINDER_CLIENT_ID", "PETFINDER_CLIENT_SECRET", "RATE_LIMIT_PER_MINUTE",
}

// clearEnv blanks every variable Load reads so a developer's .env or shell
// does not leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedVars {
		t.Setenv(k, "")
	}
}

func TestLoad_RequiresGeminiKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingGeminiKey)

	t.Setenv("GEMINI_API_KEY", "   ")
	_, err = Load()
	assert.ErrorIs(t, err, ErrMissingGeminiKey)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, geminiservice.DefaultFastModel, cfg.Models.Fast)
	assert.Equal(t, geminiservice.DefaultProModel, cfg.Models.Pro)
	assert.Equal(t, responsecache.DefaultTTL, cfg.CacheTTL)
	assert.Equal(t, responsecache.DefaultMaxEntries, cfg.CacheMaxEntries)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Nil(t, cfg.Database)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("GEMINI_MODEL_PRO", "gemini-2.5-pro")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("BLUEPRINT_DB_HOST", "db")
	t.Setenv("BLUEPRINT_DB_DATABASE", "pawpulse")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "gemini-2.5-pro", cfg.Models.Pro)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	require.NotNil(t, cfg.Database)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "pawpulse", cfg.Database.Database)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":      "eighty",
		"CACHE_TTL": "-5m",
		"REDIS_DB":  "zero",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GEMINI_API_KEY", "key")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
