package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "MONGODB_URI", "MONGODB_DB", "JWT_SECRET", "JWT_TTL", "AUTH_PASSWORD", "LOG_LEVEL", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "library", cfg.DBName)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.False(t, cfg.UseMemoryStore())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4000")
	t.Setenv("MONGODB_URI", "memory")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.True(t, cfg.UseMemoryStore())
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"JWT_TTL", "forever"},
		{"JWT_TTL", "-1h"},
		{"LOG_LEVEL", "loud"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.MongoURI = MemoryURI
	assert.ErrorContains(t, cfg.Validate(), "MONGODB_URI")
}
