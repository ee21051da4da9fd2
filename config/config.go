package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// MemoryURI selects the in-process store instead of MongoDB.
const MemoryURI = "memory"

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Env          string
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	TokenTTL     time.Duration
	AuthPassword string // shared login password, hashed at startup
	LogLevel     zerolog.Level
	LogPretty    bool
}

func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", ttl)
	}
	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("MONGODB_DB", "library"),
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:     ttl,
		AuthPassword: getEnv("AUTH_PASSWORD", "secret"),
		LogLevel:     level,
		LogPretty:    getEnv("LOG_PRETTY", "false") == "true",
	}, nil
}

// Validate refuses to run production with the placeholder secrets.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AuthPassword == "" {
		return fmt.Errorf("AUTH_PASSWORD must not be empty")
	}
	if c.Env == "production" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong secret (not the default %s)", defaultJWTSecret)
		}
		if c.MongoURI == MemoryURI {
			return fmt.Errorf("MONGODB_URI=%s is not allowed in production", MemoryURI)
		}
	}
	return nil
}

// UseMemoryStore reports whether the in-process store was requested.
func (c *Config) UseMemoryStore() bool {
	return c.MongoURI == MemoryURI
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
