// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Configuration errors.
var (
	ErrInvalidMinAge    = errors.New("MIN_AGE must not be negative")
	ErrInvalidRateLimit = errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	ErrInvalidLogFormat = errors.New("LOG_FORMAT must be json or text")
	ErrInvalidBasePath  = errors.New("BASE_PATH must start with /")
	ErrInvalidEvents    = errors.New("EVENTS_STREAM must be set and EVENTS_MAX_LEN positive")
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	AppPort  int    `env:"APP_PORT" envDefault:"8080"`
	BasePath string `env:"BASE_PATH" envDefault:"/api"`

	// Minimum age in years a user must exceed to be stored
	MinAge int `env:"MIN_AGE" envDefault:"18"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Cache (Redis). Optional; when empty rate limiting stays in-process.
	RedisURL string `env:"REDIS_URL"`

	// Rate limiting (per client IP)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// User change events, published to a Redis stream when Redis is configured
	EventsEnabled bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	EventsStream  string `env:"EVENTS_STREAM" envDefault:"userhub:events:users"`
	EventsMaxLen  int64  `env:"EVENTS_MAX_LEN" envDefault:"100000"`

	// Expose /metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasRedis reports whether a Redis URL is configured.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// PublishesEvents reports whether change events go to a Redis stream.
func (c *Config) PublishesEvents() bool {
	return c.EventsEnabled && c.HasRedis()
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks values that parse correctly but make no sense.
func (c *Config) Validate() error {
	if c.MinAge < 0 {
		return ErrInvalidMinAge
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		return ErrInvalidRateLimit
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return ErrInvalidBasePath
	}
	if c.EventsEnabled && (c.EventsStream == "" || c.EventsMaxLen <= 0) {
		return ErrInvalidEvents
	}
	return nil
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BasePath = strings.TrimSuffix(cfg.BasePath, "/")
	if cfg.BasePath == "" {
		cfg.BasePath = "/"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
