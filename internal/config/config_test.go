package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}

	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}

	if cfg.BasePath != "/api" {
		t.Errorf("expected default BasePath '/api', got %s", cfg.BasePath)
	}

	if cfg.MinAge != 18 {
		t.Errorf("expected default MinAge 18, got %d", cfg.MinAge)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel 'info', got %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" {
		t.Errorf("expected default LogFormat 'json', got %s", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected default ShutdownTimeout 30s, got %s", cfg.ShutdownTimeout)
	}

	if cfg.HasRedis() {
		t.Error("expected Redis to be optional and unset by default")
	}

	if cfg.PublishesEvents() {
		t.Error("expected no event publishing without Redis")
	}

	if cfg.EventsStream != "userhub:events:users" || cfg.EventsMaxLen != 100000 {
		t.Errorf("unexpected events defaults: stream=%s max_len=%d", cfg.EventsStream, cfg.EventsMaxLen)
	}

	if !cfg.RateLimitEnabled || cfg.RateLimitRPS != 50 || cfg.RateLimitBurst != 20 {
		t.Errorf("unexpected rate limit defaults: enabled=%v rps=%d burst=%d",
			cfg.RateLimitEnabled, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MIN_AGE", "21")
	t.Setenv("BASE_PATH", "/v2/")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MinAge != 21 {
		t.Errorf("expected MinAge 21, got %d", cfg.MinAge)
	}

	if cfg.BasePath != "/v2" {
		t.Errorf("expected trailing slash to be trimmed, got %s", cfg.BasePath)
	}

	if !cfg.HasRedis() {
		t.Error("expected HasRedis to be true")
	}

	if !cfg.PublishesEvents() {
		t.Error("expected events to be published when Redis is configured")
	}
}

func TestConfig_PublishesEvents(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		redisURL string
		want     bool
	}{
		{"enabled with redis", true, "redis://localhost:6379", true},
		{"enabled without redis", true, "", false},
		{"disabled with redis", false, "redis://localhost:6379", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EventsEnabled: tt.enabled, RedisURL: tt.redisURL}
			if got := cfg.PublishesEvents(); got != tt.want {
				t.Errorf("PublishesEvents() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"non-numeric min age", "MIN_AGE", "adult", nil},
		{"negative min age", "MIN_AGE", "-1", ErrInvalidMinAge},
		{"zero rps", "RATE_LIMIT_RPS", "0", ErrInvalidRateLimit},
		{"unknown log format", "LOG_FORMAT", "xml", ErrInvalidLogFormat},
		{"relative base path", "BASE_PATH", "api", ErrInvalidBasePath},
		{"zero events max len", "EVENTS_MAX_LEN", "0", ErrInvalidEvents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_ValidateEvents(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "empty stream",
			cfg:     Config{EventsEnabled: true, EventsStream: "", EventsMaxLen: 1, LogFormat: "json", BasePath: "/api"},
			wantErr: ErrInvalidEvents,
		},
		{
			name:    "zero max len",
			cfg:     Config{EventsEnabled: true, EventsStream: "s", EventsMaxLen: 0, LogFormat: "json", BasePath: "/api"},
			wantErr: ErrInvalidEvents,
		},
		{
			name: "disabled ignores stream settings",
			cfg:  Config{EventsEnabled: false, LogFormat: "json", BasePath: "/api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_RateLimitDisabledSkipsValidation(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "0")

	if _, err := Load(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}

	cfg.AppEnv = "development"
	if cfg.IsProduction() {
		t.Error("expected IsProduction to return false")
	}
}

func TestConfig_GetCORSAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example.com, ,https://b.example.com "}

	got := cfg.GetCORSAllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", got)
	}

	cfg.CORSAllowedOrigins = ""
	if cfg.GetCORSAllowedOrigins() != nil {
		t.Error("expected nil origins when unset")
	}
}
