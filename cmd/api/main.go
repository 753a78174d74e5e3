// Package main is the entrypoint for the userhub API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/userhub/userhub/internal/cache"
	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/events"
	"github.com/userhub/userhub/internal/handler"
	"github.com/userhub/userhub/internal/metrics"
	"github.com/userhub/userhub/internal/ratelimit"
	"github.com/userhub/userhub/internal/repository"
	"github.com/userhub/userhub/internal/server"
	"github.com/userhub/userhub/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	store := repository.NewMemoryStore()

	var cacheClient *cache.Cache
	if cfg.HasRedis() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis", slog.String("redis_url", redactURL(cfg.RedisURL)))
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var snapshotter metrics.Snapshotter
	if cfg.MetricsEnabled {
		inMemory := metrics.NewInMemory()
		recorder, snapshotter = inMemory, inMemory
	}

	var publisher *events.StreamPublisher
	if cfg.PublishesEvents() {
		publisher = events.NewStreamPublisher(cacheClient.Client(), logger, recorder,
			events.WithStream(cfg.EventsStream),
			events.WithMaxLen(cfg.EventsMaxLen),
		)
	}

	svcOpts := []service.Option{
		service.WithMetrics(recorder),
		service.WithLogger(logger),
	}
	if publisher != nil {
		svcOpts = append(svcOpts, service.WithEvents(publisher))
	}
	userService := service.NewUserService(store, cfg.MinAge, svcOpts...)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	limiter := newLimiter(janitorCtx, cfg, cacheClient)

	deps := routerDeps{
		cfg:     cfg,
		logger:  logger,
		root:    handler.New(cfg.BasePath),
		users:   handler.NewUserHandler(userService, logger),
		limiter: limiter,
	}
	if cacheClient != nil {
		deps.health = handler.NewHealthHandler(cacheClient)
	} else {
		deps.health = handler.NewHealthHandler(nil)
	}
	if snapshotter != nil {
		deps.metrics = handler.NewMetricsHandler(snapshotter, store)
	}

	srv := server.New(setupRouter(deps), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}
	if publisher != nil {
		srv.OnShutdown("events", publisher.Wait)
	}
	srv.OnShutdown("rate-limit-janitor", func(context.Context) error {
		stopJanitor()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_path", cfg.BasePath,
		"env", cfg.AppEnv,
		"min_age", cfg.MinAge,
		"events", cfg.PublishesEvents(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newLimiter picks the Redis limiter when Redis is configured, otherwise an
// in-process one whose janitor stops with ctx.
func newLimiter(ctx context.Context, cfg *config.Config, cacheClient *cache.Cache) ratelimit.Limiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	if cacheClient != nil {
		return ratelimit.NewRedisLimiter(cacheClient, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	lim := ratelimit.NewMemoryLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst)
	lim.StartJanitor(ctx)
	return lim
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips the password from a connection URL before logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}

	return parsed.String()
}

// sanitizeError replaces secrets in an error message with their redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
