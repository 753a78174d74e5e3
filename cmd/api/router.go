package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/handler"
	"github.com/userhub/userhub/internal/middleware"
	"github.com/userhub/userhub/internal/ratelimit"
)

// routerDeps carries everything setupRouter wires. metrics and limiter may be nil.
type routerDeps struct {
	cfg     *config.Config
	logger  *slog.Logger
	root    *handler.Handler
	health  *handler.HealthHandler
	users   *handler.UserHandler
	metrics *handler.MetricsHandler
	limiter ratelimit.Limiter
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// set before mounting so sub-routers inherit them
	r.NotFound(d.root.NotFound)
	r.MethodNotAllowed(d.root.MethodNotAllowed)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger, d.cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	r.Get("/", d.root.Hello)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	if d.metrics != nil {
		r.Get("/metrics", d.metrics.Metrics)
	}

	userRoutes := func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Logger:  d.logger,
			Limiter: d.limiter,
			Enabled: d.cfg.RateLimitEnabled,
		}))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", d.users.List)
			r.Post("/", d.users.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.ValidateUUIDParam("id"))
				r.Patch("/", d.users.Patch)
				r.Put("/", d.users.Replace)
				r.Delete("/", d.users.Delete)
			})
		})
	}

	if d.cfg.BasePath == "/" {
		r.Group(userRoutes)
	} else {
		r.Route(d.cfg.BasePath, userRoutes)
	}

	return r
}
