// AngelaMos | 2026
// routes.go

package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carterperez-dev/panelcatalog/internal/admin"
	"github.com/carterperez-dev/panelcatalog/internal/auth"
	"github.com/carterperez-dev/panelcatalog/internal/config"
	"github.com/carterperez-dev/panelcatalog/internal/core"
	"github.com/carterperez-dev/panelcatalog/internal/health"
	"github.com/carterperez-dev/panelcatalog/internal/middleware"
	"github.com/carterperez-dev/panelcatalog/internal/product"
	"github.com/carterperez-dev/panelcatalog/internal/user"
)

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *core.Database
	redis    *core.Redis
	jwt      *auth.JWTManager
	health   *health.Handler
	registry *prometheus.Registry
}

var probePaths = map[string]struct{}{
	"/healthz": {},
	"/livez":   {},
	"/readyz":  {},
	"/metrics": {},
}

func isProbe(r *http.Request) bool {
	_, ok := probePaths[r.URL.Path]
	return ok
}

func buildRouter(router chi.Router, d routerDeps) {
	cfg := d.cfg

	userSvc := user.NewService(user.NewRepository(d.db.DB))
	authHandler := auth.NewHandler(auth.NewService(d.jwt, userSvc))

	productSvc := product.NewService(product.NewRepository(d.db.DB))
	productHandler := product.NewHandler(productSvc)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Products:   productSvc,
		Users:      userSvc,
		DBStats:    d.db.Stats,
		RedisStats: d.redis.PoolStats,
	})

	metrics := middleware.NewMetrics(d.registry)

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(d.logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(
			middleware.NewRateLimiter(d.redis.Client(), middleware.RateLimitConfig{
				Limit: middleware.PerMinute(
					cfg.RateLimit.Requests,
					cfg.RateLimit.Burst,
				),
				KeyFunc:    middleware.KeyByIPFor("global"),
				FailOpen:   true,
				BypassFunc: isProbe,
			}).Handler,
		)
	}

	authLimiter := middleware.NewRateLimiter(d.redis.Client(), middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.AuthRateLimit.Requests,
			cfg.AuthRateLimit.Window,
		),
		Window:  true,
		KeyFunc: middleware.KeyByIPFor("auth"),
	})

	d.health.RegisterRoutes(router)
	router.Handle("/metrics", metrics.Exposition())

	authenticator := middleware.Authenticator(d.jwt)

	router.Route("/api", func(r chi.Router) {
		d.health.RegisterAPIRoutes(r)
		authHandler.RegisterRoutes(r, authenticator, authLimiter.Handler)
		productHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
	})
}
