package webserver

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stake-plus/medshield/src/ai/core"
	"github.com/stake-plus/medshield/src/cache"
	"github.com/stake-plus/medshield/src/config"
)

// Deps is everything the relay router needs.
type Deps struct {
	Server   config.ServerConfig
	AI       core.Client
	Cache    cache.Store
	Reports  ReportStore // nil leaves /report unregistered
	Limiter  *RateLimiter
	Metrics  *Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// New builds the relay engine.
func New(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Limiter == nil {
		d.Limiter = NewRateLimiter(d.Server.RateLimit, d.Server.RateWindow)
	}

	r := gin.New()
	r.Use(
		recovery(d.Logger),
		requestID(),
		accessLog(d.Logger.With("component", "http"), d.Metrics),
		secureHeaders(),
		corsPolicy(),
		RateLimitMiddleware(d.Limiter, d.Metrics),
		bodyLimit(d.Server.MaxBodyBytes),
	)

	attachRoutes(r, d)
	return r
}
