// Package api wires the relay: config, cache, model client, storage and the
// HTTP server.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/medshield/src/ai/core"
	_ "github.com/stake-plus/medshield/src/ai/providers"
	"github.com/stake-plus/medshield/src/api/data"
	"github.com/stake-plus/medshield/src/api/webserver"
	"github.com/stake-plus/medshield/src/cache"
	"github.com/stake-plus/medshield/src/config"
)

const shutdownTimeout = 10 * time.Second

// Server is a configured relay ready to Run.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	handler http.Handler
	limiter *webserver.RateLimiter
	memory  *cache.Memory
	rdb     *redis.Client
}

// New builds every dependency the relay needs. It fails when the model
// client or a configured backing store cannot be set up.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{cfg: cfg, logger: logger}

	store, err := s.openCache(ctx, cache.NewMetrics(reg))
	if err != nil {
		return nil, err
	}

	client, err := core.NewClient(core.FactoryConfig{
		Provider:          cfg.Upstream.Provider,
		Model:             cfg.Upstream.Model,
		GeminiKey:         cfg.Upstream.APIKey,
		BaseURL:           cfg.Upstream.BaseURL,
		Timeout:           cfg.Upstream.Timeout,
		Attempts:          cfg.Upstream.Attempts,
		RetryDelay:        cfg.Upstream.RetryDelay,
		RetryClientErrors: cfg.Upstream.RetryClientErrors,
		Logger:            logger.With("component", "upstream"),
	})
	if err != nil {
		return nil, fmt.Errorf("model client: %w", err)
	}

	var reports webserver.ReportStore
	if cfg.Storage.MySQLDSN != "" {
		db, err := data.OpenMySQL(cfg.Storage.MySQLDSN)
		if err != nil {
			return nil, err
		}
		reports = data.NewReports(db)
	}

	s.limiter = webserver.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	s.handler = webserver.New(webserver.Deps{
		Server:   cfg.Server,
		AI:       client,
		Cache:    store,
		Reports:  reports,
		Limiter:  s.limiter,
		Metrics:  webserver.NewMetrics(reg),
		Gatherer: reg,
		Logger:   logger,
	})
	return s, nil
}

func (s *Server) openCache(ctx context.Context, metrics *cache.Metrics) (cache.Store, error) {
	switch s.cfg.Cache.Backend {
	case config.CacheRedis:
		rdb, err := data.OpenRedis(ctx, s.cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		s.rdb = rdb
		return cache.NewRedis(rdb, s.cfg.Cache.TTL, metrics), nil
	default:
		s.memory = cache.NewMemory(s.cfg.Cache.TTL, s.cfg.Cache.SweepEvery, cache.WithMetrics(metrics))
		return s.memory, nil
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then drains for up to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.limiter.Run(bgCtx)
	if s.memory != nil {
		go s.memory.Run(bgCtx)
	}
	if s.rdb != nil {
		defer s.rdb.Close()
	}

	httpSrv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("MedShield relay listening", "port", s.cfg.Server.Port, "cache", s.cfg.Cache.Backend)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutCtx, cancelShut := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShut()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("relay stopped")
	return nil
}
