package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearwiki/internal/config"
	"github.com/kailas-cloud/nearwiki/internal/db"
	"github.com/kailas-cloud/nearwiki/internal/db/memory"
	dbValkey "github.com/kailas-cloud/nearwiki/internal/db/valkey"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	logpkg "github.com/kailas-cloud/nearwiki/internal/logger"
	"github.com/kailas-cloud/nearwiki/internal/metrics"
	viewrepo "github.com/kailas-cloud/nearwiki/internal/repository/view"
	chiTransport "github.com/kailas-cloud/nearwiki/internal/transport/chi"
	"github.com/kailas-cloud/nearwiki/internal/transport/wiki"
	healthuc "github.com/kailas-cloud/nearwiki/internal/usecase/health"
	nearbyuc "github.com/kailas-cloud/nearwiki/internal/usecase/nearby"
	"github.com/kailas-cloud/nearwiki/internal/usecase/overlay"
	sessionuc "github.com/kailas-cloud/nearwiki/internal/usecase/session"
	"github.com/kailas-cloud/nearwiki/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nearwiki API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("views_driver", cfg.Views.Driver),
		zap.String("wiki_base_url", cfg.Wiki.BaseURL),
	)

	store, err := newStore(cfg.Views)
	if err != nil {
		logger.Fatal("Failed to create view store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Views.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("View store not ready", zap.Error(err))
	}
	logger.Info("Connected to view store")

	metrics.RegisterUpstreamMetrics()

	client := wiki.NewClient(&wiki.Config{
		BaseURL:           cfg.Wiki.BaseURL,
		ThumbnailSize:     cfg.Wiki.ThumbnailSize,
		Contact:           cfg.Wiki.Contact,
		Timeout:           cfg.Wiki.Timeout(),
		RequestsPerSecond: cfg.Wiki.RequestsPerSecond,
		Burst:             cfg.Wiki.Burst,
		Logger:            logger,
	})

	nearbySvc := nearbyuc.New(client, client, cfg.Search.DefaultMaxResults)
	overlayMgr := overlay.New(
		marker.NewSymbol(cfg.Markers.IconURL, cfg.Markers.IconSize),
		cfg.Markers.MoreInfoLabel,
	)
	sessionSvc := sessionuc.New(
		viewrepo.New(store, cfg.Views.KeyPrefix, cfg.Views.TTL()),
		nearbySvc,
		overlayMgr,
	)

	// Pass a nil interface, not a typed nil pointer, when the probe is disabled.
	var upstream healthuc.UpstreamChecker
	if cfg.Wiki.HealthCheck {
		upstream = client
	}
	healthSvc := healthuc.New(store, upstream)

	server := chiTransport.NewServer(nearbySvc, sessionSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, "nearwiki"),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func newStore(cfg config.ViewsConfig) (db.Store, error) {
	switch cfg.Driver {
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown views driver %q", cfg.Driver)
	}
}
