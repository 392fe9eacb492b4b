package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/admin"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/cache"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/database"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/locale"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/logging"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/metrics"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/middleware"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/storage"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracing"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracks"
)

func main() {
	// A missing .env file is fine; the environment may be set already.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetGlobal()

	tracer, err := tracing.Init(cfg.Tracing)
	if err != nil {
		logger.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer tracer.Close()

	store, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to open attachment store: %v", err)
	}
	defer store.Close()
	logger.Infof("Attachment store ready (driver %s)", cfg.Database.Driver)

	stor, err := storage.New(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	limiter, closeLimiter, err := newLimiter(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer closeLimiter()

	api := newAPI(store, stor, cfg, logger)
	router := setupRouter(api, limiter, logger)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server failed", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.ErrorWithErr("Metrics server shutdown failed", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithErr("Server forced to shutdown", err)
	}

	logger.Info("Server stopped")
}

// newAPI wires the track services over store and object storage.
func newAPI(store database.Store, urls tracks.URLResolver, cfg *config.Config, logger *logging.Logger) *API {
	opts := []tracks.Option{tracks.WithLogger(logger)}
	if cfg.Tracks.LocaleLabels {
		opts = append(opts, tracks.WithLocaleNamer(locale.NewNamer(), cfg.Tracks.UILocale))
	}

	return NewAPI(store, urls, admin.NewLinks(cfg.Admin), logger, opts...)
}

// newLimiter returns the configured request limiter, or nil when rate
// limiting is disabled.
func newLimiter(cfg *config.Config, logger *logging.Logger) (middleware.Limiter, func(), error) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop, nil
	}

	switch cfg.RateLimit.Backend {
	case "redis":
		c, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, noop, err
		}
		limit := int64(cfg.RateLimit.RPS) * int64(windowSeconds(cfg.RateLimit.Window))
		return middleware.NewRedisRateLimiter(c, limit, cfg.RateLimit.Window), func() { c.Close() }, nil
	case "memory", "":
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		ctx, cancel := context.WithCancel(context.Background())
		go rl.Cleanup(ctx, 10*time.Minute)
		return rl, cancel, nil
	default:
		logger.Warnf("Unknown rate limit backend %q, rate limiting disabled", cfg.RateLimit.Backend)
		return nil, noop, nil
	}
}

func windowSeconds(window time.Duration) int {
	if s := int(window / time.Second); s > 0 {
		return s
	}
	return 1
}
