package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"recommendationService/app/echo-server/router"
	"recommendationService/business/recommendation"
	"recommendationService/internal/middleware"
	redisRepo "recommendationService/internal/repository/redis"
	"recommendationService/internal/rest"
	"recommendationService/pkg/config"
	redisdb "recommendationService/pkg/database/redis"
	"recommendationService/pkg/logger"
	"recommendationService/pkg/metrics"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.App.Environment, cfg.App.LogLevel)
		defer logger.Sync()

		logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Environment)

		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	s, closeStore, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
		err := migrate(migrateCtx, s)
		cancel()
		if err != nil {
			return err
		}
	}

	rateLimit, closeRedis := setupRateLimit(cfg)
	defer closeRedis()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// Init service
	recommendationService := recommendation.NewRecommendationService(s)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendationService, cfg.Server.RequestTimeout)
	indexHandler := rest.NewIndexHandler(cfg.App.Name, cfg.App.Version, s)

	e := router.New(recommendationHandler, indexHandler, router.Options{
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		RateLimit:        rateLimit,
	})

	// Goroutine server
	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("Shutting down server...")

	if err := router.Shutdown(e, cfg.Server); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")

	return nil
}

// setupRateLimit connects to redis when both a host and a positive
// RATE_LIMIT_RPS are configured. Without them the limiter is nil.
func setupRateLimit(cfg *config.Config) (echo.MiddlewareFunc, func()) {
	noop := func() {}
	if !cfg.Redis.Enabled() || cfg.RateLimit.RPS <= 0 {
		return nil, noop
	}

	client, err := redisdb.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("Rate limiting disabled, Redis unreachable", "address", cfg.Redis.Addr(), "error", err)
		return nil, noop
	}

	logger.Info("Rate limiting enabled", "rps", cfg.RateLimit.RPS, "redis", cfg.Redis.Addr())

	mw := middleware.RateLimit(middleware.RateLimitConfig{
		Counter: redisRepo.NewRateLimitRepository(client, redisRepo.DefaultKeyPrefix),
		RPS:     cfg.RateLimit.RPS,
		Window:  time.Second,
	})

	return mw, func() {
		if err := redisdb.CloseRedisClient(client); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}
}
