package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"bahnboard.morphos.dev/internal/app"
	"bahnboard.morphos.dev/internal/appconf"
	"bahnboard.morphos.dev/internal/clock"
	"bahnboard.morphos.dev/internal/logging"
	"bahnboard.morphos.dev/internal/metrics"
	"bahnboard.morphos.dev/internal/restapi"
	"bahnboard.morphos.dev/internal/stats"
	"bahnboard.morphos.dev/tripdb"
)

func main() {
	// A missing .env file is fine; the environment may be set externally.
	_ = godotenv.Load()

	cfg := appconf.Load()
	logger := logging.NewLogger(cfg.Env)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server exited with error", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	trips, err := tripdb.NewClient(tripdb.Config{
		BaseURL:        cfg.DataBaseURL,
		DataDir:        cfg.DataDir,
		MinYear:        cfg.MinYear,
		MaxYear:        cfg.MaxYear,
		ResolveTimeout: cfg.ResolveTimeout,
		Logger:         logger,
		Verbose:        cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to open trip database: %w", err)
	}
	defer func() { _ = trips.Close() }()

	m := metrics.NewWithLogger(logger)
	m.StartDBStatsCollector(trips.DB, 15*time.Second)
	defer m.Shutdown()

	application := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Trips:   trips,
		Engine:  stats.NewEngine(m),
		Clock:   clock.RealClock{},
		Metrics: m,
	}

	mux := http.NewServeMux()
	api := restapi.New(application)
	api.SetRoutes(mux)

	rateLimiter := restapi.NewRateLimitMiddleware(cfg.RateLimit, application.Clock)
	defer rateLimiter.Stop()

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})

	var handler http.Handler = mux
	handler = restapi.CompressionMiddleware(handler)
	handler = corsHandler(handler)
	handler = rateLimiter.Handler(handler)
	handler = restapi.MetricsHandler(m)(handler)
	handler = restapi.NewRequestLoggingMiddleware(logger)(handler)
	handler = restapi.RequestIDMiddleware(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Port), slog.String("env", cfg.Env.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
