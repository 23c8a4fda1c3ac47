package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/deli-pos-service/internal/pkg/logging"
	"github.com/light-bringer/deli-pos-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()
	cfg := loadConfig()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("database", cfg.SpannerDB).Info("starting deli POS service")

	opts, err := services.NewServiceOptions(ctx, services.Config{
		SpannerDB: cfg.SpannerDB,
		FeedURL:   cfg.FeedURL,
		LogLevel:  cfg.LogLevel,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer opts.Close()

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: opts.HTTPServer.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return opts.Reconciler.Run(ctx)
	})
	g.Go(func() error {
		logger.WithField("port", cfg.HTTPPort).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Config holds application configuration.
type Config struct {
	SpannerDB string
	HTTPPort  string
	FeedURL   string
	LogLevel  string
}

// loadConfig loads configuration from environment variables with defaults.
func loadConfig() Config {
	spannerDB := os.Getenv("SPANNER_DATABASE")
	if spannerDB == "" {
		// Default for local development with emulator
		spannerDB = "projects/test-project/instances/dev-instance/databases/deli-pos-db"
	}

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	return Config{
		SpannerDB: spannerDB,
		HTTPPort:  httpPort,
		FeedURL:   os.Getenv("FEED_URL"),
		LogLevel:  os.Getenv("LOG_LEVEL"),
	}
}
