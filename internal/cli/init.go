// Package cli holds the start-up steps shared by cmd/loandash and
// cmd/loandash-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"loandash/internal/config"
	applog "loandash/internal/log"
	"loandash/internal/translation"
	"loandash/internal/translation/google"
	"loandash/internal/translation/redisstore"
)

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func SetupLogger(level, format string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Format:    applog.Format(format),
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitTranslation builds the shared Batcher: a Redis second-level cache when
// REDIS_URL is set and the Google service when TRANSLATE_API_KEY is set.
// Without a key every translation degrades to the source text.
func InitTranslation(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*translation.Batcher, func()) {
	log := logger.WithComponent(applog.ComponentTranslation)
	cleanup := func() {}

	var store translation.Store
	if cfg.RedisURL != "" {
		rs, err := redisstore.NewFromURL(ctx, cfg.RedisURL, cfg.TranslationCacheTTL)
		if err != nil {
			log.Warn("Redis translation cache unavailable, using memory only", applog.FieldError, err)
		} else {
			store = rs
			cleanup = func() { _ = rs.Close() }
			log.Info("Redis translation cache enabled", "ttl", cfg.TranslationCacheTTL)
		}
	}

	var service translation.Service
	if cfg.TranslateAPIKey != "" {
		client, err := google.New(ctx, cfg.TranslateAPIKey)
		if err != nil {
			log.Error("Failed to create translation client", applog.FieldError, err)
		} else {
			service = client
		}
	} else {
		log.Warn("TRANSLATE_API_KEY not set, non-default languages show source text")
	}

	return translation.NewBatcher(translation.NewCache(store), service), cleanup
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		cancel()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup ran.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
