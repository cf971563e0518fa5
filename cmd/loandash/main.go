package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"loandash/internal/amqp"
	"loandash/internal/backend"
	"loandash/internal/cli"
	apphttp "loandash/internal/http"
	applog "loandash/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger("info", "text"))
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to read backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	batcher, closeTranslation := cli.InitTranslation(ctx, logger, cfg)

	deps := apphttp.Deps{
		Store:             res.Store,
		Writer:            res.Writer,
		Prefs:             res.Prefs,
		Translator:        batcher,
		Logger:            logger,
		Ready:             res.Ping,
		Cleaners:          res.Cleaners,
		SessionTTL:        cfg.SessionTTL,
		SessionMax:        cfg.SessionMax,
		LanguageRateLimit: cfg.LanguageRateLimit,
	}

	// Loan change events are optional; without a broker the warm worker
	// simply never hears about new loans.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, loan changes will not be published", applog.FieldError, err)
		} else {
			deps.Publisher = amqpClient
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		closeTranslation()
		if err := res.Close(); err != nil {
			logger.Error("Backend close error", applog.FieldError, err)
		}
	})

	logger.Info("Starting loandash server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
