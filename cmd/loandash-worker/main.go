package main

import (
	"context"
	"errors"
	"os"
	"time"

	"loandash/internal/amqp"
	"loandash/internal/backend"
	"loandash/internal/cli"
	applog "loandash/internal/log"
	"loandash/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger("info", "text"))
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat).WithComponent(applog.ComponentWorker)

	logger.Info("Starting loandash-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to read backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Close()

	batcher, closeTranslation := cli.InitTranslation(context.Background(), logger, cfg)
	defer closeTranslation()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	warm := worker.NewWarmWorker(res.Store, batcher, cfg.WarmLanguages)
	if len(warm.Languages()) == 0 {
		logger.Warn("No warm languages configured, messages will only be acknowledged")
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	// Labels do not depend on loans, so they can be cached before any event.
	warm.StartupWarm(ctx)

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeLoanChanged(ctx, warm.HandleLoanChanged)
	}()

	select {
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
