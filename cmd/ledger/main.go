package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/format"
	apphttp "ledger/internal/http"
	"ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	formatter, err := format.New(cfg.Locale, cfg.Currency)
	if err != nil {
		logger.Error("Invalid locale or currency", "error", err)
		os.Exit(1)
	}

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendConfig)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:              ":" + cfg.Port,
		RowsPerPage:       cfg.RowsPerPage,
		PaginationEnabled: cfg.PaginationEnabled,
		SessionTTL:        cfg.SessionTTL,
		MaxSessions:       cfg.MaxSessions,
		DatasetCacheTTL:   cfg.DatasetCacheTTL,
		Ready:             result.Ping,
	}, result.Backend, formatter, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		result.Close()
		os.Exit(1)
	}
	srv.WriteTimeout = 30 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting ledger server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"locale", cfg.Locale,
		"currency", cfg.Currency)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
