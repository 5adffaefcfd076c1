package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/sources/google"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ingest worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	service := services.NewIngestService(repo, repo, cfg.DatasetCacheTTL)
	service.OnClose(repo.Close)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		service.Close()
		os.Exit(1)
	}
	service.OnClose(client.Close)

	var taxSync *worker.TaxonomySync
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := google.New(context.Background(), google.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			TaxonomySheet: cfg.GoogleTaxonomySheet,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			service.Close()
			os.Exit(1)
		}
		taxSync = worker.NewTaxonomySync(sheets, repo, logger.WithComponent(log.ComponentSheets).Logger)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if taxSync != nil {
			if err := taxSync.Stop(ctx); err != nil {
				logger.Warn("Taxonomy sync did not stop cleanly", "error", err)
			}
		}
		if err := service.Close(); err != nil {
			logger.Error("Worker cleanup error", "error", err)
		}
	})

	if taxSync != nil {
		if err := taxSync.SyncIfNeeded(ctx); err != nil {
			logger.Warn("Initial taxonomy sync failed, keeping local copy", "error", err)
		}
		if cfg.TaxonomySyncSchedule != "" {
			if err := taxSync.Start(ctx, cfg.TaxonomySyncSchedule); err != nil {
				logger.Error("Failed to schedule taxonomy sync", "error", err)
				os.Exit(1)
			}
		}
	}

	logger.Info("Starting ingest worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"db_path", cfg.SQLiteDBPath,
		"taxonomy_sync", taxSync != nil)

	if err := client.ConsumeRecords(ctx, service.HandleRecord); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
