package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ledger/internal/cli"
	"ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentSeeder)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewSeedCommand(cfg, logger).ExecuteContext(ctx); err != nil {
		logger.Error("Seeding failed", "error", err)
		stop()
		os.Exit(1)
	}
}
