package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/adapters"
	"ledger/internal/amqp"
	"ledger/internal/services"
	"ledger/internal/sources"
	"ledger/internal/sources/google"
	"ledger/internal/sources/memory"
	"ledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger.With("component", "backend")}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	var writer sources.Writer = repo
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, writing directly to SQLite", "error", err)
		} else {
			writer = adapters.NewQueueWriter(amqpClient, config.AMQPQueue)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	service := services.NewIngestService(writer, repo, config.TaxonomyTTL)
	if amqpClient != nil {
		service.OnClose(amqpClient.Close)
	}
	service.OnClose(repo.Close)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Backend: adapters.NewStore(repo, service),
		Cleanup: service.Close,
		Ping:    repo.Ping,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:     config.GoogleSpreadsheetID,
		ReceiptsSheet:     config.GoogleReceiptsSheet,
		ExpendituresSheet: config.GoogleExpendituresSheet,
		TaxonomySheet:     config.GoogleTaxonomySheet,
	}, config.GoogleClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	service := services.NewIngestService(cli, cli, config.TaxonomyTTL)
	return &BackendResult{
		Backend: adapters.NewStore(cli, service),
		Cleanup: service.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	seed := config.SeedValue
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	tax := memory.TaxonomyFromFiles(dataDir)
	store := memory.NewSeeded(tax, seed, config.SeedReceipts, config.SeedExpenditures)

	f.logger.Info("Initialized memory backend",
		"data_directory", dataDir,
		"seed", seed,
		"receipts", config.SeedReceipts,
		"expenditures", config.SeedExpenditures)

	service := services.NewIngestService(store, store, 0)
	return &BackendResult{
		Backend: adapters.NewStore(store, service),
		Cleanup: service.Close,
	}, nil
}
