package backend

import (
	"errors"
	"fmt"
	"time"

	goption "google.golang.org/api/option"

	"ledger/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite; with an AMQP URL, writes are queued for the ingest worker.
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID     string
	GoogleReceiptsSheet     string
	GoogleExpendituresSheet string
	GoogleTaxonomySheet     string
	GoogleClientOptions     []goption.ClientOption

	// Memory: taxonomy seed files and generated rows
	DataDirectory    string
	SeedValue        uint64
	SeedReceipts     int
	SeedExpenditures int

	// TaxonomyTTL bounds how stale the taxonomy used for write checks may be.
	TaxonomyTTL time.Duration
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID:     appConfig.GoogleSpreadsheetID,
		GoogleReceiptsSheet:     appConfig.GoogleReceiptsSheet,
		GoogleExpendituresSheet: appConfig.GoogleExpendituresSheet,
		GoogleTaxonomySheet:     appConfig.GoogleTaxonomySheet,

		DataDirectory:    appConfig.DataDirectory,
		SeedValue:        appConfig.SeedValue,
		SeedReceipts:     appConfig.SeedReceipts,
		SeedExpenditures: appConfig.SeedExpenditures,

		TaxonomyTTL: appConfig.DatasetCacheTTL,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
		if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
			return errors.New("AMQP exchange and queue are required when AMQP URL is set")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets backend")
		}
	case MemoryBackend:
		if c.SeedReceipts < 0 || c.SeedExpenditures < 0 {
			return errors.New("seed counts must not be negative")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, SheetsBackend, MemoryBackend}
}
