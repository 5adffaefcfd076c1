package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/adapters"
	"ledger/internal/amqp"
	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/sources"
	"ledger/internal/sources/memory"
	"ledger/internal/storage"
)

// Seed targets.
const (
	TargetSQLite = "sqlite"
	TargetQueue  = "queue"
)

// SeedOptions holds the flags of the seed command.
type SeedOptions struct {
	Target       string
	DBPath       string
	DataDir      string
	Receipts     int
	Expenditures int
	Seed         uint64

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// NewSeedCommand creates the seed command. Flag defaults come from cfg.
func NewSeedCommand(cfg *config.Config, logger *log.Logger) *cobra.Command {
	opts := &SeedOptions{
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
	}

	cmd := &cobra.Command{
		Use:   "ledger-seed",
		Short: "Generate demo receipts and expenditures",
		Long: `Generate random receipts and expenditures that fit the taxonomy and
store them in SQLite, or publish them to the ingest queue.

The same seed always produces the same entries.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			receipts, expenditures, err := RunSeed(cmd.Context(), *opts, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d receipts and %d expenditures (%s)\n",
				receipts, expenditures, opts.Target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", TargetSQLite, "where entries go (sqlite|queue)")
	cmd.Flags().StringVar(&opts.DBPath, "db", cfg.SQLiteDBPath, "SQLite database path")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", cfg.DataDirectory, "taxonomy seed files for the queue target")
	cmd.Flags().IntVarP(&opts.Receipts, "receipts", "r", cfg.SeedReceipts, "number of receipts")
	cmd.Flags().IntVarP(&opts.Expenditures, "expenditures", "e", cfg.SeedExpenditures, "number of expenditures")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", cfg.SeedValue, "random seed, 0 picks one from the clock")

	return cmd
}

// RunSeed generates and writes the entries, returning how many of each were
// written. Entries rejected by the taxonomy are logged and skipped.
func RunSeed(ctx context.Context, opts SeedOptions, logger *log.Logger) (receipts, expenditures int, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Receipts < 0 || opts.Expenditures < 0 {
		return 0, 0, errors.New("counts must not be negative")
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	writer, tax, closeFn, err := seedTarget(ctx, opts)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	logger.Info("Seeding",
		"target", opts.Target,
		"seed", opts.Seed,
		"receipts", opts.Receipts,
		"expenditures", opts.Expenditures)

	gen := memory.NewGenerator(opts.Seed, tax)
	for _, r := range gen.Receipts(opts.Receipts) {
		if _, err := writer.AppendReceipt(ctx, r); err != nil {
			if errors.Is(err, services.ErrInvalidRecord) {
				logger.Warn("Skipping receipt", "sanction_order", r.SanctionOrder, "error", err)
				continue
			}
			return receipts, expenditures, err
		}
		receipts++
	}
	for _, e := range gen.Expenditures(opts.Expenditures) {
		if _, err := writer.AppendExpenditure(ctx, e); err != nil {
			if errors.Is(err, services.ErrInvalidRecord) {
				logger.Warn("Skipping expenditure", "payment_order", e.PaymentOrder, "error", err)
				continue
			}
			return receipts, expenditures, err
		}
		expenditures++
	}

	logger.Info("Seeding complete", "receipts", receipts, "expenditures", expenditures)
	return receipts, expenditures, nil
}

func seedTarget(ctx context.Context, opts SeedOptions) (sources.Writer, core.Taxonomy, func() error, error) {
	switch opts.Target {
	case TargetSQLite:
		repo, err := storage.NewSQLiteRepository(opts.DBPath)
		if err != nil {
			return nil, core.Taxonomy{}, nil, err
		}
		tax, err := repo.Taxonomy(ctx)
		if err != nil {
			repo.Close()
			return nil, core.Taxonomy{}, nil, fmt.Errorf("read taxonomy: %w", err)
		}
		return adapters.NewStore(repo, services.NewIngestService(repo, repo, 0)), tax, repo.Close, nil

	case TargetQueue:
		if opts.AMQPURL == "" {
			return nil, core.Taxonomy{}, nil, errors.New("AMQP_URL is required for the queue target")
		}
		client, err := amqp.NewClient(opts.AMQPURL, opts.AMQPExchange, opts.AMQPQueue)
		if err != nil {
			return nil, core.Taxonomy{}, nil, err
		}
		tax := memory.TaxonomyFromFiles(opts.DataDir)
		return adapters.NewQueueWriter(client, opts.AMQPQueue), tax, client.Close, nil
	}
	return nil, core.Taxonomy{}, nil, fmt.Errorf("invalid target %q: must be %s or %s", opts.Target, TargetSQLite, TargetQueue)
}
