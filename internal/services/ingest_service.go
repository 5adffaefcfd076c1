package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/sources"
)

// ErrInvalidRecord wraps every validation or taxonomy failure.
var ErrInvalidRecord = errors.New("invalid record")

const taxonomyKey = "taxonomy"

// IngestService checks records against the taxonomy before handing them to a
// writer. It backs the ingest worker and the seeder.
type IngestService struct {
	writer   sources.Writer
	taxonomy sources.TaxonomyReader
	cached   *cache.Loader[core.Taxonomy]
	closers  []func() error
}

// NewIngestService creates a service. The taxonomy is reread at most once per
// taxonomyTTL; zero disables caching.
func NewIngestService(writer sources.Writer, taxonomy sources.TaxonomyReader, taxonomyTTL time.Duration) *IngestService {
	s := &IngestService{writer: writer, taxonomy: taxonomy}
	if taxonomyTTL > 0 {
		s.cached = cache.NewLoader(cache.NewLRUCache[core.Taxonomy](1, taxonomyTTL))
	}
	return s
}

// OnClose registers a function run by Close, in registration order.
func (s *IngestService) OnClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *IngestService) loadTaxonomy(ctx context.Context) (core.Taxonomy, error) {
	if s.cached == nil {
		return s.taxonomy.Taxonomy(ctx)
	}
	return s.cached.Get(ctx, taxonomyKey, s.taxonomy.Taxonomy)
}

// AddReceipt validates and stores a receipt, returning the writer's reference.
func (s *IngestService) AddReceipt(ctx context.Context, r core.Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	tax, err := s.loadTaxonomy(ctx)
	if err != nil {
		return "", fmt.Errorf("load taxonomy: %w", err)
	}
	if err := tax.CheckReceipt(r); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	ref, err := s.writer.AppendReceipt(ctx, r)
	if err != nil {
		return "", fmt.Errorf("save receipt: %w", err)
	}
	slog.InfoContext(ctx, "Receipt ingested",
		"ref", ref,
		"sanction_order", r.SanctionOrder,
		"amount_cents", r.Amount.Cents)
	return ref, nil
}

// AddExpenditure validates and stores an expenditure.
func (s *IngestService) AddExpenditure(ctx context.Context, e core.Expenditure) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	tax, err := s.loadTaxonomy(ctx)
	if err != nil {
		return "", fmt.Errorf("load taxonomy: %w", err)
	}
	if err := tax.CheckExpenditure(e); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	ref, err := s.writer.AppendExpenditure(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expenditure: %w", err)
	}
	slog.InfoContext(ctx, "Expenditure ingested",
		"ref", ref,
		"payment_order", e.PaymentOrder,
		"amount_cents", e.Amount.Cents)
	return ref, nil
}

// HandleRecord stores the record carried by a queue message. Invalid records
// are marked with amqp.ErrDiscard so they are not redelivered.
func (s *IngestService) HandleRecord(ctx context.Context, msg *amqp.RecordMessage) error {
	var err error
	switch msg.Dataset {
	case amqp.DatasetReceipts:
		var r core.Receipt
		if r, err = msg.ReceiptRecord(); err == nil {
			_, err = s.AddReceipt(ctx, r)
		}
	case amqp.DatasetExpenditures:
		var e core.Expenditure
		if e, err = msg.ExpenditureRecord(); err == nil {
			_, err = s.AddExpenditure(ctx, e)
		}
	default:
		err = fmt.Errorf("%w: unknown dataset %q", amqp.ErrMalformedMessage, msg.Dataset)
	}
	if errors.Is(err, ErrInvalidRecord) {
		return fmt.Errorf("%w: %w", amqp.ErrDiscard, err)
	}
	return err
}

// Close runs the registered closers and joins their errors.
func (s *IngestService) Close() error {
	var errs []error
	for _, fn := range s.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
