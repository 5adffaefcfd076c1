// Package sources defines the ports through which register data is loaded
// and stored, and loads complete datasets from them.
package sources

import (
	"context"
	"fmt"

	"ledger/internal/core"

	"golang.org/x/sync/errgroup"
)

// Ports for outbound adapters.
type (
	ReceiptLister interface {
		ListReceipts(ctx context.Context) ([]core.Receipt, error)
	}

	ExpenditureLister interface {
		ListExpenditures(ctx context.Context) ([]core.Expenditure, error)
	}

	TaxonomyReader interface {
		Taxonomy(ctx context.Context) (core.Taxonomy, error)
	}

	ReceiptWriter interface {
		AppendReceipt(ctx context.Context, r core.Receipt) (ref string, err error)
	}

	ExpenditureWriter interface {
		AppendExpenditure(ctx context.Context, e core.Expenditure) (ref string, err error)
	}

	// Reader is everything needed to render both registers.
	Reader interface {
		ReceiptLister
		ExpenditureLister
		TaxonomyReader
	}

	// Writer accepts new register entries.
	Writer interface {
		ReceiptWriter
		ExpenditureWriter
	}
)

// Snapshot is one consistent read of every dataset.
type Snapshot struct {
	Receipts     []core.Receipt
	Expenditures []core.Expenditure
	Taxonomy     core.Taxonomy
}

// LoadDatasets fetches receipts, expenditures and taxonomy concurrently.
// The first failure cancels the other reads.
func LoadDatasets(ctx context.Context, r Reader) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.ListReceipts(ctx)
		if err != nil {
			return fmt.Errorf("list receipts: %w", err)
		}
		snap.Receipts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := r.ListExpenditures(ctx)
		if err != nil {
			return fmt.Errorf("list expenditures: %w", err)
		}
		snap.Expenditures = rows
		return nil
	})
	g.Go(func() error {
		tax, err := r.Taxonomy(ctx)
		if err != nil {
			return fmt.Errorf("read taxonomy: %w", err)
		}
		snap.Taxonomy = tax
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
