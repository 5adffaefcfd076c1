package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sources/memory"
)

func validReceipt() core.Receipt {
	return core.Receipt{
		Date:          core.NewDate(2024, 5, 1),
		SanctionOrder: "SO-1234",
		Category:      "OH-31 Grant-in-Aid General",
		Amount:        core.Money{Cents: 50000},
	}
}

func validExpenditure() core.Expenditure {
	return core.Expenditure{
		Date:         core.NewDate(2024, 6, 2),
		PaymentOrder: "PO-77",
		Category:     "OH-35 Grants for Creation of Capital Assets",
		SubCategory:  "35.03 Library",
		Department:   "Physics",
		Amount:       core.Money{Cents: 1999},
	}
}

func newService(t *testing.T) (*IngestService, *memory.Store) {
	t.Helper()
	store := memory.New(memory.DefaultTaxonomy())
	return NewIngestService(store, store, time.Minute), store
}

func TestIngestService_AddRecords(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	if _, err := svc.AddReceipt(ctx, validReceipt()); err != nil {
		t.Fatalf("AddReceipt: %v", err)
	}
	if _, err := svc.AddExpenditure(ctx, validExpenditure()); err != nil {
		t.Fatalf("AddExpenditure: %v", err)
	}
	rs, _ := store.ListReceipts(ctx)
	es, _ := store.ListExpenditures(ctx)
	if len(rs) != 1 || len(es) != 1 {
		t.Fatalf("stored %d receipts, %d expenditures", len(rs), len(es))
	}
}

func TestIngestService_RejectsInvalid(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	badCategory := validReceipt()
	badCategory.Category = "OH-99 Unknown"
	wrongSub := validExpenditure()
	wrongSub.SubCategory = "36.01 Expenditure on salary on Regular Faculty"
	noAmount := validExpenditure()
	noAmount.Amount = core.Money{}

	tests := []struct {
		name string
		run  func() error
	}{
		{"unknown receipt category", func() error { _, err := svc.AddReceipt(ctx, badCategory); return err }},
		{"sub-category of another category", func() error { _, err := svc.AddExpenditure(ctx, wrongSub); return err }},
		{"zero amount", func() error { _, err := svc.AddExpenditure(ctx, noAmount); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("err = %v, want ErrInvalidRecord", err)
			}
		})
	}
}

func TestIngestService_HandleRecord(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	if err := svc.HandleRecord(ctx, amqp.NewReceiptMessage(validReceipt())); err != nil {
		t.Fatalf("receipt message: %v", err)
	}
	if err := svc.HandleRecord(ctx, amqp.NewExpenditureMessage(validExpenditure())); err != nil {
		t.Fatalf("expenditure message: %v", err)
	}

	bad := validReceipt()
	bad.Category = "nope"
	if err := svc.HandleRecord(ctx, amqp.NewReceiptMessage(bad)); !errors.Is(err, amqp.ErrDiscard) {
		t.Errorf("invalid record err = %v, want ErrDiscard", err)
	}
	if err := svc.HandleRecord(ctx, &amqp.RecordMessage{Dataset: "other"}); !errors.Is(err, amqp.ErrMalformedMessage) {
		t.Errorf("unknown dataset err = %v, want ErrMalformedMessage", err)
	}

	rs, _ := store.ListReceipts(ctx)
	if len(rs) != 1 {
		t.Errorf("receipts stored = %d, want 1", len(rs))
	}
}

type failingTaxonomy struct{}

func (failingTaxonomy) Taxonomy(context.Context) (core.Taxonomy, error) {
	return core.Taxonomy{}, errors.New("sheet unavailable")
}

func TestIngestService_TaxonomyFailureIsRetryable(t *testing.T) {
	store := memory.New(memory.DefaultTaxonomy())
	svc := NewIngestService(store, failingTaxonomy{}, 0)

	err := svc.HandleRecord(context.Background(), amqp.NewReceiptMessage(validReceipt()))
	if err == nil || errors.Is(err, amqp.ErrDiscard) {
		t.Fatalf("err = %v, want retryable error", err)
	}
}

func TestIngestService_Close(t *testing.T) {
	svc, _ := newService(t)
	first := errors.New("first")
	var order []int
	svc.OnClose(func() error { order = append(order, 1); return first })
	svc.OnClose(func() error { order = append(order, 2); return nil })

	if err := svc.Close(); !errors.Is(err, first) {
		t.Errorf("Close = %v, want first", err)
	}
	if len(order) != 2 || order[0] != 1 {
		t.Errorf("closers ran %v", order)
	}
}
