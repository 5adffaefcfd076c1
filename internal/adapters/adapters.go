// Package adapters joins the ingest service and the queue publisher to the
// source ports, so that every backend exposes one sources.Reader and
// sources.Writer.
package adapters

import (
	"context"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/sources"
)

var (
	_ sources.Reader = (*Store)(nil)
	_ sources.Writer = (*Store)(nil)
	_ sources.Writer = (*QueueWriter)(nil)
)

// Store reads from a source and writes through the ingest service, so every
// write is checked against the taxonomy first.
type Store struct {
	sources.Reader
	service *services.IngestService
}

func NewStore(reader sources.Reader, service *services.IngestService) *Store {
	return &Store{Reader: reader, service: service}
}

func (s *Store) AppendReceipt(ctx context.Context, r core.Receipt) (string, error) {
	return s.service.AddReceipt(ctx, r)
}

func (s *Store) AppendExpenditure(ctx context.Context, e core.Expenditure) (string, error) {
	return s.service.AddExpenditure(ctx, e)
}

// Publisher is the part of amqp.Client the queue writer needs.
type Publisher interface {
	PublishRecord(ctx context.Context, msg *amqp.RecordMessage) error
}

// QueueWriter hands records to the ingest worker instead of storing them.
// References it returns only name the queue.
type QueueWriter struct {
	pub   Publisher
	queue string
}

func NewQueueWriter(pub Publisher, queue string) *QueueWriter {
	return &QueueWriter{pub: pub, queue: queue}
}

func (q *QueueWriter) AppendReceipt(ctx context.Context, r core.Receipt) (string, error) {
	return q.publish(ctx, amqp.NewReceiptMessage(r))
}

func (q *QueueWriter) AppendExpenditure(ctx context.Context, e core.Expenditure) (string, error) {
	return q.publish(ctx, amqp.NewExpenditureMessage(e))
}

func (q *QueueWriter) publish(ctx context.Context, msg *amqp.RecordMessage) (string, error) {
	if err := q.pub.PublishRecord(ctx, msg); err != nil {
		return "", fmt.Errorf("queue %s record: %w", msg.Dataset, err)
	}
	return "queued:" + q.queue, nil
}
