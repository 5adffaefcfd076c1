// Package worker keeps the local taxonomy in step with the spreadsheet that
// owns it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ledger/internal/core"
	"ledger/internal/sources"
)

// ErrEmptyTaxonomy is returned when the remote taxonomy has no categories.
// The local copy is left untouched.
var ErrEmptyTaxonomy = errors.New("remote taxonomy has no categories")

// TaxonomyStore is the local copy the sync writes to.
type TaxonomyStore interface {
	sources.TaxonomyReader
	ReplaceTaxonomy(ctx context.Context, tax core.Taxonomy) error
}

// TaxonomySync copies the taxonomy from a remote reader into a local store,
// on demand or on a cron schedule.
type TaxonomySync struct {
	remote sources.TaxonomyReader
	local  TaxonomyStore
	logger *slog.Logger

	mu       sync.Mutex
	lastSync time.Time
	syncs    int
	cron     *cron.Cron
}

func NewTaxonomySync(remote sources.TaxonomyReader, local TaxonomyStore, logger *slog.Logger) *TaxonomySync {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxonomySync{remote: remote, local: local, logger: logger}
}

// SyncIfNeeded syncs only when the local store has no categories.
func (w *TaxonomySync) SyncIfNeeded(ctx context.Context) error {
	tax, err := w.local.Taxonomy(ctx)
	if err != nil {
		return fmt.Errorf("read local taxonomy: %w", err)
	}
	if len(tax.Categories) == 0 {
		w.logger.InfoContext(ctx, "No local taxonomy, loading from remote")
		return w.Sync(ctx)
	}
	w.logger.InfoContext(ctx, "Local taxonomy present",
		"categories", len(tax.Categories),
		"departments", len(tax.Departments))
	return nil
}

// Sync replaces the local taxonomy with the remote one.
func (w *TaxonomySync) Sync(ctx context.Context) error {
	tax, err := w.remote.Taxonomy(ctx)
	if err != nil {
		return fmt.Errorf("load remote taxonomy: %w", err)
	}
	if len(tax.Categories) == 0 {
		return ErrEmptyTaxonomy
	}
	if err := w.local.ReplaceTaxonomy(ctx, tax); err != nil {
		return fmt.Errorf("store taxonomy: %w", err)
	}

	w.mu.Lock()
	w.lastSync = time.Now()
	w.syncs++
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Taxonomy synced",
		"categories", len(tax.Categories),
		"departments", len(tax.Departments))
	return nil
}

// LastSync returns the time of the last successful sync and how many there
// have been.
func (w *TaxonomySync) LastSync() (time.Time, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync, w.syncs
}

// Start runs Sync on schedule, a standard cron expression or descriptor
// such as "@every 6h", until ctx is done or Stop is called. Overlapping runs
// are skipped.
func (w *TaxonomySync) Start(ctx context.Context, schedule string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return errors.New("taxonomy sync already started")
	}

	logger := cronLogger{w.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(schedule, func() {
		if err := w.Sync(ctx); err != nil {
			w.logger.ErrorContext(ctx, "Scheduled taxonomy sync failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	c.Start()
	w.cron = c

	w.logger.InfoContext(ctx, "Taxonomy sync scheduled", "schedule", schedule)
	return nil
}

// Stop halts the schedule and waits for a running sync, up to ctx.
func (w *TaxonomySync) Stop(ctx context.Context) error {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes scheduler messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
