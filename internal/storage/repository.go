package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"ledger/internal/core"
	"ledger/internal/sources"

	_ "modernc.org/sqlite"
)

// Ensure interface conformance
var (
	_ sources.Reader = (*SQLiteRepository)(nil)
	_ sources.Writer = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time; SQLite serializes writes anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AppendReceipt implements sources.ReceiptWriter
func (r *SQLiteRepository) AppendReceipt(ctx context.Context, rec core.Receipt) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	id, err := r.queries.CreateReceipt(ctx, CreateReceiptParams{
		Date:          rec.Date.String(),
		SanctionOrder: rec.SanctionOrder,
		Category:      rec.Category,
		AmountCents:   rec.Amount.Cents,
		Attachment:    nullString(rec.Attachment),
	})
	if err != nil {
		return "", fmt.Errorf("create receipt: %w", err)
	}

	slog.DebugContext(ctx, "Receipt saved to SQLite",
		"id", id,
		"sanction_order", rec.SanctionOrder,
		"amount_cents", rec.Amount.Cents)

	return strconv.FormatInt(id, 10), nil
}

// AppendExpenditure implements sources.ExpenditureWriter
func (r *SQLiteRepository) AppendExpenditure(ctx context.Context, e core.Expenditure) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	id, err := r.queries.CreateExpenditure(ctx, CreateExpenditureParams{
		Date:         e.Date.String(),
		PaymentOrder: e.PaymentOrder,
		Category:     e.Category,
		SubCategory:  e.SubCategory,
		Department:   e.Department,
		AmountCents:  e.Amount.Cents,
		Attachment:   nullString(e.Attachment),
	})
	if err != nil {
		return "", fmt.Errorf("create expenditure: %w", err)
	}

	slog.DebugContext(ctx, "Expenditure saved to SQLite",
		"id", id,
		"payment_order", e.PaymentOrder,
		"amount_cents", e.Amount.Cents)

	return strconv.FormatInt(id, 10), nil
}

// ListReceipts implements sources.ReceiptLister
func (r *SQLiteRepository) ListReceipts(ctx context.Context) ([]core.Receipt, error) {
	rows, err := r.queries.ListReceipts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	out := make([]core.Receipt, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("receipt %d: bad date %q: %w", row.ID, row.Date, err)
		}
		out = append(out, core.Receipt{
			Date:          date,
			SanctionOrder: row.SanctionOrder,
			Category:      row.Category,
			Amount:        core.Money{Cents: row.AmountCents},
			Attachment:    row.Attachment.String,
		})
	}
	return out, nil
}

// ListExpenditures implements sources.ExpenditureLister
func (r *SQLiteRepository) ListExpenditures(ctx context.Context) ([]core.Expenditure, error) {
	rows, err := r.queries.ListExpenditures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenditures: %w", err)
	}
	out := make([]core.Expenditure, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("expenditure %d: bad date %q: %w", row.ID, row.Date, err)
		}
		out = append(out, core.Expenditure{
			Date:         date,
			PaymentOrder: row.PaymentOrder,
			Category:     row.Category,
			SubCategory:  row.SubCategory,
			Department:   row.Department,
			Amount:       core.Money{Cents: row.AmountCents},
			Attachment:   row.Attachment.String,
		})
	}
	return out, nil
}

// Taxonomy implements sources.TaxonomyReader
func (r *SQLiteRepository) Taxonomy(ctx context.Context) (core.Taxonomy, error) {
	cats, err := r.queries.ListCategories(ctx)
	if err != nil {
		return core.Taxonomy{}, fmt.Errorf("list categories: %w", err)
	}
	subs, err := r.queries.ListSubCategories(ctx)
	if err != nil {
		return core.Taxonomy{}, fmt.Errorf("list sub-categories: %w", err)
	}
	deps, err := r.queries.ListDepartments(ctx)
	if err != nil {
		return core.Taxonomy{}, fmt.Errorf("list departments: %w", err)
	}

	tax := core.Taxonomy{
		Categories:    cats,
		SubCategories: make(map[string][]string, len(cats)),
		Departments:   deps,
	}
	for _, s := range subs {
		tax.SubCategories[s.Category] = append(tax.SubCategories[s.Category], s.Name)
	}
	return tax, nil
}

// ReplaceTaxonomy swaps the stored taxonomy for tax in one transaction.
// Positions follow slice order.
func (r *SQLiteRepository) ReplaceTaxonomy(ctx context.Context, tax core.Taxonomy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.ClearTaxonomy(ctx); err != nil {
		return fmt.Errorf("clear taxonomy: %w", err)
	}
	for i, c := range tax.Categories {
		if err := q.InsertCategory(ctx, c, i+1); err != nil {
			return fmt.Errorf("insert category %q: %w", c, err)
		}
		for j, s := range tax.SubCategories[c] {
			if err := q.InsertSubCategory(ctx, c, s, j+1); err != nil {
				return fmt.Errorf("insert sub-category %q: %w", s, err)
			}
		}
	}
	for i, d := range tax.Departments {
		if err := q.InsertDepartment(ctx, d, i+1); err != nil {
			return fmt.Errorf("insert department %q: %w", d, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Taxonomy replaced",
		"categories", len(tax.Categories),
		"departments", len(tax.Departments))
	return nil
}

// Counts returns the number of stored receipts and expenditures.
func (r *SQLiteRepository) Counts(ctx context.Context) (receipts, expenditures int64, err error) {
	receipts, expenditures, err = r.queries.CountRows(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return receipts, expenditures, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
