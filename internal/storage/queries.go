package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements of the repository. It runs against a database
// or inside a transaction.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Receipt struct {
	ID            int64
	Date          string
	SanctionOrder string
	Category      string
	AmountCents   int64
	Attachment    sql.NullString
}

type Expenditure struct {
	ID           int64
	Date         string
	PaymentOrder string
	Category     string
	SubCategory  string
	Department   string
	AmountCents  int64
	Attachment   sql.NullString
}

const createReceipt = `
INSERT INTO receipts (date, sanction_order, category, amount_cents, attachment)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type CreateReceiptParams struct {
	Date          string
	SanctionOrder string
	Category      string
	AmountCents   int64
	Attachment    sql.NullString
}

func (q *Queries) CreateReceipt(ctx context.Context, arg CreateReceiptParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createReceipt,
		arg.Date, arg.SanctionOrder, arg.Category, arg.AmountCents, arg.Attachment,
	).Scan(&id)
	return id, err
}

const createExpenditure = `
INSERT INTO expenditures (date, payment_order, category, sub_category, department, amount_cents, attachment)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type CreateExpenditureParams struct {
	Date         string
	PaymentOrder string
	Category     string
	SubCategory  string
	Department   string
	AmountCents  int64
	Attachment   sql.NullString
}

func (q *Queries) CreateExpenditure(ctx context.Context, arg CreateExpenditureParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createExpenditure,
		arg.Date, arg.PaymentOrder, arg.Category, arg.SubCategory, arg.Department, arg.AmountCents, arg.Attachment,
	).Scan(&id)
	return id, err
}

const listReceipts = `
SELECT id, date, sanction_order, category, amount_cents, attachment
FROM receipts
ORDER BY id`

func (q *Queries) ListReceipts(ctx context.Context) ([]Receipt, error) {
	rows, err := q.db.QueryContext(ctx, listReceipts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Receipt
	for rows.Next() {
		var i Receipt
		if err := rows.Scan(&i.ID, &i.Date, &i.SanctionOrder, &i.Category, &i.AmountCents, &i.Attachment); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listExpenditures = `
SELECT id, date, payment_order, category, sub_category, department, amount_cents, attachment
FROM expenditures
ORDER BY id`

func (q *Queries) ListExpenditures(ctx context.Context) ([]Expenditure, error) {
	rows, err := q.db.QueryContext(ctx, listExpenditures)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expenditure
	for rows.Next() {
		var i Expenditure
		if err := rows.Scan(&i.ID, &i.Date, &i.PaymentOrder, &i.Category, &i.SubCategory, &i.Department, &i.AmountCents, &i.Attachment); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countRows = `
SELECT (SELECT COUNT(*) FROM receipts), (SELECT COUNT(*) FROM expenditures)`

func (q *Queries) CountRows(ctx context.Context) (receipts, expenditures int64, err error) {
	err = q.db.QueryRowContext(ctx, countRows).Scan(&receipts, &expenditures)
	return receipts, expenditures, err
}

const listCategories = `SELECT name FROM categories ORDER BY position, name`

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	return q.names(ctx, listCategories)
}

const listDepartments = `SELECT name FROM departments ORDER BY position, name`

func (q *Queries) ListDepartments(ctx context.Context) ([]string, error) {
	return q.names(ctx, listDepartments)
}

type SubCategory struct {
	Category string
	Name     string
}

const listSubCategories = `
SELECT s.category, s.name
FROM sub_categories s
JOIN categories c ON c.name = s.category
ORDER BY c.position, s.position, s.name`

func (q *Queries) ListSubCategories(ctx context.Context) ([]SubCategory, error) {
	rows, err := q.db.QueryContext(ctx, listSubCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SubCategory
	for rows.Next() {
		var i SubCategory
		if err := rows.Scan(&i.Category, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const (
	deleteSubCategories = `DELETE FROM sub_categories`
	deleteCategories    = `DELETE FROM categories`
	deleteDepartments   = `DELETE FROM departments`
	insertCategory      = `INSERT INTO categories (name, position) VALUES (?, ?)`
	insertSubCategory   = `INSERT INTO sub_categories (category, name, position) VALUES (?, ?, ?)`
	insertDepartment    = `INSERT INTO departments (name, position) VALUES (?, ?)`
)

func (q *Queries) ClearTaxonomy(ctx context.Context) error {
	for _, stmt := range []string{deleteSubCategories, deleteCategories, deleteDepartments} {
		if _, err := q.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) InsertCategory(ctx context.Context, name string, position int) error {
	_, err := q.db.ExecContext(ctx, insertCategory, name, position)
	return err
}

func (q *Queries) InsertSubCategory(ctx context.Context, category, name string, position int) error {
	_, err := q.db.ExecContext(ctx, insertSubCategory, category, name, position)
	return err
}

func (q *Queries) InsertDepartment(ctx context.Context, name string, position int) error {
	_, err := q.db.ExecContext(ctx, insertDepartment, name, position)
	return err
}

func (q *Queries) names(ctx context.Context, query string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	return items, rows.Err()
}
