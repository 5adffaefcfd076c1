// Package google reads and appends register entries in a Google
// Spreadsheet through the Sheets v4 API.
//
// Layout, first row a header:
//
//	Receipts      A Date | B Sanction Order | C Category | D Amount | E Attachment
//	Expenditures  A Date | B Payment Order | C Category | D Sub-category | E Department | F Amount | G Attachment
//	Taxonomy      A Category | B Sub-category | C Department
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ledger/internal/core"
	"ledger/internal/sources"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Default sheet names.
const (
	DefaultReceiptsSheet     = "Receipts"
	DefaultExpendituresSheet = "Expenditures"
	DefaultTaxonomySheet     = "Taxonomy"
)

// Ensure interface conformance
var (
	_ sources.Reader = (*Client)(nil)
	_ sources.Writer = (*Client)(nil)
)

var errNoService = errors.New("sheets service not initialized")

// Config names the spreadsheet and its sheets. Empty sheet names take the
// defaults.
type Config struct {
	SpreadsheetID     string
	ReceiptsSheet     string
	ExpendituresSheet string
	TaxonomySheet     string
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.ReceiptsSheet) == "" {
		c.ReceiptsSheet = DefaultReceiptsSheet
	}
	if strings.TrimSpace(c.ExpendituresSheet) == "" {
		c.ExpendituresSheet = DefaultExpendituresSheet
	}
	if strings.TrimSpace(c.TaxonomySheet) == "" {
		c.TaxonomySheet = DefaultTaxonomySheet
	}
	return c
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	receiptsSheet     string
	expendituresSheet string
	taxonomySheet     string
}

// New creates a Sheets client. Without client options it authenticates with
// service account credentials from the environment.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	cfg = cfg.withDefaults()

	if len(opts) == 0 {
		creds, err := serviceAccountCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("sheets service: %w", err)
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		receiptsSheet:     cfg.ReceiptsSheet,
		expendituresSheet: cfg.ExpendituresSheet,
		taxonomySheet:     cfg.TaxonomySheet,
	}, nil
}

// serviceAccountCredentials reads GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func serviceAccountCredentials(ctx context.Context) ([]byte, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials", "json_length", len(inline))
		return []byte(inline), nil
	case file != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

func (c *Client) ListReceipts(ctx context.Context) ([]core.Receipt, error) {
	values, err := c.read(ctx, c.receiptsSheet, "A:E")
	if err != nil {
		return nil, err
	}
	rows, skipped := parseReceipts(values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unreadable receipt rows", "sheet", c.receiptsSheet, "skipped", skipped)
	}
	return rows, nil
}

func (c *Client) ListExpenditures(ctx context.Context) ([]core.Expenditure, error) {
	values, err := c.read(ctx, c.expendituresSheet, "A:G")
	if err != nil {
		return nil, err
	}
	rows, skipped := parseExpenditures(values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unreadable expenditure rows", "sheet", c.expendituresSheet, "skipped", skipped)
	}
	return rows, nil
}

func (c *Client) Taxonomy(ctx context.Context) (core.Taxonomy, error) {
	values, err := c.read(ctx, c.taxonomySheet, "A:C")
	if err != nil {
		return core.Taxonomy{}, err
	}
	return parseTaxonomy(values), nil
}

// AppendReceipt appends one row to the receipts sheet and returns the
// updated range.
func (c *Client) AppendReceipt(ctx context.Context, r core.Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.append(ctx, c.receiptsSheet, "A:E", receiptRow(r))
}

// AppendExpenditure appends one row to the expenditures sheet and returns
// the updated range.
func (c *Client) AppendExpenditure(ctx context.Context, e core.Expenditure) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.append(ctx, c.expendituresSheet, "A:G", expenditureRow(e))
}

func (c *Client) read(ctx context.Context, sheet, cols string) ([][]any, error) {
	if c.svc == nil {
		return nil, errNoService
	}
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) append(ctx context.Context, sheet, cols string, row []any) (string, error) {
	if c.svc == nil {
		return "", errNoService
	}
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}
