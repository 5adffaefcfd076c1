package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"ledger/internal/core"
	"ledger/internal/sources"

	goption "google.golang.org/api/option"
)

// fakeSheets serves the subset of the Sheets v4 values API the client uses.
type fakeSheets struct {
	mu       sync.Mutex
	sheets   map[string][][]any
	appended map[string][][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, rest, ok := strings.Cut(r.URL.Path, "/values/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	rng, isAppend := strings.CutSuffix(rest, ":append")
	sheet, _, _ := strings.Cut(rng, "!")

	w.Header().Set("Content-Type", "application/json")
	if isAppend {
		body, _ := io.ReadAll(r.Body)
		var vr struct {
			Values [][]any `json:"values"`
		}
		_ = json.Unmarshal(body, &vr)
		f.appended[sheet] = append(f.appended[sheet], vr.Values...)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"updates": map[string]any{"updatedRange": sheet + "!A9:G9"},
		})
		return
	}
	values, found := f.sheets[sheet]
	if !found {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "Unable to parse range: " + rng},
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "values": values})
}

func newTestClient(t *testing.T, fake *fakeSheets, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), cfg,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClientLoadsDatasets(t *testing.T) {
	fake := &fakeSheets{
		sheets: map[string][][]any{
			"Receipts": {
				{"Date", "Sanction Order", "Category", "Amount", "Attachment"},
				{"2024-03-01", "SO-1000", "OH-31", "1,234.50", ""},
			},
			"Expenditures": {
				{"Date", "Payment Order", "Category", "Sub-category", "Department", "Expenditure", "Attachment"},
				{"2024-03-02", "PO-1", "OH-31", "31.01 Pension", "Physics", "50"},
			},
			"Taxonomy": {
				{"Category", "Sub-category", "Department"},
				{"OH-31", "OH-31 | 31.01 Pension", "Physics"},
			},
		},
		appended: map[string][][]any{},
	}
	c := newTestClient(t, fake, Config{SpreadsheetID: "sheet-id"})

	snap, err := sources.LoadDatasets(context.Background(), c)
	if err != nil {
		t.Fatalf("LoadDatasets: %v", err)
	}
	if len(snap.Receipts) != 1 || snap.Receipts[0].Amount.Cents != 123450 {
		t.Fatalf("receipts = %+v", snap.Receipts)
	}
	if len(snap.Expenditures) != 1 || snap.Expenditures[0].SubCategory != "31.01 Pension" {
		t.Fatalf("expenditures = %+v", snap.Expenditures)
	}
	if err := snap.Taxonomy.CheckExpenditure(snap.Expenditures[0]); err != nil {
		t.Fatalf("taxonomy mismatch: %v", err)
	}
}

func TestClientAppend(t *testing.T) {
	fake := &fakeSheets{sheets: map[string][][]any{}, appended: map[string][][]any{}}
	c := newTestClient(t, fake, Config{SpreadsheetID: "sheet-id", ReceiptsSheet: "In"})

	ref, err := c.AppendReceipt(context.Background(), core.Receipt{
		Date:          core.NewDate(2024, 1, 2),
		SanctionOrder: "SO-1",
		Category:      "OH-31",
		Amount:        core.Money{Cents: 250},
	})
	if err != nil {
		t.Fatalf("AppendReceipt: %v", err)
	}
	if ref != "In!A9:G9" {
		t.Errorf("ref = %q", ref)
	}
	got := fake.appended["In"]
	if len(got) != 1 || got[0][0] != "2024-01-02" || got[0][3] != 2.5 {
		t.Fatalf("appended = %v", got)
	}

	if _, err := c.AppendReceipt(context.Background(), core.Receipt{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestClientReadError(t *testing.T) {
	fake := &fakeSheets{sheets: map[string][][]any{}, appended: map[string][][]any{}}
	c := newTestClient(t, fake, Config{SpreadsheetID: "sheet-id"})
	if _, err := c.ListReceipts(context.Background()); err == nil || !strings.Contains(err.Error(), "read Receipts!A:E") {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewWithoutCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNilServiceGuards(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.ListExpenditures(context.Background()); !errors.Is(err, errNoService) {
		t.Fatalf("expected errNoService, got %v", err)
	}
	_, err := c.AppendExpenditure(context.Background(), core.Expenditure{})
	if err == nil || !errors.Is(err, core.ErrInvalidDay) && !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
