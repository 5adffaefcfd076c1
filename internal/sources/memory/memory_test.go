package memory

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ledger/internal/core"
)

func TestStoreAppendAndList(t *testing.T) {
	s := New(DefaultTaxonomy())
	ctx := context.Background()

	ref, err := s.AppendReceipt(ctx, core.Receipt{
		Date:          core.NewDate(2024, 1, 1),
		SanctionOrder: "SO-1000",
		Category:      "OH-31 Grant-in-Aid General",
		Amount:        core.Money{Cents: 123},
	})
	if err != nil || ref != "mem:receipts:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	if _, err := s.AppendReceipt(ctx, core.Receipt{}); err == nil {
		t.Fatalf("expected validation error for empty receipt")
	}

	ref, err = s.AppendExpenditure(ctx, core.Expenditure{
		Date:         core.NewDate(2024, 2, 2),
		PaymentOrder: "PO-1",
		Category:     "OH-35 Grants for Creation of Capital Assets",
		SubCategory:  "35.01 Building",
		Department:   "Physics",
		Amount:       core.Money{Cents: 500},
	})
	if err != nil || ref != "mem:expenditures:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rs, _ := s.ListReceipts(ctx)
	es, _ := s.ListExpenditures(ctx)
	if len(rs) != 1 || len(es) != 1 {
		t.Fatalf("lists: receipts=%d expenditures=%d", len(rs), len(es))
	}
	rs[0].SanctionOrder = "changed"
	again, _ := s.ListReceipts(ctx)
	if again[0].SanctionOrder != "SO-1000" {
		t.Fatalf("list must return a copy")
	}
}

func TestTaxonomyCopy(t *testing.T) {
	s := New(DefaultTaxonomy())
	tax, _ := s.Taxonomy(context.Background())
	tax.SubCategories["OH-35 Grants for Creation of Capital Assets"][0] = "mutated"
	fresh, _ := s.Taxonomy(context.Background())
	if fresh.SubCategories["OH-35 Grants for Creation of Capital Assets"][0] != "35.01 Building" {
		t.Fatalf("taxonomy must return a deep copy")
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	// No files -> defaults
	tax, _ := NewFromFiles(dir).Taxonomy(context.Background())
	if !reflect.DeepEqual(tax, DefaultTaxonomy()) {
		t.Fatalf("expected defaults when files missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_categories.txt", "# header\nA\nB\nA\n\n")
	mustWrite("seed_subcategories.txt", "# header\nA | a1\nA|a1\nB | b1\nbroken line\n")
	mustWrite("seed_departments.txt", "Physics\nPhysics\n")

	tax, _ = NewFromFiles(dir).Taxonomy(context.Background())
	if !reflect.DeepEqual(tax.Categories, []string{"A", "B"}) {
		t.Fatalf("unexpected cats: %v", tax.Categories)
	}
	if !reflect.DeepEqual(tax.SubCategories, map[string][]string{"A": {"a1"}, "B": {"b1"}}) {
		t.Fatalf("unexpected subs: %v", tax.SubCategories)
	}
	if !reflect.DeepEqual(tax.Departments, []string{"Physics"}) {
		t.Fatalf("unexpected departments: %v", tax.Departments)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42, DefaultTaxonomy())
	b := NewGenerator(42, DefaultTaxonomy())
	if !reflect.DeepEqual(a.Receipts(5), b.Receipts(5)) {
		t.Fatalf("same seed produced different receipts")
	}
	if !reflect.DeepEqual(a.Expenditures(5), b.Expenditures(5)) {
		t.Fatalf("same seed produced different expenditures")
	}
}

func TestGeneratorShapes(t *testing.T) {
	tax := DefaultTaxonomy()
	g := NewGenerator(7, tax)

	receipts := g.Receipts(DefaultReceipts)
	if len(receipts) != DefaultReceipts {
		t.Fatalf("receipts = %d", len(receipts))
	}
	for _, r := range receipts {
		if err := r.Validate(); err != nil {
			t.Fatalf("invalid receipt %+v: %v", r, err)
		}
		if err := tax.CheckReceipt(r); err != nil {
			t.Fatalf("receipt outside taxonomy: %v", err)
		}
		if r.Date.Year() != 2024 || r.Date.Day() > 28 {
			t.Fatalf("date out of range: %v", r.Date)
		}
		if r.Amount.Cents >= maxReceiptCents {
			t.Fatalf("amount out of range: %d", r.Amount.Cents)
		}
		order := strings.TrimPrefix(r.SanctionOrder, "SO-")
		if len(order) != 4 {
			t.Fatalf("order number %q", r.SanctionOrder)
		}
		if r.Attachment != "" && r.Attachment != demoAttachment {
			t.Fatalf("attachment %q", r.Attachment)
		}
	}

	expenditures := g.Expenditures(DefaultExpenditures)
	if len(expenditures) != DefaultExpenditures {
		t.Fatalf("expenditures = %d", len(expenditures))
	}
	for _, e := range expenditures {
		if err := e.Validate(); err != nil {
			t.Fatalf("invalid expenditure %+v: %v", e, err)
		}
		if err := tax.CheckExpenditure(e); err != nil {
			t.Fatalf("expenditure outside taxonomy: %v", err)
		}
		if e.Amount.Cents >= maxSpendingCents {
			t.Fatalf("amount out of range: %d", e.Amount.Cents)
		}
		if !strings.HasPrefix(e.PaymentOrder, "PO-") && len(e.PaymentOrder) != 4 {
			t.Fatalf("order number %q", e.PaymentOrder)
		}
	}

	if n := len(g.Receipts(-1)); n != 0 {
		t.Fatalf("negative count produced %d rows", n)
	}
}

func TestNewSeeded(t *testing.T) {
	s := NewSeeded(DefaultTaxonomy(), 1, 3, 4)
	rs, _ := s.ListReceipts(context.Background())
	es, _ := s.ListExpenditures(context.Background())
	if len(rs) != 3 || len(es) != 4 {
		t.Fatalf("seeded store: %d receipts, %d expenditures", len(rs), len(es))
	}
}
