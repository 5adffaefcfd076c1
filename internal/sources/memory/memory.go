// Package memory is an in-process data source: a taxonomy, optionally read
// from seed files, and receipts and expenditures held in slices.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"ledger/internal/core"
	"ledger/internal/sources"
)

// Ensure interface conformance
var (
	_ sources.Reader = (*Store)(nil)
	_ sources.Writer = (*Store)(nil)
)

type Store struct {
	mu           sync.Mutex
	tax          core.Taxonomy
	receipts     []core.Receipt
	expenditures []core.Expenditure
}

func New(tax core.Taxonomy) *Store {
	return &Store{tax: tax}
}

// NewSeeded returns a store over tax pre-filled with generated entries.
func NewSeeded(tax core.Taxonomy, seed uint64, receipts, expenditures int) *Store {
	g := NewGenerator(seed, tax)
	s := New(tax)
	s.receipts = g.Receipts(receipts)
	s.expenditures = g.Expenditures(expenditures)
	return s
}

// NewFromFiles reads the taxonomy from seed files under base:
//
//	seed_categories.txt     one category per line
//	seed_subcategories.txt  "category | sub-category" per line
//	seed_departments.txt    one department per line
//
// Blank lines and lines starting with # are skipped. Missing parts fall back
// to DefaultTaxonomy.
func NewFromFiles(base string) *Store {
	return New(TaxonomyFromFiles(base))
}

// TaxonomyFromFiles is the taxonomy half of NewFromFiles.
func TaxonomyFromFiles(base string) core.Taxonomy {
	def := DefaultTaxonomy()
	tax := core.Taxonomy{
		Categories:    readLines(filepath.Join(base, "seed_categories.txt")),
		SubCategories: map[string][]string{},
		Departments:   readLines(filepath.Join(base, "seed_departments.txt")),
	}
	for _, line := range readLines(filepath.Join(base, "seed_subcategories.txt")) {
		cat, sub, ok := strings.Cut(line, "|")
		cat, sub = strings.TrimSpace(cat), strings.TrimSpace(sub)
		if !ok || cat == "" || sub == "" {
			continue
		}
		if !slices.Contains(tax.SubCategories[cat], sub) {
			tax.SubCategories[cat] = append(tax.SubCategories[cat], sub)
		}
	}
	if len(tax.Categories) == 0 {
		tax.Categories = def.Categories
		if len(tax.SubCategories) == 0 {
			tax.SubCategories = def.SubCategories
		}
	}
	if len(tax.Departments) == 0 {
		tax.Departments = def.Departments
	}
	return tax
}

// AppendReceipt stores the receipt and returns a synthetic row reference.
func (s *Store) AppendReceipt(_ context.Context, r core.Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, r)
	return fmt.Sprintf("mem:receipts:%d", len(s.receipts)), nil
}

// AppendExpenditure stores the expenditure and returns a synthetic row
// reference.
func (s *Store) AppendExpenditure(_ context.Context, e core.Expenditure) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenditures = append(s.expenditures, e)
	return fmt.Sprintf("mem:expenditures:%d", len(s.expenditures)), nil
}

func (s *Store) ListReceipts(_ context.Context) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.receipts), nil
}

func (s *Store) ListExpenditures(_ context.Context) ([]core.Expenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.expenditures), nil
}

// Taxonomy returns a copy of the store's taxonomy.
func (s *Store) Taxonomy(_ context.Context) (core.Taxonomy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make(map[string][]string, len(s.tax.SubCategories))
	for k, v := range s.tax.SubCategories {
		subs[k] = slices.Clone(v)
	}
	return core.Taxonomy{
		Categories:    slices.Clone(s.tax.Categories),
		SubCategories: subs,
		Departments:   slices.Clone(s.tax.Departments),
	}, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
