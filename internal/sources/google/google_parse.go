package google

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"ledger/internal/core"
)

// Date layouts accepted from sheet cells, ISO first.
var cellDateLayouts = []string{
	core.DateLayout,
	"02 Jan 2006",
	"2 Jan 2006",
	"02/01/2006",
}

// parseReceipts converts a values matrix into receipts. A header row and
// rows that fail to parse or validate are skipped; skipped counts the latter.
func parseReceipts(values [][]any) (out []core.Receipt, skipped int) {
	for i, row := range values {
		cols := toStrings(row)
		if i == 0 && isHeader(cols) {
			continue
		}
		if blank(cols) {
			continue
		}
		date, okDate := parseCellDate(safeGet(cols, 0))
		cents, okAmount := parseCellAmount(safeGetAny(row, 3))
		r := core.Receipt{
			Date:          date,
			SanctionOrder: safeGet(cols, 1),
			Category:      safeGet(cols, 2),
			Amount:        core.Money{Cents: cents},
			Attachment:    safeGet(cols, 4),
		}
		if !okDate || !okAmount || r.Validate() != nil {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

func parseExpenditures(values [][]any) (out []core.Expenditure, skipped int) {
	for i, row := range values {
		cols := toStrings(row)
		if i == 0 && isHeader(cols) {
			continue
		}
		if blank(cols) {
			continue
		}
		date, okDate := parseCellDate(safeGet(cols, 0))
		cents, okAmount := parseCellAmount(safeGetAny(row, 5))
		e := core.Expenditure{
			Date:         date,
			PaymentOrder: safeGet(cols, 1),
			Category:     safeGet(cols, 2),
			SubCategory:  safeGet(cols, 3),
			Department:   safeGet(cols, 4),
			Amount:       core.Money{Cents: cents},
			Attachment:   safeGet(cols, 6),
		}
		if !okDate || !okAmount || e.Validate() != nil {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, skipped
}

// parseTaxonomy reads three independent columns below the header row:
// categories, sub-categories written as "category | sub-category", and
// departments. Duplicates are dropped, first-seen order kept.
func parseTaxonomy(values [][]any) core.Taxonomy {
	tax := core.Taxonomy{SubCategories: map[string][]string{}}
	for i, row := range values {
		if i == 0 {
			continue
		}
		cols := toStrings(row)
		if c := safeGet(cols, 0); c != "" && !strings.HasPrefix(c, "#") && !slices.Contains(tax.Categories, c) {
			tax.Categories = append(tax.Categories, c)
		}
		if cat, sub, ok := strings.Cut(safeGet(cols, 1), "|"); ok {
			cat, sub = strings.TrimSpace(cat), strings.TrimSpace(sub)
			if cat != "" && sub != "" && !slices.Contains(tax.SubCategories[cat], sub) {
				tax.SubCategories[cat] = append(tax.SubCategories[cat], sub)
			}
		}
		if d := safeGet(cols, 2); d != "" && !strings.HasPrefix(d, "#") && !slices.Contains(tax.Departments, d) {
			tax.Departments = append(tax.Departments, d)
		}
	}
	return tax
}

func receiptRow(r core.Receipt) []any {
	return []any{r.Date.String(), r.SanctionOrder, r.Category, r.Amount.Units(), r.Attachment}
}

func expenditureRow(e core.Expenditure) []any {
	return []any{e.Date.String(), e.PaymentOrder, e.Category, e.SubCategory, e.Department, e.Amount.Units(), e.Attachment}
}

func parseCellDate(s string) (core.Date, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: t}, true
		}
	}
	return core.Date{}, false
}

// parseCellAmount accepts numbers (unformatted cells) and decimal strings
// with an optional currency symbol and grouping marks.
func parseCellAmount(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		c := core.CentsFromUnits(n)
		return c, c > 0
	case nil:
		return 0, false
	}
	cents, err := core.ParseDecimalToCents(fmt.Sprint(v))
	return cents, err == nil
}

// isHeader reports whether a first row looks like column titles: its first
// cell is not a date.
func isHeader(cols []string) bool {
	_, ok := parseCellDate(safeGet(cols, 0))
	return !ok
}

func blank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func safeGetAny(arr []any, idx int) any {
	if idx < 0 || idx >= len(arr) {
		return nil
	}
	return arr[idx]
}
