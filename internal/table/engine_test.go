package table

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

type entry struct {
	Date     time.Time
	Order    string
	Category string
	Sub      string
	Amount   float64
	Link     string
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func entrySchema() Schema[entry] {
	subs := map[string][]string{
		"X": {"x1", "x2"},
		"Y": {"y1"},
	}
	return Schema[entry]{
		Fields: map[string]Accessor[entry]{
			"date":     func(e entry) any { return e.Date },
			"order":    func(e entry) any { return e.Order },
			"category": func(e entry) any { return e.Category },
			"sub":      func(e entry) any { return e.Sub },
			"amount":   func(e entry) any { return e.Amount },
			"link":     func(e entry) any { return e.Link },
		},
		Columns: []Column[entry]{
			{Key: "date", Label: "Date", Sortable: true},
			{Key: "order", Label: "Order", Sortable: true},
			{Key: "category", Label: "Category", Sortable: true},
			{Key: "amount", Label: "Amount", Sortable: true, ClassName: "text-right"},
			{Key: "link", Label: "Attachment", Format: func(v any, _ entry) Content {
				if s, _ := v.(string); s != "" {
					return Content{Text: "View", Href: s}
				}
				return Text("-")
			}},
		},
		Filters: []Filter[entry]{
			{Key: "order", Kind: KindText, Label: "Order"},
			{Key: "category", Kind: KindSelect, Options: []string{"X", "Y"}},
			{Key: "sub", Kind: KindSelect},
			{Key: "amountMin", Kind: KindNumber, Predicate: MinNumber(func(e entry) float64 { return e.Amount })},
			{Key: "amountMax", Kind: KindNumber, Predicate: MaxNumber(func(e entry) float64 { return e.Amount })},
			{Key: "dateFrom", Kind: KindDate, Predicate: FromDate(func(e entry) any { return e.Date })},
			{Key: "dateTo", Kind: KindDate, Predicate: ToDate(func(e entry) any { return e.Date })},
		},
		Dependencies: map[string][]string{"sub": {"category"}},
		Options: map[string]OptionsFunc{
			"sub": func(values map[string]string) []string {
				if c := values["category"]; c != "" && c != AllValue {
					return subs[c]
				}
				return []string{"x1", "x2", "y1"}
			},
		},
	}
}

func sampleEntries() []entry {
	return []entry{
		{Date: day(3, 1), Order: "SO-1000", Category: "X", Sub: "x1", Amount: 100, Link: "https://example.com/a.pdf"},
		{Date: day(1, 15), Order: "2000", Category: "Y", Sub: "y1", Amount: 50},
		{Date: day(2, 10), Order: "SO-3000", Category: "X", Sub: "x2", Amount: 75},
	}
}

func mustEngine(t *testing.T, data []entry, opts ...Option) *Engine[entry] {
	t.Helper()
	e, err := New(data, entrySchema(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func amounts(rows []entry) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Amount
	}
	return out
}

func TestAmountRangeSortAndPage(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(1))

	if err := e.SetFilter("amountMin", "60"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	got := amounts(e.Matching())
	slices.Sort(got)
	if !reflect.DeepEqual(got, []float64{75, 100}) {
		t.Fatalf("filtered amounts = %v, want {75, 100}", got)
	}

	if err := e.RequestSort("amount"); err != nil {
		t.Fatalf("RequestSort: %v", err)
	}
	if got := amounts(e.Matching()); !reflect.DeepEqual(got, []float64{75, 100}) {
		t.Fatalf("sorted amounts = %v, want [75 100]", got)
	}

	e.SetPage(2)
	v := e.View()
	if v.Page != 2 || v.TotalPages != 2 {
		t.Fatalf("page %d of %d, want 2 of 2", v.Page, v.TotalPages)
	}
	if got := amounts(v.Rows); !reflect.DeepEqual(got, []float64{100}) {
		t.Fatalf("page 2 = %v, want [100]", got)
	}
}

func TestSelectAllAndDependentReset(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(1))

	for _, v := range []string{AllValue, ""} {
		if err := e.SetFilter("category", v); err != nil {
			t.Fatalf("SetFilter: %v", err)
		}
		if n := e.View().Total; n != 3 {
			t.Fatalf("category=%q: %d rows, want 3", v, n)
		}
	}

	if err := e.SetFilter("category", "X"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if err := e.SetFilter("sub", "x2"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if n := e.View().Total; n != 1 {
		t.Fatalf("category=X sub=x2: %d rows, want 1", n)
	}

	if err := e.SetFilter("category", "Y"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if got := e.Value("sub"); got != "" {
		t.Fatalf("dependent sub = %q, want cleared", got)
	}

	e.ResetFilters()
	e.SetPage(3)
	if e.Pagination().CurrentPage != 3 {
		t.Fatalf("setup: expected page 3, got %d", e.Pagination().CurrentPage)
	}
	if err := e.SetFilter("category", "X"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if got := e.Pagination().CurrentPage; got != 1 {
		t.Fatalf("page = %d, want reset to 1", got)
	}
}

func TestUnchangedFilterValueKeepsState(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(1))
	_ = e.SetFilter("sub", "x1")
	e.SetPage(1)
	_ = e.SetFilter("category", "")
	if e.Value("sub") != "x1" {
		t.Fatalf("writing the same value must not clear dependents")
	}
}

func TestDependentsCascade(t *testing.T) {
	s := entrySchema()
	s.Dependencies = map[string][]string{
		"sub":   {"category"},
		"order": {"sub"},
	}
	e, err := New(sampleEntries(), s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = e.SetFilter("sub", "x1")
	_ = e.SetFilter("order", "SO")
	_ = e.SetFilter("category", "X")
	if e.Value("sub") != "" || e.Value("order") != "" {
		t.Fatalf("expected cascade clear, got %v", e.Values())
	}
}

func TestTextFilterCaseInsensitiveSubstring(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	_ = e.SetFilter("order", "so-1")
	rows := e.Matching()
	if len(rows) != 1 || rows[0].Order != "SO-1000" {
		t.Fatalf("order=so-1 matched %v", rows)
	}
	// "all" is only a sentinel for select filters
	_ = e.SetFilter("order", AllValue)
	if n := len(e.Matching()); n != 0 {
		t.Fatalf("text filter \"all\" should search literally, matched %d", n)
	}
}

func TestDefaultKindComparisons(t *testing.T) {
	s := entrySchema()
	s.Filters = append(s.Filters,
		Filter[entry]{Key: "amount", Kind: KindNumber},
		Filter[entry]{Key: "date", Kind: KindDate},
	)
	e, err := New(sampleEntries(), s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = e.SetFilter("amount", "75")
	if got := amounts(e.Matching()); !reflect.DeepEqual(got, []float64{100, 75}) {
		t.Fatalf("amount>=75 = %v", got)
	}
	_ = e.SetFilter("amount", "")
	_ = e.SetFilter("date", "2024-02-10")
	if got := amounts(e.Matching()); !reflect.DeepEqual(got, []float64{100, 75}) {
		t.Fatalf("date>=2024-02-10 = %v", got)
	}
}

func TestMalformedInputImposesNoConstraint(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	for key, raw := range map[string]string{
		"amountMin": "abc",
		"amountMax": "NaN",
		"dateFrom":  "not-a-date",
		"dateTo":    "31/12/2024",
	} {
		if err := e.SetFilter(key, raw); err != nil {
			t.Fatalf("SetFilter(%s): %v", key, err)
		}
	}
	if n := e.View().Total; n != 3 {
		t.Fatalf("malformed inputs filtered rows: %d, want 3", n)
	}
}

func TestDateRangeInclusive(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	_ = e.SetFilter("dateFrom", "2024-01-15")
	_ = e.SetFilter("dateTo", "2024-02-10")
	if got := amounts(e.Matching()); !reflect.DeepEqual(got, []float64{50, 75}) {
		t.Fatalf("date range = %v, want [50 75]", got)
	}
}

func TestFilterAndComposition(t *testing.T) {
	data := sampleEntries()
	data = append(data,
		entry{Date: day(5, 5), Order: "SO-4000", Category: "Y", Sub: "y1", Amount: 300},
		entry{Date: day(6, 6), Order: "5000", Category: "X", Sub: "x1", Amount: 10},
	)
	schema := entrySchema()
	combos := []map[string]string{
		{"category": "X", "amountMin": "50"},
		{"order": "so", "amountMax": "200"},
		{"category": "Y", "dateFrom": "2024-02-01", "sub": ""},
		{"order": "0", "category": AllValue, "amountMin": "60", "amountMax": "100"},
	}
	for i, values := range combos {
		got := FilterRows(data, schema, values)
		for _, row := range data {
			want := true
			for _, f := range schema.Filters {
				single := FilterRows([]entry{row}, schema, map[string]string{f.Key: values[f.Key]})
				if len(single) == 0 {
					want = false
				}
			}
			if slices.Contains(got, row) != want {
				t.Fatalf("combo %d: row %+v included=%v, want %v", i, row, !want, want)
			}
		}

		// dropping an inactive filter changes nothing
		trimmed := map[string]string{}
		for k, v := range values {
			if v != "" {
				trimmed[k] = v
			}
		}
		if again := FilterRows(data, schema, trimmed); !reflect.DeepEqual(again, got) {
			t.Fatalf("combo %d: removing empty filters changed result", i)
		}
	}
}

func TestDerivationIsIdempotent(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(2))
	_ = e.SetFilter("order", "0")
	_ = e.RequestSort("date")
	first, second := e.Render(), e.Render()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("render not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestSortDirections(t *testing.T) {
	data := sampleEntries()
	strcmp := Collation(language.English)
	for _, key := range []string{"date", "amount", "order"} {
		get := entrySchema().Fields[key]
		asc := SortRows(data, get, Asc, strcmp)
		desc := SortRows(data, get, Desc, strcmp)
		slices.Reverse(desc)
		if !reflect.DeepEqual(asc, desc) {
			t.Fatalf("%s: desc is not the reverse of asc", key)
		}
	}

	byDate := SortRows(data, entrySchema().Fields["date"], Asc, strcmp)
	if byDate[0].Amount != 50 || byDate[2].Amount != 100 {
		t.Fatalf("date asc order = %v", amounts(byDate))
	}
	if got := SortRows(data, nil, Asc, strcmp); !reflect.DeepEqual(got, data) {
		t.Fatalf("nil accessor must keep order")
	}
}

func TestSortIsStable(t *testing.T) {
	data := []entry{
		{Order: "a", Category: "X"},
		{Order: "b", Category: "Y"},
		{Order: "c", Category: "X"},
		{Order: "d", Category: "Y"},
	}
	get := entrySchema().Fields["category"]
	for _, dir := range []Direction{Asc, Desc} {
		got := SortRows(data, get, dir, nil)
		var orders []string
		for _, r := range got {
			orders = append(orders, r.Order)
		}
		want := "a,c,b,d"
		if dir == Desc {
			want = "b,d,a,c"
		}
		if strings.Join(orders, ",") != want {
			t.Fatalf("%s: got %v, want %s", dir, orders, want)
		}
	}
}

func TestSortUsesCollation(t *testing.T) {
	words := []string{"cherry", "Banana", "apple"}
	get := func(s string) any { return s }
	got := SortRows(words, get, Asc, Collation(language.English))
	if strings.Join(got, ",") != "apple,Banana,cherry" {
		t.Fatalf("collated order = %v", got)
	}
	if got := CompareValues(2, 10, nil); got >= 0 {
		t.Fatalf("numbers must compare numerically, got %d", got)
	}
	if got := CompareValues("2", "10", nil); got <= 0 {
		t.Fatalf("strings must compare lexically, got %d", got)
	}
}

func TestRequestSort(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	if err := e.RequestSort("amount"); err != nil {
		t.Fatalf("RequestSort: %v", err)
	}
	if s := e.Sort(); s.Key != "amount" || s.Direction != Asc {
		t.Fatalf("first request = %+v, want amount asc", s)
	}
	_ = e.RequestSort("amount")
	if s := e.Sort(); s.Direction != Desc {
		t.Fatalf("second request = %+v, want desc", s)
	}
	_ = e.RequestSort("date")
	if s := e.Sort(); s.Key != "date" || s.Direction != Asc {
		t.Fatalf("new key = %+v, want date asc", s)
	}
	if err := e.RequestSort("link"); !errors.Is(err, ErrNotSortable) {
		t.Fatalf("link: expected ErrNotSortable, got %v", err)
	}
	if err := e.RequestSort("nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("nope: expected ErrUnknownColumn, got %v", err)
	}
}

func TestDefaultSort(t *testing.T) {
	s := entrySchema()
	s.DefaultSort = "date"
	e, err := New(sampleEntries(), s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := amounts(e.Matching()); !reflect.DeepEqual(got, []float64{50, 75, 100}) {
		t.Fatalf("default sort order = %v", got)
	}
	_ = e.RequestSort("date")
	if e.Sort().Direction != Desc {
		t.Fatalf("clicking the default key should flip to desc")
	}
}

func TestPaginationCoverage(t *testing.T) {
	data := sampleEntries()
	data = append(data, data...)
	for i := range data {
		data[i].Amount = float64(i)
	}
	for perPage := 1; perPage <= len(data)+1; perPage++ {
		var seen []entry
		pages := TotalPages(len(data), perPage)
		for p := 1; p <= pages; p++ {
			rows, _ := Paginate(data, p, perPage)
			seen = append(seen, rows...)
		}
		if !reflect.DeepEqual(seen, data) {
			t.Fatalf("perPage=%d: pages do not cover the rows exactly once", perPage)
		}
	}
}

func TestPaginationBounds(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(2))
	e.Previous()
	if p := e.Pagination().CurrentPage; p != 1 {
		t.Fatalf("previous at 1 moved to %d", p)
	}
	e.Next()
	if p := e.Pagination().CurrentPage; p != 2 {
		t.Fatalf("next from 1 = %d, want 2", p)
	}
	e.Next()
	if p := e.Pagination().CurrentPage; p != 2 {
		t.Fatalf("next at last page moved to %d", p)
	}
	e.SetPage(99)
	if p := e.Pagination().CurrentPage; p != 2 {
		t.Fatalf("SetPage(99) = %d, want clamped to 2", p)
	}
	e.SetPage(-1)
	if p := e.Pagination().CurrentPage; p != 1 {
		t.Fatalf("SetPage(-1) = %d, want 1", p)
	}
}

func TestEmptyResultIsOnePage(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	_ = e.SetFilter("order", "zzz")
	v := e.View()
	if v.Total != 0 || v.Page != 1 || v.TotalPages != 1 || len(v.Rows) != 0 {
		t.Fatalf("empty view = %+v", v)
	}
	if v.HasPrev() || v.HasNext() {
		t.Fatalf("empty view must not offer navigation")
	}
	r := e.Render()
	if !r.Empty || r.ColSpan != 6 || r.Summary != "0 result(s) found" {
		t.Fatalf("empty render = %+v", r)
	}
	if TotalPages(0, 5) != 1 {
		t.Fatalf("TotalPages(0, 5) must be 1")
	}
}

func TestPaginationDisabled(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(1), WithPagination(false))
	v := e.View()
	if len(v.Rows) != 3 || v.TotalPages != 1 || v.Paginated {
		t.Fatalf("disabled pagination view = %+v", v)
	}
	e.Next()
	if e.Pagination().CurrentPage != 1 {
		t.Fatalf("next with pagination disabled must stay on page 1")
	}
	e.SetPaginationEnabled(true)
	if n := len(e.View().Rows); n != 1 {
		t.Fatalf("enabled pagination rows = %d, want 1", n)
	}
}

func TestSetRowsPerPage(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(1))
	e.SetPage(3)
	if err := e.SetRowsPerPage(2); err != nil {
		t.Fatalf("SetRowsPerPage: %v", err)
	}
	if p := e.Pagination(); p.CurrentPage != 1 || p.RowsPerPage != 2 {
		t.Fatalf("pagination = %+v", p)
	}
	if err := e.SetRowsPerPage(0); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
}

func TestUnknownFilter(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	if err := e.SetFilter("missing", "x"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestResetFilters(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(1))
	_ = e.SetFilter("order", "SO")
	e.SetPage(2)
	e.ResetFilters()
	for k, v := range e.Values() {
		if v != "" {
			t.Fatalf("filter %s = %q after reset", k, v)
		}
	}
	if e.Pagination().CurrentPage != 1 || e.View().Total != 3 {
		t.Fatalf("reset did not restore the full view")
	}
}

func TestEveryFilterHasAValue(t *testing.T) {
	e := mustEngine(t, nil)
	values := e.Values()
	for _, f := range entrySchema().Filters {
		v, ok := values[f.Key]
		if !ok || v != "" {
			t.Fatalf("filter %s missing or non-empty at construction", f.Key)
		}
	}
	if len(values) != len(entrySchema().Filters) {
		t.Fatalf("value map has %d entries, want %d", len(values), len(entrySchema().Filters))
	}
}

func TestOptions(t *testing.T) {
	e := mustEngine(t, sampleEntries())
	if got := e.Options("sub"); len(got) != 3 {
		t.Fatalf("sub options without category = %v", got)
	}
	_ = e.SetFilter("category", "Y")
	if got := e.Options("sub"); !reflect.DeepEqual(got, []string{"y1"}) {
		t.Fatalf("sub options for Y = %v", got)
	}
	if got := e.Options("category"); !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Fatalf("static options = %v", got)
	}
	if got := e.Options("order"); len(got) != 0 {
		t.Fatalf("text filter options = %v", got)
	}
}

func TestSchemaValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schema[entry])
		want   string
	}{
		{"column without field", func(s *Schema[entry]) {
			s.Columns = append(s.Columns, Column[entry]{Key: "ghost"})
		}, `column "ghost"`},
		{"synthetic filter without predicate", func(s *Schema[entry]) {
			s.Filters = append(s.Filters, Filter[entry]{Key: "ghostMin", Kind: KindNumber})
		}, `filter "ghostMin" names no field`},
		{"duplicate filter", func(s *Schema[entry]) {
			s.Filters = append(s.Filters, Filter[entry]{Key: "order", Kind: KindText})
		}, "declared twice"},
		{"unknown kind", func(s *Schema[entry]) {
			s.Filters[0].Kind = "range"
		}, "unknown kind"},
		{"dependency on unknown filter", func(s *Schema[entry]) {
			s.Dependencies["sub"] = []string{"nope"}
		}, `depends on unknown filter "nope"`},
		{"options for unknown filter", func(s *Schema[entry]) {
			s.Options["nope"] = func(map[string]string) []string { return nil }
		}, "options registered"},
		{"default sort without field", func(s *Schema[entry]) {
			s.DefaultSort = "ghost"
		}, "default sort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := entrySchema()
			tt.mutate(&s)
			_, err := New(sampleEntries(), s)
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("expected ErrSchema, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	e := mustEngine(t, sampleEntries(), WithRowsPerPage(2), WithTitle("Entries"))
	_ = e.RequestSort("amount")
	_ = e.RequestSort("amount")
	e.Next()
	r := e.Render()

	if r.Title != "Entries" || r.Page != 2 || r.TotalPages != 2 || !r.HasPrev || r.HasNext {
		t.Fatalf("render header state = %+v", r)
	}
	if len(r.Rows) != 1 || r.Rows[0].Serial != 3 {
		t.Fatalf("serial numbers must continue across pages: %+v", r.Rows)
	}
	// amount desc: 100, 75, 50 -> page 2 holds 50 without attachment
	if c := r.Rows[0].Cells[4]; c.Text != "-" || c.Href != "" {
		t.Fatalf("attachment cell = %+v", c)
	}
	if c := r.Rows[0].Cells[3]; c.Text != "50" || c.ClassName != "text-right" {
		t.Fatalf("amount cell = %+v", c)
	}

	for _, h := range r.Headers {
		switch h.Key {
		case "amount":
			if !h.Active || h.Arrow != "↓" {
				t.Fatalf("amount header = %+v", h)
			}
		default:
			if h.Active || h.Arrow != "" {
				t.Fatalf("inactive header %s = %+v", h.Key, h)
			}
		}
	}

	var primary, ranged []string
	for _, c := range r.Primary {
		primary = append(primary, c.Key)
	}
	for _, c := range r.Range {
		ranged = append(ranged, c.Key)
	}
	if strings.Join(primary, ",") != "order,category,sub" {
		t.Fatalf("primary controls = %v", primary)
	}
	if strings.Join(ranged, ",") != "amountMin,amountMax,dateFrom,dateTo" {
		t.Fatalf("range controls = %v", ranged)
	}
	cat := r.Primary[1]
	if len(cat.Choices) != 3 || cat.Choices[0].Value != AllValue || !cat.Choices[0].Selected {
		t.Fatalf("category choices = %+v", cat.Choices)
	}
	if r.Primary[0].Label != "Order" || r.Primary[2].Label != "sub" {
		t.Fatalf("labels fall back to keys: %+v", r.Primary)
	}
}

func TestIsRangeKey(t *testing.T) {
	for key, want := range map[string]bool{
		"amountMin":   true,
		"amountMax":   true,
		"dateFrom":    true,
		"dateTo":      true,
		"category":    false,
		"To":          false,
		"subCategory": false,
	} {
		if got := IsRangeKey(key); got != want {
			t.Errorf("IsRangeKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestStateRestore(t *testing.T) {
	src := mustEngine(t, sampleEntries(), WithRowsPerPage(1))
	if err := src.SetFilter("category", "X"); err != nil {
		t.Fatal(err)
	}
	if err := src.RequestSort("amount"); err != nil {
		t.Fatal(err)
	}
	if err := src.RequestSort("amount"); err != nil {
		t.Fatal(err)
	}
	src.SetPage(2)

	st := src.State()
	st.Values["ghost"] = "ignored"

	// one fewer matching row than before
	dst := mustEngine(t, sampleEntries()[:2])
	dst.Restore(st)

	if got := dst.Value("category"); got != "X" {
		t.Errorf("category = %q, want X", got)
	}
	if _, ok := dst.Values()["ghost"]; ok {
		t.Error("unknown filter value restored")
	}
	if got := dst.Sort(); got != (SortState{Key: "amount", Direction: Desc}) {
		t.Errorf("sort = %+v", got)
	}
	p := dst.Pagination()
	if p.RowsPerPage != 1 || !p.Enabled {
		t.Errorf("pagination = %+v", p)
	}
	if p.CurrentPage != 1 {
		t.Errorf("page = %d, want clamped to 1", p.CurrentPage)
	}

	dst.Restore(State{Sort: SortState{Key: "link"}, Pagination: Pagination{CurrentPage: 1, RowsPerPage: 0}})
	if dst.Sort().Key != "amount" {
		t.Errorf("unsortable key replaced sort: %+v", dst.Sort())
	}
	if dst.Pagination().RowsPerPage != 1 {
		t.Errorf("invalid page size applied: %+v", dst.Pagination())
	}
}
