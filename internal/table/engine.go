package table

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/language"
)

var ErrInvalidPageSize = errors.New("rows per page must be at least 1")

// Option configures an Engine at construction.
type Option func(*settings)

type settings struct {
	rowsPerPage int
	paginate    bool
	tag         language.Tag
	title       string
}

// WithRowsPerPage sets the page size. Values below 1 are ignored.
func WithRowsPerPage(n int) Option {
	return func(s *settings) {
		if n >= 1 {
			s.rowsPerPage = n
		}
	}
}

// WithPagination enables or disables pagination.
func WithPagination(enabled bool) Option {
	return func(s *settings) { s.paginate = enabled }
}

// WithLocale selects the collation used for string sorting.
func WithLocale(tag language.Tag) Option {
	return func(s *settings) { s.tag = tag }
}

// WithTitle sets the heading carried into Render output.
func WithTitle(title string) Option {
	return func(s *settings) { s.title = title }
}

// Engine holds the filter, sort and page state for one table instance and
// derives the visible rows from it.
type Engine[T any] struct {
	schema Schema[T]
	data   []T
	values map[string]string
	sort   SortState
	page   Pagination
	title  string
	strcmp StringCompare
}

// New validates schema and returns an Engine over data with empty filters,
// the schema's default sort (ascending) and page 1.
func New[T any](data []T, schema Schema[T], opts ...Option) (*Engine[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cfg := settings{
		rowsPerPage: DefaultRowsPerPage,
		paginate:    true,
		tag:         language.English,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	values := make(map[string]string, len(schema.Filters))
	for _, f := range schema.Filters {
		values[f.Key] = ""
	}

	return &Engine[T]{
		schema: schema,
		data:   slices.Clone(data),
		values: values,
		sort:   SortState{Key: schema.DefaultSort, Direction: Asc},
		page: Pagination{
			CurrentPage: 1,
			RowsPerPage: cfg.rowsPerPage,
			Enabled:     cfg.paginate,
		},
		title:  cfg.title,
		strcmp: Collation(cfg.tag),
	}, nil
}

// Schema returns the engine's schema.
func (e *Engine[T]) Schema() Schema[T] {
	return e.schema
}

// Len is the size of the raw dataset.
func (e *Engine[T]) Len() int {
	return len(e.data)
}

// Values returns a copy of the filter-value map.
func (e *Engine[T]) Values() map[string]string {
	return maps.Clone(e.values)
}

// Value returns the raw input of one filter.
func (e *Engine[T]) Value(key string) string {
	return e.values[key]
}

// Sort returns the sort state.
func (e *Engine[T]) Sort() SortState {
	return e.sort
}

// Pagination returns the pagination state.
func (e *Engine[T]) Pagination() Pagination {
	return e.page
}

// State is the user-controlled part of an engine: filter inputs, sort and
// pagination.
type State struct {
	Values     map[string]string
	Sort       SortState
	Pagination Pagination
}

// State returns a copy of the current state.
func (e *Engine[T]) State() State {
	return State{Values: e.Values(), Sort: e.sort, Pagination: e.page}
}

// Restore applies st to an engine over possibly different data. Values of
// unknown filters are dropped, a sort key that is no longer a sortable
// column keeps the current sort, and the page is clamped.
func (e *Engine[T]) Restore(st State) {
	for k := range e.values {
		e.values[k] = st.Values[k]
	}
	if col, ok := e.schema.column(st.Sort.Key); ok && col.Sortable {
		e.sort = st.Sort
	}
	if st.Pagination.RowsPerPage >= 1 {
		e.page.RowsPerPage = st.Pagination.RowsPerPage
	}
	e.page.Enabled = st.Pagination.Enabled
	e.page.CurrentPage = ClampPage(st.Pagination.CurrentPage, e.totalPages())
}

// SetFilter overwrites the input of one filter. A changed value clears every
// filter depending on key and returns to page 1; writing the current value
// again changes nothing.
func (e *Engine[T]) SetFilter(key, value string) error {
	if _, ok := e.schema.filter(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	if e.values[key] == value {
		return nil
	}
	e.values[key] = value
	for _, dep := range e.schema.dependents(key) {
		e.values[dep] = ""
	}
	e.page.CurrentPage = 1
	return nil
}

// ResetFilters clears every filter and returns to page 1.
func (e *Engine[T]) ResetFilters() {
	for k := range e.values {
		e.values[k] = ""
	}
	e.page.CurrentPage = 1
}

// RequestSort flips the direction when key is already the sort key and
// otherwise sorts ascending by key.
func (e *Engine[T]) RequestSort(key string) error {
	col, ok := e.schema.column(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	if !col.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, key)
	}
	if e.sort.Key == key {
		e.sort.Direction = e.sort.Direction.Toggle()
		return nil
	}
	e.sort = SortState{Key: key, Direction: Asc}
	return nil
}

// SetPage moves to page n, clamped to the valid range.
func (e *Engine[T]) SetPage(n int) {
	e.page.CurrentPage = ClampPage(n, e.totalPages())
}

// Next moves one page forward; it does nothing on the last page.
func (e *Engine[T]) Next() {
	if e.page.CurrentPage < e.totalPages() {
		e.page.CurrentPage++
	}
}

// Previous moves one page back; it does nothing on page 1.
func (e *Engine[T]) Previous() {
	if e.page.CurrentPage > 1 {
		e.page.CurrentPage--
	}
}

// SetRowsPerPage changes the page size and returns to page 1.
func (e *Engine[T]) SetRowsPerPage(n int) error {
	if n < 1 {
		return ErrInvalidPageSize
	}
	e.page.RowsPerPage = n
	e.page.CurrentPage = 1
	return nil
}

// SetPaginationEnabled switches pagination on or off and returns to page 1.
func (e *Engine[T]) SetPaginationEnabled(enabled bool) {
	e.page.Enabled = enabled
	e.page.CurrentPage = 1
}

// Options returns the selectable values of a filter: the registered dynamic
// options evaluated against the current values, else the static list, else
// nothing.
func (e *Engine[T]) Options(key string) []string {
	if fn, ok := e.schema.Options[key]; ok && fn != nil {
		return fn(e.Values())
	}
	if f, ok := e.schema.filter(key); ok {
		return slices.Clone(f.Options)
	}
	return nil
}

// View is one derived page of rows.
type View[T any] struct {
	Rows        []T
	Total       int // rows passing the filters
	Page        int
	TotalPages  int
	Offset      int // index of Rows[0] within the filtered rows
	RowsPerPage int
	Paginated   bool
}

func (v View[T]) HasPrev() bool { return v.Paginated && v.Page > 1 }
func (v View[T]) HasNext() bool { return v.Paginated && v.Page < v.TotalPages }

// Matching runs the filter and sort stages over the whole dataset.
func (e *Engine[T]) Matching() []T {
	filtered := FilterRows(e.data, e.schema, e.values)
	if e.sort.Key == "" {
		return filtered
	}
	return SortRows(filtered, e.schema.Fields[e.sort.Key], e.sort.Direction, e.strcmp)
}

// View derives the visible rows from the current state.
func (e *Engine[T]) View() View[T] {
	rows := e.Matching()
	v := View[T]{
		Total:       len(rows),
		RowsPerPage: e.page.RowsPerPage,
		Paginated:   e.page.Enabled,
	}
	if !e.page.Enabled {
		v.Rows, v.Page, v.TotalPages = rows, 1, 1
		return v
	}
	v.TotalPages = TotalPages(len(rows), e.page.RowsPerPage)
	v.Page = ClampPage(e.page.CurrentPage, v.TotalPages)
	v.Rows, v.Offset = Paginate(rows, v.Page, e.page.RowsPerPage)
	return v
}

func (e *Engine[T]) totalPages() int {
	if !e.page.Enabled {
		return 1
	}
	return TotalPages(len(FilterRows(e.data, e.schema, e.values)), e.page.RowsPerPage)
}
