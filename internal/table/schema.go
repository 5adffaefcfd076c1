package table

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects the default comparison applied by a filter.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
	KindSelect Kind = "select"
)

// AllValue is the select sentinel meaning "no constraint".
const AllValue = "all"

var (
	ErrSchema        = errors.New("invalid table schema")
	ErrUnknownFilter = errors.New("unknown filter")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotSortable   = errors.New("column is not sortable")
)

// Accessor reads one named field from a record.
type Accessor[T any] func(row T) any

// Content is what a cell renders: text, optionally as a link.
type Content struct {
	Text string
	Href string
}

// Text is shorthand for plain cell content.
func Text(s string) Content {
	return Content{Text: s}
}

// Column describes one displayed field.
type Column[T any] struct {
	Key       string
	Label     string
	Sortable  bool
	Format    func(value any, row T) Content // nil uses default stringification
	ClassName string
}

// Filter describes one query constraint. Key need not name a field when
// Predicate is set.
type Filter[T any] struct {
	Key         string
	Label       string
	Kind        Kind
	Options     []string
	Placeholder string
	Predicate   func(row T, raw string) bool
}

// DisplayLabel falls back to the key when no label is set.
func (f Filter[T]) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// OptionsFunc computes select options from the current filter values.
type OptionsFunc func(values map[string]string) []string

// Schema bundles everything an Engine needs to know about T.
type Schema[T any] struct {
	Fields  map[string]Accessor[T]
	Columns []Column[T]
	Filters []Filter[T]

	// DefaultSort names the field sorted ascending at construction. Empty
	// keeps dataset order.
	DefaultSort string

	// Dependencies maps a dependent filter key to the keys it depends on.
	// The dependent value is cleared whenever one of them changes.
	Dependencies map[string][]string

	// Options registers dynamic option lists for select filters.
	Options map[string]OptionsFunc
}

// Validate reports every contract violation in the schema.
func (s Schema[T]) Validate() error {
	var problems []string

	for _, c := range s.Columns {
		if _, ok := s.Fields[c.Key]; !ok {
			problems = append(problems, fmt.Sprintf("column %q names no field", c.Key))
		}
	}

	seen := make(map[string]struct{}, len(s.Filters))
	for _, f := range s.Filters {
		if _, dup := seen[f.Key]; dup {
			problems = append(problems, fmt.Sprintf("filter %q declared twice", f.Key))
		}
		seen[f.Key] = struct{}{}
		switch f.Kind {
		case KindText, KindNumber, KindDate, KindSelect:
		default:
			problems = append(problems, fmt.Sprintf("filter %q has unknown kind %q", f.Key, f.Kind))
		}
		if f.Predicate == nil {
			if _, ok := s.Fields[f.Key]; !ok {
				problems = append(problems, fmt.Sprintf("filter %q names no field and has no predicate", f.Key))
			}
		}
	}

	for dependent, deps := range s.Dependencies {
		if _, ok := seen[dependent]; !ok {
			problems = append(problems, fmt.Sprintf("dependency on unknown filter %q", dependent))
		}
		for _, d := range deps {
			if _, ok := seen[d]; !ok {
				problems = append(problems, fmt.Sprintf("filter %q depends on unknown filter %q", dependent, d))
			}
		}
	}

	for key := range s.Options {
		if _, ok := seen[key]; !ok {
			problems = append(problems, fmt.Sprintf("options registered for unknown filter %q", key))
		}
	}

	if s.DefaultSort != "" {
		if _, ok := s.Fields[s.DefaultSort]; !ok {
			problems = append(problems, fmt.Sprintf("default sort %q names no field", s.DefaultSort))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchema, strings.Join(problems, "; "))
	}
	return nil
}

func (s Schema[T]) filter(key string) (Filter[T], bool) {
	for _, f := range s.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter[T]{}, false
}

func (s Schema[T]) column(key string) (Column[T], bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// dependents returns the filter keys that depend on key, transitively, in a
// deterministic order.
func (s Schema[T]) dependents(key string) []string {
	var out []string
	seen := map[string]bool{key: true}
	queue := []string{key}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		// iterate filters rather than the map to keep order stable
		for _, f := range s.Filters {
			if seen[f.Key] {
				continue
			}
			for _, d := range s.Dependencies[f.Key] {
				if d == cur {
					seen[f.Key] = true
					out = append(out, f.Key)
					queue = append(queue, f.Key)
					break
				}
			}
		}
	}
	return out
}

var rangeSuffixes = []string{"Min", "Max", "From", "To"}

// IsRangeKey reports whether key ends in a range suffix (Min, Max, From, To).
// Range filters are grouped separately when rendered; they evaluate exactly
// like any other filter.
func IsRangeKey(key string) bool {
	for _, suffix := range rangeSuffixes {
		if len(key) > len(suffix) && strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}
