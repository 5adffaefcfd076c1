package table

// FilterRows returns the rows that satisfy every filter for the given values,
// preserving input order. The input slice is not modified.
func FilterRows[T any](rows []T, schema Schema[T], values map[string]string) []T {
	active := activeFilters(schema.Filters, values)
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if matchesAll(row, active, schema.Fields, values) {
			out = append(out, row)
		}
	}
	return out
}

// Active reports whether raw constrains a filter of the given kind.
func Active(kind Kind, raw string) bool {
	if raw == "" {
		return false
	}
	return !(kind == KindSelect && raw == AllValue)
}

func activeFilters[T any](filters []Filter[T], values map[string]string) []Filter[T] {
	var active []Filter[T]
	for _, f := range filters {
		if Active(f.Kind, values[f.Key]) {
			active = append(active, f)
		}
	}
	return active
}

func matchesAll[T any](row T, filters []Filter[T], fields map[string]Accessor[T], values map[string]string) bool {
	for _, f := range filters {
		raw := values[f.Key]
		if f.Predicate != nil {
			if !f.Predicate(row, raw) {
				return false
			}
			continue
		}
		get, ok := fields[f.Key]
		m := MatcherFor(f.Kind)
		if !ok || m == nil {
			// rejected by Schema.Validate; treat as no constraint
			continue
		}
		if !m.Match(get(row), raw) {
			return false
		}
	}
	return true
}

// MinNumber builds a predicate passing rows whose field is >= the input.
func MinNumber[T any](get func(T) float64) func(T, string) bool {
	return func(row T, raw string) bool {
		bound, ok := ParseNumber(raw)
		return !ok || get(row) >= bound
	}
}

// MaxNumber builds a predicate passing rows whose field is <= the input.
func MaxNumber[T any](get func(T) float64) func(T, string) bool {
	return func(row T, raw string) bool {
		bound, ok := ParseNumber(raw)
		return !ok || get(row) <= bound
	}
}

// FromDate builds a predicate passing rows dated on or after the input.
func FromDate[T any](get func(T) any) func(T, string) bool {
	return func(row T, raw string) bool {
		bound, ok := ParseDate(raw)
		if !ok {
			return true
		}
		t, ok := AsTime(get(row))
		return ok && !t.Before(bound)
	}
}

// ToDate builds a predicate passing rows dated on or before the input.
func ToDate[T any](get func(T) any) func(T, string) bool {
	return func(row T, raw string) bool {
		bound, ok := ParseDate(raw)
		if !ok {
			return true
		}
		t, ok := AsTime(get(row))
		return ok && !t.After(bound)
	}
}
