package table

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Arrow is the header marker for the direction.
func (d Direction) Arrow() string {
	if d == Desc {
		return "↓"
	}
	return "↑"
}

// SortState is the active sort key and direction. An empty Key keeps the
// filtered order.
type SortState struct {
	Key       string
	Direction Direction
}

// StringCompare orders two strings; it returns <0, 0 or >0.
type StringCompare func(a, b string) int

// Collation returns a locale-aware StringCompare. The returned function owns
// a collator and must not be shared between goroutines.
func Collation(tag language.Tag) StringCompare {
	c := collate.New(tag)
	return c.CompareString
}

// SortRows returns a stably sorted copy of rows ordered by get. Descending
// order uses the same comparator with its result negated, so rows with equal
// keys keep their input order in both directions. A nil get returns an
// unchanged copy.
func SortRows[T any](rows []T, get Accessor[T], dir Direction, strcmp StringCompare) []T {
	out := slices.Clone(rows)
	if get == nil {
		return out
	}
	if strcmp == nil {
		strcmp = strings.Compare
	}
	sign := 1
	if dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return sign * CompareValues(get(a), get(b), strcmp)
	})
	return out
}

// CompareValues orders two field values by runtime type: instants when both
// are temporal, numbers when both are numeric, collated strings otherwise.
func CompareValues(a, b any, strcmp StringCompare) int {
	if ta, ok := instant(a); ok {
		if tb, ok := instant(b); ok {
			return ta.Compare(tb)
		}
	}
	if na, ok := AsNumber(a); ok {
		if nb, ok := AsNumber(b); ok {
			return cmp.Compare(na, nb)
		}
	}
	if strcmp == nil {
		strcmp = strings.Compare
	}
	return strcmp(Stringify(a), Stringify(b))
}

// instant is AsTime without the zero-value exclusion: a zero date still sorts
// as the earliest instant.
func instant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case Temporal:
		return t.Instant(), true
	}
	return time.Time{}, false
}
