package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Matcher is the default comparison for one filter kind.
type Matcher interface {
	Match(value any, raw string) bool
}

// Number is implemented by record values that compare numerically but are
// not Go numeric types (amounts in cents, for example).
type Number interface {
	Float64() float64
}

// Temporal is implemented by record values that compare as instants but are
// not time.Time.
type Temporal interface {
	Instant() time.Time
}

type (
	textMatcher   struct{}
	numberMatcher struct{}
	dateMatcher   struct{}
	selectMatcher struct{}
)

var matchers = map[Kind]Matcher{
	KindText:   textMatcher{},
	KindNumber: numberMatcher{},
	KindDate:   dateMatcher{},
	KindSelect: selectMatcher{},
}

// MatcherFor returns the default matcher for kind, or nil for an unknown kind.
func MatcherFor(kind Kind) Matcher {
	return matchers[kind]
}

// Match is a case-insensitive substring test.
func (textMatcher) Match(value any, raw string) bool {
	return strings.Contains(strings.ToLower(Stringify(value)), strings.ToLower(raw))
}

// Match passes when value >= raw. Unparsable input imposes no constraint.
func (numberMatcher) Match(value any, raw string) bool {
	bound, ok := ParseNumber(raw)
	if !ok {
		return true
	}
	v, ok := AsNumber(value)
	return ok && v >= bound
}

// Match passes when value is at or after raw. Unparsable input imposes no
// constraint.
func (dateMatcher) Match(value any, raw string) bool {
	bound, ok := ParseDate(raw)
	if !ok {
		return true
	}
	v, ok := AsTime(value)
	return ok && !v.Before(bound)
}

// Match is exact equality on the stringified value.
func (selectMatcher) Match(value any, raw string) bool {
	return Stringify(value) == raw
}

// ParseNumber parses filter input as a finite number.
func ParseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
}

// ParseDate parses filter input as a date (YYYY-MM-DD, as sent by HTML date
// inputs) or an RFC 3339 timestamp. Dates are taken at midnight UTC.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AsNumber reports the numeric value of v when it has one.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case Number:
		f := n.Float64()
		return f, !math.IsNaN(f)
	}
	return 0, false
}

// AsTime reports the instant of v when it is temporal.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case Temporal:
		i := t.Instant()
		return i, !i.IsZero()
	}
	return time.Time{}, false
}

// Stringify is the default textual rendering of a field value. nil renders
// as the empty string.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
