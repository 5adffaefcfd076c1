// Package format renders amounts, numbers and dates for a configured locale.
//
// Grouping and decimal marks come from CLDR data in golang.org/x/text.
// All functions are pure; a Formatter is safe for concurrent use.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formats values for one locale and currency.
type Formatter struct {
	tag    language.Tag
	unit   currency.Unit
	symbol string
	gap    string
	months [12]string

	// Locale marks around a number: the decimal separator and the text
	// before and after a negative value.
	decimal   string
	negPrefix string
	negSuffix string
}

// Default locale and currency, matching the registers this module renders.
const (
	DefaultLocale   = "en-IN"
	DefaultCurrency = "INR"
)

var monthAbbrev = map[string][12]string{
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"it": {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	"de": {"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
	"fr": {"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	"es": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
}

// New builds a Formatter for a BCP-47 locale and an ISO 4217 currency code.
func New(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	base, _ := tag.Base()
	months, ok := monthAbbrev[base.String()]
	if !ok {
		months = monthAbbrev["en"]
	}

	p := message.NewPrinter(tag)
	f := &Formatter{
		tag:    tag,
		unit:   unit,
		symbol: p.Sprint(currency.NarrowSymbol(unit)),
		months: months,
	}
	// Alphabetic symbols such as "kr" or "CHF" are kept apart from the digits.
	if r, _ := utf8.DecodeLastRuneInString(f.symbol); unicode.IsLetter(r) {
		f.gap = " "
	}

	one := p.Sprint(number.Decimal(1))
	f.negPrefix, f.negSuffix, _ = strings.Cut(p.Sprint(number.Decimal(-1)), one)
	half := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	f.decimal = strings.TrimSuffix(strings.TrimPrefix(half, one), p.Sprint(number.Decimal(5)))
	return f, nil
}

// MustNew is New for static configuration; it panics on invalid input.
func MustNew(locale, currencyCode string) *Formatter {
	f, err := New(locale, currencyCode)
	if err != nil {
		panic(err)
	}
	return f
}

// Tag returns the formatter's language tag.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Currency returns the ISO code of the formatter's currency.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Symbol returns the narrow currency symbol used for amounts, e.g. "₹".
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Number formats v with locale grouping and exactly decimals fraction digits.
func (f *Formatter) Number(v float64, decimals int) string {
	p := message.NewPrinter(f.tag)
	return p.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// Amount formats an amount given in cents: grouped thousands, two decimals,
// currency symbol, and the locale's minus sign for negative values.
// The whole and fractional parts are formatted as integers, so every int64
// renders exactly.
func (f *Formatter) Amount(cents int64) string {
	abs := uint64(cents)
	if cents < 0 {
		abs = -abs
	}
	p := message.NewPrinter(f.tag)
	s := f.symbol + f.gap +
		p.Sprint(number.Decimal(abs/100)) +
		f.decimal +
		p.Sprint(number.Decimal(abs%100, number.MinIntegerDigits(2)))
	if cents < 0 {
		return f.negPrefix + s + f.negSuffix
	}
	return s
}

// Date formats t as day-month-year with an abbreviated month name,
// e.g. "05 Mar 2024". A zero time renders as "-".
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), f.months[t.Month()-1], t.Year())
}
