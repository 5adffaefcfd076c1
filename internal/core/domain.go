package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Receipt is one incoming entry of the receipts register.
	Receipt struct {
		Date          Date
		SanctionOrder string
		Category      string
		Amount        Money
		Attachment    string // URL, optional
	}

	// Expenditure is one outgoing entry of the expenditures register.
	Expenditure struct {
		Date         Date
		PaymentOrder string
		Category     string
		SubCategory  string
		Department   string
		Amount       Money
		Attachment   string // URL, optional
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyOrder        = errors.New("empty order number")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptySubCategory  = errors.New("empty sub-category")
	ErrEmptyDepartment   = errors.New("empty department")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownSubCat     = errors.New("sub-category does not belong to category")
	ErrUnknownDepartment = errors.New("unknown department")
)

// DateLayout is the storage and wire layout for dates.
const DateLayout = "2006-01-02"

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Instant exposes the underlying time for temporal comparisons.
func (d Date) Instant() time.Time {
	return d.Time
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Receipt) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.SanctionOrder) == "" {
		return ErrEmptyOrder
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return r.Amount.Validate()
}

func (e Expenditure) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.PaymentOrder) == "" {
		return ErrEmptyOrder
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.SubCategory) == "" {
		return ErrEmptySubCategory
	}
	if strings.TrimSpace(e.Department) == "" {
		return ErrEmptyDepartment
	}
	return e.Amount.Validate()
}
