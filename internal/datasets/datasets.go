// Package datasets declares the column and filter schemas of the receipts
// and expenditures registers.
package datasets

import (
	"ledger/internal/core"
	"ledger/internal/format"
	"ledger/internal/table"
)

// Dataset names, used in URLs, messages and logs.
const (
	Receipts     = "receipts"
	Expenditures = "expenditures"
)

// Names lists the datasets in display order.
var Names = []string{Receipts, Expenditures}

// Title returns the heading of a dataset.
func Title(name string) string {
	switch name {
	case Receipts:
		return "Receipts"
	case Expenditures:
		return "Expenditures"
	}
	return name
}

// Known reports whether name is a dataset.
func Known(name string) bool {
	return name == Receipts || name == Expenditures
}

const attachmentText = "View"

func dateCell[T any](f *format.Formatter) func(any, T) table.Content {
	return func(v any, _ T) table.Content {
		d, _ := v.(core.Date)
		return table.Text(f.Date(d.Time))
	}
}

func amountCell[T any](f *format.Formatter) func(any, T) table.Content {
	return func(v any, _ T) table.Content {
		m, _ := v.(core.Money)
		return table.Text(f.Amount(m.Cents))
	}
}

func attachmentCell[T any](v any, _ T) table.Content {
	if url, _ := v.(string); url != "" {
		return table.Content{Text: attachmentText, Href: url}
	}
	return table.Text("-")
}

// ReceiptSchema describes the receipts register.
func ReceiptSchema(tax core.Taxonomy, f *format.Formatter) table.Schema[core.Receipt] {
	units := func(r core.Receipt) float64 { return r.Amount.Units() }
	date := func(r core.Receipt) any { return r.Date }

	return table.Schema[core.Receipt]{
		Fields: map[string]table.Accessor[core.Receipt]{
			"date":          date,
			"sanctionOrder": func(r core.Receipt) any { return r.SanctionOrder },
			"category":      func(r core.Receipt) any { return r.Category },
			"amount":        func(r core.Receipt) any { return r.Amount },
			"attachment":    func(r core.Receipt) any { return r.Attachment },
		},
		Columns: []table.Column[core.Receipt]{
			{Key: "date", Label: "Date", Sortable: true, Format: dateCell[core.Receipt](f)},
			{Key: "sanctionOrder", Label: "Sanction Order", Sortable: true},
			{Key: "category", Label: "Category", Sortable: true},
			{Key: "amount", Label: "Amount", Sortable: true, ClassName: "text-right", Format: amountCell[core.Receipt](f)},
			{Key: "attachment", Label: "Attachment", Format: attachmentCell[core.Receipt]},
		},
		Filters: []table.Filter[core.Receipt]{
			{Key: "sanctionOrder", Kind: table.KindText, Label: "Sanction Order", Placeholder: "Search Sanction Order"},
			{Key: "category", Kind: table.KindSelect, Label: "Category", Options: tax.Categories},
			{Key: "amountMin", Kind: table.KindNumber, Label: "Min Amount", Placeholder: "Min " + f.Symbol(),
				Predicate: table.MinNumber(units)},
			{Key: "amountMax", Kind: table.KindNumber, Label: "Max Amount", Placeholder: "Max " + f.Symbol(),
				Predicate: table.MaxNumber(units)},
			{Key: "dateFrom", Kind: table.KindDate, Label: "From Date", Predicate: table.FromDate(date)},
			{Key: "dateTo", Kind: table.KindDate, Label: "To Date", Predicate: table.ToDate(date)},
		},
		DefaultSort: "date",
	}
}

// ExpenditureSchema describes the expenditures register. The sub-category
// options follow the selected category and reset when it changes.
func ExpenditureSchema(tax core.Taxonomy, f *format.Formatter) table.Schema[core.Expenditure] {
	units := func(e core.Expenditure) float64 { return e.Amount.Units() }
	date := func(e core.Expenditure) any { return e.Date }

	return table.Schema[core.Expenditure]{
		Fields: map[string]table.Accessor[core.Expenditure]{
			"date":         date,
			"paymentOrder": func(e core.Expenditure) any { return e.PaymentOrder },
			"category":     func(e core.Expenditure) any { return e.Category },
			"subCategory":  func(e core.Expenditure) any { return e.SubCategory },
			"department":   func(e core.Expenditure) any { return e.Department },
			"expenditure":  func(e core.Expenditure) any { return e.Amount },
			"attachment":   func(e core.Expenditure) any { return e.Attachment },
		},
		Columns: []table.Column[core.Expenditure]{
			{Key: "date", Label: "Date", Sortable: true, Format: dateCell[core.Expenditure](f)},
			{Key: "paymentOrder", Label: "Payment Order", Sortable: true},
			{Key: "category", Label: "Category", Sortable: true},
			{Key: "subCategory", Label: "Sub-category", Sortable: true},
			{Key: "department", Label: "Department", Sortable: true},
			{Key: "expenditure", Label: "Expenditure", Sortable: true, ClassName: "text-right", Format: amountCell[core.Expenditure](f)},
			{Key: "attachment", Label: "Attachment", Format: attachmentCell[core.Expenditure]},
		},
		Filters: []table.Filter[core.Expenditure]{
			{Key: "paymentOrder", Kind: table.KindText, Label: "Payment Order", Placeholder: "Search Payment Order"},
			{Key: "category", Kind: table.KindSelect, Label: "Category", Options: tax.Categories},
			{Key: "subCategory", Kind: table.KindSelect, Label: "Sub-category", Options: tax.AllSubCategories()},
			{Key: "department", Kind: table.KindSelect, Label: "Department", Options: tax.Departments},
			{Key: "expenditureMin", Kind: table.KindNumber, Label: "Min Expenditure", Placeholder: "Min " + f.Symbol(),
				Predicate: table.MinNumber(units)},
			{Key: "expenditureMax", Kind: table.KindNumber, Label: "Max Expenditure", Placeholder: "Max " + f.Symbol(),
				Predicate: table.MaxNumber(units)},
			{Key: "dateFrom", Kind: table.KindDate, Label: "From Date", Predicate: table.FromDate(date)},
			{Key: "dateTo", Kind: table.KindDate, Label: "To Date", Predicate: table.ToDate(date)},
		},
		DefaultSort:  "date",
		Dependencies: map[string][]string{"subCategory": {"category"}},
		Options: map[string]table.OptionsFunc{
			"subCategory": func(values map[string]string) []string {
				c := values["category"]
				if c == "" || c == table.AllValue {
					return tax.AllSubCategories()
				}
				return tax.SubCategoriesOf(c)
			},
		},
	}
}

// NewReceiptTable builds a receipts engine titled and collated for f's locale.
// Later options override those defaults.
func NewReceiptTable(rows []core.Receipt, tax core.Taxonomy, f *format.Formatter, opts ...table.Option) (*table.Engine[core.Receipt], error) {
	base := []table.Option{table.WithTitle(Title(Receipts)), table.WithLocale(f.Tag())}
	return table.New(rows, ReceiptSchema(tax, f), append(base, opts...)...)
}

// NewExpenditureTable builds an expenditures engine titled and collated for
// f's locale. Later options override those defaults.
func NewExpenditureTable(rows []core.Expenditure, tax core.Taxonomy, f *format.Formatter, opts ...table.Option) (*table.Engine[core.Expenditure], error) {
	base := []table.Option{table.WithTitle(Title(Expenditures)), table.WithLocale(f.Tag())}
	return table.New(rows, ExpenditureSchema(tax, f), append(base, opts...)...)
}
