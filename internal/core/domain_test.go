package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-05 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-03-05" || !d.Instant().Equal(NewDate(2024, 3, 5).Time) {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Fatalf("expected error for foreign layout")
	}
	if (Date{}).String() != "" {
		t.Fatalf("zero date should stringify empty")
	}
}

func TestReceiptValidate(t *testing.T) {
	good := Receipt{
		Date:          NewDate(2024, 1, 1),
		SanctionOrder: "SO-1000",
		Category:      "OH-31 Grant-in-Aid General",
		Amount:        Money{Cents: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Receipt{
		{Date: Date{}, SanctionOrder: "1", Category: "c", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 1), SanctionOrder: " ", Category: "c", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 1), SanctionOrder: "1", Category: "", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 1), SanctionOrder: "1", Category: "c", Amount: Money{Cents: 0}},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenditureValidate(t *testing.T) {
	good := Expenditure{
		Date:         NewDate(2024, 6, 1),
		PaymentOrder: "PO-2000",
		Category:     "c",
		SubCategory:  "s",
		Department:   "d",
		Amount:       Money{Cents: 5000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	missingSub := good
	missingSub.SubCategory = ""
	if err := missingSub.Validate(); !errors.Is(err, ErrEmptySubCategory) {
		t.Fatalf("expected ErrEmptySubCategory, got %v", err)
	}
	missingDept := good
	missingDept.Department = ""
	if err := missingDept.Validate(); !errors.Is(err, ErrEmptyDepartment) {
		t.Fatalf("expected ErrEmptyDepartment, got %v", err)
	}
}

func TestTaxonomy(t *testing.T) {
	tax := Taxonomy{
		Categories: []string{"A", "B"},
		SubCategories: map[string][]string{
			"A": {"a1", "a2"},
			"B": {"b1", "a2"},
		},
		Departments: []string{"D"},
	}
	if got := tax.SubCategoriesOf("A"); len(got) != 2 || got[0] != "a1" {
		t.Fatalf("sub-categories of A: %v", got)
	}
	if got := tax.SubCategoriesOf("Z"); got != nil {
		t.Fatalf("unknown category should yield nil, got %v", got)
	}
	if got := tax.AllSubCategories(); len(got) != 3 || got[2] != "b1" {
		t.Fatalf("all sub-categories: %v", got)
	}

	e := Expenditure{Category: "A", SubCategory: "b1", Department: "D"}
	if err := tax.CheckExpenditure(e); !errors.Is(err, ErrUnknownSubCat) {
		t.Fatalf("expected ErrUnknownSubCat, got %v", err)
	}
	e.SubCategory = "a1"
	if err := tax.CheckExpenditure(e); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	e.Department = "X"
	if err := tax.CheckExpenditure(e); !errors.Is(err, ErrUnknownDepartment) {
		t.Fatalf("expected ErrUnknownDepartment, got %v", err)
	}
	if err := tax.CheckReceipt(Receipt{Category: "Z"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
