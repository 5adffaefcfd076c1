package core

import "fmt"

// Taxonomy holds the category tree and department list used to populate
// select filters and to generate demo data.
type Taxonomy struct {
	Categories    []string
	SubCategories map[string][]string // category -> allowed sub-categories
	Departments   []string
}

// SubCategoriesOf returns the sub-categories allowed for category.
// An unknown category yields nil.
func (t Taxonomy) SubCategoriesOf(category string) []string {
	return append([]string(nil), t.SubCategories[category]...)
}

// AllSubCategories returns every sub-category in category order.
func (t Taxonomy) AllSubCategories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range t.Categories {
		for _, s := range t.SubCategories[c] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func (t Taxonomy) HasCategory(category string) bool {
	return contains(t.Categories, category)
}

func (t Taxonomy) HasDepartment(department string) bool {
	return contains(t.Departments, department)
}

// CheckReceipt verifies that the receipt's category exists.
func (t Taxonomy) CheckReceipt(r Receipt) error {
	if !t.HasCategory(r.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
	}
	return nil
}

// CheckExpenditure verifies category, sub-category and department against
// the taxonomy.
func (t Taxonomy) CheckExpenditure(e Expenditure) error {
	if !t.HasCategory(e.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}
	if !contains(t.SubCategories[e.Category], e.SubCategory) {
		return fmt.Errorf("%w: %q in %q", ErrUnknownSubCat, e.SubCategory, e.Category)
	}
	if !t.HasDepartment(e.Department) {
		return fmt.Errorf("%w: %q", ErrUnknownDepartment, e.Department)
	}
	return nil
}

// IsEmpty reports whether no categories are known.
func (t Taxonomy) IsEmpty() bool {
	return len(t.Categories) == 0
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
