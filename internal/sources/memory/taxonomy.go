package memory

import "ledger/internal/core"

// DefaultTaxonomy is the object-head classification used when no seed files
// are present.
func DefaultTaxonomy() core.Taxonomy {
	const (
		oh31 = "OH-31 Grant-in-Aid General"
		oh35 = "OH-35 Grants for Creation of Capital Assets"
		oh36 = "OH-36 Grant-in-Aid Salary"
	)
	return core.Taxonomy{
		Categories: []string{oh31, oh35, oh36},
		SubCategories: map[string][]string{
			oh31: {
				"31.01 Pension & Pensionary Benefits",
				"31.02 Scholarships/Fellowships",
				"31.03 Foreign/Domestic Travels",
				"31.04 Security/Housekeeping",
				"31.05 Exp. on Contractual Employees [Teaching and Non-Teaching]",
				"31.06 Other Expenses",
				"31.07 Repayment of HEFA Loan - Principal Portion",
				"31.08 Repayment of HEFA Loan - Interest Portion",
			},
			oh35: {
				"35.01 Building",
				"35.02 Equipments",
				"35.03 Library",
				"35.04 Furniture",
			},
			oh36: {
				"36.01 Expenditure on salary on Regular Faculty",
				"36.02 Expenditure on salary on Regular Non-Faculty",
				"36.03 Medical Expenses",
				"36.04 Leave Encashment",
				"36.05 LTC",
				"36.06 Professional Development Allowance (PDA)",
				"36.07 Retirement Benefits",
				"36.08 Other Expenses",
			},
		},
		Departments: []string{
			"Not Applicable",
			"Computer Science and Engineering",
			"Information Technology",
			"Electronics and Communication",
			"Mechanical Engineering",
			"Civil Engineering",
			"Electrical Engineering",
			"Biotechnology",
			"Chemical Engineering",
			"Physics",
			"Chemistry",
			"Mathematics",
			"Humanities and Social Sciences",
		},
	}
}
