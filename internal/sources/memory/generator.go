package memory

import (
	"fmt"
	"math/rand/v2"

	"ledger/internal/core"
)

// Default dataset sizes for demo data.
const (
	DefaultReceipts     = 10
	DefaultExpenditures = 15
)

const (
	demoYear         = 2024
	demoAttachment   = "https://example.com/file.pdf"
	maxReceiptCents  = 100000 * 100
	maxSpendingCents = 50000 * 100
)

// Generator produces random register entries over a taxonomy. The same seed
// yields the same sequence.
type Generator struct {
	rng *rand.Rand
	tax core.Taxonomy
}

func NewGenerator(seed uint64, tax core.Taxonomy) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), tax: tax}
}

// Receipts returns n random receipts dated in 2024.
func (g *Generator) Receipts(n int) []core.Receipt {
	out := make([]core.Receipt, 0, max(n, 0))
	for range max(n, 0) {
		out = append(out, core.Receipt{
			Date:          g.date(),
			SanctionOrder: g.order("SO-"),
			Category:      g.pick(g.tax.Categories),
			Amount:        g.amount(maxReceiptCents),
			Attachment:    g.attachment(),
		})
	}
	return out
}

// Expenditures returns n random expenditures dated in 2024. The
// sub-category always belongs to the chosen category.
func (g *Generator) Expenditures(n int) []core.Expenditure {
	out := make([]core.Expenditure, 0, max(n, 0))
	for range max(n, 0) {
		category := g.pick(g.tax.Categories)
		out = append(out, core.Expenditure{
			Date:         g.date(),
			PaymentOrder: g.order("PO-"),
			Category:     category,
			SubCategory:  g.pick(g.tax.SubCategories[category]),
			Department:   g.pick(g.tax.Departments),
			Amount:       g.amount(maxSpendingCents),
			Attachment:   g.attachment(),
		})
	}
	return out
}

func (g *Generator) date() core.Date {
	return core.NewDate(demoYear, 1+g.rng.IntN(12), 1+g.rng.IntN(28))
}

// order is a four digit number, prefixed half of the time.
func (g *Generator) order(prefix string) string {
	n := 1000 + g.rng.IntN(9000)
	if g.rng.IntN(2) == 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s%d", prefix, n)
}

func (g *Generator) amount(limit int64) core.Money {
	return core.Money{Cents: 1 + g.rng.Int64N(limit-1)}
}

func (g *Generator) attachment() string {
	if g.rng.IntN(2) == 0 {
		return demoAttachment
	}
	return ""
}

func (g *Generator) pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[g.rng.IntN(len(list))]
}
