package analytics

import (
	"sort"

	"drinksales/internal/core"
)

// Slice is one labelled share of a breakdown chart.
type Slice struct {
	Label string     `json:"label"`
	Value core.Money `json:"value"`
	Color string     `json:"color,omitempty"`
}

// Breakdown sums the amounts of one flow grouped by key(t). Groups keep
// the order in which their key first appears.
func Breakdown(txs []core.Transaction, flow core.Flow, key func(core.Transaction) string) []Slice {
	sums := newOrdered[string, core.Money]()
	for _, t := range txs {
		if t.Flow != flow {
			continue
		}
		sums.update(key(t), func(m core.Money) core.Money { return m.Add(t.Amount) })
	}
	out := make([]Slice, 0, sums.len())
	sums.each(func(label string, m core.Money) {
		out = append(out, Slice{Label: label, Value: m})
	})
	return out
}

// ProductSales breaks income down by sales category, largest first.
// Labels drop the sales suffix ("Bu Sales" becomes "Bu").
func ProductSales(txs []core.Transaction, cat core.Catalog) []Slice {
	out := Breakdown(txs, core.Income, func(t core.Transaction) string { return t.Category })
	for i := range out {
		out[i].Color = cat.ProductColor(out[i].Label)
		out[i].Label = cat.ProductName(out[i].Label)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.Cents > out[j].Value.Cents })
	return out
}

// ExpenseCategories breaks expenses down by note.
func ExpenseCategories(txs []core.Transaction, cat core.Catalog) []Slice {
	out := Breakdown(txs, core.Expense, func(t core.Transaction) string { return t.Note })
	for i := range out {
		out[i].Color = cat.ExpenseColor(out[i].Label)
	}
	return out
}

// PaymentMethods breaks income down by account.
func PaymentMethods(txs []core.Transaction, cat core.Catalog) []Slice {
	out := Breakdown(txs, core.Income, func(t core.Transaction) string { return t.Account })
	for i := range out {
		out[i].Color = cat.PaymentColor(out[i].Label)
	}
	return out
}

// Sum adds up the values of a breakdown.
func Sum(slices []Slice) core.Money {
	var total core.Money
	for _, s := range slices {
		total = total.Add(s.Value)
	}
	return total
}
