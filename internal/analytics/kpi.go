package analytics

import "drinksales/internal/core"

// KPI holds the headline totals for a set of transactions.
type KPI struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Profit  core.Money `json:"profit"`
	Count   int        `json:"count"`
}

// Totals sums income and expense amounts. Profit is always
// Income minus Expense.
func Totals(txs []core.Transaction) KPI {
	var k KPI
	for _, t := range txs {
		switch t.Flow {
		case core.Income:
			k.Income = k.Income.Add(t.Amount)
		case core.Expense:
			k.Expense = k.Expense.Add(t.Amount)
		default:
			continue
		}
		k.Count++
	}
	k.Profit = k.Income.Sub(k.Expense)
	return k
}
