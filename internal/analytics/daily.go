package analytics

import (
	"sort"

	"drinksales/internal/core"
)

type DayAmount struct {
	Date   core.Date  `json:"date"`
	Amount core.Money `json:"amount"`
}

// DailySales sums income per calendar day in chronological order.
func DailySales(txs []core.Transaction) []DayAmount {
	sums := newOrdered[core.Date, core.Money]()
	for _, t := range txs {
		if t.Flow != core.Income {
			continue
		}
		sums.update(t.Date, func(m core.Money) core.Money { return m.Add(t.Amount) })
	}
	out := make([]DayAmount, 0, sums.len())
	sums.each(func(d core.Date, m core.Money) {
		out = append(out, DayAmount{Date: d, Amount: m})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Compare(out[j].Date) < 0 })
	return out
}
