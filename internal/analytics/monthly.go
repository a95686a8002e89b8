package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"drinksales/internal/core"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// MonthKey identifies a calendar month. Keys order year first, so they
// sort correctly across year boundaries.
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func monthOf(d core.Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: time.Month(d.Month())}
}

func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Label renders the key the way the charts show it, e.g. "Jan 2024".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String()[:3], k.Year)
}

type MonthAmount struct {
	Month  MonthKey   `json:"month"`
	Label  string     `json:"label"`
	Amount core.Money `json:"amount"`
}

type MonthProfit struct {
	Month   MonthKey   `json:"month"`
	Label   string     `json:"label"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Profit  core.Money `json:"profit"`
	Margin  int        `json:"margin"`
}

// MonthlyRevenue sums income per month, oldest month first.
func MonthlyRevenue(txs []core.Transaction) []MonthAmount {
	sums := newOrdered[MonthKey, core.Money]()
	for _, t := range txs {
		if t.Flow != core.Income {
			continue
		}
		sums.update(monthOf(t.Date), func(m core.Money) core.Money { return m.Add(t.Amount) })
	}
	out := make([]MonthAmount, 0, sums.len())
	sums.each(func(k MonthKey, m core.Money) {
		out = append(out, MonthAmount{Month: k, Label: k.Label(), Amount: m})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// MonthlyProfit groups income and expense by month and derives profit
// and margin for every month that has activity on either side.
func MonthlyProfit(txs []core.Transaction) []MonthProfit {
	type pair struct{ income, expense core.Money }
	sums := newOrdered[MonthKey, pair]()
	for _, t := range txs {
		switch t.Flow {
		case core.Income:
			sums.update(monthOf(t.Date), func(p pair) pair { p.income = p.income.Add(t.Amount); return p })
		case core.Expense:
			sums.update(monthOf(t.Date), func(p pair) pair { p.expense = p.expense.Add(t.Amount); return p })
		}
	}
	out := make([]MonthProfit, 0, sums.len())
	sums.each(func(k MonthKey, p pair) {
		out = append(out, MonthProfit{
			Month:   k,
			Label:   k.Label(),
			Income:  p.income,
			Expense: p.expense,
			Profit:  p.income.Sub(p.expense),
			Margin:  Margin(p.income, p.expense),
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Margin is profit as a whole percentage of income, rounded half up.
// With no income it is -100 when there were expenses (all loss) and 0
// when there was no activity at all.
func Margin(income, expense core.Money) int {
	if income.Cents <= 0 {
		if expense.Cents > 0 {
			return -100
		}
		return 0
	}
	profit := decimal.NewFromInt(income.Cents - expense.Cents)
	pct := profit.Mul(hundred).Div(decimal.NewFromInt(income.Cents))
	return int(pct.Add(half).Floor().IntPart())
}

// MarginAxis returns chart bounds that include zero and leave ten points
// of headroom past the extreme margins.
func MarginAxis(rows []MonthProfit) (lo, hi int) {
	for _, r := range rows {
		lo = min(lo, r.Margin)
		hi = max(hi, r.Margin)
	}
	return lo - 10, hi + 10
}
