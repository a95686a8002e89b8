package analytics

import "drinksales/internal/core"

// Dashboard is every view of the dashboard computed from one snapshot.
// AllTime ignores the range; everything else is computed over the
// transactions inside it.
type Dashboard struct {
	Range     DateRange     `json:"range"`
	AllTime   KPI           `json:"all_time"`
	Period    KPI           `json:"period"`
	Revenue   []MonthAmount `json:"monthly_revenue"`
	Profit    []MonthProfit `json:"monthly_profit"`
	MarginMin int           `json:"margin_min"`
	MarginMax int           `json:"margin_max"`
	Products  []Slice       `json:"products"`
	Expenses  []Slice       `json:"expenses"`
	Payments  []Slice       `json:"payments"`
	Daily     []DayAmount   `json:"daily_sales"`
	Inventory []StockLevel  `json:"inventory"`
	Rejected  []Rejection   `json:"rejected,omitempty"`
}

// Build cleans the snapshot and computes the full dashboard for r.
func Build(txs []core.Transaction, r DateRange, cat core.Catalog) Dashboard {
	valid, rejected := Clean(txs)
	filtered := Filter(valid, r)
	profit := MonthlyProfit(filtered)
	lo, hi := MarginAxis(profit)
	return Dashboard{
		Range:     r,
		AllTime:   Totals(valid),
		Period:    Totals(filtered),
		Revenue:   MonthlyRevenue(filtered),
		Profit:    profit,
		MarginMin: lo,
		MarginMax: hi,
		Products:  ProductSales(filtered, cat),
		Expenses:  ExpenseCategories(filtered, cat),
		Payments:  PaymentMethods(filtered, cat),
		Daily:     DailySales(filtered),
		Inventory: Inventory(filtered, cat),
		Rejected:  rejected,
	}
}
