package analytics

import (
	"github.com/shopspring/decimal"

	"drinksales/internal/core"
)

// StockLevel is the inventory position of one product. Remaining never
// goes below zero: selling more than was purchased is not tracked as a
// backorder.
type StockLevel struct {
	Product   string          `json:"product"`
	Purchased decimal.Decimal `json:"purchased"`
	Sold      decimal.Decimal `json:"sold"`
	Remaining decimal.Decimal `json:"remaining"`
	Color     string          `json:"color,omitempty"`
}

// Inventory counts units bought as stock against units sold, per
// product. Products appear in the order they were first purchased,
// followed by products that were only ever sold.
func Inventory(txs []core.Transaction, cat core.Catalog) []StockLevel {
	purchased := newOrdered[string, decimal.Decimal]()
	sold := newOrdered[string, decimal.Decimal]()
	for _, t := range txs {
		switch {
		case t.Flow == core.Expense && cat.IsStockPurchase(t.Category):
			purchased.update(cat.StockProduct(t.Note), func(q decimal.Decimal) decimal.Decimal { return q.Add(t.Quantity) })
		case t.Flow == core.Income && cat.IsSale(t.Category):
			sold.update(cat.ProductName(t.Category), func(q decimal.Decimal) decimal.Decimal { return q.Add(t.Quantity) })
		}
	}

	products := make([]string, 0, purchased.len()+sold.len())
	purchased.each(func(p string, _ decimal.Decimal) { products = append(products, p) })
	sold.each(func(p string, _ decimal.Decimal) {
		if !purchased.has(p) {
			products = append(products, p)
		}
	})

	out := make([]StockLevel, 0, len(products))
	for _, p := range products {
		in, outQ := purchased.get(p), sold.get(p)
		remaining := in.Sub(outQ)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		out = append(out, StockLevel{
			Product:   p,
			Purchased: in,
			Sold:      outQ,
			Remaining: remaining,
			Color:     cat.ProductColor(p),
		})
	}
	return out
}
