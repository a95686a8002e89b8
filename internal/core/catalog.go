package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Product is a drink sold by the unit. Category is the sales category a
// sale of this product is booked under, e.g. "Bu Sales".
type Product struct {
	Category  string `json:"category"`
	UnitPrice Money  `json:"unit_price"`
	Color     string `json:"color"`
}

// Catalog is the configuration the dashboard needs to turn categories
// into product names, prices and chart colours.
type Catalog struct {
	Products            []Product         `json:"products"`
	ExpenseColors       map[string]string `json:"expense_colors"`
	DefaultProductColor string            `json:"default_product_color"`
	DefaultExpenseColor string            `json:"default_expense_color"`
	PaymentColors       map[string]string `json:"payment_colors"`
	DefaultPaymentColor string            `json:"default_payment_color"`
	// StockCategory is the expense category under which stock purchases
	// are booked; the Note then names the stock item.
	StockCategory string `json:"stock_category"`
	SalesSuffix   string `json:"sales_suffix"`
	StockSuffix   string `json:"stock_suffix"`
}

// DefaultCatalog returns the three drinks the shop sells today.
func DefaultCatalog() Catalog {
	return Catalog{
		Products: []Product{
			{Category: "Bu Sales", UnitPrice: Money{Cents: 350}, Color: "#ba94e9"},
			{Category: "Solo Sales", UnitPrice: Money{Cents: 250}, Color: "#eb8fd8"},
			{Category: "Coke Sales", UnitPrice: Money{Cents: 250}, Color: "#ffbc3e"},
		},
		ExpenseColors: map[string]string{
			"Bu":   "#ba94e9",
			"Solo": "#eb8fd8",
			"Coke": "#ffbc3e",
		},
		DefaultProductColor: "#1cc549",
		DefaultExpenseColor: "#f46659",
		PaymentColors:       map[string]string{"Cash": "#ba94e9"},
		DefaultPaymentColor: "#ffbc3e",
		StockCategory:       "Food",
		SalesSuffix:         "Sales",
		StockSuffix:         "Carton",
	}
}

// LoadCatalog reads a JSON catalog from path. Fields left out of the
// file keep their default values.
func LoadCatalog(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	cat := DefaultCatalog()
	// Replace, not merge, the product list when the file provides one.
	var probe struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if probe.Products != nil {
		cat.Products = nil
	}
	if err := json.Unmarshal(b, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if strings.TrimSpace(p.Category) == "" {
			return fmt.Errorf("catalog: %w", ErrEmptyCategory)
		}
		if seen[p.Category] {
			return fmt.Errorf("catalog: duplicate product %q", p.Category)
		}
		seen[p.Category] = true
		if p.UnitPrice.Cents < 0 {
			return fmt.Errorf("catalog: %w for %q", ErrInvalidAmount, p.Category)
		}
	}
	return nil
}

func (c Catalog) product(category string) (Product, bool) {
	for _, p := range c.Products {
		if p.Category == category {
			return p, true
		}
	}
	return Product{}, false
}

// UnitPrice returns the configured price for a sales category.
func (c Catalog) UnitPrice(category string) (Money, bool) {
	p, ok := c.product(category)
	return p.UnitPrice, ok
}

// IsSale reports whether the category books a product sale.
func (c Catalog) IsSale(category string) bool {
	return strings.HasSuffix(strings.TrimSpace(category), c.SalesSuffix)
}

// ProductName strips the sales suffix: "Bu Sales" becomes "Bu".
func (c Catalog) ProductName(category string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(category), c.SalesSuffix))
}

// IsStockPurchase reports whether an expense buys stock for resale.
func (c Catalog) IsStockPurchase(category string) bool {
	return strings.TrimSpace(category) == c.StockCategory
}

// StockProduct strips the stock suffix from a note: "Bu Carton" becomes "Bu".
func (c Catalog) StockProduct(note string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(note), c.StockSuffix))
}

// ProductColor picks the chart colour for a product name or its sales
// category.
func (c Catalog) ProductColor(name string) string {
	for _, p := range c.Products {
		if p.Category == name || c.ProductName(p.Category) == name {
			if p.Color != "" {
				return p.Color
			}
			break
		}
	}
	return c.DefaultProductColor
}

// ExpenseColor picks the chart colour for an expense note.
func (c Catalog) ExpenseColor(note string) string {
	if col, ok := c.ExpenseColors[note]; ok {
		return col
	}
	return c.DefaultExpenseColor
}

// PaymentColor picks the chart colour for a payment method.
func (c Catalog) PaymentColor(account string) string {
	if col, ok := c.PaymentColors[account]; ok {
		return col
	}
	return c.DefaultPaymentColor
}
