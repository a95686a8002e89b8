package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"drinksales/internal/core"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func income(t *testing.T, date, category, account string, amount, qty int64) core.Transaction {
	t.Helper()
	return core.Transaction{
		Date:     mustDate(t, date),
		Account:  account,
		Category: category,
		Quantity: decimal.NewFromInt(qty),
		Flow:     core.Income,
		Amount:   core.Money{Cents: amount * 100},
	}
}

func expense(t *testing.T, date, category, note string, amount, qty int64) core.Transaction {
	t.Helper()
	return core.Transaction{
		Date:     mustDate(t, date),
		Account:  "Cash",
		Category: category,
		Note:     note,
		Quantity: decimal.NewFromInt(qty),
		Flow:     core.Expense,
		Amount:   core.Money{Cents: amount * 100},
	}
}

func scenario(t *testing.T) []core.Transaction {
	return []core.Transaction{
		income(t, "01/03/2024", "Bu Sales", "Cash", 35, 10),
		income(t, "01/03/2024", "Solo Sales", "Card", 25, 10),
		expense(t, "02/03/2024", "Drinks", "Bu", 20, 1),
	}
}
