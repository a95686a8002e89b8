package analytics

import (
	"testing"

	"drinksales/internal/core"
)

func TestDailySalesChronological(t *testing.T) {
	txs := []core.Transaction{
		income(t, "31/01/2024", "Bu Sales", "Cash", 10, 1),
		income(t, "01/02/2024", "Bu Sales", "Cash", 20, 1),
		income(t, "15/01/2024", "Bu Sales", "Cash", 30, 1),
		income(t, "31/01/2024", "Solo Sales", "Cash", 5, 1),
		expense(t, "10/01/2024", "Rent", "Shop", 99, 1),
	}
	got := DailySales(txs)
	want := []string{"15/01/2024", "31/01/2024", "01/02/2024"}
	if len(got) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(got))
	}
	for i, d := range got {
		if d.Date.String() != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], d.Date)
		}
	}
	if got[1].Amount.Cents != 1500 {
		t.Fatalf("expected same-day amounts summed, got %v", got[1].Amount)
	}
}
