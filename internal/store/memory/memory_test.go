package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"drinksales/internal/core"
	"drinksales/internal/store"
)

func sale() core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2024, 1, 15),
		Account:  "Cash",
		Category: "Bu Sales",
		Quantity: decimal.NewFromInt(2),
		Flow:     core.Income,
		Amount:   core.Money{Cents: 700},
	}
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := New([]string{"Cash", "Card", "Cash"}, []string{"Bu Sales", "Food", "Food"})
	accounts, cats, err := s.ListOptions(ctx)
	if err != nil || len(accounts) != 2 || len(cats) != 2 {
		t.Fatalf("unexpected options: accounts=%v cats=%v err=%v", accounts, cats, err)
	}

	stored, err := s.AppendTransaction(ctx, sale())
	if err != nil || stored.ID == "" {
		t.Fatalf("unexpected append: %+v err=%v", stored, err)
	}
	got, err := s.GetTransaction(ctx, stored.ID)
	if err != nil || got.Amount.Cents != 700 {
		t.Fatalf("unexpected get: %+v err=%v", got, err)
	}
	if _, err := s.GetTransaction(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, _ := s.ListTransactions(ctx)
	list[0].Amount = core.Money{}
	again, _ := s.ListTransactions(ctx)
	if again[0].Amount.Cents != 700 {
		t.Fatalf("list should return a copy")
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	bad := sale()
	bad.Flow = "Refund"
	if _, err := New(nil, nil).AppendTransaction(context.Background(), bad); !errors.Is(err, core.ErrInvalidFlow) {
		t.Fatalf("expected ErrInvalidFlow, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	s, errs := NewFromFiles(dir)
	if len(errs) != 0 {
		t.Fatalf("missing files should not error: %v", errs)
	}
	accounts, cats, _ := s.ListOptions(context.Background())
	if len(accounts) == 0 || len(cats) == 0 {
		t.Fatalf("expected defaults when files missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_accounts.txt", "# header\nCash\nCash\nBSP\n\n")
	mustWrite("transactions.json", `[
		{"Date":"15/01/2024","Account":"Cash","Category":"Bu Sales","Note":"","Quantity":10,"Income/Expense":"Income","PGK":35},
		{"Date":"99/99/2024","Account":"Cash","Category":"Bu Sales","Note":"","Quantity":1,"Income/Expense":"Income","PGK":3.5},
		{"Date":"16/01/2024","Account":"Card","Category":"Food","Note":"Bu Carton","Quantity":1,"Income/Expense":"Expense","PGK":40}
	]`)

	s, errs = NewFromFiles(dir)
	if len(errs) != 1 {
		t.Fatalf("expected one skipped row, got %v", errs)
	}
	list, _ := s.ListTransactions(context.Background())
	if len(list) != 2 || list[0].ID == "" {
		t.Fatalf("unexpected seed: %+v", list)
	}
	accounts, _, _ = s.ListOptions(context.Background())
	if len(accounts) != 3 || accounts[0] != "Cash" || accounts[1] != "BSP" || accounts[2] != "Card" {
		t.Fatalf("unexpected accounts %v", accounts)
	}
}
