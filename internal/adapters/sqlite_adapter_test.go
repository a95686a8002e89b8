package adapters

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"drinksales/internal/core"
	"drinksales/internal/services"
	"drinksales/internal/storage"
)

type recordingPublisher struct{ ids []int64 }

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id, _ int64) error {
	p.ids = append(p.ids, id)
	return nil
}

func TestSQLiteAdapterPublishesOnAppend(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "adapter.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	defer repo.Close()

	pub := &recordingPublisher{}
	a := NewSQLiteAdapter(repo, services.NewTransactionService(repo, pub, core.DefaultCatalog()))
	ctx := context.Background()

	stored, err := a.AppendTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 5, 1),
		Account:  "Cash",
		Category: "Bu Sales",
		Quantity: decimal.NewFromInt(2),
		Flow:     core.Income,
		Amount:   core.Money{Cents: 700},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(pub.ids) != 1 || stored.ID != "1" {
		t.Fatalf("expected publish of id 1, got %v (%s)", pub.ids, stored.ID)
	}

	got, err := a.GetTransaction(ctx, stored.ID)
	if err != nil || got.Amount.Cents != 700 {
		t.Fatalf("get: %+v %v", got, err)
	}
	list, err := a.ListTransactions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %d %v", len(list), err)
	}
	stats, err := a.SyncStats(ctx)
	if err != nil || stats.Pending != 1 {
		t.Fatalf("stats: %+v %v", stats, err)
	}
	accounts, cats, err := a.ListOptions(ctx)
	if err != nil || len(accounts) != 1 || len(cats) != 1 {
		t.Fatalf("options: %v %v %v", accounts, cats, err)
	}
}
