package adapters

import (
	"context"

	"drinksales/internal/core"
	"drinksales/internal/services"
	"drinksales/internal/storage"
)

// SQLiteAdapter puts SQLiteRepository behind the store ports, routing
// writes through TransactionService so every new row is announced on AMQP.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// AppendTransaction implements store.TransactionWriter
func (a *SQLiteAdapter) AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return a.service.AppendTransaction(ctx, t)
}

// ListTransactions implements store.TransactionLister
func (a *SQLiteAdapter) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx)
}

// GetTransaction implements store.TransactionGetter
func (a *SQLiteAdapter) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return a.storage.GetTransaction(ctx, id)
}

// ListOptions implements store.OptionsReader
func (a *SQLiteAdapter) ListOptions(ctx context.Context) ([]string, []string, error) {
	return a.storage.ListOptions(ctx)
}

// SyncStats reports how many rows still wait for Google Sheets.
func (a *SQLiteAdapter) SyncStats(ctx context.Context) (storage.SyncStats, error) {
	return a.storage.SyncStats(ctx)
}
