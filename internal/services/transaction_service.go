package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"drinksales/internal/core"
	"drinksales/internal/store"
)

// SyncPublisher announces a stored transaction to the sync worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
}

// Invalidator drops derived state after a write.
type Invalidator interface {
	Invalidate()
}

// TransactionService orchestrates transaction intake across the store,
// AMQP and the dashboard cache.
type TransactionService struct {
	writer    store.TransactionWriter
	publisher SyncPublisher
	catalog   core.Catalog
	caches    []Invalidator
}

// NewTransactionService wires the intake path. publisher may be nil when
// the backend does not sync anywhere.
func NewTransactionService(writer store.TransactionWriter, publisher SyncPublisher, catalog core.Catalog) *TransactionService {
	return &TransactionService{writer: writer, publisher: publisher, catalog: catalog}
}

// Invalidates registers caches to purge after every successful create.
func (s *TransactionService) Invalidates(c ...Invalidator) {
	s.caches = append(s.caches, c...)
}

func (s *TransactionService) Catalog() core.Catalog { return s.catalog }

// Create resolves a draft against the catalog, stores it and publishes a
// sync message.
func (s *TransactionService) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
	t, err := d.Resolve(s.catalog)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("resolve draft: %w", err)
	}
	return s.AppendTransaction(ctx, t)
}

// AppendTransaction stores an already built transaction. It implements
// store.TransactionWriter so the service can sit behind the port.
func (s *TransactionService) AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	stored, err := s.writer.AppendTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	for _, c := range s.caches {
		c.Invalidate()
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", stored.ID,
		"flow", stored.Flow,
		"category", stored.Category,
		"amount_cents", stored.Amount.Cents)

	if s.publisher == nil {
		return stored, nil
	}
	id, err := strconv.ParseInt(stored.ID, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse transaction ID", "ref", stored.ID, "error", err)
		return stored, nil
	}
	// Version 1 for a new transaction. A lost message is picked up by the
	// sweeper, so the request never fails here.
	if err := s.publisher.PublishTransactionSync(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
	return stored, nil
}

