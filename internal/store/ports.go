package store

import (
	"context"
	"errors"

	"drinksales/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters.
type (
	// TransactionLister returns the full transaction snapshot.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionWriter stores a transaction and returns it with the
	// identity the store assigned.
	TransactionWriter interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	}

	TransactionGetter interface {
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	// OptionsReader lists the payment accounts and categories offered by
	// the entry form.
	OptionsReader interface {
		ListOptions(ctx context.Context) (accounts []string, categories []string, err error)
	}
)
