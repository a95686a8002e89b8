package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"drinksales/internal/core"
	"drinksales/internal/store"

	_ "modernc.org/sqlite"
)

// Fixed width so that timestamps compare correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var (
	_ store.TransactionLister = (*SQLiteRepository)(nil)
	_ store.TransactionWriter = (*SQLiteRepository)(nil)
	_ store.TransactionGetter = (*SQLiteRepository)(nil)
	_ store.OptionsReader     = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Run migrations on their own connection before the pool opens.
	if _, err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) stamp() string {
	return r.now().UTC().Format(timestampLayout)
}

// AppendTransaction implements store.TransactionWriter. New rows start
// pending synchronisation.
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Date:        t.Date.ISO(),
		Time:        t.Time,
		Account:     t.Account,
		Category:    t.Category,
		Note:        t.Note,
		Quantity:    t.Quantity.String(),
		Flow:        string(t.Flow),
		AmountCents: t.Amount.Cents,
		Now:         r.stamp(),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"date", row.Date,
		"flow", row.Flow,
		"category", row.Category,
		"amount_cents", row.AmountCents)

	return toCore(row)
}

// ListTransactions implements store.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return r.convert(ctx, rows), nil
}

// ListTransactionsBetween lists the rows dated inside the inclusive range.
// A nil bound is open.
func (r *SQLiteRepository) ListTransactionsBetween(ctx context.Context, start, end *core.Date) ([]core.Transaction, error) {
	lo, hi := "0000-01-01", "9999-12-31"
	if start != nil {
		lo = start.ISO()
	}
	if end != nil {
		hi = end.ISO()
	}
	rows, err := r.queries.ListTransactionsBetween(ctx, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("list transactions between %s and %s: %w", lo, hi, err)
	}
	return r.convert(ctx, rows), nil
}

func (r *SQLiteRepository) convert(ctx context.Context, rows []Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCore(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// GetTransaction implements store.TransactionGetter.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return core.Transaction{}, store.ErrNotFound
	}
	row, err := r.queries.GetTransaction(ctx, n)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return toCore(row)
}

// ListOptions implements store.OptionsReader.
func (r *SQLiteRepository) ListOptions(ctx context.Context) ([]string, []string, error) {
	accounts, err := r.queries.GetAccounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get accounts: %w", err)
	}
	cats, err := r.queries.GetCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get categories: %w", err)
	}
	return accounts, cats, nil
}

// PendingSync represents minimal data needed for sync queue messages
type PendingSync struct {
	ID        int64
	Version   int64
	Attempts  int64
	CreatedAt time.Time
}

// GetPendingSync returns transactions that still need to reach Google Sheets.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.queries.GetPendingSync(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	out := make([]PendingSync, len(rows))
	for i, row := range rows {
		created, _ := time.Parse(timestampLayout, row.CreatedAt)
		out[i] = PendingSync{ID: row.ID, Version: row.Version, Attempts: row.SyncAttempts, CreatedAt: created}
	}
	return out, nil
}

// MarkSynced marks a transaction as successfully synced
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.setStatus(ctx, id, SyncSynced); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError parks a transaction after it ran out of retries.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setStatus(ctx, id, SyncError); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// SyncState reports the sync status and version stored for a transaction.
func (r *SQLiteRepository) SyncState(ctx context.Context, id int64) (string, int64, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, store.ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("get sync state: %w", err)
	}
	return row.SyncStatus, row.Version, nil
}

func (r *SQLiteRepository) setStatus(ctx context.Context, id int64, status string) error {
	n, err := r.queries.SetSyncStatus(ctx, id, status, r.stamp())
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// IncrementSyncAttempt records a failed sync and returns the new count.
func (r *SQLiteRepository) IncrementSyncAttempt(ctx context.Context, id int64) (int64, error) {
	n, err := r.queries.IncrementSyncAttempt(ctx, id, r.stamp())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment sync attempt: %w", err)
	}
	return n, nil
}

// ResetSyncErrors puts rows that failed more than olderThan ago back in
// the queue.
func (r *SQLiteRepository) ResetSyncErrors(ctx context.Context, olderThan time.Duration) (int64, error) {
	now := r.now().UTC()
	cutoff := now.Add(-olderThan).Format(timestampLayout)
	n, err := r.queries.ResetSyncErrors(ctx, now.Format(timestampLayout), cutoff)
	if err != nil {
		return 0, fmt.Errorf("reset sync errors: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Requeued failed transactions", "count", n)
	}
	return n, nil
}

// SyncStats counts transactions per sync status.
type SyncStats struct {
	Pending int64 `json:"pending"`
	Synced  int64 `json:"synced"`
	Error   int64 `json:"error"`
}

func (r *SQLiteRepository) SyncStats(ctx context.Context) (SyncStats, error) {
	counts, err := r.queries.CountBySyncStatus(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("count by sync status: %w", err)
	}
	return SyncStats{
		Pending: counts[SyncPending],
		Synced:  counts[SyncSynced],
		Error:   counts[SyncError],
	}, nil
}

func toCore(row Transaction) (core.Transaction, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	f, err := core.ParseFlow(row.Flow)
	if err != nil {
		return core.Transaction{}, err
	}
	q, err := decimal.NewFromString(row.Quantity)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidQuantity, row.Quantity)
	}
	return core.Transaction{
		ID:       strconv.FormatInt(row.ID, 10),
		Date:     d,
		Time:     row.Time,
		Account:  row.Account,
		Category: row.Category,
		Note:     row.Note,
		Quantity: q,
		Flow:     f,
		Amount:   core.Money{Cents: row.AmountCents},
	}, nil
}
