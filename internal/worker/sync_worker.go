package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"drinksales/internal/amqp"
	"drinksales/internal/core"
	"drinksales/internal/storage"
	"drinksales/internal/store"
)

// SyncStore is the local side of the sync: the SQLite repository.
type SyncStore interface {
	store.TransactionGetter
	SyncState(ctx context.Context, id int64) (status string, version int64, err error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.PendingSync, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
	IncrementSyncAttempt(ctx context.Context, id int64) (int64, error)
}

// Result summarises one pass over the pending queue.
type Result struct {
	Synced int
	Failed int
	Parked int
}

// SyncWorker copies transactions from SQLite to Google Sheets.
type SyncWorker struct {
	store      SyncStore
	sheets     store.TransactionWriter
	batchSize  int
	maxRetries int
}

func NewSyncWorker(s SyncStore, sheets store.TransactionWriter, batchSize, maxRetries int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &SyncWorker{store: s, sheets: sheets, batchSize: batchSize, maxRetries: maxRetries}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
// A nil return acks the message; an error requeues it.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "version", msg.Version)

	status, version, err := w.store.SyncState(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Sync message for unknown transaction, dropping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get sync state: %w", err)
	}

	switch {
	case status == storage.SyncSynced:
		slog.DebugContext(ctx, "Transaction already synced", "id", msg.ID)
		return nil
	case status == storage.SyncError:
		slog.WarnContext(ctx, "Transaction parked with sync error, skipping", "id", msg.ID)
		return nil
	case msg.Version < version:
		slog.DebugContext(ctx, "Stale sync message", "id", msg.ID, "message_version", msg.Version, "version", version)
		return nil
	}

	parked, err := w.sync(ctx, msg.ID)
	if err != nil && !parked {
		return err
	}
	return nil
}

// ProcessPending syncs up to one batch of pending transactions. It backs up
// the AMQP path in case messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) (Result, error) {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains a larger batch when the worker starts, to recover
// from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	res, err := w.processPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if res == (Result{}) {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"synced", res.Synced,
		"failed", res.Failed,
		"parked", res.Parked)
	return nil
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) (Result, error) {
	var res Result
	pending, err := w.store.GetPendingSync(ctx, limit)
	if err != nil {
		return res, fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) > 0 {
		slog.DebugContext(ctx, "Processing pending transactions", "count", len(pending))
	}

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		parked, err := w.sync(ctx, p.ID)
		switch {
		case err == nil:
			res.Synced++
		case parked:
			res.Parked++
		default:
			res.Failed++
		}
	}
	return res, nil
}

// sync appends one transaction to the sheet. parked reports whether a
// failure exhausted the retries and the row was marked with sync error.
func (w *SyncWorker) sync(ctx context.Context, id int64) (parked bool, err error) {
	t, err := w.store.GetTransaction(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		if errors.Is(err, core.ErrInvalidDate) || errors.Is(err, core.ErrInvalidFlow) ||
			errors.Is(err, core.ErrInvalidQuantity) || errors.Is(err, store.ErrNotFound) {
			// Nothing a retry could fix.
			w.park(ctx, id)
			return true, fmt.Errorf("load transaction %d: %w", id, err)
		}
		return false, fmt.Errorf("load transaction %d: %w", id, err)
	}

	ref, err := w.sheets.AppendTransaction(ctx, t)
	if err != nil {
		return w.fail(ctx, id, err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		// The row reached the sheet; a later pass may append it twice.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}
	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", id,
		"sheets_ref", ref.ID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)
	return false, nil
}

func (w *SyncWorker) fail(ctx context.Context, id int64, cause error) (bool, error) {
	attempts, err := w.store.IncrementSyncAttempt(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to increment sync attempt", "id", id, "error", err)
	}
	slog.WarnContext(ctx, "Sync to Google Sheets failed", "id", id, "attempt", attempts, "error", cause)
	if attempts >= int64(w.maxRetries) {
		w.park(ctx, id)
		return true, fmt.Errorf("append to sheets: %w", cause)
	}
	return false, fmt.Errorf("append to sheets: %w", cause)
}

func (w *SyncWorker) park(ctx context.Context, id int64) {
	if err := w.store.MarkSyncError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}
