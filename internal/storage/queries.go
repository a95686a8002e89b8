package storage

import "context"

const transactionColumns = `id, date, time, account, category, note, quantity, flow, amount_cents,
	sync_status, sync_attempts, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.Date, &t.Time, &t.Account, &t.Category, &t.Note, &t.Quantity, &t.Flow, &t.AmountCents,
		&t.SyncStatus, &t.SyncAttempts, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (q *Queries) collect(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTransaction = `
INSERT INTO transactions (date, time, account, category, note, quantity, flow, amount_cents, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
	Date        string
	Time        string
	Account     string
	Category    string
	Note        string
	Quantity    string
	Flow        string
	AmountCents int64
	Now         string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Date, arg.Time, arg.Account, arg.Category, arg.Note, arg.Quantity, arg.Flow, arg.AmountCents,
		arg.Now, arg.Now,
	)
	return scanTransaction(row)
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date, id`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return q.collect(ctx, listTransactions)
}

const listTransactionsBetween = `SELECT ` + transactionColumns + `
FROM transactions
WHERE date >= ? AND date <= ?
ORDER BY date, id`

// ListTransactionsBetween takes inclusive YYYY-MM-DD bounds.
func (q *Queries) ListTransactionsBetween(ctx context.Context, start, end string) ([]Transaction, error) {
	return q.collect(ctx, listTransactionsBetween, start, end)
}

const getPendingSync = `SELECT ` + transactionColumns + `
FROM transactions
WHERE sync_status = 'pending'
ORDER BY id
LIMIT ?`

func (q *Queries) GetPendingSync(ctx context.Context, limit int64) ([]Transaction, error) {
	return q.collect(ctx, getPendingSync, limit)
}

const setSyncStatus = `
UPDATE transactions
SET sync_status = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) SetSyncStatus(ctx context.Context, id int64, status, now string) (int64, error) {
	res, err := q.db.ExecContext(ctx, setSyncStatus, status, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const incrementSyncAttempt = `
UPDATE transactions
SET sync_attempts = sync_attempts + 1, updated_at = ?
WHERE id = ?
RETURNING sync_attempts`

func (q *Queries) IncrementSyncAttempt(ctx context.Context, id int64, now string) (int64, error) {
	var attempts int64
	err := q.db.QueryRowContext(ctx, incrementSyncAttempt, now, id).Scan(&attempts)
	return attempts, err
}

const resetSyncErrors = `
UPDATE transactions
SET sync_status = 'pending', sync_attempts = 0, updated_at = ?
WHERE sync_status = 'error' AND updated_at < ?`

func (q *Queries) ResetSyncErrors(ctx context.Context, now, olderThan string) (int64, error) {
	res, err := q.db.ExecContext(ctx, resetSyncErrors, now, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countBySyncStatus = `SELECT sync_status, COUNT(*) FROM transactions GROUP BY sync_status`

func (q *Queries) CountBySyncStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countBySyncStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

const distinctAccounts = `SELECT DISTINCT account FROM transactions WHERE account <> '' ORDER BY account`

const distinctCategories = `SELECT DISTINCT category FROM transactions WHERE category <> '' ORDER BY category`

func (q *Queries) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (q *Queries) GetAccounts(ctx context.Context) ([]string, error) {
	return q.distinct(ctx, distinctAccounts)
}

func (q *Queries) GetCategories(ctx context.Context) ([]string, error) {
	return q.distinct(ctx, distinctCategories)
}
