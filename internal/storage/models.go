package storage

const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	ID           int64
	Date         string
	Time         string
	Account      string
	Category     string
	Note         string
	Quantity     string
	Flow         string
	AmountCents  int64
	SyncStatus   string
	SyncAttempts int64
	Version      int64
	CreatedAt    string
	UpdatedAt    string
}
