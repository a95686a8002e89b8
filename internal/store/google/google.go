package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"drinksales/internal/core"
	"drinksales/internal/store"
)

// Ensure interface conformance
var (
	_ store.TransactionLister = (*Client)(nil)
	_ store.TransactionWriter = (*Client)(nil)
	_ store.TransactionGetter = (*Client)(nil)
	_ store.OptionsReader     = (*Client)(nil)
)

const defaultCacheValidDuration = 30 * time.Second

// Options configures the Sheets store. Credentials are taken from
// CredentialsJSON, then CredentialsFile, then GOOGLE_APPLICATION_CREDENTIALS.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Client reads and appends transactions on one sheet laid out as
// Date, Time, Account, Category, Note, Quantity, Income/Expense, PGK.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string

	// The parsed sheet is cached briefly; dashboards re-read it often.
	mu                 sync.Mutex
	cached             []core.Transaction
	cacheExpiresAt     time.Time
	cacheValidDuration time.Duration
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, opts.SpreadsheetID, opts.SheetName), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, sheet string) *Client {
	if strings.TrimSpace(sheet) == "" {
		sheet = "Transactions"
	}
	return &Client{
		svc:                svc,
		spreadsheetID:      spreadsheetID,
		sheet:              sheet,
		cacheValidDuration: defaultCacheValidDuration,
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(opts.CredentialsFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendTransaction writes t as a new row at the bottom of the sheet.
// The returned transaction carries the row reference as its ID.
func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return core.Transaction{}, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:H", c.sheet)
	vr := &gsheet.ValueRange{Values: [][]interface{}{toRow(t)}}
	// RAW keeps DD/MM/YYYY as text instead of letting Sheets reinterpret it
	// in the spreadsheet locale.
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append to sheet %s: %w", c.sheet, err)
	}
	if resp.Updates != nil {
		t.ID = rowRefFromRange(resp.Updates.UpdatedRange)
	}
	c.invalidate()
	return t, nil
}

// ListTransactions reads every row of the sheet. Rows that do not parse
// are skipped with a warning.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	c.mu.Lock()
	if c.cached != nil && time.Now().Before(c.cacheExpiresAt) {
		out := append([]core.Transaction(nil), c.cached...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	rng := fmt.Sprintf("%s!A:H", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	txs, skipped := parseRows(resp.Values)
	for _, e := range skipped {
		slog.WarnContext(ctx, "Skipping malformed sheet row", "sheet", c.sheet, "error", e)
	}

	c.mu.Lock()
	c.cached = txs
	c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
	c.mu.Unlock()
	return append([]core.Transaction(nil), txs...), nil
}

// GetTransaction looks a row up by the reference returned on append.
func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	txs, err := c.ListTransactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

// ListOptions collects the distinct accounts and categories already used
// on the sheet, in first-seen order.
func (c *Client) ListOptions(ctx context.Context) ([]string, []string, error) {
	txs, err := c.ListTransactions(ctx)
	if err != nil {
		return nil, nil, err
	}
	var accounts, cats []string
	seenA, seenC := map[string]bool{}, map[string]bool{}
	for _, t := range txs {
		if t.Account != "" && !seenA[t.Account] {
			seenA[t.Account] = true
			accounts = append(accounts, t.Account)
		}
		if t.Category != "" && !seenC[t.Category] {
			seenC[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	return accounts, cats, nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.cacheExpiresAt = time.Time{}
	c.mu.Unlock()
}
