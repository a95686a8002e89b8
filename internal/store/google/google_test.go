package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"drinksales/internal/core"
	"drinksales/internal/store"
)

// fakeSheets serves the two Values endpoints the client uses.
func fakeSheets(t *testing.T, gets *int32, appended *[]byte) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			body, _ := io.ReadAll(r.Body)
			*appended = body
			_ = json.NewEncoder(w).Encode(map[string]any{
				"spreadsheetId": "sheet-id",
				"updates":       map[string]any{"updatedRange": "Transactions!A4:H4", "updatedRows": 1},
			})
		case r.Method == http.MethodGet:
			atomic.AddInt32(gets, 1)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"range":          "Transactions!A1:H3",
				"majorDimension": "ROWS",
				"values": [][]any{
					{"Date", "Time (hh:mm:ss)", "Account", "Category", "Note", "Quantity", "Income/Expense", "PGK"},
					{"15/01/2024", "", "Cash", "Bu Sales", "", 10, "Income", 35},
					{"16/01/2024", "", "BSP", "Food", "Bu Carton", 1, "Expense", 40},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return newClient(svc, "sheet-id", "")
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Options{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientListAndCache(t *testing.T) {
	var gets int32
	var appended []byte
	c := fakeSheets(t, &gets, &appended)
	ctx := context.Background()

	txs, err := c.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 || txs[1].Note != "Bu Carton" {
		t.Fatalf("unexpected transactions %+v", txs)
	}
	if _, err := c.ListTransactions(ctx); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if atomic.LoadInt32(&gets) != 1 {
		t.Fatalf("expected cached second read, got %d gets", gets)
	}

	got, err := c.GetTransaction(ctx, "row:3")
	if err != nil || got.Account != "BSP" {
		t.Fatalf("unexpected get %+v %v", got, err)
	}
	if _, err := c.GetTransaction(ctx, "row:99"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	accounts, cats, err := c.ListOptions(ctx)
	if err != nil || len(accounts) != 2 || len(cats) != 2 {
		t.Fatalf("unexpected options %v %v %v", accounts, cats, err)
	}
}

func TestClientAppend(t *testing.T) {
	var gets int32
	var appended []byte
	c := fakeSheets(t, &gets, &appended)
	ctx := context.Background()

	if _, err := c.ListTransactions(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	stored, err := c.AppendTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 1, 17),
		Time:     "09:00:00",
		Account:  "Cash",
		Category: "Coke Sales",
		Quantity: decimal.NewFromInt(3),
		Flow:     core.Income,
		Amount:   core.Money{Cents: 750},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored.ID != "row:4" {
		t.Fatalf("unexpected row ref %q", stored.ID)
	}
	if !strings.Contains(string(appended), `"17/01/2024"`) || !strings.Contains(string(appended), `7.5`) {
		t.Fatalf("unexpected append body %s", appended)
	}

	if _, err := c.ListTransactions(ctx); err != nil {
		t.Fatalf("list after append: %v", err)
	}
	if atomic.LoadInt32(&gets) != 2 {
		t.Fatalf("append should invalidate the cache, got %d gets", gets)
	}
}

func TestClientAppendValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	_, err := c.AppendTransaction(context.Background(), core.Transaction{Flow: core.Income, Category: "Bu Sales"})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
