//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"drinksales/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/store/google

func TestIntegration_AppendAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	opts := Options{
		SpreadsheetID:   spreadsheetID,
		SheetName:       os.Getenv("GOOGLE_SHEET_NAME"),
		CredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	}
	if opts.CredentialsJSON == "" && opts.CredentialsFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := New(ctx, opts)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	today := time.Now()
	stored, err := client.AppendTransaction(ctx, core.Transaction{
		Date:     core.NewDate(today.Year(), int(today.Month()), today.Day()),
		Time:     today.Format("15:04:05"),
		Account:  "Cash",
		Category: "Bu Sales",
		Note:     "integration test",
		Quantity: decimal.NewFromInt(1),
		Flow:     core.Income,
		Amount:   core.Money{Cents: 350},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := client.GetTransaction(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get %s: %v", stored.ID, err)
	}
	if got.Note != "integration test" || got.Amount.Cents != 350 {
		t.Fatalf("unexpected row %+v", got)
	}
}
