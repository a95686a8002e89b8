package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"drinksales/internal/adapters"
	"drinksales/internal/config"
	"drinksales/internal/core"
	"drinksales/internal/store/memory"
)

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		DataBackend:               "sheets",
		DataDir:                   "seed",
		GoogleSpreadsheetID:       "abc",
		GoogleSheetName:           "Transactions",
		GoogleApplicationCredFile: "/etc/sa.json",
	}
	cfg, err := FromAppConfig(app, core.DefaultCatalog())
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SheetsBackend || cfg.DataDirectory != "seed" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.GoogleServiceAccountFile != "/etc/sa.json" {
		t.Fatalf("expected fallback to application credentials, got %q", cfg.GoogleServiceAccountFile)
	}

	if _, err := FromAppConfig(nil, core.Catalog{}); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "csv"}, core.Catalog{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"memory", Config{Type: MemoryBackend}, ""},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path is required"},
		{"sheets without id", Config{Type: SheetsBackend}, "Spreadsheet ID is required"},
		{"unknown", Config{Type: "csv"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q, got %v", tt.wantErr, err)
			}
		})
	}
	if got := GetBackendTypeStrings(); len(got) != 3 {
		t.Fatalf("unexpected backend types %v", got)
	}
}

func TestCreateMemoryBackendSkipsBadSeedRows(t *testing.T) {
	dir := t.TempDir()
	seed := `[
		{"Date": "01/03/2024", "Account": "Cash", "Category": "Bu Sales", "Quantity": 2, "Income/Expense": "Income", "PGK": 7},
		{"Date": "not a date", "Account": "Cash", "Category": "Bu Sales", "Income/Expense": "Income", "PGK": 7}
	]`
	if err := os.WriteFile(filepath.Join(dir, "transactions.json"), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Close()
	if _, ok := res.Backend.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", res.Backend)
	}
	txs, err := res.Backend.ListTransactions(context.Background())
	if err != nil || len(txs) != 1 {
		t.Fatalf("expected one seeded transaction, got %d %v", len(txs), err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "drinksales.db"),
		Catalog:      core.DefaultCatalog(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := res.Backend.(*adapters.SQLiteAdapter); !ok {
		t.Fatalf("expected sqlite adapter, got %T", res.Backend)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}
