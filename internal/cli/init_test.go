package cli

import (
	"os"
	"path/filepath"
	"testing"

	"drinksales/internal/config"
)

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(&config.Config{})
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(cat.Products) != 3 {
		t.Fatalf("expected the built-in products, got %d", len(cat.Products))
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	body := `{"products":[{"category":"Fanta Sales","unit_price":3,"color":"#ff8800"}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, err = LoadCatalog(&config.Config{CatalogFile: path})
	if err != nil {
		t.Fatalf("file catalog: %v", err)
	}
	if price, ok := cat.UnitPrice("Fanta Sales"); !ok || price.Cents != 300 {
		t.Fatalf("price = %v %v", price, ok)
	}
	if _, ok := cat.UnitPrice("Bu Sales"); ok {
		t.Fatalf("file products should replace the defaults")
	}

	if _, err := LoadCatalog(&config.Config{CatalogFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestSetupLoggerFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	logger := SetupLogger("test")
	if logger.Component() != "test" {
		t.Fatalf("component = %q", logger.Component())
	}
}
