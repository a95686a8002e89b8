package core

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRecords = `[
  {"Date":"15/01/2024","Time (hh:mm:ss)":"10:00:00","Account":"Cash","Category":"Bu Sales","Note":"","Quantity":10,"Income/Expense":"Income","PGK":35},
  {"Date":"20/01/2024","Account":"Cash","Category":"Food","Note":"Bu Carton","Quantity":1,"Income/Expense":"Expense","PGK":20},
  {"Date":"bogus","Account":"Cash","Category":"Food","Note":"x","Quantity":1,"Income/Expense":"Expense","PGK":1}
]`

func TestParseRecords(t *testing.T) {
	recs, err := ParseRecords([]byte(sampleRecords))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	tx, err := recs[0].ToTransaction()
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if tx.Flow != Income || tx.Amount.Cents != 3500 || tx.Quantity.IntPart() != 10 {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if _, err := recs[2].ToTransaction(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRecordOfUsesWireKeys(t *testing.T) {
	recs, _ := ParseRecords([]byte(sampleRecords))
	tx, err := recs[1].ToTransaction()
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	b, err := json.Marshal(RecordOf(tx))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"Date":"20/01/2024"`, `"Income/Expense":"Expense"`, `"PGK":20.00`, `"Quantity":1`, `"Note":"Bu Carton"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("expected %s in %s", key, b)
		}
	}
}

func TestDraftResolve(t *testing.T) {
	cat := DefaultCatalog()
	tx, err := Draft{
		Date:     "2024-01-15",
		Time:     "09:30",
		Account:  "Cash",
		Category: "Bu Sales",
		Quantity: "4",
		Flow:     "Income",
	}.Resolve(cat)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tx.Amount.Cents != 1400 {
		t.Fatalf("expected 3.50 x 4 = 14.00, got %v", tx.Amount)
	}
	if tx.Time != "09:30:00" {
		t.Fatalf("expected seconds appended, got %q", tx.Time)
	}

	_, err = Draft{Date: "15/01/2024", Category: "Food", Note: "Bu Carton", Quantity: "1", Flow: "Expense"}.Resolve(cat)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expense without amount should fail, got %v", err)
	}

	tx, err = Draft{Date: "15/01/2024", Category: "Food", Note: "Bu Carton", Quantity: "1", Flow: "Expense", Amount: "20"}.Resolve(cat)
	if err != nil || tx.Amount.Cents != 2000 {
		t.Fatalf("expected explicit amount, got %v %v", tx.Amount, err)
	}
}

func TestCatalogNames(t *testing.T) {
	cat := DefaultCatalog()
	if !cat.IsSale("Bu Sales") || cat.IsSale("Food") {
		t.Fatalf("unexpected IsSale result")
	}
	if got := cat.ProductName("Solo Sales"); got != "Solo" {
		t.Fatalf("expected Solo, got %q", got)
	}
	if got := cat.StockProduct("Coke Carton"); got != "Coke" {
		t.Fatalf("expected Coke, got %q", got)
	}
	if got := cat.ProductColor("Bu Sales"); got != "#ba94e9" {
		t.Fatalf("unexpected colour %q", got)
	}
	if got := cat.ProductColor("Fanta"); got != "#1cc549" {
		t.Fatalf("unexpected default colour %q", got)
	}
	if got := cat.ExpenseColor("Rent"); got != "#f46659" {
		t.Fatalf("unexpected expense colour %q", got)
	}
	if got := cat.PaymentColor("Cash"); got != "#ba94e9" {
		t.Fatalf("unexpected payment colour %q", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `{"products":[{"category":"Fanta Sales","unit_price":3,"color":"#ff8800"}],"stock_category":"Stock"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Products) != 1 || cat.Products[0].UnitPrice.Cents != 300 {
		t.Fatalf("products not replaced: %+v", cat.Products)
	}
	if cat.StockCategory != "Stock" || cat.SalesSuffix != "Sales" {
		t.Fatalf("defaults not kept: %+v", cat)
	}

	dup := `{"products":[{"category":"A Sales"},{"category":"A Sales"}]}`
	if err := os.WriteFile(path, []byte(dup), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected duplicate product error")
	}
}
