package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"3.5", 350, true},
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyMul(t *testing.T) {
	cases := []struct {
		price Money
		qty   string
		want  int64
	}{
		{Money{Cents: 350}, "10", 3500},
		{Money{Cents: 250}, "3", 750},
		{Money{Cents: 250}, "0.5", 125},
		{Money{Cents: 333}, "0.5", 167},
		{Money{Cents: 350}, "0", 0},
	}
	for _, tc := range cases {
		got := tc.price.Mul(decimal.RequireFromString(tc.qty))
		if got.Cents != tc.want {
			t.Fatalf("%v x %s: expected %d, got %d", tc.price, tc.qty, tc.want, got.Cents)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		V Money `json:"v"`
	}{Money{Cents: 3550}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"v":35.50}` {
		t.Fatalf("unexpected json %s", b)
	}

	for _, in := range []string{`35.5`, `"35.50"`, `35.499`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if m.Cents != 3550 {
			t.Fatalf("%s: expected 3550, got %d", in, m.Cents)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("")
	if err != nil || !q.IsZero() {
		t.Fatalf("empty should be zero, got %v %v", q, err)
	}
	q, err = ParseQuantity("2,5")
	if err != nil || !q.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("expected 2.5, got %v %v", q, err)
	}
	if _, err := ParseQuantity("-1"); err == nil {
		t.Fatalf("expected error for negative quantity")
	}
}
