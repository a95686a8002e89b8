package memory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"drinksales/internal/core"
	"drinksales/internal/store"
)

var (
	_ store.TransactionLister = (*Store)(nil)
	_ store.TransactionWriter = (*Store)(nil)
	_ store.TransactionGetter = (*Store)(nil)
	_ store.OptionsReader     = (*Store)(nil)
)

type Store struct {
	mu       sync.RWMutex
	accounts []string
	cats     []string
	items    []core.Transaction
}

func New(accounts, cats []string) *Store {
	return &Store{accounts: dedupe(accounts), cats: dedupe(cats)}
}

// NewFromFiles seeds the store from base/transactions.json plus the
// optional seed_accounts.txt and seed_categories.txt. Rows of the JSON
// export that cannot be parsed are skipped and reported back.
func NewFromFiles(base string) (*Store, []error) {
	accounts := readLines(filepath.Join(base, "seed_accounts.txt"))
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(accounts) == 0 {
		accounts = []string{"Cash", "Card"}
	}
	if len(cats) == 0 {
		cats = []string{"Bu Sales", "Solo Sales", "Coke Sales", "Food"}
	}
	s := New(accounts, cats)

	data, err := os.ReadFile(filepath.Join(base, "transactions.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, []error{fmt.Errorf("read seed: %w", err)}
	}
	recs, err := core.ParseRecords(data)
	if err != nil {
		return s, []error{err}
	}
	var skipped []error
	for i, r := range recs {
		t, err := r.ToTransaction()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("seed row %d: %w", i, err))
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		s.items = append(s.items, t)
	}
	return s, skipped
}

// AppendTransaction validates and stores t under a fresh id.
func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return t, nil
}

// ListTransactions returns a copy of the stored transactions in
// insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.items...), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

// ListOptions returns the seeded accounts and categories followed by any
// new ones that appear in stored transactions.
func (s *Store) ListOptions(_ context.Context) ([]string, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := append([]string(nil), s.accounts...)
	cats := append([]string(nil), s.cats...)
	for _, t := range s.items {
		accounts = append(accounts, t.Account)
		cats = append(cats, t.Category)
	}
	return dedupe(accounts), dedupe(cats), nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
