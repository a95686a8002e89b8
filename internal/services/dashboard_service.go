package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"drinksales/internal/analytics"
	"drinksales/internal/cache"
	"drinksales/internal/core"
	"drinksales/internal/store"
)

const snapshotTimeout = 7 * time.Second

// DashboardService computes dashboards from the store snapshot and keeps
// recent results per date range.
type DashboardService struct {
	lister  store.TransactionLister
	catalog core.Catalog
	cache   cache.Cache[analytics.Dashboard]

	// generation is bumped by Invalidate; a build that started under an
	// older generation is returned but never cached.
	generation atomic.Uint64
}

// NewDashboardService builds the service. A nil cache disables caching.
func NewDashboardService(lister store.TransactionLister, catalog core.Catalog, c cache.Cache[analytics.Dashboard]) *DashboardService {
	return &DashboardService{lister: lister, catalog: catalog, cache: c}
}

func rangeKey(r analytics.DateRange) string {
	key := func(d *core.Date) string {
		if d == nil {
			return "*"
		}
		return d.ISO()
	}
	return key(r.Start) + ".." + key(r.End)
}

// Dashboard returns every view for r.
func (s *DashboardService) Dashboard(ctx context.Context, r analytics.DateRange) (analytics.Dashboard, error) {
	key := rangeKey(r)
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			slog.DebugContext(ctx, "Dashboard cache hit", "range", key)
			return d, nil
		}
	}

	gen := s.generation.Load()
	txs, err := s.snapshot(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	d, err := s.build(ctx, txs, r)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	if s.cache != nil && s.generation.Load() == gen {
		s.cache.Set(key, d)
		// An Invalidate racing the Set above may have purged before it.
		if s.generation.Load() != gen {
			s.cache.Delete(key)
		}
	}
	return d, nil
}

// Transactions returns the valid transactions inside r.
func (s *DashboardService) Transactions(ctx context.Context, r analytics.DateRange) ([]core.Transaction, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	valid, rejected := analytics.Clean(txs)
	logRejected(ctx, rejected)
	return analytics.Filter(valid, r), nil
}

// Invalidate purges every cached dashboard.
func (s *DashboardService) Invalidate() {
	s.generation.Add(1)
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *DashboardService) snapshot(ctx context.Context) ([]core.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	txs, err := s.lister.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// build computes the same result as analytics.Build, running the
// independent views in parallel over the shared read-only snapshot.
func (s *DashboardService) build(ctx context.Context, txs []core.Transaction, r analytics.DateRange) (analytics.Dashboard, error) {
	valid, rejected := analytics.Clean(txs)
	logRejected(ctx, rejected)
	filtered := analytics.Filter(valid, r)

	d := analytics.Dashboard{Range: r, Rejected: rejected}
	g, gctx := errgroup.WithContext(ctx)
	view := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	view(func() { d.AllTime = analytics.Totals(valid) })
	view(func() { d.Period = analytics.Totals(filtered) })
	view(func() { d.Revenue = analytics.MonthlyRevenue(filtered) })
	view(func() {
		d.Profit = analytics.MonthlyProfit(filtered)
		d.MarginMin, d.MarginMax = analytics.MarginAxis(d.Profit)
	})
	view(func() { d.Products = analytics.ProductSales(filtered, s.catalog) })
	view(func() { d.Expenses = analytics.ExpenseCategories(filtered, s.catalog) })
	view(func() { d.Payments = analytics.PaymentMethods(filtered, s.catalog) })
	view(func() { d.Daily = analytics.DailySales(filtered) })
	view(func() { d.Inventory = analytics.Inventory(filtered, s.catalog) })

	if err := g.Wait(); err != nil {
		return analytics.Dashboard{}, fmt.Errorf("build dashboard: %w", err)
	}
	return d, nil
}

func logRejected(ctx context.Context, rejected []analytics.Rejection) {
	for _, r := range rejected {
		slog.WarnContext(ctx, "Skipping transaction that cannot be aggregated",
			"index", r.Index,
			"transaction_id", r.ID,
			"error", r.Err)
	}
}
