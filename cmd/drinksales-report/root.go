package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"drinksales/internal/analytics"
	"drinksales/internal/backend"
	"drinksales/internal/config"
	"drinksales/internal/core"
	applog "drinksales/internal/log"
	"drinksales/internal/services"
	"drinksales/internal/store"
)

var version = "1.0.0"

type options struct {
	file    string
	catalog string
	start   string
	end     string
	period  string
	now     func() time.Time
}

func newRootCmd(logger *applog.Logger) *cobra.Command {
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:   "drinksales-report",
		Short: "Compute drink sales aggregates from the command line",
		Long: `drinksales-report prints the dashboard aggregates as indented JSON.

Transactions are read from a JSON export (--file, an array of records as
produced by the bookkeeping sheet) or, without --file, from the backend
configured in the environment (DATA_BACKEND and friends).`,
		Example: `  # KPIs for January from an export
  drinksales-report --file export.json --start 2024-01-01 --end 2024-01-31 kpis

  # Everything for the last month from the configured backend
  drinksales-report --period last-month all`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.file, "file", "", "JSON export to read instead of the configured backend")
	flags.StringVar(&opts.catalog, "catalog", "", "catalog JSON file (default: CATALOG_FILE or the built-in catalog)")
	flags.StringVar(&opts.start, "start", "", "first day to include (YYYY-MM-DD or DD/MM/YYYY)")
	flags.StringVar(&opts.end, "end", "", "last day to include (YYYY-MM-DD or DD/MM/YYYY)")
	flags.StringVar(&opts.period, "period", "all", "all or last-month; ignored when --start or --end is set")

	for _, v := range views {
		root.AddCommand(newViewCmd(logger, opts, v))
	}
	return root
}

func newViewCmd(logger *applog.Logger, opts *options, v view) *cobra.Command {
	return &cobra.Command{
		Use:   v.name,
		Short: v.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent(applog.ComponentReport).With(applog.FieldOperation, v.name)

			rng, err := opts.dateRange()
			if err != nil {
				return err
			}
			catalog, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			lister, closeFn, err := opts.source(cmd.Context(), log, catalog)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			d, err := services.NewDashboardService(lister, catalog, nil).Dashboard(ctx, rng)
			if err != nil {
				return fmt.Errorf("compute %s: %w", v.name, err)
			}
			log.Debug("Report computed", "transactions", d.AllTime.Count, "rejected", len(d.Rejected))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v.pick(d))
		},
	}
}

func (o *options) dateRange() (analytics.DateRange, error) {
	var r analytics.DateRange
	if o.start != "" {
		d, err := core.ParseDate(o.start)
		if err != nil {
			return r, fmt.Errorf("--start: %w", err)
		}
		r.Start = &d
	}
	if o.end != "" {
		d, err := core.ParseDate(o.end)
		if err != nil {
			return r, fmt.Errorf("--end: %w", err)
		}
		r.End = &d
	}
	switch o.period {
	case "", "all":
	case "last-month":
		if r.IsZero() {
			now := o.now()
			r = analytics.LastMonth(core.NewDate(now.Year(), int(now.Month()), now.Day()))
		}
	default:
		return r, fmt.Errorf("--period: unknown period %q", o.period)
	}
	return r, nil
}

func (o *options) loadCatalog() (core.Catalog, error) {
	path := o.catalog
	if path == "" {
		path = os.Getenv("CATALOG_FILE")
	}
	if path == "" {
		return core.DefaultCatalog(), nil
	}
	return core.LoadCatalog(path)
}

// source returns where transactions come from and a func releasing it.
func (o *options) source(ctx context.Context, log *applog.Logger, catalog core.Catalog) (store.TransactionLister, func(), error) {
	if o.file != "" {
		return fileLister{path: o.file, log: log}, func() {}, nil
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	bcfg, err := backend.FromAppConfig(cfg, catalog)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(log.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	return res.Backend, func() {
		if err := res.Close(); err != nil {
			log.Warn("Backend cleanup failed", "error", err)
		}
	}, nil
}

// fileLister reads a JSON export. Records that cannot be parsed are
// skipped with a warning.
type fileLister struct {
	path string
	log  *applog.Logger
}

func (f fileLister) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	recs, err := core.ParseRecords(data)
	if err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, 0, len(recs))
	for i, r := range recs {
		t, err := r.ToTransaction()
		if err != nil {
			f.log.WarnContext(ctx, "Skipping unreadable record", applog.FieldRowIndex, i, applog.FieldError, err)
			continue
		}
		txs = append(txs, t)
	}
	return txs, nil
}
