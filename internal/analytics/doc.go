// Package analytics folds a snapshot of transactions into the dashboard
// views: KPI totals, monthly revenue and profit, categorical breakdowns,
// daily sales and inventory levels.
//
// Every function is a pure fold over the slice it receives. None of them
// retains or mutates its input, so callers may run them concurrently over
// the same snapshot.
package analytics
