package main

import "drinksales/internal/analytics"

type kpis struct {
	All      analytics.KPI `json:"all"`
	Filtered analytics.KPI `json:"filtered"`
}

type profit struct {
	Rows      []analytics.MonthProfit `json:"rows"`
	MarginMin int                     `json:"margin_min"`
	MarginMax int                     `json:"margin_max"`
}

// view is one report subcommand and the part of the dashboard it prints.
type view struct {
	name  string
	short string
	pick  func(analytics.Dashboard) any
}

var views = []view{
	{"kpis", "Income, expense and profit totals", func(d analytics.Dashboard) any {
		return kpis{All: d.AllTime, Filtered: d.Period}
	}},
	{"revenue", "Monthly revenue", func(d analytics.Dashboard) any { return d.Revenue }},
	{"profit", "Monthly income, expense, profit and margin", func(d analytics.Dashboard) any {
		return profit{Rows: d.Profit, MarginMin: d.MarginMin, MarginMax: d.MarginMax}
	}},
	{"products", "Sales by product", func(d analytics.Dashboard) any { return d.Products }},
	{"expenses", "Expenses by category", func(d analytics.Dashboard) any { return d.Expenses }},
	{"payments", "Income by payment method", func(d analytics.Dashboard) any { return d.Payments }},
	{"daily", "Income per day", func(d analytics.Dashboard) any { return d.Daily }},
	{"inventory", "Stock sold and remaining per product", func(d analytics.Dashboard) any { return d.Inventory }},
	{"all", "The full dashboard", func(d analytics.Dashboard) any { return d }},
}
