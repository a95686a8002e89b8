package http

import (
	"net/http"

	"drinksales/internal/analytics"
	applog "drinksales/internal/log"
)

type kpisResponse struct {
	Range    analytics.DateRange `json:"range"`
	All      analytics.KPI       `json:"all"`
	Filtered analytics.KPI       `json:"filtered"`
}

type chartResponse struct {
	Range     analytics.DateRange `json:"range"`
	View      string              `json:"view"`
	Data      any                 `json:"data"`
	MarginMin *int                `json:"margin_min,omitempty"`
	MarginMax *int                `json:"margin_max,omitempty"`
}

// Chart views served under /api/charts/{view}.
const (
	ViewRevenue   = "revenue"
	ViewProfit    = "profit"
	ViewProducts  = "products"
	ViewExpenses  = "expenses"
	ViewPayments  = "payments"
	ViewDaily     = "daily"
	ViewInventory = "inventory"
)

// dashboard parses the range and loads the dashboard for it, writing the
// error response itself when either step fails.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) (analytics.Dashboard, bool) {
	rng, err := ParseRange(r.URL.Query(), s.today())
	if err != nil {
		s.fail(w, r, applog.OpParse, err)
		return analytics.Dashboard{}, false
	}
	d, err := s.deps.Dashboard.Dashboard(r.Context(), rng)
	if err != nil {
		s.fail(w, r, applog.OpAggregate, err)
		return analytics.Dashboard{}, false
	}
	return d, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	NewJSONResponse().Body(d).Write(w)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	NewJSONResponse().Body(kpisResponse{Range: d.Range, All: d.AllTime, Filtered: d.Period}).Write(w)
}

// handleChart serves one view of the dashboard.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")
	switch view {
	case ViewRevenue, ViewProfit, ViewProducts, ViewExpenses, ViewPayments, ViewDaily, ViewInventory:
	default:
		NotFoundError("unknown chart " + view).Write(w)
		return
	}

	d, ok := s.dashboard(w, r)
	if !ok {
		return
	}
	resp := chartResponse{Range: d.Range, View: view}
	switch view {
	case ViewRevenue:
		resp.Data = d.Revenue
	case ViewProfit:
		resp.Data = d.Profit
		resp.MarginMin, resp.MarginMax = &d.MarginMin, &d.MarginMax
	case ViewProducts:
		resp.Data = d.Products
	case ViewExpenses:
		resp.Data = d.Expenses
	case ViewPayments:
		resp.Data = d.Payments
	case ViewDaily:
		resp.Data = d.Daily
	case ViewInventory:
		resp.Data = d.Inventory
	}
	NewJSONResponse().Body(resp).Write(w)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.deps.Catalog).Write(w)
}
