package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"drinksales/internal/cache"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": s.deps.Now().Format(time.RFC3339),
		"uptime":    s.deps.Now().Sub(s.metrics.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	switch {
	case s.deps.Lister == nil:
		checks["transactions"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	default:
		if _, err := s.deps.Lister.ListTransactions(ctx); err != nil {
			checks["transactions"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["transactions"] = "ok"
		}
	}

	if s.deps.CacheStats != nil {
		checks["cache"] = map[string]any{
			"entries": s.deps.CacheStats().Size,
			"status":  "ok",
		}
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewJSONResponse().Status(httpStatus).Body(map[string]any{
		"status":    status,
		"timestamp": s.deps.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	var cacheStats cache.Stats
	if s.deps.CacheStats != nil {
		cacheStats = s.deps.CacheStats()
	}

	w.WriteHeader(http.StatusOK)

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_response_time_average_us", "gauge", "Average response time in microseconds", traceMetrics.AverageResponseTime)
	metric("transactions_created_total", "counter", "Total number of transactions created", s.metrics.created.Load())
	metric("dashboard_cache_hits_total", "counter", "Total dashboard cache hits", cacheStats.Hits)
	metric("dashboard_cache_misses_total", "counter", "Total dashboard cache misses", cacheStats.Misses)
	metric("dashboard_cache_evictions_total", "counter", "Total dashboard cache evictions", cacheStats.Evictions)
	metric("dashboard_cache_entries", "gauge", "Current dashboard cache entries", cacheStats.Size)
	metric("rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds", fmt.Sprintf("%.0f", s.deps.Now().Sub(s.metrics.started).Seconds()))
}
