package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"drinksales/internal/analytics"
	"drinksales/internal/cache"
	"drinksales/internal/core"
	applog "drinksales/internal/log"
	"drinksales/internal/middleware/ratelimit"
	"drinksales/internal/middleware/security"
	"drinksales/internal/middleware/trace"
	"drinksales/internal/store"
)

// DashboardProvider computes the aggregated views for a date range.
type DashboardProvider interface {
	Dashboard(ctx context.Context, r analytics.DateRange) (analytics.Dashboard, error)
	Transactions(ctx context.Context, r analytics.DateRange) ([]core.Transaction, error)
}

// TransactionCreator turns a submitted draft into a stored transaction.
type TransactionCreator interface {
	Create(ctx context.Context, d core.Draft) (core.Transaction, error)
}

// Deps are the collaborators of the server. Getter, Options, Lister,
// CacheStats and Caches are optional.
type Deps struct {
	Dashboard DashboardProvider
	Creator   TransactionCreator
	Getter    store.TransactionGetter
	Options   store.OptionsReader
	// Lister is pinged by /readyz.
	Lister  store.TransactionLister
	Catalog core.Catalog

	RateLimitRPM int
	Logger       *applog.Logger
	Now          func() time.Time

	CacheStats func() cache.Stats
	Caches     *cache.Manager
}

type appMetrics struct {
	created atomic.Int64
	started time.Time
}

type Server struct {
	http.Server
	deps Deps

	logger           *applog.Logger
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	metrics          *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.Config{Component: applog.ComponentHTTP, Handler: slog.Default().Handler()})
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Server{
		deps:             deps,
		logger:           deps.Logger,
		securityDetector: security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RateLimitRPM,
		}),
		metrics: &appMetrics{started: deps.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, deps.Logger.WithComponent(applog.ComponentTrace))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	mux.HandleFunc("GET /api/charts/{view}", s.handleChart)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	if deps.Getter != nil {
		mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	}
	if deps.Options != nil {
		mux.HandleFunc("GET /api/options", s.handleOptions)
	}

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited, http.MethodPost)(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = applog.ComponentMiddleware(applog.ComponentHTTP)(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		if s.deps.Caches != nil {
			s.deps.Caches.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

// today is the reference day for relative periods.
func (s *Server) today() core.Date {
	now := s.deps.Now()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

// fail writes the error response for err and logs the failures that are
// not the client's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	logger := applog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldOperation, op,
			applog.FieldError, err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			applog.FieldOperation, op,
			applog.FieldError, err,
			applog.FieldStatusCode, status)
	}
	FromError(err).Write(w)
}
