package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"drinksales/internal/analytics"
	"drinksales/internal/backend"
	"drinksales/internal/cache"
	"drinksales/internal/cli"
	apphttp "drinksales/internal/http"
	applog "drinksales/internal/log"
	"drinksales/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)
	catalog := cli.MustLoadCatalog(logger, cfg)

	backendCfg, err := backend.FromAppConfig(cfg, catalog)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	store := result.Backend

	dashboards := cache.NewLRUCache[analytics.Dashboard](cfg.CacheSize, cfg.CacheTTL)
	caches := cache.NewManager(logger.WithComponent(applog.ComponentCache).Logger)
	caches.Register(dashboards)
	caches.StartCleanup(max(cfg.CacheTTL, time.Minute))

	dashboardSvc := services.NewDashboardService(store, catalog, dashboards)
	transactionSvc := services.NewTransactionService(store, nil, catalog)
	transactionSvc.Invalidates(dashboardSvc)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Dashboard:    dashboardSvc,
		Creator:      transactionSvc,
		Getter:       store,
		Options:      store,
		Lister:       store,
		Catalog:      catalog,
		RateLimitRPM: cfg.RateLimitRPM,
		Logger:       logger.WithComponent(applog.ComponentHTTP),
		CacheStats:   dashboards.Stats,
		Caches:       caches,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting drinksales server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"products", len(catalog.Products))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
