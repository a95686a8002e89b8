// Package cli provides common CLI initialization utilities shared by
// cmd/drinksales, cmd/drinksales-worker and cmd/drinksales-report.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"drinksales/internal/config"
	"drinksales/internal/core"
	applog "drinksales/internal/log"
	"drinksales/internal/storage"
)

// SetupLogger installs a text handler on stdout at the LOG_LEVEL level
// and makes it the default logger. An unknown level falls back to info.
func SetupLogger(component string) *applog.Logger {
	level, err := applog.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := applog.New(applog.Config{
		Level:     level,
		Component: component,
		Handler:   applog.NewHandler(os.Stdout, level),
	})
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Ignoring LOG_LEVEL", "error", err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// LoadCatalog returns the catalog from CATALOG_FILE, or the built-in one
// when no file is configured.
func LoadCatalog(cfg *config.Config) (core.Catalog, error) {
	if cfg.CatalogFile == "" {
		return core.DefaultCatalog(), nil
	}
	cat, err := core.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
	}
	return cat, nil
}

// MustLoadCatalog is LoadCatalog that exits the process on failure.
func MustLoadCatalog(logger *applog.Logger, cfg *config.Config) core.Catalog {
	cat, err := LoadCatalog(cfg)
	if err != nil {
		logger.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	return cat
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	sqliteRepo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return sqliteRepo
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup has run.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup has
// finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
