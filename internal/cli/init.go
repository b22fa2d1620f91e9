// Package cli provides common CLI initialization utilities shared by
// cmd/finmanager and cmd/finmanager-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finmanager/internal/backend"
	"finmanager/internal/config"
	"finmanager/internal/core"
	"finmanager/internal/log"
	"finmanager/internal/storage"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the default logger.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Component = log.ComponentCLI
	cfg.Output = os.Stderr
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenLoader builds the configured seed loader. The caller closes the result.
func OpenLoader(ctx context.Context, cfg *config.Config, logger *log.Logger) (*backend.LoaderResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateLoader(ctx, backendCfg)
}

// LoadSeed builds the configured loader, reads the seed through it and
// releases the loader.
func LoadSeed(ctx context.Context, cfg *config.Config, logger *log.Logger) (core.Seed, error) {
	res, err := OpenLoader(ctx, cfg, logger)
	if err != nil {
		return core.Seed{}, err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Failed to release seed loader", log.FieldError, err)
		}
	}()

	return ReadSeed(ctx, res.Loader, cfg.DataBackend, logger)
}

// ReadSeed loads one seed through loader and logs its size.
func ReadSeed(ctx context.Context, loader backend.Loader, source string, logger *log.Logger) (core.Seed, error) {
	start := time.Now()
	seed, err := loader.Load(ctx)
	if err != nil {
		return core.Seed{}, fmt.Errorf("load seed from %s: %w", source, err)
	}
	logger.Info("Seed loaded",
		log.FieldBackend, source,
		"accounts", len(seed.Accounts),
		"transactions", len(seed.Transactions),
		log.FieldDuration, time.Since(start).Milliseconds())
	return seed, nil
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	sqliteRepo, err := storage.NewSQLiteRepository(dbPath, logger)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return sqliteRepo
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
