package worker

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"finmanager/internal/core"
	"finmanager/internal/log"
)

// SeedLoader reads a full seed; every backend loader satisfies it.
type SeedLoader interface {
	Load(ctx context.Context) (core.Seed, error)
}

// Reseeder is the part of services.Ledger the reloader needs.
type Reseeder interface {
	Reseed(ctx context.Context, seed core.Seed) int
}

// invalidator is implemented by loaders that cache what they read.
type invalidator interface {
	Invalidate()
}

// SeedReloader periodically re-reads the seed source and rebuilds the
// ledger from it, keeping transactions that arrived as events.
type SeedReloader struct {
	loader   SeedLoader
	ledger   Reseeder
	interval time.Duration
	logger   *log.Logger

	reloads  atomic.Int64
	failures atomic.Int64
}

func NewSeedReloader(loader SeedLoader, ledger Reseeder, interval time.Duration, logger *log.Logger) *SeedReloader {
	if logger == nil {
		logger = log.Discard()
	}
	return &SeedReloader{
		loader:   loader,
		ledger:   ledger,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Reload reads the seed through the loader, which may serve it from cache,
// and reseeds the ledger. On error the ledger is left as it was.
func (r *SeedReloader) Reload(ctx context.Context) error {
	start := time.Now()
	seed, err := r.loader.Load(ctx)
	if err != nil {
		r.failures.Add(1)
		return fmt.Errorf("reload seed: %w", err)
	}
	replayed := r.ledger.Reseed(ctx, seed)
	r.reloads.Add(1)

	r.logger.DebugContext(ctx, "Seed reloaded",
		log.FieldOperation, log.OpReload,
		"replayed", replayed,
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Refresh drops any cached seed data before reloading.
func (r *SeedReloader) Refresh(ctx context.Context) error {
	if inv, ok := r.loader.(invalidator); ok {
		inv.Invalidate()
	}
	return r.Reload(ctx)
}

// Run reloads every interval and refreshes on each value from refresh until
// ctx is done. A zero interval disables the periodic reload.
func (r *SeedReloader) Run(ctx context.Context, refresh <-chan os.Signal) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if err := r.Reload(ctx); err != nil {
				r.logger.WarnContext(ctx, "Periodic seed reload failed", log.FieldError, err)
			}
		case sig := <-refresh:
			r.logger.InfoContext(ctx, "Refreshing seed", "signal", sig.String())
			if err := r.Refresh(ctx); err != nil {
				r.logger.ErrorContext(ctx, "Seed refresh failed", log.FieldError, err)
			}
		}
	}
}

// Stats returns the number of successful and failed reloads.
func (r *SeedReloader) Stats() (reloads, failures int64) {
	return r.reloads.Load(), r.failures.Load()
}
