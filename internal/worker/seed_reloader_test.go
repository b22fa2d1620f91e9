package worker

import (
	"context"
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmanager/internal/core"
)

type fakeLoader struct {
	mu          sync.Mutex
	seed        core.Seed
	err         error
	loads       int
	invalidated int
}

func (l *fakeLoader) Load(context.Context) (core.Seed, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	return l.seed, l.err
}

func (l *fakeLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidated++
}

func (l *fakeLoader) counts() (loads, invalidated int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads, l.invalidated
}

func reloadSeed(balance int64) core.Seed {
	return core.Seed{
		Accounts:   []core.Account{{ID: "acc1", Name: "Main", Balance: balance, Currency: "EUR"}},
		Categories: []core.Category{{ID: "food", Name: "Food", Type: core.Expense}},
		Budgets:    []core.Budget{{ID: "b-food", CategoryID: "food", Limit: 50}},
	}
}

func TestSeedReloader_ReloadKeepsRelayedTransactions(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()
	require.NoError(t, NewEventWorker(ledger, nil).HandleTransactionAdded(ctx, message("tx1", -10)))

	loader := &fakeLoader{seed: reloadSeed(2000)}
	r := NewSeedReloader(loader, ledger, 0, nil)

	require.NoError(t, r.Reload(ctx))

	cur := ledger.Current()
	acc, _ := cur.Account("acc1")
	assert.Equal(t, int64(1990), acc.Balance)
	_, ok := cur.Transaction("tx1")
	assert.True(t, ok)

	reloads, failures := r.Stats()
	assert.Equal(t, int64(1), reloads)
	assert.Zero(t, failures)
}

func TestSeedReloader_ReloadErrorLeavesLedger(t *testing.T) {
	ledger := newLedger()
	before := ledger.Current()
	r := NewSeedReloader(&fakeLoader{err: errors.New("sheet unavailable")}, ledger, 0, nil)

	err := r.Reload(context.Background())

	require.ErrorContains(t, err, "sheet unavailable")
	assert.True(t, ledger.Current().Equal(before))
	_, failures := r.Stats()
	assert.Equal(t, int64(1), failures)
}

func TestSeedReloader_RefreshInvalidatesCache(t *testing.T) {
	loader := &fakeLoader{seed: reloadSeed(1000)}
	r := NewSeedReloader(loader, newLedger(), 0, nil)

	require.NoError(t, r.Refresh(context.Background()))

	loads, invalidated := loader.counts()
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, invalidated)
}

func TestSeedReloader_Run(t *testing.T) {
	loader := &fakeLoader{seed: reloadSeed(1000)}
	r := NewSeedReloader(loader, newLedger(), 5*time.Millisecond, nil)
	refresh := make(chan os.Signal, 1)
	refresh <- syscall.SIGHUP

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, refresh)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		loads, invalidated := loader.counts()
		return invalidated == 1 && loads >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
