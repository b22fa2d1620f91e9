// Package services owns the session's current ledger snapshot and routes
// commands and events into it.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"finmanager/internal/core"
	"finmanager/internal/events"
	"finmanager/internal/log"
	"finmanager/internal/metrics"
	"finmanager/internal/state"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrTransactionExists   = errors.New("transaction already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountReassignment = errors.New("transaction cannot move to another account")
)

// Publisher relays committed events outside the process.
type Publisher interface {
	PublishTransactionAdded(ctx context.Context, evt core.TransactionAdded) error
	Close() error
}

// Ledger holds the single writable snapshot. Writers are serialized; readers
// receive immutable snapshots.
type Ledger struct {
	mu      sync.Mutex
	current state.Snapshot

	// transaction ids that came from the seed, as opposed to events
	seeded map[string]struct{}

	bus       *events.Bus
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *log.Logger
	now       func() time.Time
}

type Option func(*Ledger)

func WithPublisher(p Publisher) Option { return func(l *Ledger) { l.publisher = p } }

func WithMetrics(m *metrics.Metrics) Option { return func(l *Ledger) { l.metrics = m } }

func WithLogger(logger *log.Logger) Option { return func(l *Ledger) { l.logger = logger } }

// WithBus replaces the default bus, which has events.Register applied.
func WithBus(b *events.Bus) Option { return func(l *Ledger) { l.bus = b } }

func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

func NewLedger(seed core.Seed, opts ...Option) *Ledger {
	l := &Ledger{
		current: state.New(seed),
		seeded:  transactionIDs(seed.Transactions),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.bus == nil {
		l.bus = events.NewBus()
		events.Register(l.bus)
	}
	if l.logger == nil {
		l.logger = log.Discard()
	}
	l.logger = l.logger.WithComponent(log.ComponentLedger)
	l.metrics.SetCurrentTransactions(len(l.current.Transactions()))
	for _, ch := range l.bus.Channels() {
		l.logger.Debug("Bus channel ready", log.FieldChannel, ch, "handlers", l.bus.Subscribers(ch))
	}
	return l
}

func transactionIDs(txs []core.Transaction) map[string]struct{} {
	ids := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		ids[tx.ID] = struct{}{}
	}
	return ids
}

// Current returns the latest committed snapshot.
func (l *Ledger) Current() state.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// View returns the current snapshot restricted to accountIDs. Nil means all
// accounts.
func (l *Ledger) View(accountIDs []string) state.Snapshot {
	return l.Current().ForAccounts(accountIDs)
}

// ValidateTransaction checks tx against the current snapshot.
func (l *Ledger) ValidateTransaction(tx core.Transaction) error {
	return validateTransaction(l.Current(), tx)
}

func validateTransaction(s state.Snapshot, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, ok := s.Account(tx.AccountID); !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, tx.AccountID)
	}
	if _, ok := s.Category(tx.CategoryID); !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, tx.CategoryID)
	}
	if _, ok := s.Transaction(tx.ID); ok {
		return fmt.Errorf("%w: %s", ErrTransactionExists, tx.ID)
	}
	return nil
}

// AddTransaction validates tx, publishes it as a TransactionAdded event and
// relays the event. A relay failure is logged and does not fail the call.
func (l *Ledger) AddTransaction(ctx context.Context, tx core.Transaction) (core.TransactionAdded, error) {
	evt := core.TransactionAdded{EventMeta: core.NewEventMeta(l.now()), Transaction: tx}

	_, err := l.commit(ctx, func(s state.Snapshot) error {
		return validateTransaction(s, tx)
	}, func(s state.Snapshot) state.Snapshot {
		return l.bus.Publish(evt, s)
	})
	if err != nil {
		l.logger.WarnContext(ctx, "Rejected transaction",
			log.NewFields().WithOperation(log.OpCreate).WithTransaction(tx).WithError(err).ToSlice()...)
		return core.TransactionAdded{}, err
	}
	l.metrics.RecordEventPublished(evt.Channel())
	l.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithEvent(evt).WithTransaction(tx).ToSlice()...)

	l.relay(ctx, evt)
	return evt, nil
}

func (l *Ledger) relay(ctx context.Context, evt core.TransactionAdded) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishTransactionAdded(ctx, evt); err != nil {
		l.metrics.RecordRelayFailure()
		l.logger.ErrorContext(ctx, "Failed to relay event",
			log.FieldOperation, log.OpRelay,
			log.FieldEventID, evt.Meta().ID,
			log.FieldError, err)
	}
}

// Publish folds evt through the bus and makes the result current. A
// TransactionAdded whose transaction id is already present is rejected with
// ErrTransactionExists and leaves the snapshot unchanged.
func (l *Ledger) Publish(ctx context.Context, evt core.Event) (state.Snapshot, error) {
	after, err := l.commit(ctx, func(s state.Snapshot) error {
		added, ok := evt.(core.TransactionAdded)
		if !ok {
			return nil
		}
		if _, dup := s.Transaction(added.Transaction.ID); dup {
			return fmt.Errorf("%w: %s", ErrTransactionExists, added.Transaction.ID)
		}
		return nil
	}, func(s state.Snapshot) state.Snapshot {
		return l.bus.Publish(evt, s)
	})
	if err != nil {
		return after, err
	}
	l.metrics.RecordEventPublished(evt.Channel())
	l.logger.DebugContext(ctx, "Event published", log.NewFields().WithEvent(evt).ToSlice()...)
	return after, nil
}

// Apply runs a command function against the current snapshot atomically. cmd
// runs while the slot is locked and must not call back into the Ledger.
func (l *Ledger) Apply(ctx context.Context, op string, cmd func(state.Snapshot) state.Snapshot) state.Snapshot {
	after, _ := l.commit(ctx, nil, cmd)
	l.metrics.RecordCommand(op)
	return after
}

func (l *Ledger) applyChecked(ctx context.Context, op string, check func(state.Snapshot) error, cmd func(state.Snapshot) state.Snapshot) error {
	if _, err := l.commit(ctx, check, cmd); err != nil {
		return err
	}
	l.metrics.RecordCommand(op)
	l.logger.DebugContext(ctx, "Command applied", log.FieldOperation, op)
	return nil
}

// UpdateTransaction patches transaction id. The amount difference goes to
// the transaction's account.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) error {
	return l.applyChecked(ctx, log.OpUpdate, func(s state.Snapshot) error {
		if _, ok := s.Transaction(id); !ok {
			return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
		}
		if patch.CategoryID != nil {
			if _, ok := s.Category(*patch.CategoryID); !ok {
				return fmt.Errorf("%w: %s", ErrCategoryNotFound, *patch.CategoryID)
			}
		}
		if patch.TS != nil && strings.TrimSpace(*patch.TS) == "" {
			return fmt.Errorf("transaction %s: %w", id, core.ErrEmptyTimestamp)
		}
		return nil
	}, func(s state.Snapshot) state.Snapshot {
		return state.UpdateTransaction(s, id, patch)
	})
}

// ReplaceTransaction overwrites the stored transaction with tx.ID. Moving a
// transaction to another account is rejected.
func (l *Ledger) ReplaceTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	orig, ok := l.Current().Transaction(tx.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, tx.ID)
	}
	if orig.AccountID != tx.AccountID {
		return fmt.Errorf("%w: %s from %s to %s", ErrAccountReassignment, tx.ID, orig.AccountID, tx.AccountID)
	}
	return l.UpdateTransaction(ctx, tx.ID, core.TransactionPatch{
		CategoryID: &tx.CategoryID,
		Amount:     &tx.Amount,
		TS:         &tx.TS,
		Note:       &tx.Note,
	})
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	return l.applyChecked(ctx, log.OpDelete, func(s state.Snapshot) error {
		if _, ok := s.Transaction(id); !ok {
			return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
		}
		return nil
	}, func(s state.Snapshot) state.Snapshot {
		return state.DeleteTransaction(s, id)
	})
}

// SetAccountBalance overwrites a balance without touching transactions.
func (l *Ledger) SetAccountBalance(ctx context.Context, accountID string, balance int64) error {
	return l.applyChecked(ctx, log.OpSetBalance, func(s state.Snapshot) error {
		if _, ok := s.Account(accountID); !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return nil
	}, func(s state.Snapshot) state.Snapshot {
		return state.UpdateAccountBalance(s, accountID, balance)
	})
}

// Reseed rebuilds the snapshot from seed, then replays the transactions that
// were added through events since the previous seed and that seed does not
// already contain. Alerts are recomputed by the replay. It returns the number
// of replayed transactions.
func (l *Ledger) Reseed(ctx context.Context, seed core.Seed) int {
	replayed := 0
	l.Apply(ctx, log.OpReload, func(s state.Snapshot) state.Snapshot {
		next := state.New(seed)
		for _, tx := range s.Transactions() {
			if _, fromSeed := l.seeded[tx.ID]; fromSeed {
				continue
			}
			if _, ok := next.Transaction(tx.ID); ok {
				continue
			}
			next = l.bus.Publish(core.TransactionAdded{EventMeta: core.NewEventMeta(l.now()), Transaction: tx}, next)
			replayed++
		}
		l.seeded = transactionIDs(seed.Transactions)
		return next
	})
	l.logger.InfoContext(ctx, "Ledger reseeded",
		log.FieldOperation, log.OpReload,
		"transactions", len(seed.Transactions),
		"replayed", replayed)
	return replayed
}

// SetBudgetLimit publishes a BudgetLimitChanged event for budgetID.
func (l *Ledger) SetBudgetLimit(ctx context.Context, budgetID string, limit int64) (core.BudgetLimitChanged, error) {
	if limit < 0 {
		return core.BudgetLimitChanged{}, fmt.Errorf("budget %s: %w", budgetID, core.ErrNegativeLimit)
	}
	evt := core.BudgetLimitChanged{EventMeta: core.NewEventMeta(l.now()), BudgetID: budgetID, Limit: limit}

	_, err := l.commit(ctx, func(s state.Snapshot) error {
		if _, ok := s.Budget(budgetID); !ok {
			return fmt.Errorf("%w: %s", ErrBudgetNotFound, budgetID)
		}
		return nil
	}, func(s state.Snapshot) state.Snapshot {
		return l.bus.Publish(evt, s)
	})
	if err != nil {
		return core.BudgetLimitChanged{}, err
	}
	l.metrics.RecordEventPublished(evt.Channel())
	l.metrics.RecordCommand(log.OpSetLimit)
	l.logger.InfoContext(ctx, "Budget limit changed",
		log.FieldEventID, evt.ID,
		log.FieldBudgetID, budgetID,
		"limit", limit)
	return evt, nil
}

// commit swaps the current snapshot for next(current) when check passes.
func (l *Ledger) commit(ctx context.Context, check func(state.Snapshot) error, next func(state.Snapshot) state.Snapshot) (state.Snapshot, error) {
	l.mu.Lock()
	before := l.current
	if check != nil {
		if err := check(before); err != nil {
			l.mu.Unlock()
			return before, err
		}
	}
	after := next(before)
	l.current = after
	l.mu.Unlock()

	l.metrics.SetCurrentTransactions(len(after.Transactions()))
	l.recordAlerts(ctx, before, after)
	return after, nil
}

func (l *Ledger) recordAlerts(ctx context.Context, before, after state.Snapshot) {
	prev, next := before.Alerts(), after.Alerts()
	if len(next) <= len(prev) {
		return
	}
	added := next[len(prev):]
	l.metrics.RecordAlerts(len(added))
	for _, alert := range added {
		l.logger.WarnContext(ctx, "Budget exceeded", log.FieldAlert, alert)
	}
}

// Close releases the publisher.
func (l *Ledger) Close() error {
	if l.publisher == nil {
		return nil
	}
	if err := l.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
