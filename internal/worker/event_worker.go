// Package worker applies relayed ledger events to a local Ledger.
package worker

import (
	"context"
	"errors"
	"sync/atomic"

	"finmanager/internal/amqp"
	"finmanager/internal/core"
	"finmanager/internal/log"
	"finmanager/internal/services"
	"finmanager/internal/state"
)

// EventSink is the part of services.Ledger the worker needs.
type EventSink interface {
	Current() state.Snapshot
	Publish(ctx context.Context, evt core.Event) (state.Snapshot, error)
}

// EventWorker folds relayed TransactionAdded messages into its ledger.
type EventWorker struct {
	ledger EventSink
	logger *log.Logger

	applied atomic.Int64
	skipped atomic.Int64
}

func NewEventWorker(ledger EventSink, logger *log.Logger) *EventWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &EventWorker{
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionAdded applies msg unless its transaction id is already
// present, in which case the message is acknowledged and ignored. The
// duplicate check runs inside the ledger commit.
func (w *EventWorker) HandleTransactionAdded(ctx context.Context, msg *amqp.TransactionAddedMessage) error {
	evt := msg.ToEvent()
	tx := evt.Transaction

	if _, ok := w.ledger.Current().Account(tx.AccountID); !ok {
		w.logger.WarnContext(ctx, "Relayed transaction references unknown account",
			log.FieldTransactionID, tx.ID,
			log.FieldAccountID, tx.AccountID)
	}

	after, err := w.ledger.Publish(ctx, evt)
	if errors.Is(err, services.ErrTransactionExists) {
		w.skipped.Add(1)
		w.logger.DebugContext(ctx, "Skipping duplicate transaction",
			log.FieldEventID, evt.ID,
			log.FieldTransactionID, tx.ID)
		return nil
	}
	if err != nil {
		return err
	}
	w.applied.Add(1)

	w.logger.InfoContext(ctx, "Applied relayed transaction",
		append(log.NewFields().WithOperation(log.OpConsume).WithEvent(evt).WithTransaction(tx).ToSlice(),
			"alerts", len(after.Alerts()))...)
	return nil
}

// Stats returns how many messages were applied and skipped as duplicates.
func (w *EventWorker) Stats() (applied, skipped int64) {
	return w.applied.Load(), w.skipped.Load()
}
