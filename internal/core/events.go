package core

import (
	"time"

	"github.com/google/uuid"
)

// Channel names used to route events on the bus.
const (
	ChannelTransactionAdded   = "TRANSACTION_ADDED"
	ChannelBudgetLimitChanged = "BUDGET_LIMIT_CHANGED"
)

// Event is implemented by every event kind. The concrete type determines
// the payload, so handlers never look fields up by name.
type Event interface {
	Meta() EventMeta
	Channel() string
}

type EventMeta struct {
	ID string
	TS string
}

// NewEventMeta stamps a fresh event id and an RFC3339 timestamp.
func NewEventMeta(now time.Time) EventMeta {
	return EventMeta{
		ID: uuid.NewString(),
		TS: now.UTC().Format(time.RFC3339),
	}
}

func (m EventMeta) Meta() EventMeta { return m }

// TransactionAdded announces a transaction that should be committed.
type TransactionAdded struct {
	EventMeta
	Transaction Transaction
}

func (TransactionAdded) Channel() string { return ChannelTransactionAdded }

// BudgetLimitChanged replaces the limit of one budget.
type BudgetLimitChanged struct {
	EventMeta
	BudgetID string
	Limit    int64
}

func (BudgetLimitChanged) Channel() string { return ChannelBudgetLimitChanged }
