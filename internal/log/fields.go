package log

import "finmanager/internal/core"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldDuration      = "duration_ms"
	FieldEventID       = "event_id"
	FieldChannel       = "channel"
	FieldTransactionID = "transaction_id"
	FieldAccountID     = "account_id"
	FieldCategoryID    = "category_id"
	FieldBudgetID      = "budget_id"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldAlert         = "alert"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentBus     = "bus"
	ComponentSeed    = "seed"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentMetrics = "metrics"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpSetBalance = "set_balance"
	OpSetLimit   = "set_limit"
	OpPublish    = "publish"
	OpRelay      = "relay"
	OpConsume    = "consume"
	OpLoad       = "load"
	OpReload     = "reload"
	OpImport     = "import"
	OpValidate   = "validate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the identifying fields of a transaction
func (f LogFields) WithTransaction(tx core.Transaction) LogFields {
	f[FieldTransactionID] = tx.ID
	f[FieldAccountID] = tx.AccountID
	f[FieldCategoryID] = tx.CategoryID
	f[FieldAmount] = tx.Amount
	return f
}

// WithEvent adds the event id and routing channel
func (f LogFields) WithEvent(evt core.Event) LogFields {
	f[FieldEventID] = evt.Meta().ID
	f[FieldChannel] = evt.Channel()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
