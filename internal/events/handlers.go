package events

import (
	"fmt"

	"finmanager/internal/core"
	"finmanager/internal/report"
	"finmanager/internal/state"
)

// Register subscribes the default handlers. OnTransactionAdded must precede
// CheckBudget so the budget check sees the new transaction.
func Register(b *Bus) {
	b.Subscribe(core.ChannelTransactionAdded, OnTransactionAdded)
	b.Subscribe(core.ChannelTransactionAdded, CheckBudget)
	b.Subscribe(core.ChannelBudgetLimitChanged, OnBudgetLimitChanged)
}

// OnTransactionAdded appends the event's transaction and adds its amount to
// the owning account. An unknown account gets the transaction appended and no
// balance change.
//
// This mirrors state.CreateTransaction on purpose; keep the two in step.
func OnTransactionAdded(evt core.Event, s state.Snapshot) state.Snapshot {
	added, ok := evt.(core.TransactionAdded)
	if !ok {
		return s
	}
	tx := added.Transaction

	accounts := s.Accounts()
	for i := range accounts {
		if accounts[i].ID == tx.AccountID {
			accounts[i].Balance += tx.Amount
		}
	}

	return s.With(
		state.WithTransactions(append(s.Transactions(), tx)),
		state.WithAccounts(accounts),
	)
}

// CheckBudget recomputes spend for every budget on the event transaction's
// category and appends an alert for each budget whose spend exceeds its
// limit. Repeated overages append repeated alerts.
func CheckBudget(evt core.Event, s state.Snapshot) state.Snapshot {
	added, ok := evt.(core.TransactionAdded)
	if !ok {
		return s
	}
	categoryID := added.Transaction.CategoryID
	txs := s.Transactions()

	var alerts []string
	for _, b := range s.Budgets() {
		if b.CategoryID != categoryID {
			continue
		}
		if spent := report.Spent(b.CategoryID, txs); spent > b.Limit {
			alerts = append(alerts, AlertMessage(b, spent))
		}
	}
	if len(alerts) == 0 {
		return s
	}
	return s.With(state.WithAlerts(append(s.Alerts(), alerts...)))
}

// OnBudgetLimitChanged applies a new limit to the named budget.
func OnBudgetLimitChanged(evt core.Event, s state.Snapshot) state.Snapshot {
	changed, ok := evt.(core.BudgetLimitChanged)
	if !ok {
		return s
	}
	return state.UpdateBudgetLimit(s, changed.BudgetID, changed.Limit)
}

// AlertMessage formats the alert recorded when budget b is exceeded.
func AlertMessage(b core.Budget, spent int64) string {
	return fmt.Sprintf("Budget Alert: %s exceeded! Limit %d, Spent %d", b.ID, b.Limit, spent)
}
