// Package state holds the immutable application snapshot and the pure
// command functions that derive a new snapshot from an old one.
//
// A Snapshot is never modified after construction. Every accessor returns a
// copy, and every override copies its argument, so callers cannot reach the
// backing arrays of a snapshot another goroutine may be reading.
package state

import (
	"slices"

	"finmanager/internal/core"
)

// Snapshot is the complete ledger state at one point in time.
type Snapshot struct {
	accounts     []core.Account
	categories   []core.Category
	transactions []core.Transaction
	budgets      []core.Budget
	alerts       []string
}

// Override replaces one collection while building a new snapshot.
type Override func(*Snapshot)

// New builds the initial snapshot from seed data. Alerts start empty.
func New(seed core.Seed) Snapshot {
	return Snapshot{}.With(
		WithAccounts(seed.Accounts),
		WithCategories(seed.Categories),
		WithTransactions(seed.Transactions),
		WithBudgets(seed.Budgets),
	)
}

// With returns a copy of s with the given collections replaced.
// Collections without an override are shared, which is safe because
// nothing ever writes to them.
func (s Snapshot) With(overrides ...Override) Snapshot {
	next := s
	for _, o := range overrides {
		o(&next)
	}
	return next
}

// WithAccounts replaces the accounts with a copy of accounts.
func WithAccounts(accounts []core.Account) Override {
	c := slices.Clone(accounts)
	return func(s *Snapshot) { s.accounts = c }
}

// WithCategories replaces the categories with a copy of categories.
func WithCategories(categories []core.Category) Override {
	c := slices.Clone(categories)
	return func(s *Snapshot) { s.categories = c }
}

// WithTransactions replaces the transactions with a copy of transactions.
func WithTransactions(transactions []core.Transaction) Override {
	c := slices.Clone(transactions)
	return func(s *Snapshot) { s.transactions = c }
}

// WithBudgets replaces the budgets with a copy of budgets.
func WithBudgets(budgets []core.Budget) Override {
	c := slices.Clone(budgets)
	return func(s *Snapshot) { s.budgets = c }
}

// WithAlerts replaces the alerts with a copy of alerts.
func WithAlerts(alerts []string) Override {
	c := slices.Clone(alerts)
	return func(s *Snapshot) { s.alerts = c }
}

// Accounts returns a copy of the accounts in seed order.
func (s Snapshot) Accounts() []core.Account { return slices.Clone(s.accounts) }

// Categories returns a copy of the categories.
func (s Snapshot) Categories() []core.Category { return slices.Clone(s.categories) }

// Transactions returns a copy of the transactions in commit order.
func (s Snapshot) Transactions() []core.Transaction { return slices.Clone(s.transactions) }

// Budgets returns a copy of the budgets.
func (s Snapshot) Budgets() []core.Budget { return slices.Clone(s.budgets) }

// Alerts returns a copy of the alerts, oldest first.
func (s Snapshot) Alerts() []string { return slices.Clone(s.alerts) }

// Account looks up an account by id.
func (s Snapshot) Account(id string) (core.Account, bool) {
	return find(s.accounts, func(a core.Account) bool { return a.ID == id })
}

// Category looks up a category by id.
func (s Snapshot) Category(id string) (core.Category, bool) {
	return find(s.categories, func(c core.Category) bool { return c.ID == id })
}

// Transaction looks up a transaction by id.
func (s Snapshot) Transaction(id string) (core.Transaction, bool) {
	return find(s.transactions, func(t core.Transaction) bool { return t.ID == id })
}

// Budget looks up a budget by id.
func (s Snapshot) Budget(id string) (core.Budget, bool) {
	return find(s.budgets, func(b core.Budget) bool { return b.ID == id })
}

// Equal reports whether both snapshots hold the same values in the same order.
func (s Snapshot) Equal(o Snapshot) bool {
	return slices.Equal(s.accounts, o.accounts) &&
		slices.Equal(s.categories, o.categories) &&
		slices.Equal(s.transactions, o.transactions) &&
		slices.Equal(s.budgets, o.budgets) &&
		slices.Equal(s.alerts, o.alerts)
}

// ForAccounts projects the snapshot onto the given accounts and their
// transactions. A nil slice means no restriction.
func (s Snapshot) ForAccounts(ids []string) Snapshot {
	if ids == nil {
		return s
	}
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	var accounts []core.Account
	for _, a := range s.accounts {
		if _, ok := allowed[a.ID]; ok {
			accounts = append(accounts, a)
		}
	}
	var transactions []core.Transaction
	for _, t := range s.transactions {
		if _, ok := allowed[t.AccountID]; ok {
			transactions = append(transactions, t)
		}
	}
	next := s
	next.accounts = accounts
	next.transactions = transactions
	return next
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}
