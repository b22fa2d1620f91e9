package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmanager/internal/core"
	"finmanager/internal/state"
)

func scenarioSnapshot() state.Snapshot {
	return state.New(core.Seed{
		Accounts:   []core.Account{{ID: "acc1", Name: "Main", Balance: 1000, Currency: "EUR"}},
		Categories: []core.Category{{ID: "food", Name: "Food", Type: core.Expense}},
		Budgets:    []core.Budget{{ID: "b-food", CategoryID: "food", Limit: 50, Period: "month"}},
	})
}

func TestTransactionAddedScenario(t *testing.T) {
	b := NewBus()
	Register(b)
	tx1 := core.Transaction{ID: "tx1", AccountID: "acc1", CategoryID: "food", Amount: -100, TS: "2025-01-05"}

	got := b.Publish(addedEvent(tx1), scenarioSnapshot())

	acc, ok := got.Account("acc1")
	require.True(t, ok)
	assert.Equal(t, int64(900), acc.Balance)
	assert.Contains(t, got.Transactions(), tx1)
	require.Len(t, got.Alerts(), 1)
	alert := got.Alerts()[0]
	assert.Equal(t, "Budget Alert: b-food exceeded! Limit 50, Spent 100", alert)
}

func TestCheckBudget_RepeatsAlerts(t *testing.T) {
	b := NewBus()
	Register(b)
	s := scenarioSnapshot()

	s = b.Publish(addedEvent(core.Transaction{ID: "t1", AccountID: "acc1", CategoryID: "food", Amount: -60}), s)
	s = b.Publish(addedEvent(core.Transaction{ID: "t2", AccountID: "acc1", CategoryID: "food", Amount: -5}), s)

	assert.Equal(t, []string{
		"Budget Alert: b-food exceeded! Limit 50, Spent 60",
		"Budget Alert: b-food exceeded! Limit 50, Spent 65",
	}, s.Alerts())
}

func TestCheckBudget_IgnoresIncomeAndOtherCategories(t *testing.T) {
	s := scenarioSnapshot()
	s = OnTransactionAdded(addedEvent(core.Transaction{ID: "t1", AccountID: "acc1", CategoryID: "food", Amount: 500}), s)
	s = OnTransactionAdded(addedEvent(core.Transaction{ID: "t2", AccountID: "acc1", CategoryID: "rent", Amount: -500}), s)

	got := CheckBudget(addedEvent(core.Transaction{ID: "t2", CategoryID: "rent"}), s)
	assert.Empty(t, got.Alerts())

	got = CheckBudget(addedEvent(core.Transaction{ID: "t1", CategoryID: "food"}), s)
	assert.Empty(t, got.Alerts())
}

func TestCheckBudget_MultipleBudgetsOnCategory(t *testing.T) {
	s := state.New(core.Seed{
		Budgets: []core.Budget{
			{ID: "weekly", CategoryID: "food", Limit: 10},
			{ID: "monthly", CategoryID: "food", Limit: 100},
			{ID: "rent", CategoryID: "rent", Limit: 0},
		},
		Transactions: []core.Transaction{{ID: "t1", CategoryID: "food", Amount: -40}},
	})

	got := CheckBudget(addedEvent(core.Transaction{ID: "t1", CategoryID: "food"}), s)

	assert.Equal(t, []string{"Budget Alert: weekly exceeded! Limit 10, Spent 40"}, got.Alerts())
	assert.Equal(t, s.Transactions(), got.Transactions())
	assert.Equal(t, s.Accounts(), got.Accounts())
}

func TestOnTransactionAdded_MatchesCreateTransaction(t *testing.T) {
	s := scenarioSnapshot()
	for _, tx := range []core.Transaction{
		{ID: "t1", AccountID: "acc1", CategoryID: "food", Amount: -15},
		{ID: "t2", AccountID: "ghost", CategoryID: "food", Amount: 99},
	} {
		viaHandler := OnTransactionAdded(addedEvent(tx), s)
		viaCommand := state.CreateTransaction(s, tx)
		assert.True(t, viaHandler.Equal(viaCommand), "handler and command disagree on %+v", tx)
	}
}

func TestOnBudgetLimitChanged(t *testing.T) {
	b := NewBus()
	Register(b)

	got := b.Publish(core.BudgetLimitChanged{BudgetID: "b-food", Limit: 500}, scenarioSnapshot())

	budget, ok := got.Budget("b-food")
	require.True(t, ok)
	assert.Equal(t, int64(500), budget.Limit)
}

func TestHandlers_IgnoreOtherEventKinds(t *testing.T) {
	s := scenarioSnapshot()
	other := core.BudgetLimitChanged{BudgetID: "b-food", Limit: 1}
	assert.True(t, OnTransactionAdded(other, s).Equal(s))
	assert.True(t, CheckBudget(other, s).Equal(s))
	assert.True(t, OnBudgetLimitChanged(addedEvent(core.Transaction{ID: "x"}), s).Equal(s))
}
