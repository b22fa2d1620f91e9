package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmanager/internal/core"
)

func testSeed() core.Seed {
	return core.Seed{
		Accounts: []core.Account{
			{ID: "acc1", Name: "Main", Balance: 1000, Currency: "EUR"},
			{ID: "acc2", Name: "Savings", Balance: 5000, Currency: "EUR"},
		},
		Categories: []core.Category{
			{ID: "food", Name: "Food", Type: core.Expense},
			{ID: "salary", Name: "Salary", Type: core.Income},
		},
		Transactions: []core.Transaction{
			{ID: "t1", AccountID: "acc1", CategoryID: "food", Amount: -30, TS: "2025-01-02", Note: "bread"},
			{ID: "t2", AccountID: "acc2", CategoryID: "salary", Amount: 2000, TS: "2025-01-03"},
		},
		Budgets: []core.Budget{{ID: "b1", CategoryID: "food", Limit: 50, Period: "month"}},
	}
}

func TestNew_CopiesSeed(t *testing.T) {
	seed := testSeed()
	s := New(seed)

	seed.Accounts[0].Balance = 1
	seed.Transactions[0].Amount = 1

	acc, ok := s.Account("acc1")
	require.True(t, ok)
	assert.Equal(t, int64(1000), acc.Balance)
	tx, ok := s.Transaction("t1")
	require.True(t, ok)
	assert.Equal(t, int64(-30), tx.Amount)
	assert.Empty(t, s.Alerts())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	s := New(testSeed())

	accounts := s.Accounts()
	accounts[0].Balance = 0
	txs := s.Transactions()
	txs[0] = core.Transaction{}

	acc, _ := s.Account("acc1")
	assert.Equal(t, int64(1000), acc.Balance)
	tx, _ := s.Transaction("t1")
	assert.Equal(t, "t1", tx.ID)
}

func TestWith_OverridesOnlyNamedFields(t *testing.T) {
	s := New(testSeed())
	alerts := []string{"one"}
	next := s.With(WithAlerts(alerts))

	alerts[0] = "changed"

	assert.Equal(t, []string{"one"}, next.Alerts())
	assert.Empty(t, s.Alerts())
	assert.Equal(t, s.Accounts(), next.Accounts())
	assert.Equal(t, s.Transactions(), next.Transactions())
	assert.Equal(t, s.Budgets(), next.Budgets())
	assert.Equal(t, s.Categories(), next.Categories())
}

func TestEqual(t *testing.T) {
	a := New(testSeed())
	b := New(testSeed())
	assert.True(t, a.Equal(b))
	assert.True(t, Snapshot{}.Equal(New(core.Seed{})))

	c := a.With(WithAlerts([]string{"x"}))
	assert.False(t, a.Equal(c))
}

func TestLookups_Missing(t *testing.T) {
	s := New(testSeed())
	_, ok := s.Account("nope")
	assert.False(t, ok)
	_, ok = s.Transaction("nope")
	assert.False(t, ok)
	_, ok = s.Budget("nope")
	assert.False(t, ok)
	_, ok = s.Category("nope")
	assert.False(t, ok)
}

func TestForAccounts(t *testing.T) {
	s := New(testSeed())

	t.Run("nil means unrestricted", func(t *testing.T) {
		assert.True(t, s.ForAccounts(nil).Equal(s))
	})

	t.Run("scoped to one account", func(t *testing.T) {
		view := s.ForAccounts([]string{"acc2"})
		require.Len(t, view.Accounts(), 1)
		assert.Equal(t, "acc2", view.Accounts()[0].ID)
		require.Len(t, view.Transactions(), 1)
		assert.Equal(t, "t2", view.Transactions()[0].ID)
		assert.Equal(t, s.Budgets(), view.Budgets())
		assert.Equal(t, s.Categories(), view.Categories())
	})

	t.Run("empty scope sees nothing", func(t *testing.T) {
		view := s.ForAccounts([]string{})
		assert.Empty(t, view.Accounts())
		assert.Empty(t, view.Transactions())
	})

	t.Run("source is untouched", func(t *testing.T) {
		_ = s.ForAccounts([]string{"acc1"})
		assert.Len(t, s.Accounts(), 2)
	})
}
