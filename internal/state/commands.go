package state

import (
	"finmanager/internal/core"
)

// CreateTransaction appends tx and moves its amount into the owning account.
// If the account does not exist the transaction is still appended and no
// balance changes; callers validate references beforehand.
func CreateTransaction(s Snapshot, tx core.Transaction) Snapshot {
	transactions := make([]core.Transaction, 0, len(s.transactions)+1)
	transactions = append(transactions, s.transactions...)
	transactions = append(transactions, tx)

	return s.With(
		WithTransactions(transactions),
		WithAccounts(adjustBalance(s.accounts, tx.AccountID, tx.Amount)),
	)
}

// UpdateTransaction replaces the fields set in patch on transaction id and
// moves the amount difference into the account the transaction belonged to
// before the patch. An unknown id leaves the snapshot unchanged.
func UpdateTransaction(s Snapshot, id string, patch core.TransactionPatch) Snapshot {
	orig, ok := s.Transaction(id)
	if !ok {
		return s
	}
	updated := patch.Apply(orig)
	delta := updated.Amount - orig.Amount

	transactions := make([]core.Transaction, len(s.transactions))
	for i, t := range s.transactions {
		if t.ID == id {
			t = updated
		}
		transactions[i] = t
	}

	return s.With(
		WithTransactions(transactions),
		WithAccounts(adjustBalance(s.accounts, orig.AccountID, delta)),
	)
}

// DeleteTransaction removes transaction id and reverses its effect on the
// account balance. An unknown id leaves the snapshot unchanged.
func DeleteTransaction(s Snapshot, id string) Snapshot {
	removed, ok := s.Transaction(id)
	if !ok {
		return s
	}

	transactions := make([]core.Transaction, 0, len(s.transactions)-1)
	for _, t := range s.transactions {
		if t.ID != id {
			transactions = append(transactions, t)
		}
	}

	return s.With(
		WithTransactions(transactions),
		WithAccounts(adjustBalance(s.accounts, removed.AccountID, -removed.Amount)),
	)
}

// UpdateAccountBalance overwrites one account's balance. The new balance is
// not reconciled against the transaction history.
func UpdateAccountBalance(s Snapshot, accountID string, balance int64) Snapshot {
	accounts := make([]core.Account, len(s.accounts))
	for i, a := range s.accounts {
		if a.ID == accountID {
			a.Balance = balance
		}
		accounts[i] = a
	}
	return s.With(WithAccounts(accounts))
}

// UpdateBudgetLimit replaces the limit of budget id. An unknown id leaves
// the snapshot unchanged.
func UpdateBudgetLimit(s Snapshot, budgetID string, limit int64) Snapshot {
	if _, ok := s.Budget(budgetID); !ok {
		return s
	}
	budgets := make([]core.Budget, len(s.budgets))
	for i, b := range s.budgets {
		if b.ID == budgetID {
			b.Limit = limit
		}
		budgets[i] = b
	}
	return s.With(WithBudgets(budgets))
}

func adjustBalance(accounts []core.Account, accountID string, delta int64) []core.Account {
	out := make([]core.Account, len(accounts))
	for i, a := range accounts {
		if a.ID == accountID {
			a.Balance += delta
		}
		out[i] = a
	}
	return out
}
