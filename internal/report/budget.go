// Package report computes read-only aggregates over transactions.
package report

import (
	"finmanager/internal/core"
)

const (
	StatusOK   = "OK"
	StatusOver = "OVER"
)

// BudgetLine is the status of one budget against the recorded spend.
type BudgetLine struct {
	BudgetID   string
	CategoryID string
	Limit      int64
	Spent      int64
	Status     string
}

// Over reports whether spend exceeds the limit.
func (l BudgetLine) Over() bool {
	return l.Spent > l.Limit
}

// CategorySummary aggregates the expenses of one category.
type CategorySummary struct {
	CategoryID   string
	TotalExpense int64
	Count        int
}

// Spent sums the absolute value of every expense booked on categoryID.
// Subcategories are not included.
func Spent(categoryID string, txs []core.Transaction) int64 {
	var total int64
	for _, t := range txs {
		if t.CategoryID == categoryID {
			total += t.Spend()
		}
	}
	return total
}

// BudgetStatus evaluates every budget against txs, preserving budget order.
func BudgetStatus(budgets []core.Budget, txs []core.Transaction) []BudgetLine {
	lines := make([]BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		line := BudgetLine{
			BudgetID:   b.ID,
			CategoryID: b.CategoryID,
			Limit:      b.Limit,
			Spent:      Spent(b.CategoryID, txs),
			Status:     StatusOK,
		}
		if line.Over() {
			line.Status = StatusOver
		}
		lines = append(lines, line)
	}
	return lines
}

// ForCategory counts and sums the expenses of one category.
func ForCategory(categoryID string, txs []core.Transaction) CategorySummary {
	sum := CategorySummary{CategoryID: categoryID}
	for _, t := range txs {
		if t.CategoryID == categoryID && t.IsExpense() {
			sum.TotalExpense += t.Spend()
			sum.Count++
		}
	}
	return sum
}

// AccountBalance sums every transaction amount booked on accountID. It does
// not include the account's opening balance.
func AccountBalance(txs []core.Transaction, accountID string) int64 {
	var total int64
	for _, t := range txs {
		if t.AccountID == accountID {
			total += t.Amount
		}
	}
	return total
}
