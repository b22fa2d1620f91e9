package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finmanager/internal/core"
)

var dated = []core.Transaction{
	{ID: "t1", AccountID: "a1", CategoryID: "food", Amount: -50, TS: "2025-01-03"},
	{ID: "t2", AccountID: "a1", CategoryID: "rent", Amount: -700, TS: "2025-01-31"},
	{ID: "t3", AccountID: "a2", CategoryID: "salary", Amount: 2000, TS: "2025-02-01"},
	{ID: "t4", AccountID: "a2", CategoryID: "food", Amount: -20, TS: "2025-02-14"},
}

func ids(txs []core.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"no filters", nil, []string{"t1", "t2", "t3", "t4"}},
		{"category", []Filter{ByCategory("food")}, []string{"t1", "t4"}},
		{"unknown category", []Filter{ByCategory("travel")}, []string{}},
		{"date range inclusive", []Filter{ByDateRange("2025-01-03", "2025-02-01")}, []string{"t1", "t2", "t3"}},
		{"open start", []Filter{ByDateRange("", "2025-01-31")}, []string{"t1", "t2"}},
		{"open end", []Filter{ByDateRange("2025-02-01", "")}, []string{"t3", "t4"}},
		{"amount range on absolute value", []Filter{ByAmountRange(20, 700)}, []string{"t1", "t2", "t4"}},
		{"income counts by magnitude", []Filter{ByAmountRange(1000, 5000)}, []string{"t3"}},
		{"combined", []Filter{ByCategory("food"), ByDateRange("2025-02-01", "2025-02-28")}, []string{"t4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Select(dated, tt.filters...)))
		})
	}
}

func TestExpensesByMonth(t *testing.T) {
	got := ExpensesByMonth(dated, []string{"2025-02", "2025-01", "2024-12"})

	assert.Equal(t, []MonthTotal{
		{Month: "2025-02", Spent: 20},
		{Month: "2025-01", Spent: 750},
		{Month: "2024-12", Spent: 0},
	}, got)
	assert.Empty(t, ExpensesByMonth(dated, nil))
}
