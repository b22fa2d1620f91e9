package report

import (
	"strings"

	"finmanager/internal/core"
)

// Filter selects transactions.
type Filter func(core.Transaction) bool

// ByCategory matches transactions booked on categoryID.
func ByCategory(categoryID string) Filter {
	return func(t core.Transaction) bool { return t.CategoryID == categoryID }
}

// ByDateRange matches start <= ts <= end, compared as strings. An empty
// bound is open.
func ByDateRange(start, end string) Filter {
	return func(t core.Transaction) bool {
		if start != "" && t.TS < start {
			return false
		}
		if end != "" && t.TS > end {
			return false
		}
		return true
	}
}

// ByAmountRange matches min <= |amount| <= max.
func ByAmountRange(min, max int64) Filter {
	return func(t core.Transaction) bool {
		a := abs(t.Amount)
		return min <= a && a <= max
	}
}

// Select returns the transactions matching every filter, in input order.
func Select(txs []core.Transaction, filters ...Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
next:
	for _, t := range txs {
		for _, f := range filters {
			if !f(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

// MonthTotal is the expense total of one month prefix such as "2025-01".
type MonthTotal struct {
	Month string
	Spent int64
}

// ExpensesByMonth sums expenses whose ts starts with each of months,
// preserving the order of months.
func ExpensesByMonth(txs []core.Transaction, months []string) []MonthTotal {
	totals := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		mt := MonthTotal{Month: m}
		for _, t := range txs {
			if strings.HasPrefix(t.TS, m) {
				mt.Spent += t.Spend()
			}
		}
		totals = append(totals, mt)
	}
	return totals
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
