package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"text/tabwriter"

	"finmanager/internal/core"
	"finmanager/internal/report"
	"finmanager/internal/services"
	"finmanager/internal/state"
)

// splitList parses a comma separated flag value. An empty value yields nil.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func cmdSummary(_ context.Context, ledger *services.Ledger, args []string, out io.Writer) error {
	fs := newFlagSet("summary")
	accounts := fs.String("accounts", "", "comma separated account ids to restrict the view to")
	category := fs.String("category", "", "also report the expenses of this category")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	view := ledger.View(splitList(*accounts))
	if err := printSummary(out, view); err != nil {
		return err
	}
	if *category == "" {
		return nil
	}
	if _, ok := view.Category(*category); !ok {
		return fmt.Errorf("%w: %s", services.ErrCategoryNotFound, *category)
	}
	sum := report.ForCategory(*category, view.Transactions())
	_, err := fmt.Fprintf(out, "\nCATEGORY %s: %d expenses, total %d\n", categoryPath(view, sum.CategoryID), sum.Count, sum.TotalExpense)
	return err
}

func cmdList(_ context.Context, ledger *services.Ledger, args []string, out io.Writer) error {
	fs := newFlagSet("list")
	accounts := fs.String("accounts", "", "comma separated account ids")
	category := fs.String("category", "", "category id")
	from := fs.String("from", "", "first date, inclusive")
	to := fs.String("to", "", "last date, inclusive")
	minAmount := fs.String("min", "", "minimum absolute amount")
	maxAmount := fs.String("max", "", "maximum absolute amount")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var filters []report.Filter
	if *category != "" {
		filters = append(filters, report.ByCategory(*category))
	}
	if *from != "" || *to != "" {
		filters = append(filters, report.ByDateRange(*from, *to))
	}
	if *minAmount != "" || *maxAmount != "" {
		lo, hi := int64(0), int64(math.MaxInt64)
		var err error
		if *minAmount != "" {
			if lo, err = core.ParseAmount(*minAmount); err != nil {
				return fmt.Errorf("min %q: %w", *minAmount, err)
			}
		}
		if *maxAmount != "" {
			if hi, err = core.ParseAmount(*maxAmount); err != nil {
				return fmt.Errorf("max %q: %w", *maxAmount, err)
			}
		}
		filters = append(filters, report.ByAmountRange(lo, hi))
	}

	view := ledger.View(splitList(*accounts))
	txs := report.Select(view.Transactions(), filters...)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tACCOUNT\tCATEGORY\tAMOUNT\tNOTE")
	for _, t := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", t.ID, t.TS, t.AccountID, categoryPath(view, t.CategoryID), t.Amount, t.Note)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d transactions\n", len(txs), len(view.Transactions()))
	return err
}

func cmdMonths(_ context.Context, ledger *services.Ledger, args []string, out io.Writer) error {
	fs := newFlagSet("months")
	months := fs.String("months", "", "comma separated month prefixes, e.g. 2025-01,2025-02")
	accounts := fs.String("accounts", "", "comma separated account ids")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	list := splitList(*months)
	if len(list) == 0 {
		return fmt.Errorf("%w: -months is required", errUsage)
	}

	view := ledger.View(splitList(*accounts))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tSPENT")
	for _, mt := range report.ExpensesByMonth(view.Transactions(), list) {
		fmt.Fprintf(w, "%s\t%d\n", mt.Month, mt.Spent)
	}
	return w.Flush()
}

// categoryPath renders a category with its ancestors, e.g. "food/groceries".
// Unknown ids are printed as is.
func categoryPath(s state.Snapshot, id string) string {
	var parts []string
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		c, ok := s.Category(id)
		if !ok {
			parts = append(parts, id)
			break
		}
		parts = append(parts, c.ID)
		if c.IsRoot() {
			break
		}
		id = c.ParentID
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// printSummary writes accounts, budget status and alerts. BOOKED is the sum
// of the account's transactions; it differs from the balance by the opening
// balance and any administrative overwrite.
func printSummary(out io.Writer, s state.Snapshot) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	txs := s.Transactions()

	fmt.Fprintln(w, "ACCOUNT\tNAME\tBALANCE\tBOOKED")
	for _, a := range s.Accounts() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name,
			core.FormatAmount(a.Balance, a.Currency),
			core.FormatAmount(report.AccountBalance(txs, a.ID), a.Currency))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "BUDGET\tCATEGORY\tSPENT/LIMIT\tSTATUS")
	for _, line := range report.BudgetStatus(s.Budgets(), txs) {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", line.BudgetID, categoryPath(s, line.CategoryID), line.Spent, line.Limit, line.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	alerts := s.Alerts()
	if len(alerts) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "ALERTS")
	for _, a := range alerts {
		fmt.Fprintf(out, "  %s\n", a)
	}
	return nil
}
