package google

import (
	"errors"
	"strings"
	"testing"

	"finmanager/internal/core"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"42", 42, false},
		{"-30", -30, false},
		{"12.0", 12, false},
		{"1 000", 1000, false},
		{"1_500", 1500, false},
		{"1e3", 1000, false},
		{"12.5", 0, true},
		{"abc", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := parseInteger(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseInteger(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseInteger(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if _, err := parseInteger("0.25"); !errors.Is(err, ErrFractionalAmount) {
		t.Fatalf("expected ErrFractionalAmount, got %v", err)
	}
}

func TestParseAccounts(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Name", "Balance", "Currency"},
		{"acc1", "Main", 1000.0, "eur"},
		{"", "", "", ""},
		{"acc2", "Savings", "5000", "EUR"},
	}
	got, err := parseAccounts(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	want := []core.Account{
		{ID: "acc1", Name: "Main", Balance: 1000, Currency: "EUR"},
		{ID: "acc2", Name: "Savings", Balance: 5000, Currency: "EUR"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d accounts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("account %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseAccounts_MissingHeader(t *testing.T) {
	_, err := parseAccounts([][]interface{}{{"id", "name", "currency"}})
	if err == nil || !strings.Contains(err.Error(), "missing balance") {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestParseCategoriesAndBudgets(t *testing.T) {
	cats, err := parseCategories([][]interface{}{
		{"id", "name", "parent_id", "type"},
		{"food", "Food", "", "Expense"},
		{"snacks", "Snacks", "food", "expense"},
	})
	if err != nil {
		t.Fatalf("parse categories: %v", err)
	}
	if !cats[0].IsRoot() || cats[1].ParentID != "food" || cats[0].Type != core.Expense {
		t.Fatalf("unexpected categories: %+v", cats)
	}

	budgets, err := parseBudgets([][]interface{}{
		{"id", "cat_id", "limit", "period"},
		{"b1", "food", 50.0, "month"},
	})
	if err != nil {
		t.Fatalf("parse budgets: %v", err)
	}
	if budgets[0] != (core.Budget{ID: "b1", CategoryID: "food", Limit: 50, Period: "month"}) {
		t.Fatalf("unexpected budget: %+v", budgets[0])
	}
}

func TestParseTransactions(t *testing.T) {
	values := [][]interface{}{
		{"id", "account_id", "cat_id", "amount", "ts", "note"},
		{"t1", "acc1", "food", -30.0, "2025-01-03", "market"},
		{"t2", "acc2", "salary", 2000.0, "2025-01-01"},
	}
	got, err := parseTransactions(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(got) != 2 || got[0].Amount != -30 || got[0].Note != "market" || got[1].Note != "" {
		t.Fatalf("unexpected transactions: %+v", got)
	}

	_, err = parseTransactions([][]interface{}{
		{"id", "account_id", "cat_id", "amount", "ts"},
		{"t1", "acc1", "food", 1.5, "2025-01-03"},
	})
	if err == nil || !strings.Contains(err.Error(), "row 2 column amount") {
		t.Fatalf("expected row error, got %v", err)
	}
}

func TestParseEmptyTab(t *testing.T) {
	got, err := parseBudgets(nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
}
