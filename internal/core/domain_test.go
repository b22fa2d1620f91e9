package core

import (
	"errors"
	"testing"
	"time"
)

func TestCategoryTypeIsValid(t *testing.T) {
	cases := []struct {
		in CategoryType
		ok bool
	}{
		{Income, true},
		{Expense, true},
		{"", false},
		{"transfer", false},
	}
	for i, tc := range cases {
		if got := tc.in.IsValid(); got != tc.ok {
			t.Fatalf("case %d: IsValid(%q) = %v, want %v", i, tc.in, got, tc.ok)
		}
	}
}

func TestTransactionSpend(t *testing.T) {
	if got := (Transaction{Amount: -120}).Spend(); got != 120 {
		t.Fatalf("expense spend: got %d", got)
	}
	if got := (Transaction{Amount: 300}).Spend(); got != 0 {
		t.Fatalf("income spend: got %d", got)
	}
	if !(Transaction{Amount: -1}).IsExpense() || (Transaction{Amount: 0}).IsExpense() {
		t.Fatalf("unexpected IsExpense result")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: "t1", AccountID: "acc1", CategoryID: "c1", Amount: -10, TS: "2025-01-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{AccountID: "acc1", CategoryID: "c1", TS: "2025-01-01"},
		{ID: "t1", CategoryID: "c1", TS: "2025-01-01"},
		{ID: "t1", AccountID: "acc1", TS: "2025-01-01"},
		{ID: "t1", AccountID: "acc1", CategoryID: "c1"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{ID: "b1", Limit: 0}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{ID: "b1", Limit: -1}).Validate(); !errors.Is(err, ErrNegativeLimit) {
		t.Fatalf("expected ErrNegativeLimit, got %v", err)
	}
}

func TestTransactionPatchApply(t *testing.T) {
	orig := Transaction{ID: "t1", AccountID: "acc1", CategoryID: "c1", Amount: -10, TS: "2025-01-01", Note: "coffee"}

	if got := (TransactionPatch{}).Apply(orig); got != orig {
		t.Fatalf("empty patch changed transaction: %+v", got)
	}

	amount := int64(-25)
	note := "lunch"
	got := TransactionPatch{Amount: &amount, Note: &note}.Apply(orig)
	want := orig
	want.Amount = -25
	want.Note = "lunch"
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNewEventMeta(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	a := NewEventMeta(now)
	b := NewEventMeta(now)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.TS != "2025-03-04T05:06:07Z" {
		t.Fatalf("unexpected ts %q", a.TS)
	}
	evt := TransactionAdded{EventMeta: a}
	if evt.Channel() != ChannelTransactionAdded || evt.Meta() != a {
		t.Fatalf("unexpected event routing: %+v", evt)
	}
}
