package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

type (
	CategoryType string

	Account struct {
		ID       string `json:"id" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Balance  int64  `json:"balance"`
		Currency string `json:"currency" validate:"required,len=3"`
	}

	Category struct {
		ID       string       `json:"id" validate:"required"`
		Name     string       `json:"name" validate:"required"`
		ParentID string       `json:"parent_id,omitempty"` // empty for a root category
		Type     CategoryType `json:"type" validate:"category_type"`
	}

	// Transaction amounts are signed: positive is income, negative is expense.
	Transaction struct {
		ID         string `json:"id" validate:"required"`
		AccountID  string `json:"account_id" validate:"required"`
		CategoryID string `json:"cat_id" validate:"required"`
		Amount     int64  `json:"amount"`
		TS         string `json:"ts" validate:"required"`
		Note       string `json:"note"`
	}

	Budget struct {
		ID         string `json:"id" validate:"required"`
		CategoryID string `json:"cat_id" validate:"required"`
		Limit      int64  `json:"limit" validate:"gte=0"`
		Period     string `json:"period"`
	}

	// TransactionPatch carries the fields to replace on an existing
	// transaction. Nil fields keep their current value. The owning account
	// cannot be changed through a patch.
	TransactionPatch struct {
		CategoryID *string
		Amount     *int64
		TS         *string
		Note       *string
	}
)

var (
	ErrEmptyID             = errors.New("empty id")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrNegativeLimit       = errors.New("budget limit must not be negative")
	ErrEmptyTimestamp      = errors.New("empty timestamp")
)

func (t CategoryType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == ""
}

// IsExpense reports whether the transaction moves money out of its account.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Spend returns the absolute amount of an expense, or 0 for income.
func (t Transaction) Spend() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return 0
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction: %w", ErrEmptyID)
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return fmt.Errorf("transaction %s: account: %w", t.ID, ErrEmptyID)
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return fmt.Errorf("transaction %s: category: %w", t.ID, ErrEmptyID)
	}
	if strings.TrimSpace(t.TS) == "" {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrEmptyTimestamp)
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("budget: %w", ErrEmptyID)
	}
	if b.Limit < 0 {
		return fmt.Errorf("budget %s: %w", b.ID, ErrNegativeLimit)
	}
	return nil
}

// Apply returns t with the patch's non-nil fields replacing the existing ones.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.TS != nil {
		t.TS = *p.TS
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	return t
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.Amount == nil && p.TS == nil && p.Note == nil
}
