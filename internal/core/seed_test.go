package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSeed() Seed {
	return Seed{
		Accounts: []Account{{ID: "acc1", Name: "Main", Balance: 1000, Currency: "EUR"}},
		Categories: []Category{
			{ID: "food", Name: "Food", Type: Expense},
			{ID: "groceries", Name: "Groceries", ParentID: "food", Type: Expense},
		},
		Transactions: []Transaction{{ID: "t1", AccountID: "acc1", CategoryID: "groceries", Amount: -20, TS: "2025-01-02"}},
		Budgets:      []Budget{{ID: "b1", CategoryID: "groceries", Limit: 200, Period: "month"}},
	}
}

func TestSeedValidate(t *testing.T) {
	require.NoError(t, validSeed().Validate())
	require.NoError(t, Seed{}.Validate())
}

func TestSeedValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Seed)
		want   string
	}{
		{"missing account name", func(s *Seed) { s.Accounts[0].Name = "" }, "accounts[0].name"},
		{"bad currency", func(s *Seed) { s.Accounts[0].Currency = "EURO" }, "currency"},
		{"bad category type", func(s *Seed) { s.Categories[1].Type = "other" }, "category_type"},
		{"missing transaction ts", func(s *Seed) { s.Transactions[0].TS = "" }, "transactions[0].ts"},
		{"negative limit", func(s *Seed) { s.Budgets[0].Limit = -5 }, "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSeed()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestSeedValidate_DuplicateIDs(t *testing.T) {
	s := validSeed()
	s.Transactions = append(s.Transactions, s.Transactions[0])
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Contains(t, err.Error(), `transaction "t1"`)
}
