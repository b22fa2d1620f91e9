// Package memory loads a seed from a JSON file on disk, falling back to a
// small built-in demo ledger when the file is missing.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"finmanager/internal/core"
)

// SeedFile is the file name looked up inside the data directory.
const SeedFile = "seed.json"

type Store struct {
	path string
}

func NewFromFiles(base string) *Store {
	return &Store{path: filepath.Join(base, SeedFile)}
}

// Path returns the seed file the store reads.
func (s *Store) Path() string { return s.path }

// Load reads and validates the seed file. A missing file yields DemoSeed.
func (s *Store) Load(_ context.Context) (core.Seed, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DemoSeed(), nil
	}
	if err != nil {
		return core.Seed{}, fmt.Errorf("read seed %s: %w", s.path, err)
	}
	return Decode(data)
}

// ReadFile decodes and validates the seed stored at path.
func ReadFile(path string) (core.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a JSON seed document and validates it.
func Decode(data []byte) (core.Seed, error) {
	var seed core.Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return core.Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return core.Seed{}, err
	}
	return seed, nil
}

// DemoSeed is used when no seed file exists.
func DemoSeed() core.Seed {
	return core.Seed{
		Accounts: []core.Account{
			{ID: "acc1", Name: "Main card", Balance: 1000, Currency: "EUR"},
			{ID: "acc2", Name: "Savings", Balance: 5000, Currency: "EUR"},
			{ID: "acc3", Name: "Cash", Balance: 200, Currency: "EUR"},
		},
		Categories: []core.Category{
			{ID: "food", Name: "Food", Type: core.Expense},
			{ID: "groceries", Name: "Groceries", ParentID: "food", Type: core.Expense},
			{ID: "transport", Name: "Transport", Type: core.Expense},
			{ID: "salary", Name: "Salary", Type: core.Income},
		},
		Transactions: []core.Transaction{
			{ID: "t1", AccountID: "acc1", CategoryID: "groceries", Amount: -30, TS: "2025-01-03", Note: "market"},
			{ID: "t2", AccountID: "acc2", CategoryID: "salary", Amount: 2000, TS: "2025-01-01", Note: "january"},
			{ID: "t3", AccountID: "acc3", CategoryID: "transport", Amount: -15, TS: "2025-01-04", Note: "bus pass"},
		},
		Budgets: []core.Budget{
			{ID: "b-food", CategoryID: "groceries", Limit: 300, Period: "month"},
			{ID: "b-transport", CategoryID: "transport", Limit: 50, Period: "month"},
		},
	}
}
