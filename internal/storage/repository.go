package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"finmanager/internal/core"
	"finmanager/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores a seed ledger. Rows keep their insertion order.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements backend.Loader.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Seed, error) {
	return r.LoadSeed(ctx)
}

// LoadSeed reads all four tables and validates the result.
func (r *SQLiteRepository) LoadSeed(ctx context.Context) (core.Seed, error) {
	var (
		seed core.Seed
		err  error
	)
	if seed.Accounts, err = r.listAccounts(ctx); err != nil {
		return core.Seed{}, err
	}
	if seed.Categories, err = r.listCategories(ctx); err != nil {
		return core.Seed{}, err
	}
	if seed.Transactions, err = r.listTransactions(ctx); err != nil {
		return core.Seed{}, err
	}
	if seed.Budgets, err = r.listBudgets(ctx); err != nil {
		return core.Seed{}, err
	}
	if err := seed.Validate(); err != nil {
		return core.Seed{}, err
	}

	r.logger.DebugContext(ctx, "Loaded seed from SQLite",
		log.FieldOperation, log.OpLoad,
		"accounts", len(seed.Accounts),
		"transactions", len(seed.Transactions))
	return seed, nil
}

// ImportSeed replaces the stored ledger with seed in a single transaction.
func (r *SQLiteRepository) ImportSeed(ctx context.Context, seed core.Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"accounts", "categories", "transactions", "budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, a := range seed.Accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, balance, currency) VALUES (?, ?, ?, ?)`,
			a.ID, a.Name, a.Balance, a.Currency); err != nil {
			return fmt.Errorf("insert account %s: %w", a.ID, err)
		}
	}
	for _, c := range seed.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, parent_id, type) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, nullString(c.ParentID), string(c.Type)); err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	for _, t := range seed.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, account_id, cat_id, amount, ts, note) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.AccountID, t.CategoryID, t.Amount, t.TS, t.Note); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	for _, b := range seed.Budgets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (id, cat_id, "limit", period) VALUES (?, ?, ?, ?)`,
			b.ID, b.CategoryID, b.Limit, b.Period); err != nil {
			return fmt.Errorf("insert budget %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	r.logger.InfoContext(ctx, "Imported seed into SQLite",
		log.FieldOperation, log.OpImport,
		"accounts", len(seed.Accounts),
		"categories", len(seed.Categories),
		"transactions", len(seed.Transactions),
		"budgets", len(seed.Budgets))
	return nil
}

func (r *SQLiteRepository) listAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, balance, currency FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Balance, &a.Currency); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) listCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, parent_id, type FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c        core.Category
			parentID sql.NullString
			typ      string
		)
		if err := rows.Scan(&c.ID, &c.Name, &parentID, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ParentID = parentID.String
		c.Type = core.CategoryType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) listTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, account_id, cat_id, amount, ts, note FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.CategoryID, &t.Amount, &t.TS, &t.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) listBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, cat_id, "limit", period FROM budgets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Limit, &b.Period); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
