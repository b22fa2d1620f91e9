package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"finmanager/internal/config"
	"finmanager/internal/core"
	"finmanager/internal/log"
	"finmanager/internal/services"
	"finmanager/internal/sheets/memory"
	"finmanager/internal/storage"
)

var errUsage = errors.New("invalid usage")

type command func(ctx context.Context, ledger *services.Ledger, args []string, out io.Writer) error

var commands = map[string]command{
	"summary":     cmdSummary,
	"list":        cmdList,
	"months":      cmdMonths,
	"add":         withSummary(cmdAdd),
	"update":      withSummary(cmdUpdate),
	"delete":      withSummary(cmdDelete),
	"set-balance": withSummary(cmdSetBalance),
	"set-limit":   withSummary(cmdSetLimit),
}

// execute runs one command against ledger.
func execute(ctx context.Context, ledger *services.Ledger, name string, args []string, out io.Writer) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	return cmd(ctx, ledger, args, out)
}

// withSummary prints the full summary after a successful write.
func withSummary(run func(ctx context.Context, ledger *services.Ledger, args []string) error) command {
	return func(ctx context.Context, ledger *services.Ledger, args []string, out io.Writer) error {
		if err := run(ctx, ledger, args); err != nil {
			return err
		}
		return printSummary(out, ledger.Current())
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: -%s is required", errUsage, name)
	}
	return nil
}

func cmdAdd(ctx context.Context, ledger *services.Ledger, args []string) error {
	fs := newFlagSet("add")
	id := fs.String("id", "", "transaction id (generated when empty)")
	account := fs.String("account", "", "account id")
	category := fs.String("category", "", "category id")
	amount := fs.String("amount", "", "signed amount, negative for expenses")
	note := fs.String("note", "", "free text")
	ts := fs.String("ts", time.Now().Format(time.DateOnly), "transaction date")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	for name, v := range map[string]string{"account": *account, "category": *category, "amount": *amount} {
		if err := required(name, v); err != nil {
			return err
		}
	}

	value, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	if *id == "" {
		*id = uuid.NewString()
	}

	_, err = ledger.AddTransaction(ctx, core.Transaction{
		ID:         *id,
		AccountID:  *account,
		CategoryID: *category,
		Amount:     value,
		TS:         *ts,
		Note:       *note,
	})
	return err
}

func cmdUpdate(ctx context.Context, ledger *services.Ledger, args []string) error {
	fs := newFlagSet("update")
	id := fs.String("id", "", "transaction id")
	account := fs.String("account", "", "account id (must match the current one)")
	category := fs.String("category", "", "new category id")
	amount := fs.String("amount", "", "new signed amount")
	note := fs.String("note", "", "new note")
	ts := fs.String("ts", "", "new date")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var patch core.TransactionPatch
	if set["category"] {
		patch.CategoryID = category
	}
	if set["amount"] {
		v, err := core.ParseAmount(*amount)
		if err != nil {
			return fmt.Errorf("amount %q: %w", *amount, err)
		}
		patch.Amount = &v
	}
	if set["note"] {
		patch.Note = note
	}
	if set["ts"] {
		patch.TS = ts
	}

	if set["account"] {
		current, ok := ledger.Current().Transaction(*id)
		if !ok {
			return fmt.Errorf("%w: %s", services.ErrTransactionNotFound, *id)
		}
		next := patch.Apply(current)
		next.AccountID = *account
		return ledger.ReplaceTransaction(ctx, next)
	}
	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", errUsage)
	}
	return ledger.UpdateTransaction(ctx, *id, patch)
}

func cmdDelete(ctx context.Context, ledger *services.Ledger, args []string) error {
	fs := newFlagSet("delete")
	id := fs.String("id", "", "transaction id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}
	return ledger.DeleteTransaction(ctx, *id)
}

func cmdSetBalance(ctx context.Context, ledger *services.Ledger, args []string) error {
	fs := newFlagSet("set-balance")
	account := fs.String("account", "", "account id")
	balance := fs.String("balance", "", "new balance")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("account", *account); err != nil {
		return err
	}
	if err := required("balance", *balance); err != nil {
		return err
	}
	v, err := core.ParseAmount(*balance)
	if err != nil {
		return fmt.Errorf("balance %q: %w", *balance, err)
	}
	return ledger.SetAccountBalance(ctx, *account, v)
}

func cmdSetLimit(ctx context.Context, ledger *services.Ledger, args []string) error {
	fs := newFlagSet("set-limit")
	budget := fs.String("budget", "", "budget id")
	limit := fs.String("limit", "", "new limit")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("budget", *budget); err != nil {
		return err
	}
	if err := required("limit", *limit); err != nil {
		return err
	}
	v, err := core.ParseAmount(*limit)
	if err != nil {
		return fmt.Errorf("limit %q: %w", *limit, err)
	}
	_, err = ledger.SetBudgetLimit(ctx, *budget, v)
	return err
}

// runImport copies a JSON seed file into the SQLite database.
func runImport(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string, out io.Writer) error {
	fs := newFlagSet("import")
	from := fs.String("from", "", "path to a seed.json file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required("from", *from); err != nil {
		return err
	}

	seed, err := memory.ReadFile(*from)
	if err != nil {
		return err
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.ImportSeed(ctx, seed); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "imported %d accounts, %d categories, %d transactions, %d budgets into %s\n",
		len(seed.Accounts), len(seed.Categories), len(seed.Transactions), len(seed.Budgets), cfg.SQLiteDBPath)
	return err
}
