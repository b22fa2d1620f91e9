// Package google reads a ledger seed from a Google spreadsheet with one tab
// per collection.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finmanager/internal/cache"
	"finmanager/internal/core"
	"finmanager/internal/log"
)

// Tab names, each holding a header row followed by data rows.
const (
	AccountsSheet     = "Accounts"
	CategoriesSheet   = "Categories"
	TransactionsSheet = "Transactions"
	BudgetsSheet      = "Budgets"
)

const (
	// DefaultCacheTTL applies when Config.CacheTTL is zero.
	DefaultCacheTTL  = 5 * time.Minute
	defaultCacheSize = 16
)

// rangeReader fetches the raw cell values of an A1 range.
type rangeReader interface {
	ReadRange(ctx context.Context, rng string) ([][]interface{}, error)
}

// Config selects the spreadsheet and credentials. CredentialsJSON wins over
// CredentialsFile when both are set.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
	CacheTTL        time.Duration
}

type Client struct {
	reader        rangeReader
	spreadsheetID string
	cache         *cache.LRUCache[[][]interface{}]
	logger        *log.Logger
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(&serviceReader{svc: svc, spreadsheetID: cfg.SpreadsheetID}, cfg, logger), nil
}

func newClient(reader rangeReader, cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		reader:        reader,
		spreadsheetID: cfg.SpreadsheetID,
		cache:         cache.NewLRUCache[[][]interface{}](defaultCacheSize, ttl),
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

type serviceReader struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func (r *serviceReader) ReadRange(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Load reads the four tabs concurrently and returns the validated seed.
func (c *Client) Load(ctx context.Context) (core.Seed, error) {
	start := time.Now()
	var accounts, categories, transactions, budgets [][]interface{}

	g, gctx := errgroup.WithContext(ctx)
	for _, tab := range []struct {
		name string
		dst  *[][]interface{}
	}{
		{AccountsSheet, &accounts},
		{CategoriesSheet, &categories},
		{TransactionsSheet, &transactions},
		{BudgetsSheet, &budgets},
	} {
		g.Go(func() error {
			values, err := c.readTab(gctx, tab.name)
			if err != nil {
				return err
			}
			*tab.dst = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.Seed{}, err
	}

	var (
		seed core.Seed
		err  error
	)
	if seed.Accounts, err = parseAccounts(accounts); err != nil {
		return core.Seed{}, fmt.Errorf("%s: %w", AccountsSheet, err)
	}
	if seed.Categories, err = parseCategories(categories); err != nil {
		return core.Seed{}, fmt.Errorf("%s: %w", CategoriesSheet, err)
	}
	if seed.Transactions, err = parseTransactions(transactions); err != nil {
		return core.Seed{}, fmt.Errorf("%s: %w", TransactionsSheet, err)
	}
	if seed.Budgets, err = parseBudgets(budgets); err != nil {
		return core.Seed{}, fmt.Errorf("%s: %w", BudgetsSheet, err)
	}
	if err := seed.Validate(); err != nil {
		return core.Seed{}, err
	}

	stats := c.cache.Stats()
	c.logger.InfoContext(ctx, "Loaded seed from spreadsheet",
		log.FieldOperation, log.OpLoad,
		"accounts", len(seed.Accounts),
		"transactions", len(seed.Transactions),
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses,
		log.FieldDuration, time.Since(start).Milliseconds())
	return seed, nil
}

func (c *Client) readTab(ctx context.Context, tab string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!A:F", tab)
	key := c.spreadsheetID + "/" + rng
	if values, ok := c.cache.Get(key); ok {
		return values, nil
	}

	values, err := c.reader.ReadRange(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	c.cache.Set(key, values)
	c.logger.DebugContext(ctx, "Fetched sheet range", "range", rng, "rows", len(values))
	return values, nil
}

// Invalidate drops cached ranges so the next Load hits the API.
func (c *Client) Invalidate() {
	c.cache.Purge()
}

// CacheStats exposes the range cache counters.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// Cache returns the range cache so it can be registered with a cache.Manager.
func (c *Client) Cache() cache.Cleaner {
	return c.cache
}
