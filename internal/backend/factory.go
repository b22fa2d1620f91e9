package backend

import (
	"context"
	"fmt"

	"finmanager/internal/cache"
	"finmanager/internal/log"
	gsheet "finmanager/internal/sheets/google"
	"finmanager/internal/sheets/memory"
	"finmanager/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentSeed),
	}
}

// CreateLoader implements Factory.CreateLoader
func (f *DefaultFactory) CreateLoader(ctx context.Context, config Config) (*LoaderResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteLoader(config)
	case SheetsBackend:
		return f.createSheetsLoader(ctx, config)
	case MemoryBackend:
		return f.createMemoryLoader(config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, config.Type)
	}
}

func (f *DefaultFactory) createSQLiteLoader(config Config) (*LoaderResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &LoaderResult{
		Loader:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsLoader(ctx context.Context, config Config) (*LoaderResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		CredentialsFile: config.GoogleServiceAccountFile,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CacheTTL:        config.SheetsCacheTTL,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	ttl := config.SheetsCacheTTL
	if ttl <= 0 {
		ttl = gsheet.DefaultCacheTTL
	}
	manager := cache.NewManager(f.logger)
	manager.Register(cli.Cache())
	manager.StartCleanup(ttl)

	f.logger.Info("Initialized Google Sheets backend", "cache_ttl", ttl)

	return &LoaderResult{
		Loader:  cli,
		Cleanup: func() error {
			manager.Stop()
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createMemoryLoader(config Config) (*LoaderResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "seed_file", store.Path())

	return &LoaderResult{Loader: store}, nil
}
