package backend

import (
	"context"
	"errors"
	"time"

	"finmanager/internal/core"
)

var ErrUnknownBackend = errors.New("unknown backend")

// Loader produces the initial ledger for a session.
type Loader interface {
	Load(ctx context.Context) (core.Seed, error)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// LoaderResult contains the loader instance and optional cleanup function
type LoaderResult struct {
	Loader  Loader
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *LoaderResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates seed loaders based on configuration
type Factory interface {
	CreateLoader(ctx context.Context, config Config) (*LoaderResult, error)
}

// Config holds configuration for loader creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
	SheetsCacheTTL           time.Duration

	// Memory backend specific
	DataDirectory string
}

// Type represents the kind of seed source
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
