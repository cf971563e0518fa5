package backend

import (
	"context"
	"time"

	"loandash/internal/cache"
	"loandash/internal/loans"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// Result bundles the ports one backend provides. Writer is nil for
// read-only backends; Ping is nil when there is nothing to probe.
type Result struct {
	Store    loans.Store
	Writer   loans.Writer
	Prefs    loans.PreferenceStore
	Cleaners []cache.Cleaner
	Ping     func(ctx context.Context) error
	Cleanup  CleanupFunc
}

// Close runs Cleanup if the backend has one
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Memory
	SeedFile string

	// SQLite
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleLoansSheet    string
	CredentialsJSON     []byte
	SheetsCacheTTL      time.Duration
}

// BackendType names a loan store implementation
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is known
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
