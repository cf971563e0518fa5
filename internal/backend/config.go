package backend

import (
	"fmt"

	"loandash/internal/config"
)

// FromAppConfig converts the application config to backend config. Sheets
// credentials are read here so the factory never touches the filesystem.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	cfg := Config{
		Type:                backendType,
		SeedFile:            appConfig.SeedFile,
		SQLiteDBPath:        appConfig.SQLiteDBPath,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleLoansSheet:    appConfig.GoogleLoansSheet,
		SheetsCacheTTL:      appConfig.SheetsCacheTTL,
	}

	if backendType == SheetsBackend {
		creds, err := appConfig.ServiceAccountJSON()
		if err != nil {
			return Config{}, err
		}
		cfg.CredentialsJSON = creds
	}

	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if len(c.CredentialsJSON) == 0 {
			return fmt.Errorf("service account credentials are required for sheets backend")
		}
	case MemoryBackend:
		// A missing seed file yields an empty store.
	}

	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := []BackendType{MemoryBackend, SQLiteBackend, SheetsBackend}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
