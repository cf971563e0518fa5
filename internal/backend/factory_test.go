package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/config"
	"loandash/internal/core"
	"loandash/internal/loans"
)

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{
		Type:     MemoryBackend,
		SeedFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.NoError(t, err)
	defer res.Close()

	require.NotNil(t, res.Store)
	require.NotNil(t, res.Writer)
	require.NotNil(t, res.Prefs)

	got, err := res.Store.List(context.Background(), "u1", loans.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)
	res, err := f.CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "loans.db"),
	})
	require.NoError(t, err)
	defer res.Close()
	require.NotNil(t, res.Ping)
	require.NoError(t, res.Ping(ctx))

	created, err := res.Writer.Create(ctx, core.LoanRecord{
		UserID:      "u1",
		LoanType:    "Home",
		LoanAmount:  decimal.NewFromInt(100000),
		EMIAmount:   decimal.NewFromInt(5000),
		PaymentDate: 10,
		Status:      core.StatusActive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := res.Store.List(ctx, "u1", loans.Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(nil)

	_, err := f.CreateBackend(context.Background(), Config{Type: "postgres"})
	assert.Error(t, err)

	_, err = f.CreateBackend(context.Background(), Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"})
	assert.ErrorContains(t, err, "credentials")
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "mongo"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:              "sheets",
		GoogleSpreadsheetID:      "sheet",
		GoogleServiceAccountJSON: `{"type":"service_account"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, SheetsBackend, cfg.Type)
	assert.Equal(t, `{"type":"service_account"}`, string(cfg.CredentialsJSON))
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"memory", "sqlite", "sheets"}, GetBackendTypeStrings())
}
