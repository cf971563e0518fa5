package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/core"
	"loandash/internal/loans"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "loans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryCreateAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	home, err := repo.Create(ctx, core.LoanRecord{
		UserID:      "u1",
		LoanType:    "Home",
		LoanPurpose: "Flat",
		LoanAmount:  decimal.NewFromInt(2500000),
		EMIAmount:   decimal.RequireFromString("15000.50"),
		PaymentDate: 18,
		Status:      core.StatusActive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, home.ID)

	_, err = repo.Create(ctx, core.LoanRecord{
		UserID:      "u1",
		LoanType:    "Bike",
		LoanAmount:  decimal.NewFromInt(90000),
		EMIAmount:   decimal.NewFromInt(3000),
		PaymentDate: 2,
		Status:      core.StatusCompleted,
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, "u1", loans.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, home.ID, all[0].ID)
	assert.Equal(t, "Flat", all[0].LoanPurpose)
	assert.True(t, all[0].EMIAmount.Equal(decimal.RequireFromString("15000.5")))

	active, err := repo.List(ctx, "u1", loans.Filter{Status: core.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Home", active[0].LoanType)

	other, err := repo.List(ctx, "u2", loans.Filter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRepositoryCoercesBadAmounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx, `
INSERT INTO loans (user_id, loan_type, loan_amount, emi_amount, payment_date, loan_status)
VALUES ('u1', 'Legacy', 'unknown', NULL, 10, 'active')`)
	require.NoError(t, err)

	got, err := repo.List(ctx, "u1", loans.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].LoanAmount.IsZero())
	assert.True(t, got[0].EMIAmount.IsZero())
}

func TestRepositoryRejectsInvalidLoan(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Create(context.Background(), core.LoanRecord{UserID: "u1", LoanType: "Home", PaymentDate: 3, Status: core.StatusActive})
	assert.ErrorIs(t, err, core.ErrInvalidLoan)
}

func TestRepositoryLanguagePreference(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	lang, err := repo.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, repo.SetLanguage(ctx, "u1", "hi-IN"))
	require.NoError(t, repo.SetLanguage(ctx, "u1", "ta-IN"))

	lang, err = repo.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ta-IN", lang)
}
