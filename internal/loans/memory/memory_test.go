package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/core"
	"loandash/internal/loans"
)

func loan(user string, status core.LoanStatus) core.LoanRecord {
	return core.LoanRecord{
		UserID:      user,
		LoanType:    "Home",
		LoanAmount:  decimal.NewFromInt(100000),
		EMIAmount:   decimal.NewFromInt(5000),
		PaymentDate: 5,
		Status:      status,
	}
}

func TestStoreCreateAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Create(ctx, loan("u1", core.StatusActive))
	require.NoError(t, err)
	assert.Equal(t, "1", a.ID)
	_, err = s.Create(ctx, loan("u1", core.StatusCompleted))
	require.NoError(t, err)
	_, err = s.Create(ctx, loan("u2", core.StatusActive))
	require.NoError(t, err)

	all, err := s.List(ctx, "u1", loans.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.List(ctx, "u1", loans.Filter{Status: core.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "1", active[0].ID)

	none, err := s.List(ctx, "nobody", loans.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStoreCreateSkipsSeededIDs(t *testing.T) {
	seeded := loan("u1", core.StatusActive)
	seeded.ID = "5"
	named := loan("u1", core.StatusActive)
	named.ID = "legacy-a"
	s := New(seeded, named, loan("u1", core.StatusCompleted))
	ctx := context.Background()

	all, err := s.List(ctx, "u1", loans.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "6", all[2].ID)

	seen := map[string]bool{}
	for _, l := range all {
		seen[l.ID] = true
	}
	for i := 0; i < 6; i++ {
		created, err := s.Create(ctx, loan("u1", core.StatusActive))
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate loan ID %s", created.ID)
		seen[created.ID] = true
	}
}

func TestStoreCreateValidates(t *testing.T) {
	bad := loan("u1", core.StatusActive)
	bad.PaymentDate = 40
	_, err := New().Create(context.Background(), bad)
	assert.ErrorIs(t, err, core.ErrInvalidLoan)
}

func TestStoreLanguagePreference(t *testing.T) {
	s := New()
	ctx := context.Background()

	lang, err := s.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, s.SetLanguage(ctx, "u1", "hi-IN"))
	lang, err = s.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hi-IN", lang)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFromFile(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	got, _ := s.List(context.Background(), "u1", loans.Filter{})
	assert.Empty(t, got)

	path := filepath.Join(dir, "loans.json")
	seed := `[{"id":"h1","userId":"u1","loanType":"Home","loanPurpose":"Flat","loanAmount":"2500000","emiAmount":15000,"paymentDate":18,"status":"active"}]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	s, err = NewFromFile(path)
	require.NoError(t, err)
	got, _ = s.List(context.Background(), "u1", loans.Filter{})
	require.Len(t, got, 1)
	assert.Equal(t, "h1", got[0].ID)
	assert.Equal(t, "15000", got[0].EMIAmount.String())
}
