package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"loandash/internal/core"
	"loandash/internal/loans"
)

var sheetValues = [][]interface{}{
	{"id", "userId", "loanType", "loanPurpose", "loanAmount", "emiAmount", "paymentDate", "status"},
	{"1", "u1", "Home", "House", "5,00,000", "15000", "18", "active"},
	{"2", "u1", "Auto", "Car", 200000, 8000, 13, "Active"},
	{"3", "u2", "Personal", "Travel", "50000", "5000", "16", "completed"},
	{"", "u1", "Ghost", "", "1", "1", "1", "active"},
}

func TestParseLoans(t *testing.T) {
	got, err := parseLoans(sheetValues)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Home", got[0].LoanType)
	assert.True(t, decimal.NewFromInt(500000).Equal(got[0].LoanAmount))
	assert.Equal(t, 18, got[0].PaymentDate)
	assert.Equal(t, core.StatusActive, got[1].Status)
	assert.True(t, decimal.NewFromInt(8000).Equal(got[1].EMIAmount))
	assert.Equal(t, "u2", got[2].UserID)
}

func TestParseLoans_MissingHeader(t *testing.T) {
	_, err := parseLoans([][]interface{}{{"ID", "UserID", "LoanType"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LoanAmount")
}

func TestParseLoans_Empty(t *testing.T) {
	got, err := parseLoans(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func newTestClient(t *testing.T) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.Contains(r.URL.Path, "/values/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":  "Loans!A1:H5",
			"values": sheetValues,
		})
	}))
	t.Cleanup(srv.Close)

	c, err := New(context.Background(),
		Config{SpreadsheetID: "sheet-id"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c, &hits
}

func TestClientListFiltersAndCaches(t *testing.T) {
	c, hits := newTestClient(t)
	ctx := context.Background()

	got, err := c.List(ctx, "u1", loans.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)

	active, err := c.List(ctx, "u1", loans.Filter{Status: core.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	assert.Equal(t, int32(1), hits.Load())

	other, err := c.List(ctx, "u2", loans.Filter{Status: core.StatusActive})
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClientCreateIsReadOnly(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create(context.Background(), core.LoanRecord{})
	assert.True(t, errors.Is(err, loans.ErrReadOnly))
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestNewRejectsBadCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "x", CredentialsJSON: []byte("not-json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}
