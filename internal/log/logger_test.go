package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}
	return out
}

func TestLoggerAddsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf}).WithComponent(ComponentDashboard)

	logger.Info("committed", FieldLanguage, "hi-IN")
	logger.Warn("override", FieldComponent, ComponentCache)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, ComponentDashboard, recs[0][FieldComponent])
	assert.Equal(t, "hi-IN", recs[0][FieldLanguage])
	assert.Equal(t, ComponentCache, recs[1][FieldComponent])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestMiddlewareStoresLogger(t *testing.T) {
	logger := New(DefaultConfig()).WithComponent(ComponentHTTP)

	var got *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.Equal(t, ComponentHTTP, got.Component())
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestStructuredLoggerLoanCreated(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: FormatJSON, Output: &buf}))

	sl.LogLoanCreated(context.Background(), "user_1", "42", "Home")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, ComponentLoans, recs[0][FieldComponent])
	assert.Equal(t, "42", recs[0][FieldLoanID])
	assert.Equal(t, OpCreate, recs[0][FieldOperation])
}
