package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "test-key",
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestTranslateBatch(t *testing.T) {
	var gotQ []string
	var gotTarget string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotQ = r.Form["q"]
		gotTarget = r.Form.Get("target")

		resp := map[string]any{"data": map[string]any{"translations": []map[string]string{
			{"translatedText": "घर"},
			{"translatedText": "ऑटो"},
		}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	out, err := c.TranslateBatch(context.Background(), []string{"Home", "Auto"}, "hi-IN")
	require.NoError(t, err)
	assert.Equal(t, []string{"घर", "ऑटो"}, out)
	assert.Equal(t, []string{"Home", "Auto"}, gotQ)
	assert.Equal(t, "hi", gotTarget)
}

func TestTranslateBatchLengthMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"घर"}]}}`))
	})

	_, err := c.TranslateBatch(context.Background(), []string{"Home", "Auto"}, "hi-IN")
	require.Error(t, err)
}

func TestTranslateBatchServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	_, err := c.TranslateBatch(context.Background(), []string{"Home"}, "hi-IN")
	require.Error(t, err)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), "")
	require.Error(t, err)
}
