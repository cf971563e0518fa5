package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour, Now: clock.Now})
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestLimiterAllowsUpToLimitPerWindow(t *testing.T) {
	rl, clock := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "other clients are independent")

	clock.t = clock.t.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "new window")
	assert.Equal(t, int64(1), rl.GetMetrics().Rejected)
}

func TestLimiterRejectedRequestsDoNotExtendWindow(t *testing.T) {
	rl, clock := newTestLimiter(t, 1)

	assert.True(t, rl.Allow("a"))
	clock.t = clock.t.Add(50 * time.Second)
	assert.False(t, rl.Allow("a"))
	clock.t = clock.t.Add(10 * time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestLimiterCleanExpired(t *testing.T) {
	rl, clock := newTestLimiter(t, 5)
	rl.Allow("a")
	rl.Allow("b")

	assert.Equal(t, 0, rl.CleanExpired())
	clock.t = clock.t.Add(2 * time.Minute)
	assert.Equal(t, 2, rl.CleanExpired())
	assert.Equal(t, 0, rl.ActiveClients())
}

func TestMiddlewareSetsRetryAfter(t *testing.T) {
	rl, clock := newTestLimiter(t, 1)
	h := rl.Middleware(func(r *http.Request) string { return r.RemoteAddr }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	req := httptest.NewRequest(http.MethodPut, "/api/language", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	clock.t = clock.t.Add(20 * time.Second)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "40", rec.Header().Get("Retry-After"))
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
