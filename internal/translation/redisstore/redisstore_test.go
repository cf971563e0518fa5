package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/translation"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, ttl), mr
}

func TestStoreSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()
	key := translation.Key{Language: "hi-IN", Text: "Monthly EMI"}

	_, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, key, "मासिक ईएमआई"))

	v, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "मासिक ईएमआई", v)

	_, ok, err = store.Load(ctx, translation.Key{Language: "ta-IN", Text: "Monthly EMI"})
	require.NoError(t, err)
	assert.False(t, ok, "entries are per language")
}

func TestStoreTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()
	key := translation.Key{Language: "hi-IN", Text: "Overview"}

	require.NoError(t, store.Save(ctx, key, "अवलोकन"))
	mr.FastForward(2 * time.Hour)

	_, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreBacksCacheAcrossInstances(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	calls := 0
	svc := translation.ServiceFunc(func(_ context.Context, texts []string, _ string) ([]string, error) {
		calls++
		out := make([]string, len(texts))
		for i, s := range texts {
			out[i] = "hi:" + s
		}
		return out, nil
	})

	first := translation.NewBatcher(translation.NewCache(store), svc)
	assert.Equal(t, []string{"hi:Home"}, first.TranslateAll(ctx, []string{"Home"}, "hi-IN"))

	// A fresh in-memory cache, as in another process, is served from Redis.
	second := translation.NewBatcher(translation.NewCache(store), svc)
	assert.Equal(t, []string{"hi:Home"}, second.TranslateAll(ctx, []string{"Home"}, "hi-IN"))
	assert.Equal(t, 1, calls)
}

func TestStoreErrorsSurface(t *testing.T) {
	store, mr := newTestStore(t, 0)
	mr.Close()

	_, _, err := store.Load(context.Background(), translation.Key{Language: "hi-IN", Text: "x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))
}
