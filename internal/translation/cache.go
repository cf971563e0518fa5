// Package translation provides cached, batched translation of display text.
//
// Cache memoizes (text, language) pairs and guarantees that at most one
// computation per pair is in flight. Batcher groups the strings of one
// rendering pass into a single call to an external Service.
package translation

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"loandash/internal/core"
	applog "loandash/internal/log"
)

// Key identifies a cache entry. Language is normalized before use.
type Key struct {
	Language string
	Text     string
}

func newKey(text, lang string) Key {
	return Key{Language: core.NormalizeLanguage(lang), Text: text}
}

func (k Key) flightKey() string {
	return k.Language + "\x00" + k.Text
}

// Store is an optional second-level cache shared across processes.
type Store interface {
	Load(ctx context.Context, key Key) (string, bool, error)
	Save(ctx context.Context, key Key, value string) error
}

// ComputeFunc produces a translation for a cache miss.
type ComputeFunc func(ctx context.Context) (string, error)

// flight is one outstanding computation. done is closed once value and err
// are set.
type flight struct {
	done  chan struct{}
	value string
	err   error
}

func (f *flight) wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Cache holds translations for the lifetime of the process. Entries never
// expire; they are keyed per language so switching languages cannot return
// another language's text.
//
// Every key has at most one outstanding computation. A caller claims the
// misses it will compute; anyone else asking for a claimed key waits for
// that claim to finish.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]string
	pending map[Key]*flight
	loads   singleflight.Group
	store   Store
}

// NewCache creates a cache. store may be nil.
func NewCache(store Store) *Cache {
	return &Cache{
		entries: make(map[Key]string),
		pending: make(map[Key]*flight),
		store:   store,
	}
}

// Get returns a translation already held in memory.
func (c *Cache) Get(text, lang string) (string, bool) {
	return c.get(newKey(text, lang))
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Lookup checks memory and then the second-level store, promoting store hits
// into memory. Store failures are logged and reported as misses.
func (c *Cache) Lookup(ctx context.Context, text, lang string) (string, bool) {
	return c.lookup(ctx, newKey(text, lang))
}

// Resolve returns the cached translation for text, computing it with compute
// on a miss. Concurrent callers for the same key share one computation and
// receive the same result. Errors are returned to every waiter and are not
// cached, so a later call retries.
func (c *Cache) Resolve(ctx context.Context, text, lang string, compute ComputeFunc) (string, error) {
	key := newKey(text, lang)
	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}

	held, _, waits := c.claim([]Key{key})
	if v, ok := held[key]; ok {
		return v, nil
	}
	if f, ok := waits[key]; ok {
		return f.wait(ctx)
	}
	v, err := compute(ctx)
	c.finish(ctx, key, v, err)
	if err != nil {
		return "", err
	}
	return v, nil
}

// claim splits keys into values already in memory, keys the caller now owns
// and must finish, and flights owned by another caller.
func (c *Cache) claim(keys []Key) (held map[Key]string, owned []Key, waits map[Key]*flight) {
	held = make(map[Key]string)
	waits = make(map[Key]*flight)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if _, ok := held[key]; ok {
			continue
		}
		if _, ok := waits[key]; ok {
			continue
		}
		if v, ok := c.entries[key]; ok {
			held[key] = v
			continue
		}
		if f, ok := c.pending[key]; ok {
			waits[key] = f
			continue
		}
		c.pending[key] = &flight{done: make(chan struct{})}
		owned = append(owned, key)
	}
	return held, owned, waits
}

// finish completes a claimed key, releasing its waiters. Successful values
// are recorded in memory and in the store.
func (c *Cache) finish(ctx context.Context, key Key, value string, err error) {
	c.mu.Lock()
	f := c.pending[key]
	delete(c.pending, key)
	if err == nil {
		c.entries[key] = value
	}
	c.mu.Unlock()

	if f != nil {
		f.value, f.err = value, err
		close(f.done)
	}
	if err != nil || c.store == nil {
		return
	}
	if err := c.store.Save(ctx, key, value); err != nil {
		slog.WarnContext(ctx, "Translation store write failed",
			applog.FieldComponent, applog.ComponentCache,
			applog.FieldLanguage, key.Language,
			applog.FieldError, err)
	}
}

func (c *Cache) get(key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// lookup checks memory, then the store. Concurrent store reads of one key
// share a single request.
func (c *Cache) lookup(ctx context.Context, key Key) (string, bool) {
	if v, ok := c.get(key); ok {
		return v, true
	}
	if c.store == nil {
		return "", false
	}

	res, err, _ := c.loads.Do(key.flightKey(), func() (any, error) {
		v, ok, err := c.store.Load(ctx, key)
		if err != nil || !ok {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Translation store lookup failed",
			applog.FieldComponent, applog.ComponentCache,
			applog.FieldLanguage, key.Language,
			applog.FieldError, err)
		return "", false
	}
	v, ok := res.(string)
	if !ok {
		return "", false
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, true
}
