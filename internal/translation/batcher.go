package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"loandash/internal/core"
	applog "loandash/internal/log"
)

// Service is the external translation collaborator. TranslateBatch must
// return one translation per input, in input order; it may fail wholesale.
type Service interface {
	TranslateBatch(ctx context.Context, texts []string, targetLanguage string) ([]string, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, texts []string, targetLanguage string) ([]string, error)

func (f ServiceFunc) TranslateBatch(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	return f(ctx, texts, targetLanguage)
}

// ErrLengthMismatch is reported when a service answers with the wrong number
// of translations.
var ErrLengthMismatch = errors.New("translation count does not match request")

// Batcher translates lists of strings through a Cache, sending every miss of
// one call to the Service in a single request.
type Batcher struct {
	cache   *Cache
	service Service
}

// NewBatcher creates a Batcher. A nil service leaves every miss untranslated.
func NewBatcher(cache *Cache, service Service) *Batcher {
	if cache == nil {
		cache = NewCache(nil)
	}
	return &Batcher{cache: cache, service: service}
}

// Cache returns the backing cache.
func (b *Batcher) Cache() *Cache {
	return b.cache
}

// TranslateAll returns items translated into lang, same length and order.
//
// Duplicates are translated once and scattered back to every position.
// Blank strings and the default language pass through without a service
// call. Translation is best-effort: when the service fails, the affected
// strings come back as their source text and the failure is only logged.
func (b *Batcher) TranslateAll(ctx context.Context, items []string, lang string) []string {
	out := make([]string, len(items))
	copy(out, items)
	if len(items) == 0 || core.IsDefaultLanguage(lang) {
		return out
	}

	distinct := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		distinct = append(distinct, s)
	}

	resolved := make(map[string]string, len(distinct))
	var misses []string
	for _, s := range distinct {
		if v, ok := b.cache.Lookup(ctx, s, lang); ok {
			resolved[s] = v
			continue
		}
		misses = append(misses, s)
	}

	if len(misses) > 0 {
		b.resolveMisses(ctx, misses, lang, resolved)
	}

	for i, s := range items {
		if v, ok := resolved[s]; ok {
			out[i] = v
		}
	}
	return out
}

// resolveMisses claims every miss before calling the service. Keys this call
// claimed go out in one request; keys another caller already claimed are
// waited on, never sent twice.
func (b *Batcher) resolveMisses(ctx context.Context, misses []string, lang string, resolved map[string]string) {
	keys := make([]Key, len(misses))
	for i, s := range misses {
		keys[i] = newKey(s, lang)
	}
	held, owned, waits := b.cache.claim(keys)
	for key, v := range held {
		resolved[key.Text] = v
	}

	var failed error
	if len(owned) > 0 {
		texts := make([]string, len(owned))
		for i, key := range owned {
			texts[i] = key.Text
		}
		answers, err := b.callService(ctx, texts, lang)
		for _, key := range owned {
			if err != nil {
				b.cache.finish(ctx, key, "", err)
				resolved[key.Text] = key.Text
				continue
			}
			b.cache.finish(ctx, key, answers[key.Text], nil)
			resolved[key.Text] = answers[key.Text]
		}
		failed = err
	}

	for key, f := range waits {
		v, err := f.wait(ctx)
		if err != nil {
			if failed == nil {
				failed = err
			}
			resolved[key.Text] = key.Text
			continue
		}
		resolved[key.Text] = v
	}

	if failed != nil {
		slog.WarnContext(ctx, "Translation degraded to source text",
			applog.FieldComponent, applog.ComponentTranslation,
			applog.FieldLanguage, lang,
			applog.FieldBatchSize, len(misses),
			applog.FieldError, failed)
	}
}

func (b *Batcher) callService(ctx context.Context, texts []string, lang string) (map[string]string, error) {
	if b.service == nil {
		return nil, errors.New("no translation service configured")
	}

	got, err := b.service.TranslateBatch(ctx, texts, lang)
	if err != nil {
		return nil, fmt.Errorf("translate batch: %w", err)
	}
	if len(got) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrLengthMismatch, len(texts), len(got))
	}

	answers := make(map[string]string, len(texts))
	for i, text := range texts {
		answers[text] = got[i]
	}

	slog.DebugContext(ctx, "Translated batch",
		applog.FieldComponent, applog.ComponentTranslation,
		applog.FieldLanguage, lang,
		applog.FieldBatchSize, len(texts))
	return answers, nil
}
