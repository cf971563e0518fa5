// Package worker pre-translates dashboard content in the background so the
// first language switch after a loan change is served from cache.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"loandash/internal/amqp"
	"loandash/internal/core"
	"loandash/internal/dashboard"
	"loandash/internal/loans"
	applog "loandash/internal/log"
)

// WarmWorker fills the translation cache for a fixed set of languages.
type WarmWorker struct {
	store      loans.Store
	translator dashboard.Translator
	languages  []string
}

// NewWarmWorker creates a worker. The default language is dropped from
// languages since it never needs translating.
func NewWarmWorker(store loans.Store, translator dashboard.Translator, languages []string) *WarmWorker {
	langs := make([]string, 0, len(languages))
	seen := make(map[string]bool, len(languages))
	for _, l := range languages {
		l = core.NormalizeLanguage(l)
		if l == "" || core.IsDefaultLanguage(l) || seen[l] {
			continue
		}
		seen[l] = true
		langs = append(langs, l)
	}
	return &WarmWorker{store: store, translator: translator, languages: langs}
}

// Languages returns the languages the worker warms.
func (w *WarmWorker) Languages() []string {
	return append([]string(nil), w.languages...)
}

// HandleLoanChanged warms the changed user's loan strings and the label
// catalogue. Store failures are returned so the message is redelivered;
// translation failures are already degraded and logged by the translator.
func (w *WarmWorker) HandleLoanChanged(ctx context.Context, msg *amqp.LoanChangedMessage) error {
	if msg.UserID == "" {
		return fmt.Errorf("loan changed message without user: %w", amqp.ErrDiscard)
	}

	slog.InfoContext(ctx, "Warming translations after loan change",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldUserID, msg.UserID,
		applog.FieldLoanID, msg.LoanID)

	list, err := w.store.List(ctx, msg.UserID, loans.Filter{})
	if err != nil {
		return fmt.Errorf("list loans for %s: %w", msg.UserID, err)
	}

	items := dashboard.LabelSources()
	for _, l := range list {
		items = append(items, l.LoanType, l.LoanPurpose)
	}
	w.warm(ctx, items)

	slog.InfoContext(ctx, "Translations warmed",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldUserID, msg.UserID,
		applog.FieldLoanCount, len(list),
		"languages", len(w.languages))
	return nil
}

// StartupWarm translates the label catalogue for every language so a
// fresh cache does not delay the first dashboard.
func (w *WarmWorker) StartupWarm(ctx context.Context) {
	w.warm(ctx, dashboard.LabelSources())
	slog.InfoContext(ctx, "Label catalogue warmed",
		applog.FieldComponent, applog.ComponentWorker,
		"languages", len(w.languages))
}

func (w *WarmWorker) warm(ctx context.Context, items []string) {
	for _, lang := range w.languages {
		if ctx.Err() != nil {
			return
		}
		w.translator.TranslateAll(ctx, items, lang)
	}
}
