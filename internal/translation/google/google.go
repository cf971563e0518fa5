// Package google adapts the Google Cloud Translation API (v2) to
// translation.Service.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goption "google.golang.org/api/option"
	gtranslate "google.golang.org/api/translate/v2"

	"loandash/internal/core"
	applog "loandash/internal/log"
	"loandash/internal/translation"
)

type Client struct {
	svc    *gtranslate.Service
	source string
}

var _ translation.Service = (*Client)(nil)

// New creates a client authenticated with an API key. Extra options (for
// example option.WithEndpoint in tests) are appended.
func New(ctx context.Context, apiKey string, opts ...goption.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing translation API key")
	}
	opts = append([]goption.ClientOption{goption.WithAPIKey(apiKey)}, opts...)

	svc, err := gtranslate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("translate service: %w", err)
	}

	return &Client{
		svc:    svc,
		source: core.BaseLanguage(core.DefaultLanguage),
	}, nil
}

// TranslateBatch implements translation.Service with a single request.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	target := core.BaseLanguage(targetLanguage)

	resp, err := c.svc.Translations.List(texts, target).
		Source(c.source).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("translations list: %w", err)
	}
	if len(resp.Translations) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d, got %d", translation.ErrLengthMismatch, len(texts), len(resp.Translations))
	}

	out := make([]string, len(texts))
	for i, tr := range resp.Translations {
		out[i] = tr.TranslatedText
	}

	slog.DebugContext(ctx, "Google translation request completed",
		applog.FieldComponent, applog.ComponentTranslation,
		applog.FieldLanguage, target,
		applog.FieldBatchSize, len(texts))
	return out, nil
}
