// Package translate renders extracted French fields into another language.
package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/actes-extractor/internal/common"
)

// Translator converts text from language src to dst. Implementations do not
// retry; a failure means the remote service was unavailable or refused.
type Translator interface {
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// Noop returns text unchanged.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

// New builds the translator selected by cfg.Provider.
func New(cfg common.TranslateConfig, logger *slog.Logger) (Translator, error) {
	switch cfg.Provider {
	case "", common.ProviderNone:
		return Noop{}, nil
	case common.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, logger), nil
	}
	return nil, fmt.Errorf("%w: unknown translation provider %q", common.ErrInvalidInput, cfg.Provider)
}
