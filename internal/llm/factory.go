package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/store"
)

// NewProvider builds the provider selected by cfg, wrapped so that each
// call is retried on transient failures and every attempt is recorded in
// eventRepo. It returns ErrDisabled when cfg selects no provider.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	var (
		base Provider
		err  error
	)
	model := cfg.ModelOrDefault()
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, ErrDisabled
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.APIKey, model)
	case ProviderMock:
		base = NewOfflineProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller -> timeout -> retry -> logging -> base, so each attempt is its own event.
	var p Provider = base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo, log)
	}
	return WithTimeout(WithRetry(p, cfg.Retry, log), cfg.Timeout), nil
}
