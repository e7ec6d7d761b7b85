package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/pixelgift/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → logging → SDK. events may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	model := cfg.ModelOrDefault()
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.APIKey, model)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, events, log)
	return WithRetry(logged, cfg.Retry, cfg.Timeout), nil
}
