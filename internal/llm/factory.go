package llm

import (
	"cmp"
	"context"

	"github.com/ayushhealth/ayushbot/internal/store"
)

// NewProvider builds the configured provider as retry(logging(vendor)), so
// each attempt is logged on its own. A nil repo skips logging.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "mock":
		return NewMockProvider(), nil
	case "anthropic":
		p, err = newAnthropic(cfg.Anthropic)
	case "openai":
		p, err = newOpenAI("openai", cfg.OpenAI.APIKey, modelID(cfg.OpenAI.Model, openaiModels), cfg.OpenAI.BaseURL)
	case "openrouter":
		p, err = newOpenAI("openrouter", cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cmp.Or(cfg.OpenRouter.BaseURL, openRouterURL))
	case "gemini":
		p, err = newGemini(ctx, cfg.Gemini, "")
	}
	if err != nil {
		return nil, err
	}

	if repo != nil {
		p = WithLogging(p, cfg.Provider, repo)
	}
	return WithRetry(p, cfg.Retry), nil
}
