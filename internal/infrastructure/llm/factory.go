package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ArticleEnhancer/internal/config"
)

// NewBackend selects the backend named by cfg.Provider. referer is the
// frontend origin reported to OpenRouter.
func NewBackend(ctx context.Context, cfg config.LLMConfig, referer string) (Backend, error) {
	active, err := cfg.Active()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Timeout}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIClient(active, client), nil
	case "openrouter":
		return NewOpenRouterClient(active, referer, client), nil
	case "anthropic":
		return NewAnthropicClient(active, client), nil
	case "gemini":
		gemini, err := NewGeminiClient(ctx, active, client)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
