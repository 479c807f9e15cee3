package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
	"ArticleEnhancer/internal/retry"
)

// DefaultTemperature applies when CompletionOptions leaves Temperature zero.
const DefaultTemperature = 0.7

// Provider retries a Backend with exponential backoff.
type Provider struct {
	backend   Backend
	policy    retry.Policy
	maxTokens int
	logger    *slog.Logger
}

var _ ports.CompletionProvider = (*Provider)(nil)

// NewProvider wraps backend. policy.MaxAttempts is the default retry budget.
func NewProvider(backend Backend, policy retry.Policy, maxTokens int, log *slog.Logger) *Provider {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Provider{
		backend:   backend,
		policy:    policy,
		maxTokens: maxTokens,
		logger:    logging.OrDiscard(log),
	}
}

// Complete returns the generated text. When every attempt fails it returns a
// *domain.GenerationError wrapping the last cause.
func (p *Provider) Complete(ctx context.Context, systemPrompt, userPrompt string, opts domain.CompletionOptions) (string, error) {
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	policy := p.policy.WithMaxAttempts(opts.MaxRetries)

	req := Request{
		System:      systemPrompt,
		User:        userPrompt,
		Temperature: temperature,
		MaxTokens:   p.maxTokens,
	}

	var (
		text     string
		attempts int
	)
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		attempts = attempt
		out, err := p.backend.Generate(ctx, req)
		if err == nil && strings.TrimSpace(out) == "" {
			err = ErrEmptyCompletion
		}
		if err != nil {
			p.logger.Warn("completion attempt failed", "backend", p.backend.Name(), "attempt", attempt, "error", err)
			return err
		}
		text = out
		return nil
	})
	if err == nil {
		return text, nil
	}

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return "", &domain.GenerationError{Attempts: exhausted.Attempts, Err: exhausted.Err}
	}
	return "", &domain.GenerationError{Attempts: attempts, Err: err}
}
