// Package search finds top-ranking reference articles for a query.
package search

import (
	"context"
	"errors"
	"log/slog"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
)

// DefaultLimit is the number of references the pipeline works with.
const DefaultLimit = 2

// Searcher is one search backend. Results are returned unfiltered.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.ReferenceCandidate, error)
}

// Provider tries the primary searcher and falls back to the secondary one when
// the primary is unconfigured, fails, or yields no article-like result.
type Provider struct {
	primary  Searcher
	fallback Searcher
	limit    int
	logger   *slog.Logger
}

var _ ports.ReferenceSearcher = (*Provider)(nil)

// NewProvider wires the two searchers. Non-positive limits use DefaultLimit.
func NewProvider(primary, fallback Searcher, limit int, log *slog.Logger) *Provider {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Provider{
		primary:  primary,
		fallback: fallback,
		limit:    limit,
		logger:   logging.OrDiscard(log),
	}
}

// Search never fails; an unreachable backend yields an empty slice.
func (p *Provider) Search(ctx context.Context, query string) []domain.ReferenceCandidate {
	p.logger.Info("searching references", "query", query)

	if p.primary != nil {
		results, err := p.primary.Search(ctx, query)
		accepted := p.accept(results)
		switch {
		case errors.Is(err, ErrNotConfigured):
			p.logger.Warn("primary search not configured, falling back", "provider", p.primary.Name())
		case err != nil:
			p.logger.Warn("primary search failed, falling back", "provider", p.primary.Name(), "error", err)
		case len(accepted) == 0:
			p.logger.Warn("primary search returned no article results, falling back", "provider", p.primary.Name(), "raw", len(results))
		default:
			p.logger.Info("references found", "provider", p.primary.Name(), "count", len(accepted))
			return accepted
		}
	}

	if p.fallback == nil {
		return []domain.ReferenceCandidate{}
	}

	results, err := p.fallback.Search(ctx, query)
	if err != nil {
		p.logger.Error("fallback search failed", "provider", p.fallback.Name(), "error", err)
		return []domain.ReferenceCandidate{}
	}

	accepted := p.accept(results)
	p.logger.Info("references found", "provider", p.fallback.Name(), "count", len(accepted))
	return accepted
}

// accept applies the article filter and keeps the first p.limit hits in order.
func (p *Provider) accept(results []domain.ReferenceCandidate) []domain.ReferenceCandidate {
	accepted := make([]domain.ReferenceCandidate, 0, p.limit)
	for _, r := range results {
		if !IsArticleURL(r.URL) {
			continue
		}
		accepted = append(accepted, r)
		if len(accepted) == p.limit {
			break
		}
	}
	return accepted
}
