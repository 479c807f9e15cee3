package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
)

// IngestSummary counts the outcome of one ingestion run.
type IngestSummary struct {
	Saved   int
	Skipped int
	Failed  int
}

// Ingestor stores originals fetched from the source blog.
type Ingestor struct {
	source ports.OriginalSource
	store  ports.ArticleStore
	logger *slog.Logger
}

func NewIngestor(source ports.OriginalSource, store ports.ArticleStore, log *slog.Logger) *Ingestor {
	return &Ingestor{source: source, store: store, logger: logging.OrDiscard(log)}
}

// Run fetches originals and saves the ones not stored yet.
func (i *Ingestor) Run(ctx context.Context) (IngestSummary, error) {
	var summary IngestSummary

	articles, err := i.source.FetchOriginals(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch originals: %w", err)
	}

	for _, article := range articles {
		saved, err := i.store.Create(ctx, article)
		switch {
		case errors.Is(err, domain.ErrConflict):
			summary.Skipped++
			i.logger.Info("already stored", "source_url", article.SourceURL)
		case err != nil:
			summary.Failed++
			i.logger.Warn("save failed", "source_url", article.SourceURL, "error", err)
		default:
			summary.Saved++
			i.logger.Info("saved", "id", saved.ID, "title", saved.Title)
		}
	}

	return summary, nil
}
