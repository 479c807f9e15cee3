package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
	"ArticleEnhancer/internal/retry"
)

// BatchDeps wires the batch driver.
type BatchDeps struct {
	Store    ports.ArticleStore
	Enhancer ports.Enhancer
	Notifier ports.Notifier
	Logger   *slog.Logger
	// Limit caps how many originals one run considers.
	Limit int
	// ArticleDelay separates successive enhancements.
	ArticleDelay time.Duration
	Sleep        retry.SleepFunc
}

// BatchFailure records why one article could not be enhanced.
type BatchFailure struct {
	ArticleID string
	Title     string
	Kind      string
	Message   string
}

// BatchSummary is the outcome of one batch run.
type BatchSummary struct {
	Enhanced int
	Skipped  int
	Failed   int
	Failures []BatchFailure
}

// Total is the number of originals considered.
func (s BatchSummary) Total() int {
	return s.Enhanced + s.Skipped + s.Failed
}

// Message renders the summary for notifications.
func (s BatchSummary) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Enhancement summary\nEnhanced: %d\nSkipped: %d\nFailed: %d\nTotal: %d\n", s.Enhanced, s.Skipped, s.Failed, s.Total())
	for _, f := range s.Failures {
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Title, f.Kind, f.Message)
	}
	return b.String()
}

// Batch enhances pending originals one after another.
type Batch struct {
	store        ports.ArticleStore
	enhancer     ports.Enhancer
	notifier     ports.Notifier
	logger       *slog.Logger
	limit        int
	articleDelay time.Duration
	sleep        retry.SleepFunc
}

// NewBatch constructs the batch driver.
func NewBatch(deps BatchDeps) *Batch {
	limit := deps.Limit
	if limit <= 0 {
		limit = 100
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = retry.Wait
	}
	return &Batch{
		store:        deps.Store,
		enhancer:     deps.Enhancer,
		notifier:     deps.Notifier,
		logger:       logging.OrDiscard(deps.Logger),
		limit:        limit,
		articleDelay: deps.ArticleDelay,
		sleep:        sleep,
	}
}

// ProcessPending enhances every listed original. Per-article failures are
// counted, not returned; the error is non-nil only when listing fails or ctx
// ends the run early.
func (b *Batch) ProcessPending(ctx context.Context) (BatchSummary, error) {
	var summary BatchSummary

	originals, _, err := b.store.List(ctx, domain.ArticleFilter{VersionType: domain.VersionOriginal, Limit: b.limit, Page: 1})
	if err != nil {
		return summary, fmt.Errorf("list originals: %w", err)
	}
	b.logger.Info("batch started", "originals", len(originals))

	pace := false
	for _, article := range originals {
		if pace && b.articleDelay > 0 {
			if err := b.sleep(ctx, b.articleDelay); err != nil {
				return summary, err
			}
		}

		res, err := b.enhancer.Enhance(ctx, article.ID)
		switch {
		case err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, BatchFailure{
				ArticleID: article.ID,
				Title:     article.Title,
				Kind:      domain.Kind(err),
				Message:   err.Error(),
			})
			b.logger.Warn("enhancement failed", "article_id", article.ID, "kind", domain.Kind(err), "error", err)
		case res.AlreadyExisted:
			summary.Skipped++
			b.logger.Debug("already enhanced", "article_id", article.ID)
		default:
			summary.Enhanced++
			b.logger.Info("enhanced", "article_id", article.ID, "enhanced_id", res.Article.ID)
		}
		pace = err != nil || !res.AlreadyExisted

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}

	b.logger.Info("batch finished", "enhanced", summary.Enhanced, "skipped", summary.Skipped, "failed", summary.Failed)

	if b.notifier != nil && summary.Total() > 0 {
		if err := b.notifier.Notify(ctx, summary.Message()); err != nil {
			b.logger.Warn("notify summary failed", "error", err)
		}
	}

	return summary, nil
}
