package ports

import (
	"context"
	"time"

	"ArticleEnhancer/internal/domain"
)

// ArticleStore is the document store holding originals and enhanced articles.
type ArticleStore interface {
	Get(ctx context.Context, id string) (domain.Article, error)
	FindByParent(ctx context.Context, parentID string) (*domain.Article, error)
	Create(ctx context.Context, article domain.Article) (domain.Article, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	Update(ctx context.Context, id string, update domain.ArticleUpdate) (domain.Article, error)
	Delete(ctx context.Context, id string) (domain.Article, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// ReferenceSearcher finds candidate reference pages for an article title.
// It never fails: an unreachable provider yields an empty result.
type ReferenceSearcher interface {
	Search(ctx context.Context, query string) []domain.ReferenceCandidate
}

// ReferenceFetcher downloads and structures one reference page; nil signals failure.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, url string) *domain.ScrapedReference
}

// CompletionProvider generates text from a system instruction and a user prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts domain.CompletionOptions) (string, error)
}

// Enhancer triggers the enhancement of one original article.
type Enhancer interface {
	Enhance(ctx context.Context, articleID string) (domain.EnhancementResult, error)
}

// OriginalSource crawls the source site for original articles.
type OriginalSource interface {
	FetchOriginals(ctx context.Context) ([]domain.Article, error)
}

// Notifier streams batch summaries to Telegram or other channels.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Scheduler controls when batch runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
