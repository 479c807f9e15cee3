package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/extract"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
	"ArticleEnhancer/internal/retry"
)

const (
	// RequiredReferences is the number of search candidates an enhancement needs.
	RequiredReferences = 2

	enhancedSuffix     = "-enhanced"
	enhanceTemperature = 0.7
	enhanceMaxRetries  = 3
)

// EnhancerDeps wires the driven adapters used by the orchestrator.
type EnhancerDeps struct {
	Store      ports.ArticleStore
	Searcher   ports.ReferenceSearcher
	Fetcher    ports.ReferenceFetcher
	Completion ports.CompletionProvider
	Logger     *slog.Logger
	// FetchDelay separates successive reference fetches.
	FetchDelay time.Duration
	// Sleep defaults to retry.Wait.
	Sleep retry.SleepFunc
}

// EnhancementService rewrites original articles using top-ranking references.
type EnhancementService struct {
	store      ports.ArticleStore
	searcher   ports.ReferenceSearcher
	fetcher    ports.ReferenceFetcher
	completion ports.CompletionProvider
	logger     *slog.Logger
	fetchDelay time.Duration
	sleep      retry.SleepFunc

	inflight singleflight.Group
}

var _ ports.Enhancer = (*EnhancementService)(nil)

// NewEnhancementService constructs the orchestrator.
func NewEnhancementService(deps EnhancerDeps) *EnhancementService {
	sleep := deps.Sleep
	if sleep == nil {
		sleep = retry.Wait
	}
	return &EnhancementService{
		store:      deps.Store,
		searcher:   deps.Searcher,
		fetcher:    deps.Fetcher,
		completion: deps.Completion,
		logger:     logging.OrDiscard(deps.Logger),
		fetchDelay: deps.FetchDelay,
		sleep:      sleep,
	}
}

// Enhance produces the enhanced version of the original article id. An
// existing enhanced version is returned with AlreadyExisted set. Concurrent
// calls for the same id within this process share one run. A started run is
// detached from the caller's cancellation and bounded only by the per-call
// timeouts of its collaborators.
func (s *EnhancementService) Enhance(ctx context.Context, articleID string) (domain.EnhancementResult, error) {
	v, err, shared := s.inflight.Do(articleID, func() (interface{}, error) {
		return s.enhance(context.WithoutCancel(ctx), articleID)
	})
	if err != nil {
		return domain.EnhancementResult{}, err
	}
	if shared {
		s.logger.Debug("joined in-flight enhancement", "article_id", articleID)
	}
	return v.(domain.EnhancementResult), nil
}

func (s *EnhancementService) enhance(ctx context.Context, articleID string) (domain.EnhancementResult, error) {
	log := s.logger.With("article_id", articleID)

	article, err := s.store.Get(ctx, articleID)
	if err != nil {
		return domain.EnhancementResult{}, err
	}
	if !article.IsOriginal() {
		return domain.EnhancementResult{}, fmt.Errorf("article %s is %s: %w", articleID, article.VersionType, domain.ErrInvalidState)
	}

	existing, err := s.store.FindByParent(ctx, articleID)
	if err != nil {
		return domain.EnhancementResult{}, fmt.Errorf("check existing enhancement: %w", err)
	}
	if existing != nil {
		log.Info("enhanced version already exists", "enhanced_id", existing.ID)
		return domain.EnhancementResult{Article: *existing, AlreadyExisted: true}, nil
	}

	candidates := s.searcher.Search(ctx, article.Title)
	if len(candidates) < RequiredReferences {
		return domain.EnhancementResult{}, &domain.InsufficientReferencesError{Found: len(candidates), Required: RequiredReferences}
	}
	log.Info("references found", "count", len(candidates))

	refs, scraped, err := s.fetchReferences(ctx, candidates[:RequiredReferences], log)
	if err != nil {
		return domain.EnhancementResult{}, err
	}
	if len(scraped) == 0 {
		return domain.EnhancementResult{}, fmt.Errorf("%w: all %d fetches failed", domain.ErrScrapeFailure, RequiredReferences)
	}

	system, user := BuildPrompt(article, scraped)
	generated, err := s.completion.Complete(ctx, system, user, domain.CompletionOptions{
		Temperature: enhanceTemperature,
		MaxRetries:  enhanceMaxRetries,
	})
	if err != nil {
		return domain.EnhancementResult{}, err
	}

	html := extract.NormalizeGenerated(generated)
	enhanced := domain.Article{
		Title:           article.Title,
		Slug:            article.Slug + enhancedSuffix,
		PublishedDate:   article.PublishedDate,
		Author:          article.Author,
		ContentHTML:     html,
		ContentText:     extract.StripMarkup(html),
		VersionType:     domain.VersionEnhanced,
		ParentArticleID: article.ID,
		References:      refs,
		SourceURL:       article.SourceURL + enhancedSuffix,
	}

	created, err := s.store.Create(ctx, enhanced)
	if errors.Is(err, domain.ErrConflict) {
		if winner, ferr := s.store.FindByParent(ctx, articleID); ferr == nil && winner != nil {
			log.Info("enhancement stored by a concurrent call", "enhanced_id", winner.ID)
			return domain.EnhancementResult{Article: *winner, AlreadyExisted: true}, nil
		}
		return domain.EnhancementResult{}, err
	}
	if err != nil {
		return domain.EnhancementResult{}, fmt.Errorf("save enhanced article: %w", err)
	}

	log.Info("article enhanced", "enhanced_id", created.ID, "references", len(refs))
	return domain.EnhancementResult{Article: created}, nil
}

// fetchReferences downloads candidates in order, pausing between fetches.
// Failed fetches are skipped.
func (s *EnhancementService) fetchReferences(ctx context.Context, candidates []domain.ReferenceCandidate, log *slog.Logger) ([]domain.Reference, []domain.ScrapedReference, error) {
	refs := make([]domain.Reference, 0, len(candidates))
	scraped := make([]domain.ScrapedReference, 0, len(candidates))

	for i, c := range candidates {
		if i > 0 && s.fetchDelay > 0 {
			if err := s.sleep(ctx, s.fetchDelay); err != nil {
				return nil, nil, err
			}
		}

		page := s.fetcher.Fetch(ctx, c.URL)
		if page == nil {
			log.Warn("skipping reference", "url", c.URL)
			continue
		}
		refs = append(refs, domain.Reference{Title: c.Title, URL: c.URL})
		scraped = append(scraped, *page)
	}

	return refs, scraped, nil
}
