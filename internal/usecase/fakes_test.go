package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ArticleEnhancer/internal/domain"
)

type memoryStore struct {
	mu       sync.Mutex
	articles map[string]domain.Article
	order    []string
	seq      int
	creates  int
	// createErr, when set, is returned by the next Create.
	createErr error
	// beforeCreate runs before a Create is applied.
	beforeCreate func(*memoryStore)
	listErr      error
}

func newMemoryStore(articles ...domain.Article) *memoryStore {
	s := &memoryStore{articles: map[string]domain.Article{}}
	for _, a := range articles {
		s.articles[a.ID] = a
		s.order = append(s.order, a.ID)
	}
	return s
}

func (s *memoryStore) Get(_ context.Context, id string) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (s *memoryStore) FindByParent(_ context.Context, parentID string) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		a := s.articles[id]
		if a.ParentArticleID == parentID && a.VersionType == domain.VersionEnhanced {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Create(_ context.Context, a domain.Article) (domain.Article, error) {
	if s.beforeCreate != nil {
		hook := s.beforeCreate
		s.beforeCreate = nil
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		err := s.createErr
		s.createErr = nil
		return domain.Article{}, err
	}
	for _, existing := range s.articles {
		if existing.Slug == a.Slug || existing.SourceURL == a.SourceURL {
			return domain.Article{}, fmt.Errorf("create %q: %w", a.Slug, domain.ErrConflict)
		}
	}
	s.seq++
	s.creates++
	a.ID = fmt.Sprintf("gen-%d", s.seq)
	a.CreatedAt = time.Date(2024, time.January, 1, 0, 0, s.seq, 0, time.UTC)
	a.UpdatedAt = a.CreatedAt
	s.articles[a.ID] = a
	s.order = append(s.order, a.ID)
	return a, nil
}

func (s *memoryStore) insert(a domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.ID] = a
	s.order = append(s.order, a.ID)
}

func (s *memoryStore) List(_ context.Context, f domain.ArticleFilter) ([]domain.Article, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Article
	for _, id := range s.order {
		a := s.articles[id]
		if f.VersionType != "" && a.VersionType != f.VersionType {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (s *memoryStore) Update(context.Context, string, domain.ArticleUpdate) (domain.Article, error) {
	return domain.Article{}, errors.New("not implemented")
}

func (s *memoryStore) Delete(context.Context, string) (domain.Article, error) {
	return domain.Article{}, errors.New("not implemented")
}

func (s *memoryStore) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{}, errors.New("not implemented")
}

type fakeSearcher struct {
	results []domain.ReferenceCandidate
	calls   int
}

func (f *fakeSearcher) Search(context.Context, string) []domain.ReferenceCandidate {
	f.calls++
	return f.results
}

type fakeFetcher struct {
	pages map[string]*domain.ScrapedReference
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) *domain.ScrapedReference {
	f.calls = append(f.calls, url)
	return f.pages[url]
}

type fakeCompletion struct {
	output string
	err    error
	calls  int
	system string
	user   string
	opts   domain.CompletionOptions
}

func (f *fakeCompletion) Complete(_ context.Context, system, user string, opts domain.CompletionOptions) (string, error) {
	f.calls++
	f.system, f.user, f.opts = system, user, opts
	return f.output, f.err
}

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return n.err
}

func recordSleep(slept *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}
