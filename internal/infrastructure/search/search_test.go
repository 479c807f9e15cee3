package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
)

type stubSearcher struct {
	name    string
	results []domain.ReferenceCandidate
	err     error
	calls   int
}

func (s *stubSearcher) Name() string { return s.name }

func (s *stubSearcher) Search(context.Context, string) ([]domain.ReferenceCandidate, error) {
	s.calls++
	return s.results, s.err
}

func TestSerpAPISearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "chatbots for clinics", q.Get("q"))
		assert.Equal(t, "serp-key", q.Get("api_key"))
		assert.Equal(t, "5", q.Get("num"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results":[
			{"title":"Clinic bots","link":"https://a.example/blog/clinic-bots"},
			{"title":"Video","link":"https://youtube.com/watch?v=1"}
		]}`))
	}))
	defer server.Close()

	cfg := config.SearchConfig{SerpAPIEndpoint: server.URL, SerpAPIKey: "serp-key"}
	results, err := NewSerpAPI(cfg, server.Client()).Search(context.Background(), "chatbots for clinics")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Clinic bots", results[0].Title)
	assert.Equal(t, "https://a.example/blog/clinic-bots", results[0].URL)
}

func TestSerpAPINotConfigured(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", config.SerpAPIPlaceholder} {
		cfg := config.SearchConfig{SerpAPIEndpoint: "http://127.0.0.1:0", SerpAPIKey: key}
		_, err := NewSerpAPI(cfg, nil).Search(context.Background(), "q")
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestSerpAPIHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.SearchConfig{SerpAPIEndpoint: server.URL, SerpAPIKey: "k"}
	_, err := NewSerpAPI(cfg, server.Client()).Search(context.Background(), "q")
	assert.ErrorContains(t, err, "429")
}

const resultsPage = `<html><body>
<div class="g"><a href="https://a.example/blog/one"><h3>One</h3></a></div>
<div class="g"><a href="https://www.youtube.com/watch?v=2"><h3>Video</h3></a></div>
<div class="g"><a href="/url?q=https://b.example/guide/two&amp;sa=U"><h3>Two</h3></a></div>
<div class="g"><a href="https://c.example/blog/no-title"></a></div>
<div class="g"><a href="https://d.example/post/three"><h3>Three</h3></a></div>
</body></html>`

func TestScraperSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "clinic bots", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	results, err := NewScraper(server.URL, "test-agent", server.Client()).Search(context.Background(), "clinic bots")
	require.NoError(t, err)
	assert.Equal(t, []domain.ReferenceCandidate{
		{Title: "One", URL: "https://a.example/blog/one"},
		{Title: "Two", URL: "https://b.example/guide/two"},
		{Title: "Three", URL: "https://d.example/post/three"},
	}, results)
}

func TestScraperHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewScraper(server.URL, "ua", server.Client()).Search(context.Background(), "q")
	assert.Error(t, err)
}

func TestProviderUsesPrimaryAndTruncates(t *testing.T) {
	t.Parallel()

	primary := &stubSearcher{name: "primary", results: []domain.ReferenceCandidate{
		{Title: "Wiki", URL: "https://en.wikipedia.org/wiki/X"},
		{Title: "A", URL: "https://a.example/blog/a"},
		{Title: "B", URL: "https://b.example/article/b"},
		{Title: "C", URL: "https://c.example/post/c"},
	}}
	fallback := &stubSearcher{name: "fallback"}

	got := NewProvider(primary, fallback, 0, nil).Search(context.Background(), "q")

	assert.Equal(t, []domain.ReferenceCandidate{
		{Title: "A", URL: "https://a.example/blog/a"},
		{Title: "B", URL: "https://b.example/article/b"},
	}, got)
	assert.Zero(t, fallback.calls)
}

func TestProviderFallsBack(t *testing.T) {
	t.Parallel()

	fallbackResults := []domain.ReferenceCandidate{{Title: "F", URL: "https://f.example/blog/f"}}

	cases := []struct {
		name    string
		primary *stubSearcher
	}{
		{"not configured", &stubSearcher{name: "p", err: ErrNotConfigured}},
		{"failure", &stubSearcher{name: "p", err: errors.New("boom")}},
		{"no article results", &stubSearcher{name: "p", results: []domain.ReferenceCandidate{
			{Title: "Video", URL: "https://youtube.com/watch?v=1"},
		}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fallback := &stubSearcher{name: "f", results: fallbackResults}
			got := NewProvider(tc.primary, fallback, 2, nil).Search(context.Background(), "q")
			assert.Equal(t, fallbackResults, got)
			assert.Equal(t, 1, fallback.calls)
		})
	}
}

func TestProviderNeverFails(t *testing.T) {
	t.Parallel()

	primary := &stubSearcher{name: "p", err: errors.New("down")}
	fallback := &stubSearcher{name: "f", err: errors.New("blocked")}

	got := NewProvider(primary, fallback, 2, nil).Search(context.Background(), "q")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
