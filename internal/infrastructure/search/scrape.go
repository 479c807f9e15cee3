package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleEnhancer/internal/domain"
)

const scrapeMaxResults = 5

// Scraper parses a general web search results page. It is the fallback when
// the primary API is unavailable.
type Scraper struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

var _ Searcher = (*Scraper)(nil)

// NewScraper builds the fallback searcher against endpoint (a results page URL
// accepting a q parameter).
func NewScraper(endpoint, userAgent string, client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{endpoint: endpoint, userAgent: userAgent, client: client}
}

// Name identifies the provider in logs.
func (s *Scraper) Name() string {
	return "scrape"
}

// Search returns result blocks carrying both a link and a heading.
func (s *Scraper) Search(ctx context.Context, query string) ([]domain.ReferenceCandidate, error) {
	searchURL := s.endpoint + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request results page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	return parseResults(doc), nil
}

// parseResults keeps the first scrapeMaxResults article-like blocks.
func parseResults(doc *goquery.Document) []domain.ReferenceCandidate {
	var results []domain.ReferenceCandidate
	doc.Find("div.g").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		href, _ := block.Find("a[href]").First().Attr("href")
		link := unwrapRedirect(href)
		title := strings.TrimSpace(block.Find("h3").First().Text())

		if link != "" && title != "" && IsArticleURL(link) {
			results = append(results, domain.ReferenceCandidate{Title: title, URL: link})
		}
		return len(results) < scrapeMaxResults
	})
	return results
}

// unwrapRedirect resolves "/url?q=<target>" result links to their target.
func unwrapRedirect(href string) string {
	if !strings.HasPrefix(href, "/url?") {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("q")
}
