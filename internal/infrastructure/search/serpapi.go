package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
)

// ErrNotConfigured is returned by the primary provider when no usable key is set.
var ErrNotConfigured = errors.New("serpapi key not configured")

const serpAPIResultCount = 5

// SerpAPI queries the SerpAPI Google engine.
type SerpAPI struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ Searcher = (*SerpAPI)(nil)

// NewSerpAPI builds the primary search client; client defaults to a 15s timeout.
func NewSerpAPI(cfg config.SearchConfig, client *http.Client) *SerpAPI {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	key := cfg.SerpAPIKey
	if !cfg.SerpAPIConfigured() {
		key = ""
	}
	return &SerpAPI{endpoint: cfg.SerpAPIEndpoint, apiKey: strings.TrimSpace(key), client: client}
}

// Name identifies the provider in logs.
func (s *SerpAPI) Name() string {
	return "serpapi"
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search returns organic results in ranking order.
func (s *SerpAPI) Search(ctx context.Context, query string) ([]domain.ReferenceCandidate, error) {
	if s.apiKey == "" || s.endpoint == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", fmt.Sprintf("%d", serpAPIResultCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("serpapi error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var body serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", body.Error)
	}

	results := make([]domain.ReferenceCandidate, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		results = append(results, domain.ReferenceCandidate{
			Title: strings.TrimSpace(r.Title),
			URL:   r.Link,
		})
	}
	return results, nil
}
