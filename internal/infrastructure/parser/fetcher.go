package parser

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/extract"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
)

// SnippetLength is the number of runes of body text kept per reference.
const SnippetLength = 3000

// ReferenceFetcher downloads one reference page and extracts its structure.
type ReferenceFetcher struct {
	client    *http.Client
	userAgent string
	extractor *extract.Extractor
	logger    *slog.Logger
}

var _ ports.ReferenceFetcher = (*ReferenceFetcher)(nil)

// NewReferenceFetcher wires an HTTP client; a nil client gets cfg.Timeout.
func NewReferenceFetcher(cfg config.FetchConfig, client *http.Client, log *slog.Logger) *ReferenceFetcher {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	log = logging.OrDiscard(log)
	return &ReferenceFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		extractor: extract.New(log),
		logger:    log,
	}
}

// Fetch returns nil when the page cannot be retrieved or parsed.
func (f *ReferenceFetcher) Fetch(ctx context.Context, url string) *domain.ScrapedReference {
	doc, err := fetchDocument(ctx, f.client, url, f.userAgent)
	if err != nil {
		f.logger.Warn("reference fetch failed", "url", url, "error", err)
		return nil
	}

	out := f.extractor.ExtractDocument(doc, url)
	f.logger.Debug("reference fetched", "url", url, "title", out.Title, "headings", len(out.Headings))

	return &domain.ScrapedReference{
		Title:          out.Title,
		URL:            url,
		Headings:       out.Headings,
		ContentSnippet: extract.Truncate(out.BodyText, SnippetLength),
		Structure:      out.Structure,
	}
}
