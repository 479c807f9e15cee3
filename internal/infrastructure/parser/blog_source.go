package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/extract"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
	"ArticleEnhancer/internal/retry"
)

// DefaultAuthor is used when a post carries no byline.
const DefaultAuthor = "BeyondChats"

var (
	pageExpr    = regexp.MustCompile(`page[/=](\d+)`)
	nonSlugExpr = regexp.MustCompile(`[^a-z0-9]+`)
)

// paginationSelectors locate links to numbered index pages.
var paginationSelectors = `a[href*="/page/"], .pagination a, a.page-numbers`

// linkSelectors are tried in order until enough post links are collected.
var linkSelectors = []string{
	"article a[href]",
	".blog-post a[href]",
	".post a[href]",
	"a[href]",
	".entry-title a[href]",
}

var authorStrategies = []func(*goquery.Document) string{
	func(d *goquery.Document) string { return d.Find(".author-name").First().Text() },
	func(d *goquery.Document) string { return d.Find(`meta[name="author"]`).AttrOr("content", "") },
	func(d *goquery.Document) string { return d.Find(".author").First().Text() },
}

var dateStrategies = []func(*goquery.Document) string{
	func(d *goquery.Document) string { return d.Find("time[datetime]").AttrOr("datetime", "") },
	func(d *goquery.Document) string {
		return d.Find(`meta[property="article:published_time"]`).AttrOr("content", "")
	},
	func(d *goquery.Document) string { return d.Find(".published-date").First().Text() },
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// BlogSource crawls the oldest posts of a paginated blog index.
type BlogSource struct {
	client      *http.Client
	baseURL     string
	userAgent   string
	maxArticles int
	delay       time.Duration
	sleep       retry.SleepFunc
	now         func() time.Time
	extractor   *extract.Extractor
	logger      *slog.Logger
}

var _ ports.OriginalSource = (*BlogSource)(nil)

// NewBlogSource wires the blog index configured for ingestion.
func NewBlogSource(cfg config.IngestionConfig, fetch config.FetchConfig, client *http.Client, log *slog.Logger) *BlogSource {
	if client == nil {
		client = &http.Client{Timeout: fetch.Timeout}
	}
	maxArticles := cfg.MaxArticles
	if maxArticles <= 0 {
		maxArticles = 5
	}
	log = logging.OrDiscard(log)
	return &BlogSource{
		client:      client,
		baseURL:     strings.TrimRight(cfg.BlogURL, "/"),
		userAgent:   fetch.UserAgent,
		maxArticles: maxArticles,
		delay:       cfg.Delay,
		sleep:       retry.Wait,
		now:         time.Now,
		extractor:   extract.New(log),
		logger:      log,
	}
}

// FetchOriginals scrapes posts from the last index page. Posts that fail to
// download are logged and skipped; only an unreachable index is an error.
func (s *BlogSource) FetchOriginals(ctx context.Context) ([]domain.Article, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid blog url %q", s.baseURL)
	}

	index, err := fetchDocument(ctx, s.client, s.baseURL, s.userAgent)
	if err != nil {
		return nil, fmt.Errorf("fetch blog index: %w", err)
	}

	page := index
	last := lastPage(index)
	s.logger.Info("blog index fetched", "url", s.baseURL, "last_page", last)
	if last > 1 {
		pageURL := s.baseURL + "/page/" + strconv.Itoa(last)
		page, err = fetchDocument(ctx, s.client, pageURL, s.userAgent)
		if err != nil {
			return nil, fmt.Errorf("fetch blog page %d: %w", last, err)
		}
	}

	links := postLinks(page, base, s.maxArticles)
	s.logger.Info("post links found", "count", len(links))

	articles := make([]domain.Article, 0, len(links))
	for i, link := range links {
		if i > 0 && s.delay > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return articles, err
			}
		}

		article, err := s.scrapePost(ctx, link)
		if err != nil {
			s.logger.Warn("post scrape failed", "url", link, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (s *BlogSource) scrapePost(ctx context.Context, postURL string) (domain.Article, error) {
	doc, err := fetchDocument(ctx, s.client, postURL, s.userAgent)
	if err != nil {
		return domain.Article{}, err
	}

	out := s.extractor.ExtractDocument(doc, postURL)

	return domain.Article{
		Title:         out.Title,
		Slug:          slugFor(postURL, out.Title),
		PublishedDate: s.publishedDate(doc),
		Author:        firstNonEmpty(doc, authorStrategies, DefaultAuthor),
		ContentHTML:   out.BodyHTML,
		ContentText:   out.BodyText,
		VersionType:   domain.VersionOriginal,
		SourceURL:     postURL,
	}, nil
}

func (s *BlogSource) publishedDate(doc *goquery.Document) time.Time {
	raw := firstNonEmpty(doc, dateStrategies, "")
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return s.now().UTC()
}

func firstNonEmpty(doc *goquery.Document, strategies []func(*goquery.Document) string, fallback string) string {
	for _, strategy := range strategies {
		if v := strings.TrimSpace(strategy(doc)); v != "" {
			return v
		}
	}
	return fallback
}

// lastPage returns the highest page number linked from the index, or 1.
func lastPage(doc *goquery.Document) int {
	last := 1
	doc.Find(paginationSelectors).Each(func(_ int, a *goquery.Selection) {
		m := pageExpr.FindStringSubmatch(a.AttrOr("href", ""))
		if m == nil {
			return
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > last {
			last = n
		}
	})
	return last
}

// postLinks collects absolute post URLs below the index path, in page order.
func postLinks(doc *goquery.Document, base *url.URL, limit int) []string {
	prefix := strings.TrimRight(base.Path, "/") + "/"
	seen := map[string]struct{}{}
	var links []string

	for _, selector := range linkSelectors {
		doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
			ref, err := url.Parse(strings.TrimSpace(a.AttrOr("href", "")))
			if err != nil {
				return
			}
			abs := base.ResolveReference(ref)
			abs.Fragment = ""
			if abs.Host != base.Host || !strings.HasPrefix(abs.Path, prefix) {
				return
			}
			rest := strings.Trim(strings.TrimPrefix(abs.Path, prefix), "/")
			if rest == "" || pageExpr.MatchString(rest) {
				return
			}
			link := abs.String()
			if _, ok := seen[link]; ok {
				return
			}
			seen[link] = struct{}{}
			links = append(links, link)
		})
		if len(links) >= limit {
			break
		}
	}

	if len(links) > limit {
		links = links[:limit]
	}
	return links
}

// slugFor uses the last URL path segment, falling back to the title.
func slugFor(postURL, title string) string {
	if u, err := url.Parse(postURL); err == nil {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if last := segments[len(segments)-1]; last != "" {
			return last
		}
	}
	return strings.Trim(nonSlugExpr.ReplaceAllString(strings.ToLower(title), "-"), "-")
}
