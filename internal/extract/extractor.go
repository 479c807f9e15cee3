// Package extract turns raw HTML into the title, headings, body text and
// structure fingerprint used by the enhancement pipeline.
package extract

import (
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"ArticleEnhancer/internal/domain"
)

const (
	// MaxHeadings caps the heading list of a document.
	MaxHeadings = 10
	// minHeadingLength drops headings of this many runes or fewer.
	minHeadingLength = 3
)

// Document is the structured result of an extraction.
type Document struct {
	Title     string
	Headings  []string
	BodyText  string
	BodyHTML  string
	Structure domain.StructureFingerprint
}

// Extractor applies the title and body strategies to HTML documents.
type Extractor struct {
	titles []Strategy
	bodies []Strategy
	logger *slog.Logger
}

// New returns an extractor using the default strategy lists.
func New(log *slog.Logger) *Extractor {
	return &Extractor{
		titles: TitleStrategies,
		bodies: BodyStrategies,
		logger: log,
	}
}

// Extract parses rawHTML. sourceURL is only used for diagnostics.
func (e *Extractor) Extract(rawHTML, sourceURL string) Document {
	return e.ExtractReader(strings.NewReader(rawHTML), sourceURL)
}

// ExtractReader parses HTML from r. Unparseable input yields an empty Document.
func (e *Extractor) ExtractReader(r io.Reader, sourceURL string) Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		e.debug("parse html failed", "url", sourceURL, "error", err)
		return Document{}
	}
	return e.ExtractDocument(doc, sourceURL)
}

// ExtractDocument runs every strategy against an already parsed document.
func (e *Extractor) ExtractDocument(doc *goquery.Document, sourceURL string) Document {
	if doc == nil {
		return Document{}
	}

	out := Document{
		Title:     DefaultTitle,
		Headings:  Headings(doc),
		Structure: Fingerprint(doc),
	}

	if s, _, title, ok := firstMatch(doc, e.titles); ok {
		out.Title = title
		e.debug("title resolved", "url", sourceURL, "strategy", s.Name)
	}

	if s, sel, text, ok := firstMatch(doc, e.bodies); ok {
		out.BodyText = CleanText(text)
		if inner, err := sel.First().Html(); err == nil {
			out.BodyHTML = strings.TrimSpace(inner)
		}
		e.debug("body resolved", "url", sourceURL, "strategy", s.Name, "chars", len(out.BodyText))
	} else {
		e.debug("no body container matched", "url", sourceURL)
	}

	return out
}

// Headings collects h1-h3 text in document order, skipping short entries.
func Headings(doc *goquery.Document) []string {
	headings := make([]string, 0, MaxHeadings)
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) > minHeadingLength {
			headings = append(headings, text)
		}
		return len(headings) < MaxHeadings
	})
	return headings
}

// Fingerprint summarises the formatting elements present in doc.
func Fingerprint(doc *goquery.Document) domain.StructureFingerprint {
	return domain.StructureFingerprint{
		HasList:        doc.Find("ul, ol").Length() > 0,
		HasCodeBlocks:  doc.Find("code, pre").Length() > 0,
		HasImages:      doc.Find("img").Length() > 0,
		ParagraphCount: doc.Find("p").Length(),
		HeadingCount:   doc.Find("h1, h2, h3, h4, h5, h6").Length(),
	}
}

func (e *Extractor) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
