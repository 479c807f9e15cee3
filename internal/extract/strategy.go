package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one named way of locating a piece of content. Strategies are
// tried in order and the first non-empty match wins.
type Strategy struct {
	Name     string
	Selector string
	// FirstOnly restricts the match to the first element; otherwise the text
	// of every matching element is concatenated.
	FirstOnly bool
}

// Match returns the matched selection and its trimmed text, or ok=false when
// nothing non-empty matched.
func (s Strategy) Match(doc *goquery.Document) (sel *goquery.Selection, text string, ok bool) {
	if doc == nil || s.Selector == "" {
		return nil, "", false
	}

	sel = doc.Find(s.Selector)
	if sel.Length() == 0 {
		return nil, "", false
	}
	if s.FirstOnly {
		sel = sel.First()
	}

	text = strings.TrimSpace(sel.Text())
	if text == "" {
		return nil, "", false
	}
	return sel, text, true
}

// TitleStrategies resolve the document title; the caller falls back to
// DefaultTitle when none match.
var TitleStrategies = []Strategy{
	{Name: "first-heading", Selector: "h1", FirstOnly: true},
	{Name: "title-tag", Selector: "title", FirstOnly: true},
	{Name: "entry-title", Selector: ".entry-title", FirstOnly: true},
}

// BodyStrategies resolve the main content container.
var BodyStrategies = []Strategy{
	{Name: "article", Selector: "article"},
	{Name: "post-content", Selector: ".post-content"},
	{Name: "entry-content", Selector: ".entry-content"},
	{Name: "main", Selector: "main"},
}

// DefaultTitle is used when no title strategy matches.
const DefaultTitle = "Untitled"

func firstMatch(doc *goquery.Document, strategies []Strategy) (Strategy, *goquery.Selection, string, bool) {
	for _, s := range strategies {
		if sel, text, ok := s.Match(doc); ok {
			return s, sel, text, true
		}
	}
	return Strategy{}, nil, "", false
}
