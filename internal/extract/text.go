package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	newlineRun    = regexp.MustCompile(`\n+`)
	markupTag     = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	codeFence     = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \t]*\n(.*?)\n?```$")
)

// CleanText collapses whitespace runs to one space and newline runs to one
// newline, then trims.
func CleanText(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// StripMarkup drops every tag from markup and normalises the remaining text
// with CleanText. Tags act as word separators and entities are unescaped.
func StripMarkup(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return CleanText(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

// NormalizeGenerated prepares model output for storage as article markup.
// A surrounding code fence is removed, and output without any tags is treated
// as Markdown and rendered to HTML.
func NormalizeGenerated(output string) string {
	out := strings.TrimSpace(output)
	if m := codeFence.FindStringSubmatch(out); m != nil {
		out = strings.TrimSpace(m[1])
	}
	if out == "" || markupTag.MatchString(out) {
		return out
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(out), &buf); err != nil {
		return out
	}
	return strings.TrimSpace(buf.String())
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
