package search

import "strings"

// nonArticleHosts are domains whose pages are never long-form references.
var nonArticleHosts = []string{
	"google.com",
	"youtube.com",
	"facebook.com",
	"twitter.com",
	"//x.com/",
	"www.x.com/",
	"instagram.com",
	"linkedin.com/in/",
	"pinterest.com",
	"wikipedia.org",
	"reddit.com/r/",
	"amazon.com",
	"ebay.com",
}

// articlePathHints are URL fragments typical of blog posts and guides.
var articlePathHints = []string{
	"/blog",
	"/article",
	"/post",
	"/news",
	"/guide",
	"/tutorial",
	"/story",
	"/insights",
	"/resources",
}

// IsArticleURL reports whether rawURL looks like a long-form article.
func IsArticleURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)

	for _, host := range nonArticleHosts {
		if strings.Contains(lower, host) {
			return false
		}
	}
	for _, hint := range articlePathHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
