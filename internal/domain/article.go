package domain

import (
	"encoding/json"
	"time"
)

// VersionType distinguishes ingested originals from generated rewrites.
type VersionType string

const (
	VersionOriginal VersionType = "original"
	VersionEnhanced VersionType = "enhanced"
)

// Valid reports whether v is one of the known version types.
func (v VersionType) Valid() bool {
	return v == VersionOriginal || v == VersionEnhanced
}

// Reference is a top-ranking external document attached to an enhanced article.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Article is the stored record shared by originals and their enhanced variants.
// ParentArticleID is empty for originals and set for enhanced articles.
type Article struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	PublishedDate   time.Time   `json:"publishedDate"`
	Author          string      `json:"author"`
	ContentHTML     string      `json:"contentHtml"`
	ContentText     string      `json:"contentText"`
	VersionType     VersionType `json:"versionType"`
	ParentArticleID string      `json:"parentArticleId"`
	References      []Reference `json:"references"`
	SourceURL       string      `json:"sourceUrl"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// MarshalJSON renders an empty ParentArticleID as null.
func (a Article) MarshalJSON() ([]byte, error) {
	type plain Article
	var parent *string
	if a.ParentArticleID != "" {
		parent = &a.ParentArticleID
	}
	return json.Marshal(struct {
		plain
		ParentArticleID *string `json:"parentArticleId"`
	}{plain: plain(a), ParentArticleID: parent})
}

// IsOriginal reports whether the article may be enhanced.
func (a Article) IsOriginal() bool {
	return a.VersionType == VersionOriginal
}

// EnhancementResult is returned by the orchestrator. AlreadyExisted marks the
// idempotent path where a previously stored enhanced record was returned.
type EnhancementResult struct {
	Article        Article
	AlreadyExisted bool
}

// ArticleFilter narrows list queries. Page is 1-based.
type ArticleFilter struct {
	VersionType VersionType
	Limit       int
	Page        int
}

// ArticleUpdate carries a partial update; nil fields are left untouched.
// The source URL is immutable once stored.
type ArticleUpdate struct {
	Title         *string      `json:"title,omitempty"`
	Slug          *string      `json:"slug,omitempty"`
	Author        *string      `json:"author,omitempty"`
	PublishedDate *time.Time   `json:"publishedDate,omitempty"`
	ContentHTML   *string      `json:"contentHtml,omitempty"`
	ContentText   *string      `json:"contentText,omitempty"`
	References    *[]Reference `json:"references,omitempty"`
}

// Stats summarises stored articles per version type.
type Stats struct {
	Total    int `json:"total"`
	Original int `json:"original"`
	Enhanced int `json:"enhanced"`
}
