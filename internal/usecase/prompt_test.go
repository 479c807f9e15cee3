package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ArticleEnhancer/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	original := domain.Article{Title: "Chatbots", ContentText: strings.Repeat("o", 2500)}
	refs := []domain.ScrapedReference{
		{
			Title:          "First",
			Headings:       []string{"Why", "How it works"},
			ContentSnippet: strings.Repeat("r", 1500),
			Structure:      domain.StructureFingerprint{HasList: true, ParagraphCount: 3, HeadingCount: 2},
		},
		{Title: "Second"},
	}

	system, user := BuildPrompt(original, refs)

	assert.Contains(t, system, "SEO")
	assert.Contains(t, system, "preserving factual accuracy")

	assert.Contains(t, user, "Title: Chatbots\n")
	assert.Contains(t, user, "Content: "+strings.Repeat("o", 2000)+"\n")
	assert.NotContains(t, user, strings.Repeat("o", 2001))

	assert.Contains(t, user, "Reference 1: First\n")
	assert.Contains(t, user, "Headings: Why, How it works\n")
	assert.Contains(t, user, `Structure: {"hasList":true,"hasCodeBlocks":false,"hasImages":false,"paragraphCount":3,"headingCount":2}`)
	assert.Contains(t, user, "Content Preview: "+strings.Repeat("r", 1000)+"\n")
	assert.NotContains(t, user, strings.Repeat("r", 1001))

	assert.Contains(t, user, "\n---\nReference 2: Second\n")
	assert.Contains(t, user, "Do NOT include references section")
	assert.Contains(t, user, "HTML format")
}
