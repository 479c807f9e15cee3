package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/extract"
)

const (
	originalExcerptLength  = 2000
	referenceExcerptLength = 1000
)

const systemPrompt = "You are an expert content writer and SEO specialist. Your task is to rewrite and enhance articles to improve their quality, SEO, structure, and readability while preserving factual accuracy."

const taskInstructions = `TASK:
Rewrite the original article by:
1. Improving SEO and structure based on top-ranking articles
2. Matching the tone and formatting style of reference articles
3. Enhancing clarity, readability, and engagement
4. Adding relevant sections/headings from reference articles
5. Preserving all factual information from the original
6. Making it comprehensive and well-structured

Return ONLY the enhanced article content in HTML format with proper headings, paragraphs, and lists.
Do NOT include references section - that will be added separately.`

// BuildPrompt returns the system instruction and the user prompt for
// rewriting original in the style of refs.
func BuildPrompt(original domain.Article, refs []domain.ScrapedReference) (string, string) {
	var b strings.Builder

	b.WriteString("ORIGINAL ARTICLE:\n")
	fmt.Fprintf(&b, "Title: %s\n", original.Title)
	fmt.Fprintf(&b, "Content: %s\n\n", extract.Truncate(original.ContentText, originalExcerptLength))

	b.WriteString("REFERENCE ARTICLES (Top-ranking on Google):\n\n")
	blocks := make([]string, 0, len(refs))
	for i, ref := range refs {
		blocks = append(blocks, referenceBlock(i+1, ref))
	}
	b.WriteString(strings.Join(blocks, "\n---\n"))
	b.WriteString("\n\n")
	b.WriteString(taskInstructions)

	return systemPrompt, b.String()
}

func referenceBlock(n int, ref domain.ScrapedReference) string {
	structure, err := json.Marshal(ref.Structure)
	if err != nil {
		structure = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reference %d: %s\n", n, ref.Title)
	fmt.Fprintf(&b, "Headings: %s\n", strings.Join(ref.Headings, ", "))
	fmt.Fprintf(&b, "Structure: %s\n", structure)
	fmt.Fprintf(&b, "Content Preview: %s\n", extract.Truncate(ref.ContentSnippet, referenceExcerptLength))
	return b.String()
}
