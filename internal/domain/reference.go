package domain

// ReferenceCandidate is a search hit considered for scraping.
type ReferenceCandidate struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// StructureFingerprint summarises how a document is formatted.
type StructureFingerprint struct {
	HasList        bool `json:"hasList"`
	HasCodeBlocks  bool `json:"hasCodeBlocks"`
	HasImages      bool `json:"hasImages"`
	ParagraphCount int  `json:"paragraphCount"`
	HeadingCount   int  `json:"headingCount"`
}

// ScrapedReference is the structured view of a fetched reference page, used
// only while building the generation prompt.
type ScrapedReference struct {
	Title          string
	URL            string
	Headings       []string
	ContentSnippet string
	Structure      StructureFingerprint
}

// CompletionOptions tunes a single completion call. Zero values select the
// provider defaults.
type CompletionOptions struct {
	Temperature float64
	MaxRetries  int
}
