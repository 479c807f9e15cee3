package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html>
<head><title>Document Title</title></head>
<body>
  <nav><a href="/">Home</a></nav>
  <article>
    <h1>  Chatbots for Clinics  </h1>
    <p>First   paragraph
    with a line break.</p>
    <h2>Why</h2>
    <h2>Setting things up</h2>
    <ul><li>one</li></ul>
    <pre><code>go run .</code></pre>
    <img src="/x.png">
    <h3>Tips</h3>
    <p>Second paragraph.</p>
  </article>
  <main>Ignored main region</main>
</body>
</html>`

func TestExtractResolvesAllFields(t *testing.T) {
	t.Parallel()

	doc := New(nil).Extract(samplePage, "https://example.com/blog/chatbots")

	assert.Equal(t, "Chatbots for Clinics", doc.Title)
	assert.Equal(t, []string{"Chatbots for Clinics", "Setting things up", "Tips"}, doc.Headings)
	assert.True(t, strings.HasPrefix(doc.BodyText, "Chatbots for Clinics First paragraph with a line break."))
	assert.NotContains(t, doc.BodyText, "Ignored main region")
	assert.Contains(t, doc.BodyHTML, "<h2>Why</h2>")

	assert.True(t, doc.Structure.HasList)
	assert.True(t, doc.Structure.HasCodeBlocks)
	assert.True(t, doc.Structure.HasImages)
	assert.Equal(t, 2, doc.Structure.ParagraphCount)
	assert.Equal(t, 4, doc.Structure.HeadingCount)
}

func TestExtractTitleResolutionOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want string
	}{
		{"first heading", `<title>T</title><h1>Heading</h1><h1>Second</h1>`, "Heading"},
		{"title tag", `<html><head><title> Tag Title </title></head><body><h1>  </h1></body></html>`, "Tag Title"},
		{"entry title", `<div class="entry-title">Entry Title</div>`, "Entry Title"},
		{"fallback", `<p>no title at all</p>`, DefaultTitle},
	}

	ex := New(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ex.Extract(tc.html, "").Title)
		})
	}
}

func TestExtractBodyResolutionOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want string
	}{
		{"post content", `<div class="post-content">Post body</div><main>Main body</main>`, "Post body"},
		{"entry content", `<div class="entry-content">Entry body</div><main>Main body</main>`, "Entry body"},
		{"main", `<article>   </article><main>Main   body</main>`, "Main body"},
		{"none", `<div>loose text</div>`, ""},
	}

	ex := New(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ex.Extract(tc.html, "").BodyText)
		})
	}
}

func TestHeadingsAreCapped(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "<h2>Heading %d</h2>", i)
	}

	doc := New(nil).Extract(b.String(), "")
	require.Len(t, doc.Headings, MaxHeadings)
	assert.Equal(t, "Heading 0", doc.Headings[0])
	assert.Equal(t, "Heading 9", doc.Headings[9])
}

func TestExtractEmptyInput(t *testing.T) {
	t.Parallel()

	doc := New(nil).Extract("", "")
	assert.Equal(t, DefaultTitle, doc.Title)
	assert.Empty(t, doc.Headings)
	assert.Empty(t, doc.BodyText)
	assert.Zero(t, doc.Structure.ParagraphCount)
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", CleanText("  a \n\n b\t\tc  "))
	assert.Equal(t, "", CleanText(" \n\t "))
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A B C", StripMarkup("<h2>A</h2><p>B  C</p>"))
	assert.Equal(t, "Fish & chips", StripMarkup("<p>Fish &amp; chips</p>"))
	assert.Equal(t, "Enhanced", StripMarkup("<p>Enhanced</p>"))
	assert.Equal(t, "plain", StripMarkup("plain"))
}

func TestNormalizeGenerated(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<p>Enhanced</p>", NormalizeGenerated("<p>Enhanced</p>"))
	assert.Equal(t, "<h2>A</h2>", NormalizeGenerated("```html\n<h2>A</h2>\n```"))
	assert.Equal(t, "<h1>Title</h1>\n<p>Body text</p>", NormalizeGenerated("# Title\n\nBody text"))
	assert.Equal(t, "", NormalizeGenerated("   "))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hé", Truncate("héllo", 2))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}
