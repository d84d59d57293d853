package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veraarmas/telar/internal/warnings"
)

func TestSplitFrontmatter(t *testing.T) {
	meta, body, ok := SplitFrontmatter("---\ntitle: The Loom\n---\nBody text.")
	require.True(t, ok)
	assert.Equal(t, "The Loom", meta.String("title"))
	assert.Equal(t, "Body text.", body)
}

func TestSplitFrontmatterLeavesHorizontalRule(t *testing.T) {
	src := "First section.\n\n---\n\nSecond section."
	_, body, ok := SplitFrontmatter(src)
	assert.False(t, ok)
	assert.Equal(t, src, body)
}

func TestSplitFrontmatterInvalidYAML(t *testing.T) {
	src := "---\n: not yaml :::\n---\nBody."
	_, body, ok := SplitFrontmatter(src)
	assert.False(t, ok)
	assert.Equal(t, src, body)
}

func TestFrontmatterStringCoercesValues(t *testing.T) {
	meta := Frontmatter{"title": "  Mapa  ", "order": 3, "missing": nil}
	assert.Equal(t, "Mapa", meta.String("title"))
	assert.Equal(t, "3", meta.String("order"))
	assert.Equal(t, "", meta.String("missing"))
	assert.Equal(t, "", meta.String("absent"))
}

func TestRenderHardWraps(t *testing.T) {
	r := NewRenderer()
	assert.Contains(t, r.Render("line one\nline two"), "<br>")
}

func TestRenderKeepsRawHTML(t *testing.T) {
	r := NewRenderer()
	assert.Contains(t, r.Render(`<div class="custom">x</div>`), `<div class="custom">`)
}

func TestRenderInlineStripsParagraph(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "a <em>map</em>", r.RenderInline("a *map*"))
}

func TestProcessImagesFigureAndCaption(t *testing.T) {
	r := NewRenderer()
	got := r.ProcessImages("![A map](mapa.jpg){large}\ncaption: Drawn in 1750")

	assert.Contains(t, got, `<figure class="telar-image-figure">`)
	assert.Contains(t, got, `<img src="/components/images/mapa.jpg" alt="A map" class="img-lg">`)
	assert.Contains(t, got, `<figcaption class="telar-image-caption">Drawn in 1750</figcaption>`)
}

func TestProcessImagesWithoutCaption(t *testing.T) {
	r := NewRenderer()
	got := r.ProcessImages("![A map](https://example.com/mapa.jpg)\n\nNot a caption.")

	assert.Contains(t, got, `<img src="https://example.com/mapa.jpg" alt="A map">`)
	assert.NotContains(t, got, "figcaption")
	assert.Contains(t, got, "Not a caption.")
}

func TestProcessImagesLeavesInlineImagesAlone(t *testing.T) {
	r := NewRenderer()
	src := "See ![icon](icon.png) for details."
	assert.Equal(t, src, r.ProcessImages(src))
}

func TestInlineNormalizesLineEndings(t *testing.T) {
	p := NewProcessor(t.TempDir(), nil, nil)
	content := p.Inline("line one\r\nline two", &warnings.List{})
	require.NotNil(t, content)
	assert.Contains(t, content.HTML, "<br>")
}

func TestInlineBlankReturnsNil(t *testing.T) {
	p := NewProcessor(t.TempDir(), nil, nil)
	assert.Nil(t, p.Inline("   \r\n ", &warnings.List{}))
}

func TestInlineFrontmatterNeedsTitleKey(t *testing.T) {
	p := NewProcessor(t.TempDir(), nil, nil)

	titled := p.Inline("---\ntitle: Panel Title\n---\nBody.", &warnings.List{})
	require.NotNil(t, titled)
	assert.Equal(t, "Panel Title", titled.Title)
	assert.NotContains(t, titled.HTML, "Panel Title")

	// A frontmatter-shaped block without a title is kept as content.
	plain := p.Inline("---\nauthor: someone\n---\nBody.", &warnings.List{})
	require.NotNil(t, plain)
	assert.Equal(t, "", plain.Title)
	assert.Contains(t, plain.HTML, "someone")
}

func TestReadFileResolvesCaseAndTitle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"),
		[]byte("---\ntitle: Introduction\n---\nWelcome to the *loom*."), 0o644))

	p := NewProcessor(dir, nil, nil)
	content := p.ReadFile("Intro.md", &warnings.List{})
	require.NotNil(t, content)
	assert.Equal(t, "Introduction", content.Title)
	assert.Contains(t, content.HTML, "<em>loom</em>")
}

func TestReadFileMissingReturnsNil(t *testing.T) {
	p := NewProcessor(t.TempDir(), nil, nil)
	assert.Nil(t, p.ReadFile("absent.md", &warnings.List{}))
}
