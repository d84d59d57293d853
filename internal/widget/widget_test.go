package widget

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veraarmas/telar/internal/markdown"
	"github.com/veraarmas/telar/internal/warnings"
)

// testInterpreter wires an interpreter with minimal templates and one image
// on disk.
func testInterpreter(t *testing.T) *Interpreter {
	t.Helper()

	templateDir := t.TempDir()
	files := map[string]string{
		"carousel.html":  `<div class="carousel" id="{{ .widget_id }}">slides:{{ len .items }} size:{{ .size_class }}</div>`,
		"tabs.html":      `<div class="tabs" id="{{ .widget_id }}">tabs:{{ len .tabs }}</div>`,
		"accordion.html": `<div class="accordion" id="{{ .widget_id }}">panels:{{ len .panels }}</div>`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(templateDir, name), []byte(body), 0o644))
	}
	templates, err := LoadTemplates(templateDir)
	require.NoError(t, err)

	assetsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "slide.jpg"), []byte("x"), 0o644))

	return NewInterpreter(templates, markdown.NewRenderer(), assetsDir)
}

func TestProcessUnknownWidgetType(t *testing.T) {
	it := testInterpreter(t)
	warn := &warnings.List{}

	got := it.Process(":::sparkline\nx: 1\n:::", "test", warn)

	assert.Contains(t, got, `<div class="telar-widget-error">Unknown widget type: sparkline</div>`)
	require.Equal(t, 1, warn.Len())
	assert.Equal(t, warnings.CategoryWidget, warn.Items()[0].Type)
	assert.Equal(t, "sparkline", warn.Items()[0].WidgetType)
}

func TestProcessLeavesSurroundingTextAlone(t *testing.T) {
	it := testInterpreter(t)
	warn := &warnings.List{}

	got := it.Process("before\n:::carousel\nimage: slide.jpg\nalt: a slide\n:::\nafter", "test", warn)

	assert.Contains(t, got, "before\n")
	assert.Contains(t, got, "\nafter")
	assert.Contains(t, got, "slides:1")
	assert.Equal(t, 0, warn.Len())
}

func TestWidgetIDsAreSequentialPerInterpreter(t *testing.T) {
	block := ":::carousel\nimage: slide.jpg\nalt: a slide\n:::"

	it := testInterpreter(t)
	first := it.Process(block, "test", &warnings.List{})
	second := it.Process(block, "test", &warnings.List{})
	assert.Contains(t, first, `id="widget-1"`)
	assert.Contains(t, second, `id="widget-2"`)

	// A fresh interpreter (one per build) starts over.
	fresh := testInterpreter(t)
	assert.Contains(t, fresh.Process(block, "test", &warnings.List{}), `id="widget-1"`)
}

func TestCarouselWarnings(t *testing.T) {
	it := testInterpreter(t)
	warn := &warnings.List{}

	content := "image: slide.jpg\nalt: ok\n---\ncaption: no image here\n---\nimage: ghost.jpg\n---\nimage: slide.jpg"
	data := it.parseCarousel(content, warn)

	// Slide without an image is dropped; the other three stay.
	assert.Len(t, data["items"], 3)

	msgs := make([]string, 0, warn.Len())
	for _, w := range warn.Items() {
		msgs = append(msgs, w.Message)
	}
	assert.Contains(t, msgs, "Carousel item 2 missing required field: image")
	assert.Contains(t, msgs, fmt.Sprintf("Carousel image not found: ghost.jpg (expected at %s)",
		filepath.Join(it.assetsDir, "ghost.jpg")))
	assert.Contains(t, msgs, "Carousel item 4 missing alt text (accessibility concern)")
}

func TestCarouselRendersCaptionInline(t *testing.T) {
	it := testInterpreter(t)
	data := it.parseCarousel("image: slide.jpg\nalt: a slide\ncaption: a *woven* map", &warnings.List{})

	items := data["items"].([]map[string]any)
	require.Len(t, items, 1)
	assert.Equal(t, "a <em>woven</em> map", items[0]["caption"])
}

func TestSizeClass(t *testing.T) {
	assert.Equal(t, sizeDefault, sizeClass(nil))
	assert.Equal(t, sizeCompact, sizeClass([]float64{0.4, 0.5}))
	assert.Equal(t, sizeDefault, sizeClass([]float64{0.75}))
	assert.Equal(t, sizeTall, sizeClass([]float64{1.2}))
	assert.Equal(t, sizePortrait, sizeClass([]float64{1.5}))

	// The tallest slide decides the band for the whole strip.
	assert.Equal(t, sizePortrait, sizeClass([]float64{0.75, 1.67}))
}

func TestTabsSectionBounds(t *testing.T) {
	it := testInterpreter(t)

	section := func(n int) string {
		s := ""
		for i := 1; i <= n; i++ {
			s += fmt.Sprintf("## Tab %d\ncontent %d\n", i, i)
		}
		return s
	}

	warn := &warnings.List{}
	it.parseTabs(section(1), warn)
	require.Equal(t, 1, warn.Len())
	assert.Equal(t, "Tabs widget must have at least 2 tabs (found 1)", warn.Items()[0].Message)

	warn = &warnings.List{}
	it.parseTabs(section(4), warn)
	assert.Equal(t, 0, warn.Len())

	warn = &warnings.List{}
	it.parseTabs(section(5), warn)
	require.Equal(t, 1, warn.Len())
	assert.Equal(t, "Tabs widget should have maximum 4 tabs (found 5)", warn.Items()[0].Message)
}

func TestAccordionSectionBounds(t *testing.T) {
	it := testInterpreter(t)

	section := func(n int) string {
		s := ""
		for i := 1; i <= n; i++ {
			s += fmt.Sprintf("## Panel %d\ncontent %d\n", i, i)
		}
		return s
	}

	warn := &warnings.List{}
	it.parseAccordion(section(6), warn)
	assert.Equal(t, 0, warn.Len())

	warn = &warnings.List{}
	it.parseAccordion(section(7), warn)
	require.Equal(t, 1, warn.Len())
	assert.Equal(t, "Accordion widget should have maximum 6 panels (found 7)", warn.Items()[0].Message)
}

func TestEmptySectionWarns(t *testing.T) {
	it := testInterpreter(t)
	warn := &warnings.List{}

	it.parseAccordion("## First\nsome text\n## Second\n", warn)

	require.Equal(t, 1, warn.Len())
	assert.Equal(t, `Accordion panel 2 "Second" has no content`, warn.Items()[0].Message)
}

func TestParseSectionsIgnoresLeadingText(t *testing.T) {
	it := testInterpreter(t)
	sections := it.parseSections("ignored preamble\n## One\nbody one\n## Two\nbody two")

	require.Len(t, sections, 2)
	assert.Equal(t, "One", sections[0]["title"])
	assert.Contains(t, sections[0]["content_html"], "body one")
}

func TestParseKeyValueBlockSkipsComments(t *testing.T) {
	data := parseKeyValueBlock("# a comment\nimage: mapa.jpg\nalt: the map\nnot a pair\n")
	assert.Equal(t, map[string]string{"image": "mapa.jpg", "alt": "the map"}, data)
}

func TestRenderWithoutTemplates(t *testing.T) {
	it := NewInterpreter(nil, markdown.NewRenderer(), t.TempDir())
	got := it.Process(":::tabs\n## A\nx\n## B\ny\n:::", "test", &warnings.List{})
	assert.Contains(t, got, `class="telar-widget-error"`)
	assert.Contains(t, got, "no widget templates loaded")
}
