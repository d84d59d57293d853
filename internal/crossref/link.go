package crossref

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/warnings"
)

// refPattern matches [[term]] and [[term|display]] with flexible spacing.
// Group 1 is the term ID, group 2 the optional display text.
var refPattern = regexp.MustCompile(`\[\[\s*([^|\]]+?)(?:\s*\|\s*([^|\]]+?))?\s*\]\]`)

// demoPrefix marks glossary terms that belong to the demo content bundle.
const demoPrefix = "demo-"

// Context identifies where a cross-reference appears, for warning messages.
type Context struct {
	Step  string
	Layer string
}

// Linker rewrites cross-references in already-rendered HTML.
type Linker struct {
	index   Index
	strings *config.Strings
}

func NewLinker(index Index, strings *config.Strings) *Linker {
	return &Linker{index: index, strings: strings}
}

// Link replaces every [[term]] reference in text. Known terms become anchor
// elements resolved client-side (the term URL depends on the deployed base
// path). Unknown terms become a visible error span and append a glossary
// warning. With an empty index the text passes through unchanged, so sites
// without a glossary never see error markers.
func (l *Linker) Link(text string, ctx Context, warn *warnings.List) string {
	if text == "" || len(l.index) == 0 {
		return text
	}

	return refPattern.ReplaceAllStringFunc(text, func(ref string) string {
		m := refPattern.FindStringSubmatch(ref)
		termID := strings.TrimSpace(m[1])
		display := strings.TrimSpace(m[2])

		title, found := l.index[termID]
		if found {
			if display == "" {
				display = title
			}
			demoAttr := ""
			if strings.HasPrefix(termID, demoPrefix) {
				demoAttr = ` data-demo="true"`
			}
			return fmt.Sprintf(`<a href="#" class="glossary-inline-link" data-term-id="%s"%s>%s</a>`,
				termID, demoAttr, display)
		}

		layerNum := ""
		if strings.HasPrefix(ctx.Layer, "layer") {
			layerNum = ctx.Layer[len(ctx.Layer)-1:]
		}
		warn.Add(warnings.Warning{
			Step:   ctx.Step,
			Type:   warnings.CategoryGlossary,
			TermID: termID,
			Layer:  ctx.Layer,
			Message: l.strings.Format("errors.object_warnings.glossary_term_not_found",
				map[string]any{"term_id": termID, "layer_num": layerNum}),
		})
		return fmt.Sprintf(`<span class="glossary-link-error" data-term-id="%s">⚠️ [[%s]]</span>`,
			termID, m[1])
	})
}
