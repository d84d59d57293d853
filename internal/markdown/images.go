package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// imagePrefix is prepended to relative image sources so authors can write
// bare filenames in panel content.
const imagePrefix = "/components/images/"

// imageLine matches the extended image syntax: ![alt](src) with an optional
// {size} modifier.
var imageLine = regexp.MustCompile(`(?i)^!\[([^\]]*)\]\(([^)]+)\)(?:\{(sm|small|md|medium|lg|large|full)\})?$`)

var sizeClasses = map[string]string{
	"small": "sm", "sm": "sm",
	"medium": "md", "md": "md",
	"large": "lg", "lg": "lg",
	"full": "full",
}

// ProcessImages rewrites extended image declarations into <figure> HTML
// before markdown conversion. The line after an image becomes its caption
// when it is plain text (an optional "caption:" prefix is stripped); size
// modifiers map to CSS classes controlling display width.
func (r *Renderer) ProcessImages(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		m := imageLine.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			out = append(out, lines[i])
			continue
		}
		alt, src, size := m[1], m[2], m[3]

		classAttr := ""
		if size != "" {
			classAttr = fmt.Sprintf(` class="img-%s"`, sizeClasses[strings.ToLower(size)])
		}
		if !strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "http") {
			src = imagePrefix + src
		}

		caption := ""
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && !strings.HasPrefix(next, "!") && !strings.HasPrefix(next, ":::") {
				caption = next
				if len(caption) >= 8 && strings.EqualFold(caption[:8], "caption:") {
					caption = strings.TrimSpace(caption[8:])
				}
				i++ // consume the caption line
			}
		}

		img := fmt.Sprintf(`<img src="%s" alt="%s"%s>`, src, alt, classAttr)
		if caption != "" {
			out = append(out, fmt.Sprintf(
				`<figure class="telar-image-figure">%s<figcaption class="telar-image-caption">%s</figcaption></figure>`,
				img, r.RenderInline(caption)))
		} else {
			out = append(out, fmt.Sprintf(`<figure class="telar-image-figure">%s</figure>`, img))
		}
	}
	return strings.Join(out, "\n")
}
