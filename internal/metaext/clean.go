package metaext

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripTags removes HTML markup from text, decodes entities, and collapses
// runs of whitespace. Many institutional manifests ship HTML-formatted
// metadata values.
func StripTags(text string) string {
	if text == "" {
		return ""
	}

	plain := text
	if strings.ContainsAny(text, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err == nil {
			plain = doc.Text()
		} else {
			plain = html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
		}
	}

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(plain, " "))
}

// CleanValue normalizes a metadata value of any shape into display text.
// Arrays join with "; " (empty entries dropped), HTML is stripped, and
// whitespace is trimmed. Shapes with no sensible text form yield "".
func CleanValue(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return StripTags(strings.TrimSpace(v))
	case []any:
		parts := make([]string, 0, len(v))
		for _, entry := range v {
			if s := strings.TrimSpace(asString(entry)); s != "" {
				parts = append(parts, s)
			}
		}
		return StripTags(strings.Join(parts, "; "))
	case map[string]any:
		return ""
	default:
		return StripTags(strings.TrimSpace(asString(v)))
	}
}

// asString renders a scalar JSON value as text. Maps and nil yield "";
// float64 values that are whole numbers print without a fraction.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		return ""
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
