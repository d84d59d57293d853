package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the parsed YAML header of a content file.
type Frontmatter map[string]any

// String returns the named frontmatter value as a trimmed string.
func (f Frontmatter) String(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)

// SplitFrontmatter separates an optional YAML frontmatter block from the
// body. Content without a leading "---" block (or with one that is not valid
// YAML) is returned whole with ok=false; "---" also serves as a horizontal
// rule, so a failed parse is not an error.
func SplitFrontmatter(content string) (meta Frontmatter, body string, ok bool) {
	m := frontmatterPattern.FindStringSubmatch(content)
	if m == nil {
		return nil, content, false
	}
	var parsed Frontmatter
	if err := yaml.Unmarshal([]byte(m[1]), &parsed); err != nil || parsed == nil {
		return nil, content, false
	}
	return parsed, strings.TrimSpace(m[2]), true
}
