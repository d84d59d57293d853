// Package metaext reconciles object records with metadata from external
// presentation manifests. It detects the manifest dialect (v2 or v3),
// navigates v3 language maps with a site-language fallback chain, searches
// the metadata array by label, classifies legal-boilerplate attribution, and
// merges extracted values into records under the author-wins hierarchy.
package metaext

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Manifest is a parsed presentation manifest. Institutions vary wildly in
// how strictly they follow the spec, so everything stays loosely typed and
// every accessor tolerates missing or oddly-shaped fields.
type Manifest map[string]any

const (
	Version2 = "2.0"
	Version3 = "3.0"
)

// DetectVersion reads the @context field to determine the manifest dialect.
// Unclear or missing contexts default to v2, the most common in the wild.
func DetectVersion(m Manifest) string {
	switch ctx := m["@context"].(type) {
	case string:
		if strings.Contains(ctx, "presentation/3") {
			return Version3
		}
		if strings.Contains(ctx, "presentation/2") {
			return Version2
		}
	case []any:
		for _, entry := range ctx {
			if s, ok := entry.(string); ok && strings.Contains(s, "presentation/3") {
				return Version3
			}
		}
	}
	return Version2
}

// HasManifestShape reports whether the document carries the minimal fields
// of a presentation manifest (@context, or a type marker).
func (m Manifest) HasManifestShape() bool {
	if _, ok := m["@context"]; ok {
		return true
	}
	if _, ok := m["type"]; ok {
		return true
	}
	_, ok := m["@type"]
	return ok
}

// Metadata returns the manifest's metadata array, or nil.
func (m Manifest) Metadata() []any {
	arr, _ := m["metadata"].([]any)
	return arr
}

// LanguageMapValue extracts a display value from a v3 language map.
// Fallback chain: the site language, then English, then unlabeled content
// ("none"), then the alphabetically first remaining language. The site
// language matches on base tag, so "es-MX" selects an "es" entry.
func LanguageMapValue(languageMap map[string]any, siteLanguage string) string {
	if len(languageMap) == 0 {
		return ""
	}

	if v := lookupLanguage(languageMap, siteLanguage); v != "" {
		return v
	}
	if v := firstValue(languageMap["en"]); v != "" {
		return v
	}
	if v := firstValue(languageMap["none"]); v != "" {
		return v
	}

	keys := make([]string, 0, len(languageMap))
	for k := range languageMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := firstValue(languageMap[k]); v != "" {
			return v
		}
	}
	return ""
}

// lookupLanguage finds the language-map entry for siteLanguage, comparing
// base language tags so regional variants still match.
func lookupLanguage(languageMap map[string]any, siteLanguage string) string {
	if siteLanguage == "" {
		return ""
	}
	if v := firstValue(languageMap[siteLanguage]); v != "" {
		return v
	}

	want, err := language.Parse(siteLanguage)
	if err != nil {
		return ""
	}
	wantBase, _ := want.Base()

	keys := make([]string, 0, len(languageMap))
	for k := range languageMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		if base, _ := tag.Base(); base == wantBase {
			if v := firstValue(languageMap[k]); v != "" {
				return v
			}
		}
	}
	return ""
}

// firstValue returns the first entry of a language-map value array as a
// string. Non-array and empty values yield "".
func firstValue(v any) string {
	values, ok := v.([]any)
	if !ok || len(values) == 0 {
		return ""
	}
	return asString(values[0])
}
