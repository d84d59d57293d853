package metaext

import "strings"

// Search-term lists for the metadata array. Institutions label the same
// concept differently ("Creator" vs "Artist" vs "Maker"), so each record
// field carries the label variants seen across major repositories.
var (
	creatorTerms = []string{"Creator", "Artist", "Author", "Maker", "Cartographer", "Contributor", "Painter", "Sculptor"}
	periodTerms  = []string{"Date", "Period", "Creation Date", "Created", "Date Created", "Date Note", "Temporal"}
	sourceTerms  = []string{"Repository", "Holding Institution", "Institution", "Source", "Current Location"}
	yearTerms    = []string{"Date", "Year", "Date Created", "Creation Date"}
	typeTerms    = []string{"Type", "Object Type", "Resource Type", "Format"}
	subjectTerms = []string{"Subject", "Subjects", "Keywords", "Tags", "Topic"}
)

// FindField searches a manifest metadata array for the first entry whose
// label contains any search term (case-insensitive substring). Entries are
// scanned in order and the first hit wins. Labels and values that are v3
// language maps resolve through the site-language fallback chain first.
func FindField(metadata []any, searchTerms []string, version, siteLanguage string) string {
	for _, raw := range metadata {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		label := entry["label"]
		if version == Version3 {
			if lm, ok := label.(map[string]any); ok {
				label = LanguageMapValue(lm, siteLanguage)
			}
		}
		labelLower := strings.ToLower(strings.TrimSpace(asString(label)))

		for _, term := range searchTerms {
			if !strings.Contains(labelLower, strings.ToLower(term)) {
				continue
			}
			value := entry["value"]
			if version == Version3 {
				if lm, ok := value.(map[string]any); ok {
					value = LanguageMapValue(lm, siteLanguage)
				}
			}
			return CleanValue(value)
		}
	}
	return ""
}

// Extract pulls every auto-populatable record field from a manifest. Keys
// mirror the object record fields the merge step fills: title, description,
// creator, period, source, year, object_type, subjects, credit.
func Extract(m Manifest, siteLanguage string) map[string]string {
	version := DetectVersion(m)
	metadata := m.Metadata()

	out := map[string]string{
		"title":       extractTitle(m, version, siteLanguage),
		"description": extractDescription(m, version, siteLanguage),
		"creator":     FindField(metadata, creatorTerms, version, siteLanguage),
		"period":      FindField(metadata, periodTerms, version, siteLanguage),
		"source":      FindField(metadata, sourceTerms, version, siteLanguage),
		"year":        FindField(metadata, yearTerms, version, siteLanguage),
		"object_type": FindField(metadata, typeTerms, version, siteLanguage),
		"subjects":    FindField(metadata, subjectTerms, version, siteLanguage),
		"credit":      ExtractCredit(m, version, siteLanguage),
	}

	// v3 manifests often name the holding institution only in the provider
	// block, not the metadata array.
	if out["source"] == "" && version == Version3 {
		out["source"] = providerLabel(m, siteLanguage)
	}
	return out
}

func extractTitle(m Manifest, version, siteLanguage string) string {
	label := m["label"]
	if version == Version3 {
		if lm, ok := label.(map[string]any); ok {
			return CleanValue(LanguageMapValue(lm, siteLanguage))
		}
	}
	return CleanValue(label)
}

func extractDescription(m Manifest, version, siteLanguage string) string {
	if version == Version2 {
		return StripTags(asString(m["description"]))
	}
	summary := m["summary"]
	if lm, ok := summary.(map[string]any); ok {
		return StripTags(LanguageMapValue(lm, siteLanguage))
	}
	return StripTags(asString(summary))
}

// providerLabel returns the first provider's display label (v3 only).
func providerLabel(m Manifest, siteLanguage string) string {
	providers, ok := m["provider"].([]any)
	if !ok || len(providers) == 0 {
		return ""
	}
	provider, ok := providers[0].(map[string]any)
	if !ok {
		return ""
	}
	label := provider["label"]
	if lm, ok := label.(map[string]any); ok {
		return LanguageMapValue(lm, siteLanguage)
	}
	return strings.TrimSpace(asString(label))
}
