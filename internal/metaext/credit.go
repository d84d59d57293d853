package metaext

import "strings"

// Phrases that mark an attribution string as legal boilerplate rather than
// a usable credit line.
var boilerplateIndicators = []string{
	"for information on use",
	"rights and permissions",
	"http://",
	"https://",
	"licensed under",
	"license",
	"see library",
	"please see",
	"for more information",
}

// boilerplateLengthLimit is the length beyond which an attribution string
// is treated as a rights statement rather than a credit line.
const boilerplateLengthLimit = 200

// IsBoilerplate reports whether attribution text is generic legal language
// rather than an actual credit. Text that starts with a URL, contains two or
// more boilerplate indicators, or exceeds the length limit qualifies.
func IsBoilerplate(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "http") {
		return true
	}

	count := 0
	for _, indicator := range boilerplateIndicators {
		if strings.Contains(lower, indicator) {
			count++
		}
	}
	return count >= 2 || len(text) > boilerplateLengthLimit
}

// fallback when the attribution turns out to be boilerplate: the holding
// institution usually makes a better short credit line.
var creditFallbackTerms = []string{"Repository", "Holding Institution", "Institution"}

// ExtractCredit pulls the attribution line from a manifest. v2 manifests
// carry a plain attribution field; v3 manifests use requiredStatement.value
// with provider.label as a fallback. Boilerplate attributions are replaced
// with the repository name from the metadata array when one exists.
func ExtractCredit(m Manifest, version, siteLanguage string) string {
	var credit string

	switch version {
	case Version2:
		credit = asString(m["attribution"])
	case Version3:
		if stmt, ok := m["requiredStatement"].(map[string]any); ok {
			if lm, ok := stmt["value"].(map[string]any); ok {
				credit = LanguageMapValue(lm, siteLanguage)
			} else {
				credit = asString(stmt["value"])
			}
		}
		if credit == "" {
			credit = providerLabel(m, siteLanguage)
		}
	}

	credit = CleanValue(credit)

	if credit != "" && IsBoilerplate(credit) {
		if fallback := FindField(m.Metadata(), creditFallbackTerms, version, siteLanguage); fallback != "" {
			credit = fallback
		}
	}
	return credit
}
