package metaext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veraarmas/telar/internal/record"
)

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		want     string
	}{
		{"v2 string context", Manifest{"@context": "http://iiif.io/api/presentation/2/context.json"}, Version2},
		{"v3 string context", Manifest{"@context": "http://iiif.io/api/presentation/3/context.json"}, Version3},
		{"v3 array context", Manifest{"@context": []any{
			"http://www.w3.org/ns/anno.jsonld",
			"http://iiif.io/api/presentation/3/context.json",
		}}, Version3},
		{"missing context defaults to v2", Manifest{}, Version2},
		{"unknown context defaults to v2", Manifest{"@context": "http://example.com/context"}, Version2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectVersion(tt.manifest))
		})
	}
}

func TestLanguageMapFallbackChain(t *testing.T) {
	full := map[string]any{
		"es":   []any{"Mapa"},
		"en":   []any{"Map"},
		"none": []any{"Unlabeled"},
		"fr":   []any{"Carte"},
	}

	assert.Equal(t, "Mapa", LanguageMapValue(full, "es"))
	assert.Equal(t, "Map", LanguageMapValue(full, "de"))

	noEnglish := map[string]any{"none": []any{"Unlabeled"}, "fr": []any{"Carte"}}
	assert.Equal(t, "Unlabeled", LanguageMapValue(noEnglish, "de"))

	frenchOnly := map[string]any{"fr": []any{"Carte"}}
	assert.Equal(t, "Carte", LanguageMapValue(frenchOnly, "de"))

	assert.Equal(t, "", LanguageMapValue(nil, "en"))
}

func TestLanguageMapMatchesBaseTag(t *testing.T) {
	m := map[string]any{"es": []any{"Mapa"}, "en": []any{"Map"}}
	assert.Equal(t, "Mapa", LanguageMapValue(m, "es-MX"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Museum Collection", StripTags(`<span>Museum <a href="#">Collection</a></span>`))
	assert.Equal(t, "a & b", StripTags("a &amp; b"))
	assert.Equal(t, "one two", StripTags("one\n\t  two"))
	assert.Equal(t, "", StripTags(""))
}

func TestCleanValueJoinsLists(t *testing.T) {
	assert.Equal(t, "a; b", CleanValue([]any{"a", "", "  ", "b"}))
	assert.Equal(t, "plain", CleanValue(" plain "))
	assert.Equal(t, "", CleanValue(nil))
	assert.Equal(t, "", CleanValue(map[string]any{"en": []any{"x"}}))
}

func TestFindFieldMatchesSubstringCaseInsensitive(t *testing.T) {
	metadata := []any{
		map[string]any{"label": "Date of Creation", "value": "1750"},
		map[string]any{"label": "ARTIST", "value": "Unknown weaver"},
	}

	assert.Equal(t, "1750", FindField(metadata, periodTerms, Version2, "en"))
	assert.Equal(t, "Unknown weaver", FindField(metadata, creatorTerms, Version2, "en"))
	assert.Equal(t, "", FindField(metadata, subjectTerms, Version2, "en"))
}

func TestFindFieldFirstMatchWins(t *testing.T) {
	metadata := []any{
		map[string]any{"label": "Date", "value": "1750"},
		map[string]any{"label": "Period", "value": "18th century"},
	}
	assert.Equal(t, "1750", FindField(metadata, periodTerms, Version2, "en"))
}

func TestFindFieldResolvesLanguageMaps(t *testing.T) {
	metadata := []any{
		map[string]any{
			"label": map[string]any{"en": []any{"Creator"}},
			"value": map[string]any{"es": []any{"Tejedora anónima"}, "en": []any{"Anonymous weaver"}},
		},
	}
	assert.Equal(t, "Tejedora anónima", FindField(metadata, creatorTerms, Version3, "es"))
}

func TestIsBoilerplate(t *testing.T) {
	assert.True(t, IsBoilerplate("https://example.com/rights"))
	assert.True(t, IsBoilerplate("http://library.edu/permissions"))
	assert.True(t, IsBoilerplate("For information on use and rights and permissions, please see the library website."))
	assert.True(t, IsBoilerplate(strings.Repeat("long attribution text ", 12)))

	assert.False(t, IsBoilerplate("Photo by John Smith"))
	assert.False(t, IsBoilerplate("Courtesy of the National Gallery"))
	assert.False(t, IsBoilerplate("Princeton University Library"))
	assert.False(t, IsBoilerplate(""))
}

func TestExtractCreditV2(t *testing.T) {
	m := Manifest{"attribution": "National Museum Collection"}
	assert.Equal(t, "National Museum Collection", ExtractCredit(m, Version2, "en"))

	html := Manifest{"attribution": `<span>Museum <a href="#">Collection</a></span>`}
	assert.Equal(t, "Museum Collection", ExtractCredit(html, Version2, "en"))
}

func TestExtractCreditFallsBackOnBoilerplate(t *testing.T) {
	m := Manifest{
		"attribution": "https://library.edu/rights",
		"metadata": []any{
			map[string]any{"label": "Repository", "value": "University Library Special Collections"},
		},
	}
	assert.Equal(t, "University Library Special Collections", ExtractCredit(m, Version2, "en"))
}

func TestExtractCreditKeepsBoilerplateWithoutFallback(t *testing.T) {
	m := Manifest{"attribution": "https://library.edu/rights"}
	assert.Equal(t, "https://library.edu/rights", ExtractCredit(m, Version2, "en"))
}

func TestExtractCreditV3(t *testing.T) {
	m := Manifest{
		"requiredStatement": map[string]any{
			"label": map[string]any{"en": []any{"Attribution"}},
			"value": map[string]any{"en": []any{"Provided by the National Archive"}},
		},
	}
	assert.Equal(t, "Provided by the National Archive", ExtractCredit(m, Version3, "en"))

	provider := Manifest{
		"provider": []any{
			map[string]any{"label": map[string]any{"en": []any{"National Archive"}}},
		},
	}
	assert.Equal(t, "National Archive", ExtractCredit(provider, Version3, "en"))
}

func TestExtractPullsAllFields(t *testing.T) {
	m := Manifest{
		"@context":    "http://iiif.io/api/presentation/2/context.json",
		"label":       "Colonial Map of Bogotá",
		"description": "<p>A hand-drawn map.</p>",
		"attribution": "Archivo General",
		"metadata": []any{
			map[string]any{"label": "Creator", "value": "Unknown cartographer"},
			map[string]any{"label": "Date", "value": "1750"},
			map[string]any{"label": "Repository", "value": "Archivo General de la Nación"},
			map[string]any{"label": "Type", "value": "Map"},
			map[string]any{"label": "Subject", "value": []any{"cartography", "colonial"}},
		},
	}

	got := Extract(m, "en")
	assert.Equal(t, "Colonial Map of Bogotá", got["title"])
	assert.Equal(t, "A hand-drawn map.", got["description"])
	assert.Equal(t, "Unknown cartographer", got["creator"])
	assert.Equal(t, "1750", got["period"])
	assert.Equal(t, "1750", got["year"])
	assert.Equal(t, "Archivo General de la Nación", got["source"])
	assert.Equal(t, "Map", got["object_type"])
	assert.Equal(t, "cartography; colonial", got["subjects"])
	assert.Equal(t, "Archivo General", got["credit"])
}

func TestExtractV3ProviderSourceFallback(t *testing.T) {
	m := Manifest{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"label":    map[string]any{"en": []any{"A Painting"}},
		"provider": []any{
			map[string]any{"label": map[string]any{"en": []any{"Rijksmuseum"}}},
		},
	}
	got := Extract(m, "en")
	assert.Equal(t, "A Painting", got["title"])
	assert.Equal(t, "Rijksmuseum", got["source"])
}

func TestApplyFallbackAuthorWins(t *testing.T) {
	obj := &record.Object{Title: "My Title", Creator: ""}
	extracted := map[string]string{"title": "Manifest Title", "creator": "Manifest Creator"}

	populated := ApplyFallback(obj, extracted)

	assert.Equal(t, "My Title", obj.Title)
	assert.Equal(t, "Manifest Creator", obj.Creator)
	assert.Equal(t, []string{"creator"}, populated)
}

func TestApplyFallbackIsIdempotent(t *testing.T) {
	obj := &record.Object{}
	extracted := map[string]string{"title": "Manifest Title"}

	ApplyFallback(obj, extracted)
	again := ApplyFallback(obj, extracted)

	assert.Equal(t, "Manifest Title", obj.Title)
	assert.Empty(t, again)
}

func TestApplyFallbackLeavesBothEmptyEmpty(t *testing.T) {
	obj := &record.Object{}
	ApplyFallback(obj, map[string]string{})
	assert.Equal(t, "", obj.Title)
}

func TestHasManifestShape(t *testing.T) {
	assert.True(t, Manifest{"@context": "x"}.HasManifestShape())
	assert.True(t, Manifest{"type": "Manifest"}.HasManifestShape())
	assert.True(t, Manifest{"@type": "sc:Manifest"}.HasManifestShape())
	assert.False(t, Manifest{"label": "x"}.HasManifestShape())
}
