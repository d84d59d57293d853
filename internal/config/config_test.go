package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "_config.yml"), []byte(yaml), 0o644))
	return root
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.SiteLanguage())
	assert.Equal(t, "components/structures", cfg.Paths.StructuresDir)
	assert.Equal(t, "_data", cfg.Paths.DataDir)
	assert.Equal(t, 4, cfg.Collection.FeaturedCount)
	assert.True(t, cfg.Collection.BrowseAndSearchEnabled())
	assert.False(t, cfg.IncludeDemoContent)
}

func TestLoadMergesDefaultsUnderConfig(t *testing.T) {
	root := writeConfig(t, `
title: Tejidos
telar_language: es
include_demo_content: true
collection_interface:
  featured_count: 2
  browse_and_search: false
`)
	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "Tejidos", cfg.Title)
	assert.Equal(t, "es", cfg.SiteLanguage())
	assert.True(t, cfg.IncludeDemoContent)
	assert.Equal(t, 2, cfg.Collection.FeaturedCount)
	assert.False(t, cfg.Collection.BrowseAndSearchEnabled())
	// Unset paths still come from defaults.
	assert.Equal(t, "components/texts", cfg.Paths.TextsDir)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TELAR_STORY_KEY", "s3cret")
	root := writeConfig(t, "story_key: ${TELAR_STORY_KEY}\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.StoryKey)
}

func TestLoadRejectsInvalidLanguage(t *testing.T) {
	root := writeConfig(t, "telar_language: \"not a language!\"\n")
	_, err := Load(root)
	assert.Error(t, err)
}

func TestChristmasTreeModeHonorsLegacyBlock(t *testing.T) {
	root := writeConfig(t, "testing-features:\n  christmas_tree_mode: true\n")
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.True(t, cfg.ChristmasTreeMode())

	root = writeConfig(t, "development-features:\n  christmas_tree_mode: true\n")
	cfg, err = Load(root)
	require.NoError(t, err)
	assert.True(t, cfg.ChristmasTreeMode())

	cfg, err = Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.ChristmasTreeMode())
}

func TestStringsLookup(t *testing.T) {
	dir := t.TempDir()
	catalog := `errors:
  object_warnings:
    iiif_404: "Manifest not found for {{ object_id }} (HTTP {{ code }})"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yml"), []byte(catalog), 0o644))
	strs := LoadStrings(dir, "en")

	assert.Equal(t, "Manifest not found for mapa (HTTP 404)",
		strs.Format("errors.object_warnings.iiif_404", map[string]any{"object_id": "mapa", "code": 404}))

	// Unknown keys fall back to the key path so messages stay greppable.
	assert.Equal(t, "errors.nope", strs.Get("errors.nope"))
}

func TestStringsFallsBackToEnglish(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yml"), []byte("greeting: hello\n"), 0o644))

	strs := LoadStrings(dir, "es")
	assert.Equal(t, "hello", strs.Get("greeting"))
}

func TestStringsWithoutCatalog(t *testing.T) {
	strs := LoadStrings(t.TempDir(), "en")
	assert.Equal(t, "errors.anything", strs.Get("errors.anything"))
}
