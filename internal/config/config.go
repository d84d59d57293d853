// Package config loads the site configuration (_config.yml) into a typed
// struct and exposes the localized message catalog used for author-facing
// warnings. All dynamic lookups happen here once, at load time; the rest of
// the pipeline works with plain struct fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the site configuration relevant to the build pipeline.
type Config struct {
	Title    string `yaml:"title"`
	BaseURL  string `yaml:"baseurl"`
	Language string `yaml:"telar_language" validate:"omitempty,bcp47_language_tag"`

	// StoryKey is consumed by the encryption step, which runs after this
	// pipeline. It is carried so the project processor can flag protected
	// stories that have no key configured.
	StoryKey string `yaml:"story_key"`

	IncludeDemoContent bool `yaml:"include_demo_content"`

	Collection CollectionInterface `yaml:"collection_interface"`

	// Development holds opt-in development features. Testing is the legacy
	// key for the same block; Development wins when both are present.
	Development DevelopmentFeatures `yaml:"development-features"`
	Testing     DevelopmentFeatures `yaml:"testing-features"`

	Paths PathsConfig `yaml:"paths"`
}

// CollectionInterface configures the gallery/browse surface.
type CollectionInterface struct {
	ShowSampleOnHomepage bool  `yaml:"show_sample_on_homepage"`
	FeaturedCount        int   `yaml:"featured_count" validate:"gte=0"`
	BrowseAndSearch      *bool `yaml:"browse_and_search"`
}

// BrowseAndSearchEnabled reports the browse_and_search toggle, defaulting to
// enabled when unset.
func (c CollectionInterface) BrowseAndSearchEnabled() bool {
	return c.BrowseAndSearch == nil || *c.BrowseAndSearch
}

// DevelopmentFeatures holds opt-in development toggles.
type DevelopmentFeatures struct {
	// ChristmasTreeMode injects deliberately broken test records so every
	// warning path lights up at once.
	ChristmasTreeMode bool `yaml:"christmas_tree_mode"`
}

// ChristmasTreeMode reports the diagnostics toggle, honoring the legacy
// testing-features block.
func (c *Config) ChristmasTreeMode() bool {
	return c.Development.ChristmasTreeMode || c.Testing.ChristmasTreeMode
}

// SiteLanguage returns the configured language code, defaulting to English.
func (c *Config) SiteLanguage() string {
	if c.Language == "" {
		return "en"
	}
	return c.Language
}

// PathsConfig names every directory and file the pipeline reads or writes.
// All paths are relative to the site root.
type PathsConfig struct {
	StructuresDir      string `yaml:"structures_dir" validate:"required"`
	TextsDir           string `yaml:"texts_dir" validate:"required"`
	ImagesDir          string `yaml:"images_dir" validate:"required"`
	AssetImagesDir     string `yaml:"asset_images_dir" validate:"required"`
	DataDir            string `yaml:"data_dir" validate:"required"`
	LanguagesDir       string `yaml:"languages_dir" validate:"required"`
	WidgetTemplatesDir string `yaml:"widget_templates_dir" validate:"required"`
	DemoBundle         string `yaml:"demo_bundle" validate:"required"`
}

func defaults() Config {
	return Config{
		Language: "en",
		Collection: CollectionInterface{
			FeaturedCount: 4,
		},
		Paths: PathsConfig{
			StructuresDir:      "components/structures",
			TextsDir:           "components/texts",
			ImagesDir:          "components/images",
			AssetImagesDir:     "assets/images",
			DataDir:            "_data",
			LanguagesDir:       "_data/languages",
			WidgetTemplatesDir: "_includes/widgets",
			DemoBundle:         "_demo_content/telar-demo-bundle.json",
		},
	}
}

// Load reads _config.yml from root, fills defaults, and validates the result.
// A missing config file is not an error: the defaults describe a valid site.
func Load(root string) (*Config, error) {
	// .env is optional; authors use it for keys they keep out of the repo.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg := Config{}
	path := filepath.Join(root, "_config.yml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := mergo.Merge(&cfg, defaults()); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
