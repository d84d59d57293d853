package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Strings is the localized message catalog. Warning and error texts shown to
// authors come from a per-language YAML file under the languages directory,
// addressed by dot-separated key paths like
// "errors.object_warnings.iiif_404". Templates may contain {{ var }}
// placeholders filled by Format.
type Strings struct {
	data map[string]any
}

// LoadStrings reads the language file for lang, falling back to English when
// the requested language file does not exist. A site without language files
// still builds: every lookup then returns its key path, which keeps messages
// greppable if not pretty.
func LoadStrings(languagesDir, lang string) *Strings {
	for _, candidate := range []string{lang, "en"} {
		path := filepath.Join(languagesDir, candidate+".yml")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed map[string]any
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			slog.Warn("could not parse language file", "file", path, "error", err)
			continue
		}
		return &Strings{data: parsed}
	}
	return &Strings{}
}

// Get returns the string at the dot-separated key path, or the key path
// itself when no such string exists.
func (s *Strings) Get(keyPath string) string {
	if s == nil || s.data == nil {
		return keyPath
	}
	var current any = s.data
	for _, key := range strings.Split(keyPath, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return keyPath
		}
		current, ok = m[key]
		if !ok {
			return keyPath
		}
	}
	str, ok := current.(string)
	if !ok {
		return keyPath
	}
	return str
}

// Format looks up keyPath and substitutes {{ name }} placeholders with the
// provided values.
func (s *Strings) Format(keyPath string, vars map[string]any) string {
	out := s.Get(keyPath)
	for name, value := range vars {
		out = strings.ReplaceAll(out, fmt.Sprintf("{{ %s }}", name), fmt.Sprint(value))
	}
	return out
}
