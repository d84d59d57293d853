package metaext

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
)

// Cache remembers, per object, the manifest URL and warning state from the
// previous build's serialized objects. It exists for one purpose: when a
// manifest that validated cleanly last build now answers 429, the rate
// limit is the server pushing back on repeated builds, not a content
// problem, so the warning is suppressed.
type Cache struct {
	entries map[string]cacheEntry
}

type cacheEntry struct {
	manifestURL string
	hadWarning  bool
}

// LoadCache reads the previous build's objects file. A missing or unreadable
// file yields an empty cache; the first build of a site has no history.
func LoadCache(path string, logger *slog.Logger) *Cache {
	cache := &Cache{entries: make(map[string]cacheEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		logger.Info("could not parse previous build objects, skipping rate-limit cache",
			slog.String("file", path), slog.Any("error", err))
		return cache
	}

	for _, obj := range objects {
		if _, meta := obj["_metadata"]; meta {
			continue
		}
		id, _ := obj["object_id"].(string)
		if id == "" {
			continue
		}
		url, _ := obj["source_url"].(string)
		if strings.TrimSpace(url) == "" {
			url, _ = obj["iiif_manifest"].(string)
		}
		warning, _ := obj["object_warning"].(string)
		cache.entries[id] = cacheEntry{
			manifestURL: strings.TrimSpace(url),
			hadWarning:  strings.TrimSpace(warning) != "",
		}
	}

	if len(cache.entries) > 0 {
		logger.Info("loaded previous build objects for rate-limit checking",
			slog.Int("objects", len(cache.entries)))
	}
	return cache
}

// ShouldSkipRateLimit reports whether a 429 for objectID can be suppressed:
// the manifest URL is unchanged from the previous build and that build
// recorded no warning for the object.
func (c *Cache) ShouldSkipRateLimit(objectID, manifestURL string) bool {
	prev, ok := c.entries[objectID]
	return ok && prev.manifestURL == strings.TrimSpace(manifestURL) && !prev.hadWarning
}

// Len returns the number of cached objects.
func (c *Cache) Len() int { return len(c.entries) }
