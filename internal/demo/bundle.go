// Package demo loads the demo content bundle and overlays it onto the
// site's records: demo stories prepend the project list, demo objects fill
// in around the author's own, and demo glossary terms get their own data
// file. Every overlaid record carries a _demo flag so templates can badge
// it, and nothing here ever fails a build: a broken bundle just means the
// site builds without demo content.
package demo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/veraarmas/telar/internal/logfields"
)

// Bundle is the demo content package: a working example story with its
// objects and glossary, distributed as one JSON document.
type Bundle struct {
	Meta     Meta              `json:"_meta"`
	Project  []ProjectEntry    `json:"project"`
	Objects  map[string]Object `json:"objects"`
	Stories  map[string]Story  `json:"stories"`
	Glossary map[string]Term   `json:"glossary"`
}

type Meta struct {
	TelarVersion string `json:"telar_version"`
	Language     string `json:"language"`
}

type ProjectEntry struct {
	Order    any    `json:"order"`
	StoryID  string `json:"story_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Byline   string `json:"byline"`
}

type Object struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url"`
	Creator     string `json:"creator"`
	Period      string `json:"period"`
	Medium      string `json:"medium"`
	Dimensions  string `json:"dimensions"`
	Location    string `json:"location"`
	Credit      string `json:"credit"`
	Thumbnail   string `json:"thumbnail"`
}

type Story struct {
	Steps []Step `json:"steps"`
}

type Step struct {
	Step     any              `json:"step"`
	Object   string           `json:"object"`
	X        any              `json:"x"`
	Y        any              `json:"y"`
	Zoom     any              `json:"zoom"`
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Layers   map[string]Layer `json:"layers"`
}

type Layer struct {
	Button  string `json:"button"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Term struct {
	Term    string `json:"term"`
	Content string `json:"content"`
}

// LoadBundle reads the bundle file. A missing file returns nil with no
// error logging (demo content is opt-in); an unparsable file logs and
// returns nil.
func LoadBundle(path string, logger *slog.Logger) *Bundle {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		logger.Warn("could not parse demo bundle", logfields.File(path), logfields.Error(err))
		return nil
	}

	logger.Info("loaded demo bundle",
		slog.String("version", orUnknown(bundle.Meta.TelarVersion)),
		slog.String("language", orUnknown(bundle.Meta.Language)))
	return &bundle
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// stringify renders the loosely typed numeric fields (step numbers and
// coordinates arrive as JSON numbers or strings depending on the bundle
// generator) as plain strings.
func stringify(v any, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		if t == "" {
			return fallback
		}
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
