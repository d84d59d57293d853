package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyFile       = "file"
	KeyColumn     = "column"
	KeyObjectID   = "object_id"
	KeyStoryID    = "story_id"
	KeyStep       = "step"
	KeyWidget     = "widget_type"
	KeyTermID     = "term_id"
	KeyManifest   = "manifest_url"
	KeyWarnings   = "warnings"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Column(name string) slog.Attr    { return slog.String(KeyColumn, name) }
func ObjectID(id string) slog.Attr    { return slog.String(KeyObjectID, id) }
func StoryID(id string) slog.Attr     { return slog.String(KeyStoryID, id) }
func Step(s string) slog.Attr         { return slog.String(KeyStep, s) }
func Widget(t string) slog.Attr       { return slog.String(KeyWidget, t) }
func TermID(id string) slog.Attr      { return slog.String(KeyTermID, id) }
func Manifest(url string) slog.Attr   { return slog.String(KeyManifest, url) }
func Warnings(n int) slog.Attr        { return slog.Int(KeyWarnings, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
