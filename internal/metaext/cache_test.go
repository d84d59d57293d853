package metaext

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCacheFromPreviousBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.json")
	previous := `[
  {"_metadata": true, "viewer_warnings": []},
  {"object_id": "clean", "source_url": "https://example.com/a.json"},
  {"object_id": "flagged", "source_url": "https://example.com/b.json", "object_warning": "HTTP 404"},
  {"object_id": "legacy", "iiif_manifest": "https://example.com/c.json"},
  {"title": "no id, skipped"}
]`
	require.NoError(t, os.WriteFile(path, []byte(previous), 0o644))

	cache := LoadCache(path, slog.Default())
	assert.Equal(t, 3, cache.Len())

	assert.True(t, cache.ShouldSkipRateLimit("clean", "https://example.com/a.json"))
	assert.True(t, cache.ShouldSkipRateLimit("legacy", "https://example.com/c.json"))

	// Same URL but the previous build already had a warning.
	assert.False(t, cache.ShouldSkipRateLimit("flagged", "https://example.com/b.json"))
	// URL changed since the previous build.
	assert.False(t, cache.ShouldSkipRateLimit("clean", "https://example.com/other.json"))
	// Object unknown to the previous build.
	assert.False(t, cache.ShouldSkipRateLimit("new-object", "https://example.com/a.json"))
}

func TestLoadCacheMissingFile(t *testing.T) {
	cache := LoadCache(filepath.Join(t.TempDir(), "objects.json"), slog.Default())
	assert.Equal(t, 0, cache.Len())
	assert.False(t, cache.ShouldSkipRateLimit("anything", "https://example.com/a.json"))
}

func TestLoadCacheUnparsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))
	assert.Equal(t, 0, LoadCache(path, slog.Default()).Len())
}

func TestFetchErrorWarningKeys(t *testing.T) {
	tests := []struct {
		code  int
		full  string
		short string
	}{
		{404, "errors.object_warnings.iiif_404", "errors.object_warnings.short_404"},
		{429, "errors.object_warnings.iiif_429", "errors.object_warnings.short_429"},
		{503, "errors.object_warnings.iiif_503", "errors.object_warnings.short_503"},
		{418, "errors.object_warnings.iiif_error_generic", "errors.object_warnings.short_error_generic"},
	}
	for _, tt := range tests {
		e := &FetchError{URL: "https://example.com/m.json", StatusCode: tt.code}
		full, short := e.WarningKeys()
		assert.Equal(t, tt.full, full)
		assert.Equal(t, tt.short, short)
	}
}

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"@context": "http://iiif.io/api/presentation/2/context.json", "label": "Map"}`))
	})
	mux.HandleFunc("/not-json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a manifest</html>"))
	})
	mux.HandleFunc("/shapeless", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"label": "just some json"}`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient()
	ctx := t.Context()

	manifest, err := client.Fetch(ctx, srv.URL+"/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, Version2, DetectVersion(manifest))

	_, err = client.Fetch(ctx, srv.URL+"/not-json")
	assert.ErrorIs(t, err, ErrNotJSON)

	manifest, err = client.Fetch(ctx, srv.URL+"/shapeless")
	assert.ErrorIs(t, err, ErrMalformed)
	assert.NotNil(t, manifest)

	_, err = client.Fetch(ctx, srv.URL+"/missing")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.StatusCode)
}
