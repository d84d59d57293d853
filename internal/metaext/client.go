package metaext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// FetchTimeout bounds a single manifest request. Institutional servers can
// be slow; anything slower than this is treated as transient and only
// logged, never surfaced to readers.
const FetchTimeout = 30 * time.Second

const userAgent = "Telar/1.0"

// Returned by Fetch when the response body is not a manifest.
var (
	ErrNotJSON   = errors.New("manifest response is not valid JSON")
	ErrMalformed = errors.New("manifest missing required fields (@context or type)")
)

// FetchError is a non-2xx HTTP response from a manifest server.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("manifest fetch %s: HTTP %d", e.URL, e.StatusCode)
}

// WarningKeys maps the status code to the language-catalog keys for the
// full object warning and its short badge form.
func (e *FetchError) WarningKeys() (full, short string) {
	switch e.StatusCode {
	case 404:
		return "errors.object_warnings.iiif_404", "errors.object_warnings.short_404"
	case 429:
		return "errors.object_warnings.iiif_429", "errors.object_warnings.short_429"
	case 403:
		return "errors.object_warnings.iiif_403", "errors.object_warnings.short_403"
	case 401:
		return "errors.object_warnings.iiif_401", "errors.object_warnings.short_401"
	case 500:
		return "errors.object_warnings.iiif_500", "errors.object_warnings.short_500"
	case 503:
		return "errors.object_warnings.iiif_503", "errors.object_warnings.short_503"
	case 502:
		return "errors.object_warnings.iiif_502", "errors.object_warnings.short_502"
	default:
		return "errors.object_warnings.iiif_error_generic", "errors.object_warnings.short_error_generic"
	}
}

// Client fetches and parses external manifests. Requests are not retried:
// a failed fetch becomes a warning on the object and the build moves on.
type Client struct {
	http *resty.Client
}

func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetTimeout(FetchTimeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
	}
}

// Fetch retrieves and parses the manifest at url. HTTP errors come back as
// *FetchError; transport failures (timeouts, DNS) come back as-is so the
// caller can treat them as transient. A body that parses but lacks manifest
// shape returns ErrMalformed alongside the parsed document.
func (c *Client) Fetch(ctx context.Context, url string) (Manifest, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	var manifest Manifest
	if err := json.Unmarshal(resp.Body(), &manifest); err != nil {
		return nil, ErrNotJSON
	}
	if !manifest.HasManifestShape() {
		return manifest, ErrMalformed
	}
	return manifest, nil
}
