package metrics

import "time"

// FetchResult enumerates manifest fetch outcome categories for counters.
type FetchResult string

const (
	FetchSuccess   FetchResult = "success"
	FetchHTTPError FetchResult = "http_error"
	FetchTimeout   FetchResult = "timeout"
	FetchInvalid   FetchResult = "invalid"
	FetchSkipped   FetchResult = "skipped"
)

// Recorder defines observability hooks for build and stage metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncRecords(contentType string, n int)
	IncWarnings(category string, n int)
	IncManifestFetch(result FetchResult)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncRecords(string, int)                     {}
func (NoopRecorder) IncWarnings(string, int)                    {}
func (NoopRecorder) IncManifestFetch(FetchResult)               {}
