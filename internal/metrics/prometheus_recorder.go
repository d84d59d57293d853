package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	records         *prom.CounterVec
	warnings        *prom.CounterVec
	manifestFetches *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "telar",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "telar",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.records = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "telar",
			Name:      "records_processed_total",
			Help:      "Records produced per content type",
		}, []string{"type"})
		pr.warnings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "telar",
			Name:      "warnings_total",
			Help:      "Author-facing warnings emitted per category",
		}, []string{"category"})
		pr.manifestFetches = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "telar",
			Name:      "manifest_fetches_total",
			Help:      "External manifest fetch outcomes",
		}, []string{"result"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.records, pr.warnings, pr.manifestFetches)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRecords(contentType string, n int) {
	if p == nil || p.records == nil || n <= 0 {
		return
	}
	p.records.WithLabelValues(contentType).Add(float64(n))
}

func (p *PrometheusRecorder) IncWarnings(category string, n int) {
	if p == nil || p.warnings == nil || n <= 0 {
		return
	}
	p.warnings.WithLabelValues(category).Add(float64(n))
}

func (p *PrometheusRecorder) IncManifestFetch(result FetchResult) {
	if p == nil || p.manifestFetches == nil {
		return
	}
	p.manifestFetches.WithLabelValues(string(result)).Inc()
}
