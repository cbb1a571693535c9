package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	images        *prom.CounterVec
	packageSize   prom.Histogram
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sysdoc",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sysdoc",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sysdoc",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by success or error category",
		}, []string{"outcome"}),
		images: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sysdoc",
			Name:      "images_total",
			Help:      "Embedded images by kind",
		}, []string{"kind"}),
		packageSize: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sysdoc",
			Name:      "package_size_bytes",
			Help:      "Size of written packages",
			Buckets:   prom.ExponentialBuckets(16*1024, 4, 8),
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.images, pr.packageSize)
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

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddImages(kind string, n int) {
	if p == nil || p.images == nil || n <= 0 {
		return
	}
	p.images.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) ObservePackageSize(bytes int) {
	if p == nil || p.packageSize == nil {
		return
	}
	p.packageSize.Observe(float64(bytes))
}
