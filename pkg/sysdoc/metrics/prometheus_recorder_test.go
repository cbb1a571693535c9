package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageSerialize, 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome("asset")
	pr.AddImages("vector", 2)
	pr.AddImages("raster", 0)
	pr.ObservePackageSize(40 * 1024)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("asset")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.images.WithLabelValues("vector")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveBuildDuration(time.Second)
		pr.IncBuildOutcome(OutcomeSuccess)
		pr.AddImages("raster", 1)
	})

	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageAssemble, time.Millisecond)
}
