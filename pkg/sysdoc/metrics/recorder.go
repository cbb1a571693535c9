package metrics

import "time"

// Stage names reported by a build.
const (
	StageValidate  = "validate"
	StageRasterize = "rasterize"
	StageSerialize = "serialize"
	StageAssemble  = "assemble"
)

// OutcomeSuccess is the build outcome label of a successful build. Failed
// builds report their error category (structure, asset, packaging, internal).
const OutcomeSuccess = "success"

// Recorder defines observability hooks for builds and their stages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	AddImages(kind string, n int) // kind: raster|vector
	ObservePackageSize(bytes int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) AddImages(string, int)                      {}
func (NoopRecorder) ObservePackageSize(int)                     {}
