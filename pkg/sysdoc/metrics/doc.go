// Package metrics defines the observability hooks of a package build.
//
// Builds report to a Recorder. NoopRecorder is the default; PrometheusRecorder
// exports the same observations as Prometheus collectors.
package metrics
