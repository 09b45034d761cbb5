// Package metrics records build, subscription, chat and HTTP metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	svc := build.NewService(build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The serve command activates PrometheusRecorder and exposes the registry
// through HTTPHandler; the build command keeps the noop recorder.
package metrics
