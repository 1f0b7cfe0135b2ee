// Package metrics provides the observability hooks for document processing.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	orch := pipeline.New(registry, pipeline.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The watch command serves the registry through HTTPHandler when a metrics
// listen address is configured.
package metrics
