package metrics

import "time"

// ResultLabel enumerates plugin result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultError    ResultLabel = "error"
	ResultPanic    ResultLabel = "panic"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel enumerates per-document outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeDegraded OutcomeLabel = "degraded"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeTimeout  OutcomeLabel = "timeout"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for plugin and document metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for concurrent use.
type Recorder interface {
	ObservePluginDuration(plugin string, d time.Duration)
	IncPluginResult(plugin string, result ResultLabel)
	ObserveQualityScore(plugin string, score int)
	ObserveDocumentDuration(d time.Duration)
	IncDocumentOutcome(outcome OutcomeLabel)
	SetBatchConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePluginDuration(string, time.Duration) {}
func (NoopRecorder) IncPluginResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveQualityScore(string, int)             {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration)       {}
func (NoopRecorder) IncDocumentOutcome(OutcomeLabel)             {}
func (NoopRecorder) SetBatchConcurrency(int)                     {}
