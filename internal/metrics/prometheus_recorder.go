package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docenrich"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pluginDuration   *prom.HistogramVec
	pluginResults    *prom.CounterVec
	qualityScore     *prom.HistogramVec
	documentDuration prom.Histogram
	documentOutcome  *prom.CounterVec
	batchConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pluginDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "plugin_duration_seconds",
			Help:      "Duration of individual plugin invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"plugin"}),
		pluginResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_results_total",
			Help:      "Plugin invocation results by outcome",
		}, []string{"plugin", "result"}),
		qualityScore: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "quality_score",
			Help:      "Quality scores reported by validators",
			Buckets:   prom.LinearBuckets(0, 10, 11),
		}, []string{"plugin"}),
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Total processing time per document",
			Buckets:   prom.DefBuckets,
		}),
		documentOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_outcomes_total",
			Help:      "Document outcomes by final status",
		}, []string{"outcome"}),
		batchConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_concurrency",
			Help:      "Worker limit of the most recent batch",
		}),
	}
	reg.MustRegister(pr.pluginDuration, pr.pluginResults, pr.qualityScore, pr.documentDuration, pr.documentOutcome, pr.batchConcurrency)
	return pr
}

func (p *PrometheusRecorder) ObservePluginDuration(plugin string, d time.Duration) {
	if p == nil {
		return
	}
	p.pluginDuration.WithLabelValues(plugin).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPluginResult(plugin string, result ResultLabel) {
	if p == nil {
		return
	}
	p.pluginResults.WithLabelValues(plugin, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveQualityScore(plugin string, score int) {
	if p == nil {
		return
	}
	p.qualityScore.WithLabelValues(plugin).Observe(float64(score))
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.documentOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetBatchConcurrency(n int) {
	if p == nil {
		return
	}
	p.batchConcurrency.Set(float64(n))
}
