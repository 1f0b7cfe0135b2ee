// Package pipeline runs registered plugins against documents and composes
// the per-document flow: enhancers, validators, frontmatter repair and TOC
// insertion.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

// Orchestrator executes a registry's plugins for one document at a time.
// It is safe for concurrent use; runs share nothing but the sealed registry.
type Orchestrator struct {
	registry *plugin.Registry
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for plugin failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// New creates an orchestrator for registry.
func New(registry *plugin.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunResult is the outcome of one orchestrator run.
type RunResult struct {
	Metadata *docmodel.Metadata
	Reports  []plugin.NamedReport
	// Failures lists isolated plugin errors in execution order.
	Failures []*plugin.PluginError
}

// Run seals the registry, then executes every enhancer in priority order
// followed by every validator. A failing or panicking plugin is logged and
// recorded in Failures; the metadata stays as it was before that plugin ran.
// Run only returns an error when ctx ends between plugins.
func (o *Orchestrator) Run(ctx context.Context, content string, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*RunResult, error) {
	o.registry.Seal()
	doc := documentName(pctx)

	result := &RunResult{Metadata: meta.Clone()}
	for _, e := range o.registry.Enhancers() {
		if err := checkContext(ctx, doc); err != nil {
			return nil, err
		}

		next, err := o.enhance(ctx, e, result.Metadata.Clone(), pctx)
		if err != nil {
			result.Failures = append(result.Failures, o.failure(e.Info(), "enhance", doc, err))
			continue
		}
		result.Metadata = next
	}

	for _, v := range o.registry.Validators() {
		if err := checkContext(ctx, doc); err != nil {
			return nil, err
		}

		report, err := o.validate(ctx, v, content, result.Metadata.Clone(), pctx)
		if err != nil {
			result.Failures = append(result.Failures, o.failure(v.Info(), "validate", doc, err))
			continue
		}
		result.Reports = append(result.Reports, plugin.NamedReport{Plugin: v.Info(), Report: report})
	}
	return result, nil
}

func (o *Orchestrator) enhance(ctx context.Context, e plugin.Enhancer, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (out *docmodel.Metadata, err error) {
	info := e.Info()
	defer o.observe(ctx, info.Name, time.Now(), &err)

	out, err = e.Enhance(ctx, meta, pctx)
	if err == nil && out == nil {
		err = fmt.Errorf("enhancer returned nil metadata")
	}
	return out, err
}

func (o *Orchestrator) validate(ctx context.Context, v plugin.Validator, content string, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (report plugin.QualityReport, err error) {
	info := v.Info()
	defer o.observe(ctx, info.Name, time.Now(), &err)

	report, err = v.Validate(ctx, content, meta, pctx)
	if err == nil {
		o.recorder.ObserveQualityScore(info.Name, report.Score)
	}
	return report, err
}

// observe converts a plugin panic into an error and records the outcome.
// It must be deferred directly so recover sees the panic.
func (o *Orchestrator) observe(ctx context.Context, name string, start time.Time, err *error) {
	result := metrics.ResultSuccess
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
		result = metrics.ResultPanic
	} else if *err != nil {
		result = metrics.ResultError
		if ctx.Err() != nil {
			result = metrics.ResultCanceled
		}
	}
	o.recorder.ObservePluginDuration(name, time.Since(start))
	o.recorder.IncPluginResult(name, result)
}

func (o *Orchestrator) failure(info plugin.Info, op, doc string, err error) *plugin.PluginError {
	o.logger.Warn("Plugin failed",
		logfields.Plugin(info.Name),
		logfields.PluginVersion(info.Version),
		logfields.Stage(op),
		logfields.Document(doc),
		logfields.Error(err))
	return plugin.NewPluginError(info, op, doc, err)
}

func checkContext(ctx context.Context, doc string) error {
	select {
	case <-ctx.Done():
	default:
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return errors.TimeoutError("document processing timed out").
			WithDocument(doc).
			Build()
	}
	return errors.WrapError(ctx.Err(), errors.CategoryPipeline, "document processing canceled").
		WithDocument(doc).
		Build()
}

func documentName(pctx *docmodel.ProcessingContext) string {
	if pctx == nil {
		return ""
	}
	return pctx.InputPath()
}
