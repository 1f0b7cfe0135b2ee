package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docenrich/internal/batch"
	"git.home.luguber.info/inful/docenrich/internal/config"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/pipeline"
	"git.home.luguber.info/inful/docenrich/internal/report"
	"git.home.luguber.info/inful/docenrich/internal/reportstore"
	"git.home.luguber.info/inful/docenrich/internal/writer"
)

// runOptions describes one batch invocation.
type runOptions struct {
	write    bool
	dryRun   bool
	format   string
	quiet    bool
	stages   stages
	recorder metrics.Recorder
}

// enricher runs batches over collected items and reports the outcome.
type enricher struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   runOptions
	runner *batch.Runner
	writer *writer.Writer

	mu      sync.Mutex
	changed map[string]bool
}

func newEnricher(cfg *config.Config, logger *slog.Logger, opts runOptions) *enricher {
	if opts.recorder == nil {
		opts.recorder = metrics.NoopRecorder{}
	}
	e := &enricher{
		cfg:     cfg,
		logger:  logger,
		opts:    opts,
		writer:  &writer.Writer{DryRun: opts.dryRun, Perm: 0o644},
		changed: map[string]bool{},
	}

	st := newStack(cfg, logger, opts.recorder, opts.stages)
	runnerOpts := []batch.Option{batch.WithLogger(logger), batch.WithRecorder(opts.recorder)}
	if opts.write {
		runnerOpts = append(runnerOpts, batch.WithSink(e.sink))
	}
	e.runner = batch.NewRunner(st.processor, batch.Options{
		Concurrency: cfg.Pipeline.Concurrency,
		Timeout:     cfg.Pipeline.DocumentTimeout.Std(),
		Config:      cfg.Plugins,
	}, runnerOpts...)
	return e
}

func (e *enricher) sink(_ context.Context, item batch.Item, out *pipeline.Output) error {
	target := item.OutputPath
	if target == "" {
		target = item.InputPath
	}
	changed, err := e.writer.Write(target, out.Content, out.Metadata)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.changed[item.InputPath] = changed
	e.mu.Unlock()
	if changed {
		e.logger.Info("Document updated", logfields.Document(item.InputPath), logfields.Path(target))
	}
	return nil
}

func (e *enricher) wasChanged(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changed[path]
}

// run processes items, stores their reports and prints the summary to w.
func (e *enricher) run(ctx context.Context, items []batch.Item, w io.Writer) (report.Summary, error) {
	sum, err := e.runner.Run(ctx, items)
	if err != nil {
		return report.Summary{}, err
	}

	if err := e.store(ctx, sum); err != nil {
		e.logger.Warn("Failed to store quality reports", logfields.Error(err))
	}

	out := report.FromBatch(sum, e.wasChanged)
	formatter, err := report.NewFormatter(e.opts.format)
	if err != nil {
		return out, errors.ValidationError(err.Error()).Build()
	}
	if tf, ok := formatter.(*report.TextFormatter); ok {
		tf.Quiet = e.opts.quiet
	}
	if err := formatter.Format(w, out); err != nil {
		return out, errors.WrapError(err, errors.CategoryFileSystem, "failed to write report").Build()
	}

	if out.Failed > 0 {
		for _, res := range sum.Results {
			if !errors.Recoverable(res.Err) {
				return out, res.Err
			}
		}
		return out, errors.PipelineError(fmt.Sprintf("%d of %d documents failed", out.Failed, len(out.Documents))).
			WithContext("run_id", out.RunID).
			Build()
	}
	return out, nil
}

func (e *enricher) store(ctx context.Context, sum batch.Summary) error {
	if e.cfg.Reports.Path == "" {
		return nil
	}
	st, err := reportstore.NewSQLiteStore(e.cfg.Reports.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, res := range sum.Results {
		if res.Err != nil || res.Output == nil {
			continue
		}
		if err := st.Append(ctx, sum.RunID, res.Item.InputPath, res.Output.Reports); err != nil {
			return err
		}
	}
	return nil
}
