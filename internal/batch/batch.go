// Package batch runs the document processor over many files with bounded
// concurrency and a per-document timeout.
package batch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/pipeline"
)

// Defaults applied when Options leave a field unset.
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
)

// Processor is the per-document stage a Runner drives.
type Processor interface {
	Process(ctx context.Context, doc pipeline.Document) (*pipeline.Output, error)
}

// Sink receives each successfully processed document. It is called from
// worker goroutines and must be safe for concurrent use.
type Sink func(ctx context.Context, item Item, out *pipeline.Output) error

// Item is one document scheduled for processing.
type Item struct {
	InputPath  string
	OutputPath string
	// Content, when set, is used instead of reading InputPath.
	Content  string
	Metadata *docmodel.Metadata
}

// Result records the outcome for one item.
type Result struct {
	Item     Item
	Output   *pipeline.Output
	Err      error
	Duration time.Duration
}

// Summary is the outcome of a whole batch, results in input order.
type Summary struct {
	RunID   string
	Results []Result
}

// Failed counts items that ended with an error.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Options configures a Runner.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	Config      map[string]any
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Runner processes batches. A Runner can serve many batches sequentially or
// concurrently; nothing is shared between documents.
type Runner struct {
	proc     Processor
	sink     Sink
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

func WithSink(s Sink) Option { return func(r *Runner) { r.sink = s } }

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(proc Processor, opts Options, options ...Option) *Runner {
	r := &Runner{
		proc:     proc,
		opts:     opts.withDefaults(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Run processes items and returns once all have finished. Per-document
// failures land in the Summary; Run itself only fails when ctx ends before
// every item was scheduled.
func (r *Runner) Run(ctx context.Context, items []Item) (Summary, error) {
	runID := uuid.NewString()
	logger := r.logger.With(logfields.RunID(runID))
	summary := Summary{RunID: runID, Results: make([]Result, len(items))}

	r.recorder.SetBatchConcurrency(r.opts.Concurrency)
	defer r.recorder.SetBatchConcurrency(0)

	logger.Info("Batch started",
		logfields.Count(len(items)),
		logfields.Workers(r.opts.Concurrency))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, item := range items {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return summary, errors.WrapError(ctx.Err(), errors.CategoryPipeline, "batch canceled").
				WithContext("run_id", runID).
				Build()
		default:
		}

		g.Go(func() error {
			summary.Results[i] = r.runOne(gctx, runID, item, logger)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("Batch finished",
		logfields.Count(len(items)),
		slog.Int("failed", summary.Failed()),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, runID string, item Item, logger *slog.Logger) Result {
	start := time.Now()
	res := Result{Item: item}

	content := item.Content
	if content == "" {
		// #nosec G304 -- paths come from the configured input set.
		data, err := os.ReadFile(item.InputPath)
		if err != nil {
			res.Err = errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
				WithContext("path", item.InputPath).
				Build()
			logger.Error("Document failed", logfields.Document(item.InputPath), logfields.Error(res.Err))
			res.Duration = time.Since(start)
			return res
		}
		content = string(data)
	}

	pctx := docmodel.NewProcessingContext(item.InputPath, item.OutputPath,
		docmodel.WithConfig(r.opts.Config),
		docmodel.WithRawContent(content),
		docmodel.WithRunID(runID))

	out, err := r.processWithTimeout(ctx, pipeline.Document{
		Content:  content,
		Context:  pctx,
		Metadata: item.Metadata,
	})
	if err == nil && r.sink != nil {
		err = r.sink(ctx, item, out)
	}

	res.Output, res.Err = out, err
	res.Duration = time.Since(start)
	if err != nil {
		logger.Error("Document failed", logfields.Document(item.InputPath), logfields.Error(err))
	} else {
		logger.Debug("Document done",
			logfields.Document(item.InputPath),
			logfields.DurationMS(float64(res.Duration.Milliseconds())))
	}
	return res
}

type processed struct {
	out *pipeline.Output
	err error
}

// processWithTimeout bounds one document. The processor only observes ctx
// between plugins, so a plugin that blocks keeps running in the background;
// its late result is dropped.
func (r *Runner) processWithTimeout(ctx context.Context, doc pipeline.Document) (*pipeline.Output, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	done := make(chan processed, 1)
	go func() {
		out, err := r.proc.Process(ctx, doc)
		done <- processed{out: out, err: err}
	}()

	select {
	case p := <-done:
		return p.out, p.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.TimeoutError("document processing timed out").
				WithDocument(doc.Context.InputPath()).
				WithContext("timeout", r.opts.Timeout.String()).
				Build()
		}
		return nil, errors.WrapError(ctx.Err(), errors.CategoryPipeline, "document processing canceled").
			WithDocument(doc.Context.InputPath()).
			Build()
	}
}
