package pipeline

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
	"git.home.luguber.info/inful/docenrich/internal/toc"
)

// Document is the decoder's hand-off to the core.
type Document struct {
	Content string
	Context *docmodel.ProcessingContext
	// Metadata holds caller overrides; they win over derived values.
	Metadata *docmodel.Metadata
}

// Output is the processed document handed to the writer.
type Output struct {
	Content     string
	Metadata    *docmodel.Metadata
	Reports     []plugin.NamedReport
	Repair      *fmrepair.Result
	Failures    []*plugin.PluginError
	TOCInserted bool
}

// Degraded reports whether any plugin failed or the repair did not succeed.
func (o *Output) Degraded() bool {
	return len(o.Failures) > 0 || (o.Repair != nil && !o.Repair.Success)
}

// Processor composes the orchestrator with frontmatter repair and TOC
// insertion.
type Processor struct {
	orch     *Orchestrator
	repairer *fmrepair.Engine
	toc      *toc.Builder
	repair   bool
	addTOC   bool
	logger   *slog.Logger
	recorder metrics.Recorder
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRepair enables or disables the frontmatter repair stage.
func WithRepair(enabled bool) ProcessorOption {
	return func(p *Processor) { p.repair = enabled }
}

// WithTOC enables or disables TOC insertion.
func WithTOC(enabled bool) ProcessorOption {
	return func(p *Processor) { p.addTOC = enabled }
}

// WithProcessorLogger sets the processor's logger.
func WithProcessorLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithProcessorRecorder sets the recorder for document-level metrics.
func WithProcessorRecorder(r metrics.Recorder) ProcessorOption {
	return func(p *Processor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// NewProcessor creates a processor. Both stages are enabled by default.
func NewProcessor(orch *Orchestrator, repairer *fmrepair.Engine, builder *toc.Builder, opts ...ProcessorOption) *Processor {
	p := &Processor{
		orch:     orch,
		repairer: repairer,
		toc:      builder,
		repair:   true,
		addTOC:   true,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the full per-document flow.
func (p *Processor) Process(ctx context.Context, doc Document) (*Output, error) {
	start := time.Now()
	out, err := p.process(ctx, doc)
	p.recorder.ObserveDocumentDuration(time.Since(start))

	switch {
	case errors.HasCategory(err, errors.CategoryTimeout):
		p.recorder.IncDocumentOutcome(metrics.OutcomeTimeout)
	case err != nil && ctx.Err() != nil:
		p.recorder.IncDocumentOutcome(metrics.OutcomeCanceled)
	case err != nil:
		p.recorder.IncDocumentOutcome(metrics.OutcomeFailed)
	case out.Degraded():
		p.recorder.IncDocumentOutcome(metrics.OutcomeDegraded)
	default:
		p.recorder.IncDocumentOutcome(metrics.OutcomeSuccess)
	}
	return out, err
}

func (p *Processor) process(ctx context.Context, doc Document) (*Output, error) {
	pctx := doc.Context
	if pctx == nil {
		pctx = docmodel.NewProcessingContext("", "")
	}
	if _, ok := pctx.RawContent(); !ok {
		pctx = pctx.Derive(docmodel.WithRawContent(doc.Content))
	}
	path := pctx.InputPath()

	parsed, parseErr := docmodel.Parse(doc.Content)
	seed := docmodel.NewMetadata()
	if parseErr == nil {
		seed = seedMetadata(parsed)
	}
	seed = docmodel.Merge(seed, nil, doc.Metadata)

	run, err := p.orch.Run(ctx, doc.Content, seed, pctx)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Metadata: run.Metadata,
		Reports:  run.Reports,
		Failures: run.Failures,
	}

	content := doc.Content
	if parseErr == nil {
		content, err = parsed.WithMetadata(run.Metadata)
		if err != nil {
			// The existing block is malformed; salvage it before merging.
			content, err = p.salvage(doc.Content, path, run.Metadata)
		}
	} else {
		err = parseErr
	}
	if err != nil {
		p.logger.Warn("Keeping original frontmatter",
			logfields.Document(path),
			logfields.Error(err))
		content = doc.Content
	}

	if p.repair {
		res := p.repairer.RepairFrontmatter(content, path)
		out.Repair = &res
		if res.Success {
			content = res.RepairedContent
		}
	}

	if p.addTOC && pctx.Extension().IsMarkdown() {
		updated := p.toc.Insert(content)
		out.TOCInserted = updated != content
		content = updated
	}

	out.Content = content
	p.logger.Debug("Document processed",
		logfields.Document(path),
		logfields.Count(len(out.Failures)))
	return out, nil
}

func (p *Processor) salvage(content, path string, meta *docmodel.Metadata) (string, error) {
	res := p.repairer.RepairFrontmatter(content, path)
	if !res.Success {
		return "", errors.ValidationError("frontmatter could not be repaired").
			WithDocument(path).
			WithContext("issues", res.Issues).
			Build()
	}
	parsed, err := docmodel.Parse(res.RepairedContent)
	if err != nil {
		return "", err
	}
	return parsed.WithMetadata(meta)
}

// seedMetadata reads the document's own frontmatter. A block that does not
// parse contributes nothing; repair handles it later.
func seedMetadata(parsed *docmodel.ParsedDoc) *docmodel.Metadata {
	fields, err := parsed.Fields()
	if err != nil {
		return docmodel.NewMetadata()
	}
	return docmodel.MetadataFromFields(fields)
}
