package commands

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/config"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/mdx"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/pipeline"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
	"git.home.luguber.info/inful/docenrich/internal/plugin/enhancers"
	"git.home.luguber.info/inful/docenrich/internal/plugin/validators"
	"git.home.luguber.info/inful/docenrich/internal/toc"
)

// stages toggles the optional processor stages on top of the configuration.
type stages struct {
	noRepair bool
	noTOC    bool
}

// stack is the wired processing core.
type stack struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	repairer  *fmrepair.Engine
	toc       *toc.Builder
	processor *pipeline.Processor
}

func newStack(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder, st stages) *stack {
	a := analyzer.New(cfg.AnalyzerOptions())
	repairer := fmrepair.New(a, cfg.RepairOptions())
	builder := toc.New(cfg.TOCOptions())

	registry := newRegistry(cfg, a, repairer, builder)
	orch := pipeline.New(registry, pipeline.WithLogger(logger), pipeline.WithRecorder(recorder))
	processor := pipeline.NewProcessor(orch, repairer, builder,
		pipeline.WithRepair(cfg.Pipeline.RepairEnabled() && !st.noRepair),
		pipeline.WithTOC(cfg.Pipeline.TOCEnabled() && !st.noTOC),
		pipeline.WithProcessorLogger(logger),
		pipeline.WithProcessorRecorder(recorder))

	return &stack{cfg: cfg, analyzer: a, repairer: repairer, toc: builder, processor: processor}
}

// newRegistry registers the built-in plugins.
func newRegistry(cfg *config.Config, a *analyzer.Analyzer, repairer *fmrepair.Engine, builder *toc.Builder) *plugin.Registry {
	return plugin.NewRegistry().MustRegister(
		enhancers.NewContentAnalyzer(a),
		enhancers.NewMDX(mdx.NewAnalyzer(cfg.MDXOptions())),
		enhancers.NewFingerprint(time.Now),
		validators.NewFrontmatter(repairer),
		validators.NewMetadata(cfg.Analyzer.MinDescriptionLength, cfg.Analyzer.DescriptionMaxLength),
		validators.NewTOC(builder, cfg.TOC.MinEntries),
	)
}
