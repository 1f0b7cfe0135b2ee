package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
	"git.home.luguber.info/inful/docenrich/internal/plugin/enhancers"
	"git.home.luguber.info/inful/docenrich/internal/toc"
)

const guide = "# Guide\n\nThis guide explains how to install and use the tool in a few steps.\n\n## Install\n\nRun it.\n\n## Use\n\nCall it.\n"

type outcomeRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes []metrics.OutcomeLabel
}

func (r *outcomeRecorder) IncDocumentOutcome(o metrics.OutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func newTestProcessor(rec metrics.Recorder, extra ...plugin.Plugin) *Processor {
	a := analyzer.New(analyzer.DefaultOptions())
	reg := plugin.NewRegistry().MustRegister(enhancers.NewContentAnalyzer(a))
	reg.MustRegister(extra...)
	logger := slog.New(&captureHandler{})
	orch := New(reg, WithLogger(logger), WithRecorder(rec))
	return NewProcessor(orch,
		fmrepair.New(a, fmrepair.DefaultOptions()),
		toc.New(toc.DefaultOptions()),
		WithProcessorLogger(logger),
		WithProcessorRecorder(rec))
}

func TestProcess_EnrichesRepairsAndInsertsTOC(t *testing.T) {
	rec := &outcomeRecorder{}
	p := newTestProcessor(rec)

	out, err := p.Process(context.Background(), Document{
		Content: guide,
		Context: docmodel.NewProcessingContext("docs/guide.md", ""),
	})
	require.NoError(t, err)

	require.Equal(t, "Guide", out.Metadata.Title)
	require.True(t, strings.HasPrefix(out.Content,
		"---\ntitle: \"Guide\"\ndescription: \"This guide explains how to install and use the tool in a few steps.\"\n"))
	require.Contains(t, out.Content, "# Guide\n\n## Table of Contents\n\n- [Install](#install)\n- [Use](#use)\n\n## Install")
	require.True(t, out.TOCInserted)
	require.NotNil(t, out.Repair)
	require.True(t, out.Repair.Success)
	require.False(t, out.Repair.Fixed)
	require.False(t, out.Degraded())
	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeSuccess}, rec.outcomes)
}

func TestProcess_IsStableOnItsOwnOutput(t *testing.T) {
	p := newTestProcessor(nil)
	pctx := docmodel.NewProcessingContext("docs/guide.md", "")

	first, err := p.Process(context.Background(), Document{Content: guide, Context: pctx})
	require.NoError(t, err)
	second, err := p.Process(context.Background(), Document{Content: first.Content, Context: pctx})
	require.NoError(t, err)

	require.False(t, second.TOCInserted)
	require.Equal(t, first.Metadata.Title, second.Metadata.Title)
	require.Equal(t, first.Metadata.Description, second.Metadata.Description)
}

func TestProcess_ExistingFrontmatterAndOverridesWin(t *testing.T) {
	p := newTestProcessor(nil)
	overrides := docmodel.NewMetadata()
	overrides.Category = "howto"

	out, err := p.Process(context.Background(), Document{
		Content:  "---\ntitle: \"Handbook\"\nweight: 2\n---\n" + guide,
		Context:  docmodel.NewProcessingContext("guide.md", ""),
		Metadata: overrides,
	})
	require.NoError(t, err)

	require.Equal(t, "Handbook", out.Metadata.Title)
	require.Equal(t, "howto", out.Metadata.Category)
	require.Contains(t, out.Content, "weight: 2\n")
	require.Contains(t, out.Content, "category: \"howto\"\n")
}

func TestProcess_SkipsTOCForPlainText(t *testing.T) {
	p := newTestProcessor(nil)

	out, err := p.Process(context.Background(), Document{
		Content: guide,
		Context: docmodel.NewProcessingContext("notes.txt", ""),
	})
	require.NoError(t, err)
	require.False(t, out.TOCInserted)
	require.NotContains(t, out.Content, "Table of Contents")
}

func TestProcess_StagesCanBeDisabled(t *testing.T) {
	p := newTestProcessor(nil)
	p = NewProcessor(p.orch, p.repairer, p.toc, WithRepair(false), WithTOC(false))

	out, err := p.Process(context.Background(), Document{
		Content: guide,
		Context: docmodel.NewProcessingContext("guide.md", ""),
	})
	require.NoError(t, err)
	require.Nil(t, out.Repair)
	require.False(t, out.TOCInserted)
}

func TestProcess_UnclosedFrontmatterDegrades(t *testing.T) {
	rec := &outcomeRecorder{}
	p := newTestProcessor(rec)
	content := "---\ntitle: Broken\nBody text without a closing fence.\n"

	out, err := p.Process(context.Background(), Document{
		Content: content,
		Context: docmodel.NewProcessingContext("broken.md", ""),
	})
	require.NoError(t, err)
	require.Equal(t, content, out.Content)
	require.False(t, out.Repair.Success)
	require.Equal(t, []string{fmrepair.MsgUnclosedBlock}, out.Repair.Issues)
	require.True(t, out.Degraded())
	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeDegraded}, rec.outcomes)
}

func TestProcess_PluginFailureDegrades(t *testing.T) {
	rec := &outcomeRecorder{}
	failing := newEnhancer("failing", 1, func(context.Context, *docmodel.Metadata, *docmodel.ProcessingContext) (*docmodel.Metadata, error) {
		return nil, errors.New("no luck")
	})
	p := newTestProcessor(rec, failing)

	out, err := p.Process(context.Background(), Document{
		Content: guide,
		Context: docmodel.NewProcessingContext("guide.md", ""),
	})
	require.NoError(t, err)
	require.Len(t, out.Failures, 1)
	require.Equal(t, "Guide", out.Metadata.Title)
	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeDegraded}, rec.outcomes)
}

func TestProcess_TimeoutOutcome(t *testing.T) {
	rec := &outcomeRecorder{}
	p := newTestProcessor(rec)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := p.Process(ctx, Document{Content: guide, Context: docmodel.NewProcessingContext("guide.md", "")})
	require.Error(t, err)
	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeTimeout}, rec.outcomes)
}
