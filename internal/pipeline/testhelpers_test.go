package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docenrich/internal/docmodel"
	"git.home.luguber.info/inful/docenrich/internal/plugin"
)

type enhanceFunc func(ctx context.Context, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*docmodel.Metadata, error)

type stubEnhancer struct {
	info plugin.Info
	fn   enhanceFunc
}

func (s *stubEnhancer) Info() plugin.Info { return s.info }

func (s *stubEnhancer) Enhance(ctx context.Context, meta *docmodel.Metadata, pctx *docmodel.ProcessingContext) (*docmodel.Metadata, error) {
	return s.fn(ctx, meta, pctx)
}

func newEnhancer(name string, priority int, fn enhanceFunc) *stubEnhancer {
	return &stubEnhancer{info: plugin.Info{Name: name, Version: "v1", Priority: priority}, fn: fn}
}

type stubValidator struct {
	info   plugin.Info
	report plugin.QualityReport
	err    error
	seen   *docmodel.Metadata
}

func (s *stubValidator) Info() plugin.Info { return s.info }

func (s *stubValidator) Validate(_ context.Context, _ string, meta *docmodel.Metadata, _ *docmodel.ProcessingContext) (plugin.QualityReport, error) {
	s.seen = meta
	return s.report, s.err
}

// captureHandler records log records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

// warnings returns the string value of key for every warning record.
func (h *captureHandler) warnings(key string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if r.Level != slog.LevelWarn {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				out = append(out, a.Value.String())
			}
			return true
		})
	}
	return out
}
