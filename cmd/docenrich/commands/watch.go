package commands

import (
	"context"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docenrich/internal/config"
	ferrors "git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
	"git.home.luguber.info/inful/docenrich/internal/metrics"
	"git.home.luguber.info/inful/docenrich/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Paths     []string `arg:"" optional:"" help:"Directories to watch (default: current directory)"`
	Metrics   string   `help:"Serve Prometheus metrics on this address (overrides config)" placeholder:"ADDR"`
	NoInitial bool     `help:"Skip the initial pass over all documents"`
	Format    string   `short:"f" default:"text" enum:"text,json" help:"Report format (text or json)"`
}

func (c *WatchCmd) Run(g *Global) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	roots := c.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	sel := selector{include: cfg.Pipeline.Include, exclude: cfg.Pipeline.Exclude}

	ctx, cancel := signalContext()
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if addr := c.metricsAddr(cfg); addr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv := metrics.NewServer(addr, cfg.Metrics.Path, reg, g.Logger)
		if err := srv.Start(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "cannot listen for metrics").
				WithContext("addr", addr).
				Build()
		}
		defer func() { _ = srv.Shutdown() }()
	}

	e := newEnricher(cfg, g.Logger, runOptions{write: true, format: c.Format, quiet: true, recorder: recorder})
	process := func(ctx context.Context, paths []string) {
		if len(paths) == 0 {
			return
		}
		items, err := collect(paths, sel, "")
		if err != nil {
			g.Logger.Error("Failed to collect documents", logfields.Error(err))
			return
		}
		if len(items) == 0 {
			return
		}
		if _, err := e.run(ctx, items, os.Stdout); err != nil {
			g.Logger.Warn("Run finished with failures", logfields.Error(err))
		}
	}

	if !c.NoInitial {
		process(ctx, roots)
	}

	w, err := watch.New(roots, sel.matches, func(ctx context.Context, paths []string) {
		process(ctx, onlyItems(paths))
	}, watch.WithDebounce(cfg.Watch.Debounce.Std()), watch.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func (c *WatchCmd) metricsAddr(cfg *config.Config) string {
	if c.Metrics != "" {
		return c.Metrics
	}
	if cfg.Metrics.Enabled {
		return cfg.Metrics.Listen
	}
	return ""
}

// onlyItems keeps watch paths as explicit files so collect takes them as is.
func onlyItems(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
