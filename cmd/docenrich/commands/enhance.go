package commands

import (
	"os"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
)

// EnhanceCmd implements the 'enhance' command.
type EnhanceCmd struct {
	Paths    []string `arg:"" optional:"" help:"Files or directories to process (default: current directory)"`
	Output   string   `short:"o" help:"Write results below this directory instead of in place" type:"path"`
	DryRun   bool     `help:"Process and report without writing files"`
	Format   string   `short:"f" default:"text" enum:"text,json" help:"Report format (text or json)"`
	Quiet    bool     `short:"q" help:"Only report documents with issues or failures"`
	NoRepair bool     `help:"Skip frontmatter repair"`
	NoTOC    bool     `name:"no-toc" help:"Skip table of contents insertion"`
}

func (c *EnhanceCmd) Run(g *Global) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.Output != "" {
		if err := os.MkdirAll(c.Output, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
				WithContext("path", c.Output).
				Build()
		}
	}

	items, err := collect(c.Paths, selector{include: cfg.Pipeline.Include, exclude: cfg.Pipeline.Exclude}, c.Output)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	e := newEnricher(cfg, g.Logger, runOptions{
		write:  true,
		dryRun: c.DryRun,
		format: c.Format,
		quiet:  c.Quiet,
		stages: stages{noRepair: c.NoRepair, noTOC: c.NoTOC},
	})
	_, err = e.run(ctx, items, os.Stdout)
	return err
}
