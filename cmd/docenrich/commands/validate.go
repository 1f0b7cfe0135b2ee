package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Paths    []string `arg:"" optional:"" help:"Files or directories to score (default: current directory)"`
	Format   string   `short:"f" default:"text" enum:"text,json" help:"Report format (text or json)"`
	Quiet    bool     `short:"q" help:"Only report documents with issues or failures"`
	MinScore int      `help:"Fail when any document scores below this value" default:"0"`
}

func (c *ValidateCmd) Run(g *Global) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	items, err := collect(c.Paths, selector{include: cfg.Pipeline.Include, exclude: cfg.Pipeline.Exclude}, "")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	e := newEnricher(cfg, g.Logger, runOptions{format: c.Format, quiet: c.Quiet})
	sum, err := e.run(ctx, items, os.Stdout)
	if err != nil {
		return err
	}

	below := 0
	for _, doc := range sum.Documents {
		if doc.Score < c.MinScore {
			below++
		}
	}
	if below > 0 {
		return errors.ValidationError(fmt.Sprintf("%d documents scored below %d", below, c.MinScore)).Build()
	}
	return nil
}
