package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/docenrich/internal/analyzer"
	"git.home.luguber.info/inful/docenrich/internal/fmrepair"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/logfields"
	"git.home.luguber.info/inful/docenrich/internal/writer"
)

// RepairCmd implements the 'repair' command.
type RepairCmd struct {
	Paths []string `arg:"" optional:"" help:"Files or directories to repair (default: current directory)"`
	Check bool     `help:"Report needed repairs without writing; fails when any are needed"`
}

func (c *RepairCmd) Run(g *Global) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	items, err := collect(c.Paths, selector{include: cfg.Pipeline.Include, exclude: cfg.Pipeline.Exclude}, "")
	if err != nil {
		return err
	}

	engine := fmrepair.New(analyzer.New(cfg.AnalyzerOptions()), cfg.RepairOptions())
	w := &writer.Writer{DryRun: c.Check, Perm: 0o644}

	var fixed, failed int
	for _, item := range items {
		// #nosec G304 -- paths come from the command line.
		data, err := os.ReadFile(item.InputPath)
		if err != nil {
			g.Logger.Error("Failed to read document", logfields.Document(item.InputPath), logfields.Error(err))
			failed++
			continue
		}

		res := engine.RepairFrontmatter(string(data), item.InputPath)
		switch {
		case !res.Success:
			failed++
			fmt.Printf("✗ %s\n", item.InputPath)
		case res.Fixed:
			fixed++
			if _, err := w.Write(item.InputPath, res.RepairedContent, nil); err != nil {
				return err
			}
			fmt.Printf("✎ %s\n", item.InputPath)
		default:
			continue
		}
		for _, msg := range res.Issues {
			fmt.Printf("  %s\n", msg)
		}
	}

	fmt.Printf("%d repaired, %d unrepairable, %d checked\n", fixed, failed, len(items))
	switch {
	case failed > 0:
		return errors.ValidationError(fmt.Sprintf("%d documents could not be repaired", failed)).Build()
	case c.Check && fixed > 0:
		return errors.ValidationError(fmt.Sprintf("%d documents need repair", fixed)).Build()
	}
	return nil
}
