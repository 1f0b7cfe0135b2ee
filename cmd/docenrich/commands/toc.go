package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/toc"
	"git.home.luguber.info/inful/docenrich/internal/writer"
)

// TOCCmd implements the 'toc' command.
type TOCCmd struct {
	Paths  []string `arg:"" optional:"" help:"Files or directories (default: current directory)"`
	Remove bool     `help:"Remove existing tables of contents"`
	Check  bool     `help:"Fail when a table of contents is missing or stale"`
	Print  string   `enum:",markdown,html" default:"" help:"Print the generated table of contents instead of editing (markdown or html)"`
}

func (c *TOCCmd) Run(g *Global) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	items, err := collect(c.Paths, selector{include: cfg.Pipeline.Include, exclude: cfg.Pipeline.Exclude}, "")
	if err != nil {
		return err
	}

	builder := toc.New(cfg.TOCOptions())
	w := writer.New()
	var flagged int
	for _, item := range items {
		// #nosec G304 -- paths come from the command line.
		data, err := os.ReadFile(item.InputPath)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
				WithContext("path", item.InputPath).
				Build()
		}
		content := string(data)

		switch {
		case c.Print != "":
			entries := builder.Entries(content)
			fmt.Printf("# %s\n", item.InputPath)
			if c.Print == "html" {
				fmt.Print(toc.RenderHTML(entries))
			} else {
				fmt.Print(toc.RenderMarkdown(entries))
			}
			continue
		case c.Check:
			switch {
			case builder.IsStale(content):
				flagged++
				fmt.Printf("stale   %s\n", item.InputPath)
			case !builder.HasExisting(content) && len(builder.Entries(content)) > 0:
				flagged++
				fmt.Printf("missing %s\n", item.InputPath)
			}
			continue
		}

		updated := builder.Insert(content)
		if c.Remove {
			updated = builder.Remove(content)
		}
		if updated == content {
			continue
		}
		if _, err := w.Write(item.InputPath, updated, nil); err != nil {
			return err
		}
		flagged++
		fmt.Printf("updated %s\n", item.InputPath)
	}

	if c.Check && flagged > 0 {
		return errors.ValidationError(fmt.Sprintf("%d documents have a missing or stale table of contents", flagged)).Build()
	}
	return nil
}
