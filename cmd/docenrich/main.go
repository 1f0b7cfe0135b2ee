package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docenrich/cmd/docenrich/commands"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
	"git.home.luguber.info/inful/docenrich/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	ctx := kong.Parse(cli,
		kong.Name("docenrich"),
		kong.Description("Enrich, validate and repair documentation metadata."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := ctx.Run(cli)
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
	os.Exit(adapter.Report(os.Stderr, err))
}
