package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsplice/cmd/docsplice/commands"
	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/version"
)

func main() {
	cli := &commands.CLI{}
	globals := &commands.Global{Out: os.Stdout}
	parser := kong.Parse(cli,
		kong.Name("docsplice"),
		kong.Description("Splice generated API reference pages into a Sphinx site shell."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(globals),
	)

	if err := parser.Run(cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
