package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsync/cmd/docsync/commands"
	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsync"),
		kong.Description("Mirror documentation sources into the MkDocs tree and regenerate its navigation."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := parser.Run(&commands.Global{}, cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
