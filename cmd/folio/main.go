package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/folio/cmd/folio/commands"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("folio"),
		kong.Description("Build and serve a personal blog from Markdown."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(&commands.Global{}),
	)
	err := parser.Run(&cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
