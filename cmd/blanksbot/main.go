package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Serve       ServeCmd         `cmd:"" help:"Run the game server"`
	ImportCards ImportCardsCmd   `cmd:"import-cards" help:"Replace the official card corpus from text files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blanksbot"),
		kong.Description("Fill-in-the-blank card game played over chat"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
