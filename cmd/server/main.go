package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build.
var version = "dev"

// CLI is the top-level command surface for the poker server process.
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" default:"1" help:"Run the poker server"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mcgserver"),
		kong.Description("Authoritative Texas Hold'em poker server over WebSocket, HTTP, and P2P"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
