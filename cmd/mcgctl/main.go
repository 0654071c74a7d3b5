package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI is a debug tool that issues ClientMsgs against a running server's
// HTTP adapter and prints the returned ServerMsg, descended from the
// teacher's REPL loop but retargeted at HTTP request/response instead of
// a live TCP session.
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Addr    string           `kong:"default='http://localhost:8080',help='Base URL of the running server'"`

	NewGame  NewGameCmd  `cmd:"" name:"newgame" help:"Start a new game with the given seats"`
	Action   ActionCmd   `cmd:"" help:"Apply an action for a seat"`
	State    StateCmd    `cmd:"" help:"Fetch the current state (spectator view)"`
	NextHand NextHandCmd `cmd:"" name:"next-hand" help:"Advance to the next hand after showdown"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mcgctl"),
		kong.Description("Debug CLI for the poker server's HTTP adapter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
