// Command taxlots replays a ledger of portfolio events into tax lots and
// reports realized gains, income and holdings.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/taxlots/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.RegisterFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when invoked by the shell to complete the command line.
	cmd.Completion(commander).Complete("taxlots")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
