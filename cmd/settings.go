package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlots"
	"github.com/google/subcommands"
)

type settingsCmd struct {
	create bool
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "print the effective settings" }
func (*settingsCmd) Usage() string {
	return `taxlots settings [-init]

  Prints the settings in effect, in TOML. With -init, writes the default
  settings to the settings file if it does not exist yet.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.create, "init", false, "create the settings file with the default settings")
}

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.create {
		file, err := os.OpenFile(settingsFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return exitOnError("creating settings file", err)
		}
		defer file.Close()
		if err := taxlots.EncodeSettings(file, taxlots.DefaultSettings()); err != nil {
			return exitOnError("writing settings file", err)
		}
		fmt.Fprintf(stderr, "Settings file %q created.\n", settingsFile)
		return subcommands.ExitSuccess
	}

	settings, err := DecodeSettings()
	if err != nil {
		return exitOnError("loading settings", err)
	}
	if err := taxlots.EncodeSettings(stdout, settings); err != nil {
		return exitOnError("writing settings", err)
	}
	return subcommands.ExitSuccess
}
