package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/renderer"
	"github.com/google/subcommands"
)

// disposalsCmd holds the flags for the 'disposals' subcommand.
type disposalsCmd struct {
	method   string
	year     int
	parallel bool
	json     bool
}

func (*disposalsCmd) Name() string     { return "disposals" }
func (*disposalsCmd) Synopsis() string { return "replay the ledger and list the realized disposals" }
func (*disposalsCmd) Usage() string {
	return `taxlots disposals [-method <method>] [-year <year>] [-json]

  Replays the whole ledger and lists every disposal with its matched lots and
  realized gain. Use -year to keep the disposals of a single tax year.
`
}

func (c *disposalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.method, "method", "", "Lot method (FIFO, LIFO, HIFO, AVG_COST). Defaults to the settings")
	f.IntVar(&c.year, "year", 0, "Only list the disposals of this tax year")
	f.BoolVar(&c.parallel, "parallel", false, "replay assets concurrently")
	f.BoolVar(&c.json, "json", false, "print JSON instead of markdown")
}

func (c *disposalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	override, err := parseMethod(c.method)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing lot method: %v\n", err)
		return subcommands.ExitUsageError
	}
	settings, err := DecodeSettings()
	if err != nil {
		return exitOnError("loading settings", err)
	}
	events, err := DecodeLedger()
	if err != nil {
		return exitOnError("loading ledger", err)
	}

	book, err := taxlots.Replay(events, taxlots.ReplayOptions{
		Settings: settings,
		Method:   settings.LotMethodFor(override),
		Parallel: c.parallel,
		Logger:   logger(),
	})
	if err != nil {
		return exitOnError("replaying ledger", err)
	}

	disposals := book.Disposals
	if c.year != 0 {
		var kept []taxlots.Disposal
		for _, d := range disposals {
			if d.TaxYear == c.year {
				kept = append(kept, d)
			}
		}
		disposals = kept
	}

	if c.json {
		if disposals == nil {
			disposals = []taxlots.Disposal{}
		}
		data, err := json.MarshalIndent(disposals, "", "  ")
		if err != nil {
			return exitOnError("encoding disposals", err)
		}
		fmt.Fprintln(stdout, string(data))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.DisposalsMarkdown(disposals, book.Method))
	return subcommands.ExitSuccess
}
