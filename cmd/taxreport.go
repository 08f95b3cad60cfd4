package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/renderer"
	"github.com/google/subcommands"
)

// taxReportCmd holds the flags for the 'tax-report' subcommand.
type taxReportCmd struct {
	year   int
	method string
	json   bool
}

func (*taxReportCmd) Name() string     { return "tax-report" }
func (*taxReportCmd) Synopsis() string { return "display the tax report of a calendar year" }
func (*taxReportCmd) Usage() string {
	return `taxlots tax-report [-year <year>] [-method <method>] [-json]

  Displays the disposals, the reward income and the year-end holdings of a
  calendar year (UTC). The lot method is the -method flag if set, else the
  method mandated by the tax profile, else the lot_method setting.

Usage Examples:
# Last year's report, as JSON for an export pipeline.
$ taxlots tax-report -json

`
}

func (c *taxReportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().UTC().Year()-1, "Tax year of the report")
	f.StringVar(&c.method, "method", "", "Lot method override (FIFO, LIFO, HIFO, AVG_COST)")
	f.BoolVar(&c.json, "json", false, "print JSON instead of markdown")
}

func (c *taxReportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, err := taxlots.BuildTaxYearReport(events, taxlots.TaxYearOptions{
		Settings: settings,
		Year:     c.year,
		Override: override,
		Logger:   logger(),
	})
	if err != nil {
		return exitOnError("building tax report", err)
	}
	if c.json {
		if err := taxlots.EncodeTaxYearReport(stdout, report); err != nil {
			return exitOnError("encoding tax report", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.TaxYearMarkdown(report))
	return subcommands.ExitSuccess
}
