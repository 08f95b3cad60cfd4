package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/date"
	"github.com/etnz/taxlots/renderer"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	method    string
	on        string
	prices    string
	pricePath string
	json      bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display open positions and their unrealized gains" }
func (*positionsCmd) Usage() string {
	return `taxlots positions [-d <date>] [-method <method>] [-prices <file>] [-price-path <jsonpath>] [-json]

  Replays the ledger up to the end of a day and displays the open positions.
  When a price document is given, positions are valued and the unrealized
  gains are computed.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.method, "method", "", "Lot method (FIFO, LIFO, HIFO, AVG_COST). Defaults to the settings")
	f.StringVar(&c.on, "d", "", "Date of the positions, end of day UTC. Defaults to the full ledger")
	f.StringVar(&c.prices, "prices", envOr("TAXLOTS_PRICES_FILE", ""), "JSON document (file or URL) of unit prices in the base currency")
	f.StringVar(&c.pricePath, "price-path", taxlots.DefaultPricePath, "JSONPath selecting the quotes in the price document")
	f.BoolVar(&c.json, "json", false, "print JSON instead of markdown")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	override, err := parseMethod(c.method)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing lot method: %v\n", err)
		return subcommands.ExitUsageError
	}
	opts := taxlots.ReplayOptions{Logger: logger()}
	if c.on != "" {
		on, err := date.Parse(c.on)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		opts.Until = on.End()
	}

	if opts.Settings, err = DecodeSettings(); err != nil {
		return exitOnError("loading settings", err)
	}
	opts.Method = opts.Settings.LotMethodFor(override)

	var prices taxlots.PriceTable
	if c.prices != "" {
		if prices, err = decodePrices(ctx, c.prices, c.pricePath); err != nil {
			return exitOnError("loading prices", err)
		}
	}

	events, err := DecodeLedger()
	if err != nil {
		return exitOnError("loading ledger", err)
	}
	book, err := taxlots.Replay(events, opts)
	if err != nil {
		return exitOnError("replaying ledger", err)
	}

	var valuer taxlots.Valuer
	if prices != nil {
		valuer = prices
	}
	projected := taxlots.Project(book.Positions, valuer)

	if c.json {
		data, err := json.MarshalIndent(projected, "", "  ")
		if err != nil {
			return exitOnError("encoding positions", err)
		}
		fmt.Fprintln(stdout, string(data))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.PositionsMarkdown(projected))
	return subcommands.ExitSuccess
}

// decodePrices reads the price document from a file or an http(s) URL.
func decodePrices(ctx context.Context, file, path string) (taxlots.PriceTable, error) {
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return taxlots.FetchPrices(ctx, taxlots.DailyClient("", logger()), file, path)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return taxlots.DecodePrices(f, path)
}
