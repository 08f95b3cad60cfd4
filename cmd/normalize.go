package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/taxlots"
	"github.com/google/subcommands"
)

type normalizeCmd struct {
	write bool
}

func (*normalizeCmd) Name() string { return "normalize" }
func (*normalizeCmd) Synopsis() string {
	return "validates the ledger and prints its canonical active events"
}
func (*normalizeCmd) Usage() string {
	return `taxlots normalize [-w]

  Validates the ledger file, applies the edits (supersedes and deletes) and
  prints the active events sorted by timestamp in canonical JSONL.

  With -w the ledger file is rewritten in canonical JSONL instead. Every
  event is kept, edits and deleted events included, in the order of the log:
  the position of an edit in the log decides which version wins.

Usage Examples:
# Checks the ledger and prints the canonical form.
$ taxlots normalize

`
}

func (c *normalizeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "w", false, "rewrite the whole ledger file in canonical form instead of printing")
}

func (c *normalizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := DecodeSettings()
	if err != nil {
		return exitOnError("loading settings", err)
	}
	events, err := DecodeLedger()
	if err != nil {
		return exitOnError("loading ledger", err)
	}
	normalized, err := taxlots.Normalize(events, settings.TransferPolicy)
	if err != nil {
		return exitOnError("normalizing ledger", err)
	}
	logger().Debug().Int("read", len(events)).Int("active", len(normalized)).Msg("ledger normalized")

	if !c.write {
		if err := taxlots.EncodeEvents(stdout, normalized); err != nil {
			return exitOnError("writing events", err)
		}
		return subcommands.ExitSuccess
	}
	if err := EncodeLedger(events); err != nil {
		return exitOnError("writing ledger", err)
	}
	fmt.Fprintf(stderr, "Ledger file %q has been formatted: %d events, %d active.\n", ledgerFile, len(events), len(normalized))
	return subcommands.ExitSuccess
}
