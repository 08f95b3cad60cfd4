package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlots"
)

// PositionsMarkdown renders open positions with their valuation when known.
func PositionsMarkdown(positions []taxlots.ProjectedPosition) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Positions\n\n")
	if len(positions) == 0 {
		fmt.Fprint(&b, "No open position.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Amount | Cost Basis | Value | Unrealized | Return |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, p := range positions {
		value, pnl, pct := "n/a", "n/a", "n/a"
		if p.ValueBase != nil {
			value = p.ValueBase.In(p.CostBasisBase.Currency()).String()
		}
		if p.UnrealizedPnlBase != nil {
			pnl = p.UnrealizedPnlBase.SignedString()
		}
		if p.UnrealizedPnlPct != nil {
			pct = p.UnrealizedPnlPct.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			p.AssetID,
			p.Amount,
			p.CostBasisBase,
			value,
			pnl,
			pct,
		)
	}
	return b.String()
}
