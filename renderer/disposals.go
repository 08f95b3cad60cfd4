package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/taxlots"
)

// DisposalsMarkdown renders the disposals of a replay, one row per disposal.
func DisposalsMarkdown(disposals []taxlots.Disposal, method taxlots.LotMethod) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Disposals\n\n")
	fmt.Fprintf(&b, "Method: %s\n\n", method)
	if len(disposals) == 0 {
		fmt.Fprint(&b, "No disposal.\n")
		return b.String()
	}
	writeDisposals(&b, disposals)
	return b.String()
}

func writeDisposals(w io.Writer, disposals []taxlots.Disposal) {
	fmt.Fprintln(w, "| Date | Event | Asset | Amount | Proceeds | Cost Basis | Fee | Gain | Lots |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|---:|---:|")
	for _, d := range disposals {
		amount := d.Amount.String()
		if d.Shortfall.IsPositive() {
			amount += " (short " + d.Shortfall.String() + ")"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s | %d |\n",
			day(d.DisposedAt),
			d.EventID,
			d.AssetID,
			amount,
			d.Proceeds,
			d.CostBasisConsumed,
			d.Fee,
			d.RealizedGain.SignedString(),
			len(d.LotsMatched),
		)
	}
}
