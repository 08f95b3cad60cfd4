package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/date"
)

// TaxYearMarkdown renders a tax year report to markdown.
func TaxYearMarkdown(r *taxlots.TaxYearReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tax Year Report %d\n\n", r.Year)
	fmt.Fprintf(&b, "Base currency: %s, tax profile: %s, lot method: %s\n\n", r.BaseCurrency, r.TaxProfile, r.LotMethodUsed)

	fmt.Fprint(&b, "## Realized Gains\n\n")
	if len(r.Disposals) == 0 {
		fmt.Fprint(&b, "No disposal during the year.\n\n")
	} else {
		writeDisposals(&b, r.Disposals)
		fmt.Fprintln(&b)
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Income\n\n")
		fmt.Fprintln(w, "| Date | Event | Asset | Type | Amount | Income |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|---:|---:|")
		for _, row := range r.Income {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				day(row.ReceivedAt),
				row.EventID,
				row.AssetID,
				row.Type,
				row.Amount,
				row.IncomeBase,
			)
		}
		fmt.Fprintln(w)
		return len(r.Income) > 0
	})

	fmt.Fprintf(&b, "## Holdings on %s\n\n", date.TaxYear(r.Year).To)
	if len(r.YearEndHoldings) == 0 {
		fmt.Fprint(&b, "No open position.\n\n")
	} else {
		fmt.Fprintln(&b, "| Asset | Amount | Cost Basis |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, p := range r.YearEndHoldings {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.AssetID, p.Amount, p.CostBasisBase)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "## Totals\n\n")
	fmt.Fprintln(&b, "| Total | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Proceeds | %s |\n", r.Totals.Proceeds)
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", r.Totals.CostBasis)
	fmt.Fprintf(&b, "| Fees | %s |\n", r.Totals.Fees)
	fmt.Fprintf(&b, "| **Realized Gain** | **%s** |\n", r.Totals.RealizedGain.SignedString())
	fmt.Fprintf(&b, "| Income | %s |\n", r.Totals.Income)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Warnings\n\n")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "- `%s` on event %s\n", warn.Code, warn.EventID)
		}
		return len(r.Warnings) > 0
	})

	return b.String()
}
