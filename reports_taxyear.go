package taxlots

import (
	"fmt"
	"time"

	"github.com/etnz/taxlots/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// IncomeRow is a reward received during the tax year.
type IncomeRow struct {
	EventID    string
	AssetID    string
	Type       EventType
	ReceivedAt time.Time
	Amount     Quantity
	IncomeBase Money
}

// Totals are the decimal sums of a tax year.
type Totals struct {
	Proceeds     Money
	CostBasis    Money
	Fees         Money
	RealizedGain Money
	Income       Money
}

// TaxYearReport holds the disposals, income and year-end holdings of a
// calendar year. Export pipelines consume its fields verbatim.
type TaxYearReport struct {
	Year            int
	BaseCurrency    string
	TaxProfile      TaxProfile
	LotMethodUsed   LotMethod
	GeneratedAt     time.Time
	Disposals       []Disposal
	Income          []IncomeRow
	YearEndHoldings []Position
	Totals          Totals
	Warnings        []Warning
}

// TaxYearOptions configures BuildTaxYearReport.
type TaxYearOptions struct {
	Settings Settings
	Year     int
	// Override forces the lot method, ahead of the tax profile and the default.
	Override *LotMethod
	// Now stamps GeneratedAt. Defaults to time.Now.
	Now    func() time.Time
	Logger *zerolog.Logger
}

// BuildTaxYearReport replays the events twice: over the full history for the
// disposals of the year, and up to the last instant of the year for the
// year-end holdings. Both passes are independent and run concurrently.
func BuildTaxYearReport(events []LedgerEvent, opts TaxYearOptions) (*TaxYearReport, error) {
	s := opts.Settings
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	method := s.LotMethodFor(opts.Override)
	year := date.TaxYear(opts.Year)

	normalized, err := Normalize(events, s.TransferPolicy)
	if err != nil {
		return nil, err
	}

	// The bounded pass replays a prefix of the full history: it stays silent
	// so that each trace and warning is logged once.
	var full, bounded *Book
	var g errgroup.Group
	g.Go(func() (err error) {
		full, err = Replay(events, ReplayOptions{Settings: s, Method: method, Logger: opts.Logger})
		return err
	})
	g.Go(func() (err error) {
		bounded, err = Replay(events, ReplayOptions{Settings: s, Method: method, Until: year.Cutoff()})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	base := s.BaseCurrency
	report := &TaxYearReport{
		Year:            opts.Year,
		BaseCurrency:    base,
		TaxProfile:      s.TaxProfile,
		LotMethodUsed:   method,
		GeneratedAt:     now().UTC(),
		Disposals:       []Disposal{},
		Income:          []IncomeRow{},
		YearEndHoldings: bounded.Positions,
		Totals: Totals{
			Proceeds:     M(0, base),
			CostBasis:    M(0, base),
			Fees:         M(0, base),
			RealizedGain: M(0, base),
			Income:       M(0, base),
		},
	}
	if report.YearEndHoldings == nil {
		report.YearEndHoldings = []Position{}
	}

	for _, d := range full.Disposals {
		if d.TaxYear != opts.Year {
			continue
		}
		report.Disposals = append(report.Disposals, d)
		report.Totals.Proceeds = report.Totals.Proceeds.Add(d.Proceeds)
		report.Totals.CostBasis = report.Totals.CostBasis.Add(d.CostBasisConsumed)
		report.Totals.Fees = report.Totals.Fees.Add(d.Fee)
		report.Totals.RealizedGain = report.Totals.RealizedGain.Add(d.RealizedGain)
	}

	var ws warnings
	ws.add(bounded.Warnings...)
	for _, e := range normalized {
		if !e.Type.IsReward() || !year.Contains(e.Timestamp) {
			continue
		}
		income, ok := acquisitionCost(e, s.RewardsCostBasisMode)
		if !ok {
			ws.add(Warning{Code: WarnMissingFMV, EventID: e.ID})
		}
		row := IncomeRow{
			EventID:    e.ID,
			AssetID:    e.AssetID,
			Type:       e.Type,
			ReceivedAt: e.Timestamp,
			Amount:     e.Amount,
			IncomeBase: income.In(base),
		}
		report.Income = append(report.Income, row)
		report.Totals.Income = report.Totals.Income.Add(row.IncomeBase)
	}
	report.Warnings = ws.list
	if report.Warnings == nil {
		report.Warnings = []Warning{}
	}
	return report, nil
}
