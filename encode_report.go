package taxlots

import (
	"encoding/json"
	"fmt"
	"io"
)

// Report layouts: decimals are strings, timestamps use TimestampFormat and
// fields keep a stable order so that identical reports are identical bytes.

func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("assetId", l.AssetID)
	w.Append("acquiredAt", l.AcquiredAt.UTC().Format(TimestampFormat))
	w.Append("amountRemaining", l.AmountRemaining)
	w.Append("costBasisRemaining", l.CostBasisRemaining)
	w.Append("originEventId", l.OriginEventID)
	return w.MarshalJSON()
}

func (m LotMatch) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("lotId", m.LotID)
	w.Append("amount", m.Amount)
	w.Append("costBasis", m.CostBasis)
	return w.MarshalJSON()
}

func (d Disposal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("eventId", d.EventID)
	w.Append("assetId", d.AssetID)
	w.Append("disposedAt", d.DisposedAt.UTC().Format(TimestampFormat))
	w.Append("amount", d.Amount)
	if d.Shortfall.IsPositive() {
		w.Append("shortfall", d.Shortfall)
	}
	w.Append("proceeds", d.Proceeds)
	w.Append("costBasisConsumed", d.CostBasisConsumed)
	w.Append("fee", d.Fee)
	w.Append("realizedGain", d.RealizedGain)
	matched := d.LotsMatched
	if matched == nil {
		matched = []LotMatch{}
	}
	w.Append("lotsMatched", matched)
	w.Append("taxYear", d.TaxYear)
	return w.MarshalJSON()
}

func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("assetId", p.AssetID)
	w.Append("amount", p.Amount)
	w.Append("costBasisBase", p.CostBasisBase)
	return w.MarshalJSON()
}

func (p ProjectedPosition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(p.Position)
	w.Optional("valueBase", p.ValueBase)
	w.Optional("unrealizedPnlBase", p.UnrealizedPnlBase)
	w.Optional("unrealizedPnlPct", p.UnrealizedPnlPct)
	return w.MarshalJSON()
}

func (r IncomeRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("eventId", r.EventID)
	w.Append("assetId", r.AssetID)
	w.Append("type", r.Type)
	w.Append("receivedAt", r.ReceivedAt.UTC().Format(TimestampFormat))
	w.Append("amount", r.Amount)
	w.Append("incomeBase", r.IncomeBase)
	return w.MarshalJSON()
}

func (t Totals) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("proceeds", t.Proceeds)
	w.Append("costBasis", t.CostBasis)
	w.Append("fees", t.Fees)
	w.Append("realizedGain", t.RealizedGain)
	w.Append("income", t.Income)
	return w.MarshalJSON()
}

func (r TaxYearReport) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("year", r.Year)
	w.Append("baseCurrency", r.BaseCurrency)
	w.Append("taxProfile", r.TaxProfile)
	w.Append("lotMethodUsed", r.LotMethodUsed)
	w.Append("generatedAt", r.GeneratedAt.UTC().Format(TimestampFormat))
	w.Append("disposals", r.Disposals)
	w.Append("income", r.Income)
	w.Append("yearEndHoldings", r.YearEndHoldings)
	w.Append("totals", r.Totals)
	w.Append("warnings", r.Warnings)
	return w.MarshalJSON()
}

// EncodeTaxYearReport writes the report as indented JSON.
func EncodeTaxYearReport(w io.Writer, r *TaxYearReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tax year report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write tax year report: %w", err)
	}
	return nil
}
