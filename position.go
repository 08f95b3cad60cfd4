package taxlots

// Valuer supplies the current base currency value of an amount of an asset.
// ok is false when no valuation is known.
type Valuer interface {
	Value(assetID string, amount Quantity) (value Money, ok bool)
}

// ProjectedPosition is a Position enriched with a current valuation. The
// valuation fields are nil when unknown; UnrealizedPnlPct is also nil when
// the cost basis is exactly zero.
type ProjectedPosition struct {
	Position
	ValueBase         *Money
	UnrealizedPnlBase *Money
	UnrealizedPnlPct  *Percent
}

// Project joins positions with the valuations supplied by v. It carries no
// accounting logic: amounts and cost bases are passed through unchanged.
func Project(positions []Position, v Valuer) []ProjectedPosition {
	out := make([]ProjectedPosition, 0, len(positions))
	for _, p := range positions {
		pp := ProjectedPosition{Position: p}
		if v != nil {
			if value, ok := v.Value(p.AssetID, p.Amount); ok {
				pnl := value.Sub(p.CostBasisBase)
				pp.ValueBase, pp.UnrealizedPnlBase = &value, &pnl
				if !p.CostBasisBase.IsZero() {
					pp.UnrealizedPnlPct = &Percent{value: pnl.DivMoney(p.CostBasisBase).value}
				}
			}
		}
		out = append(out, pp)
	}
	return out
}
