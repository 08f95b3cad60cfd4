package taxlots

import (
	"time"
)

// LedgerEvent is an immutable fact of the portfolio history.
//
// Monetary fields are expressed in the base currency. Optional fields are nil
// when absent, which is different from an explicit zero.
type LedgerEvent struct {
	ID        string
	Type      EventType
	AssetID   string
	Timestamp time.Time
	Amount    Quantity // signed, the magnitude is used for disposals

	Proceeds   *Money
	CostBasis  *Money
	Fee        *Money
	FMVTotal   *Money
	FMVPerUnit *Money

	Supersedes string // id of the event this one replaces
	Deleted    bool

	// Seq is the position of the event in the log it was read from. It is
	// assigned by Normalize and breaks ties between equal timestamps.
	Seq int
}

// TaxYear returns the calendar year (UTC) of the event.
func (e LedgerEvent) TaxYear() int { return e.Timestamp.UTC().Year() }

// before orders events by timestamp then by original position.
func (e LedgerEvent) before(o LedgerEvent) bool {
	if !e.Timestamp.Equal(o.Timestamp) {
		return e.Timestamp.Before(o.Timestamp)
	}
	return e.Seq < o.Seq
}

// valueOf returns the value of an optional field, zero when absent.
func valueOf(m *Money) Money {
	if m == nil {
		return Money{}
	}
	return *m
}

// Ptr returns a pointer to m, convenient to fill optional fields.
func Ptr(m Money) *Money { return &m }

// rewardCostBasis computes the base currency value of a reward class event
// according to mode. ok is false when the mode requires a fair market value
// that the event does not carry; the value is then zero.
func rewardCostBasis(e LedgerEvent, mode RewardsCostBasisMode) (value Money, ok bool) {
	switch mode {
	case RewardsAtZero:
		return Money{}, true
	case RewardsAtFMV:
		switch {
		case e.FMVTotal != nil:
			return *e.FMVTotal, true
		case e.FMVPerUnit != nil:
			return e.FMVPerUnit.Mul(e.Amount.Abs()), true
		default:
			return Money{}, false
		}
	default:
		return Money{}, false
	}
}
