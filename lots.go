package taxlots

import (
	"slices"
	"time"
)

// Lot is a quantity of an asset acquired at a point in time, with the cost
// basis still attached to it.
type Lot struct {
	ID                 string
	AssetID            string
	AcquiredAt         time.Time
	AmountRemaining    Quantity
	CostBasisRemaining Money
	OriginEventID      string

	seq int // acquisition order within the replay
}

// unitCost returns the cost basis per unit of the lot.
func (l Lot) unitCost() Money {
	if l.AmountRemaining.IsZero() {
		return Money{}
	}
	return l.CostBasisRemaining.Div(l.AmountRemaining)
}

// older reports whether l was acquired before o.
func (l Lot) older(o Lot) bool {
	if !l.AcquiredAt.Equal(o.AcquiredAt) {
		return l.AcquiredAt.Before(o.AcquiredAt)
	}
	return l.seq < o.seq
}

// consume returns the amount and cost basis taken from the lot when up to
// amount units are requested. A lot taken whole gives away its cost exactly.
func (l Lot) consume(amount Quantity) (Quantity, Money) {
	if !amount.LessThan(l.AmountRemaining) {
		return l.AmountRemaining, l.CostBasisRemaining
	}
	cost := l.CostBasisRemaining.Mul(amount).Div(l.AmountRemaining)
	if cost.GreaterThan(l.CostBasisRemaining) {
		cost = l.CostBasisRemaining
	}
	return amount, cost
}

// LotMatch is the part of a lot consumed by a disposal.
type LotMatch struct {
	LotID     string
	Amount    Quantity
	CostBasis Money

	index int // index of the lot in the slice given to Select
}

// Strategy selects the open lots consumed by a disposal.
//
// open is the insertion ordered list of the open lots of one asset. Select
// returns matches whose amounts sum to amount, or to the total open amount
// when it is not enough. It never modifies open.
type Strategy interface {
	Select(open []Lot, amount Quantity) []LotMatch
}

// StrategyFor returns the strategy implementing the method.
func StrategyFor(method LotMethod) Strategy {
	switch method {
	case LIFO:
		return lifo{}
	case HIFO:
		return hifo{}
	case AverageCost:
		return averageCost{}
	default:
		return fifo{}
	}
}

type fifo struct{}

func (fifo) Select(open []Lot, amount Quantity) []LotMatch {
	order := make([]int, len(open))
	for i := range order {
		order[i] = i
	}
	return takeInOrder(open, order, amount)
}

type lifo struct{}

func (lifo) Select(open []Lot, amount Quantity) []LotMatch {
	order := make([]int, len(open))
	for i := range order {
		order[i] = len(open) - 1 - i
	}
	return takeInOrder(open, order, amount)
}

type hifo struct{}

func (hifo) Select(open []Lot, amount Quantity) []LotMatch {
	order := make([]int, len(open))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		a, b := open[i], open[j]
		// a.cost/a.amount > b.cost/b.amount, without dividing.
		left := a.CostBasisRemaining.Mul(b.AmountRemaining)
		right := b.CostBasisRemaining.Mul(a.AmountRemaining)
		switch {
		case left.GreaterThan(right):
			return -1
		case right.GreaterThan(left):
			return 1
		case a.older(b):
			return -1
		case b.older(a):
			return 1
		default:
			return 0
		}
	})
	return takeInOrder(open, order, amount)
}

// takeInOrder consumes lots in the given order until amount is reached.
func takeInOrder(open []Lot, order []int, amount Quantity) []LotMatch {
	var matches []LotMatch
	remaining := amount
	for _, i := range order {
		if !remaining.IsPositive() {
			break
		}
		q, cost := open[i].consume(remaining)
		matches = append(matches, LotMatch{LotID: open[i].ID, Amount: q, CostBasis: cost, index: i})
		remaining = remaining.Sub(q)
	}
	return matches
}

// averageCost does not pick lots: every open lot is reduced by the same
// fraction of its amount, so the cost consumed is the blended unit cost of
// the asset times the amount.
type averageCost struct{}

func (averageCost) Select(open []Lot, amount Quantity) []LotMatch {
	var total Quantity
	for _, l := range open {
		total = total.Add(l.AmountRemaining)
	}
	if !total.IsPositive() || !amount.IsPositive() {
		return nil
	}
	if !amount.LessThan(total) {
		matches := make([]LotMatch, 0, len(open))
		for i, l := range open {
			matches = append(matches, LotMatch{LotID: l.ID, Amount: l.AmountRemaining, CostBasis: l.CostBasisRemaining, index: i})
		}
		return matches
	}

	// Shares are truncated, the last lot takes the exact remainder so that
	// the shares sum to amount.
	shares := make([]Quantity, len(open))
	var allocated Quantity
	for i, l := range open[:len(open)-1] {
		shares[i] = l.AmountRemaining.Mul(amount).TruncDiv(total)
		allocated = allocated.Add(shares[i])
	}
	last := len(open) - 1
	shares[last] = amount.Sub(allocated)
	if overflow := shares[last].Sub(open[last].AmountRemaining); overflow.IsPositive() {
		shares[last] = open[last].AmountRemaining
		for i := 0; i < last && overflow.IsPositive(); i++ {
			extra := MinQ(overflow, open[i].AmountRemaining.Sub(shares[i]))
			shares[i] = shares[i].Add(extra)
			overflow = overflow.Sub(extra)
		}
	}

	matches := make([]LotMatch, 0, len(open))
	for i, l := range open {
		if !shares[i].IsPositive() {
			continue
		}
		q, cost := l.consume(shares[i])
		matches = append(matches, LotMatch{LotID: l.ID, Amount: q, CostBasis: cost, index: i})
	}
	return matches
}
