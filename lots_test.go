package taxlots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lot(id, ts, amount, cost string, seq int) Lot {
	return Lot{ID: id, AssetID: "BTC", AcquiredAt: at(ts), AmountRemaining: MustQ(amount), CostBasisRemaining: MustM(cost), OriginEventID: id, seq: seq}
}

// taken summarizes matches as "lot=amount" strings.
func taken(matches []LotMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.LotID+"="+m.Amount.String())
	}
	return out
}

func sumMatches(matches []LotMatch) (Quantity, Money) {
	var q Quantity
	var c Money
	for _, m := range matches {
		q = q.Add(m.Amount)
		c = c.Add(m.CostBasis)
	}
	return q, c
}

func TestStrategy_Select(t *testing.T) {
	twoLots := []Lot{
		lot("A", "2024-01-01T00:00:00Z", "10", "100", 0),
		lot("B", "2024-01-02T00:00:00Z", "10", "200", 1),
	}
	hifoLots := []Lot{
		lot("cheap", "2024-01-01T00:00:00Z", "1", "50", 0),
		lot("dear", "2024-01-02T00:00:00Z", "1", "80", 1),
		lot("cheap2", "2024-01-03T00:00:00Z", "1", "50", 2),
	}

	tests := []struct {
		name     string
		method   LotMethod
		open     []Lot
		amount   string
		want     []string
		wantCost string
	}{
		{"fifo takes the oldest first", FIFO, twoLots, "12", []string{"A=10", "B=2"}, "140"},
		{"lifo takes the newest first", LIFO, twoLots, "12", []string{"B=10", "A=2"}, "220"},
		{"fifo partial", FIFO, twoLots, "4", []string{"A=4"}, "40"},
		{"hifo takes the highest unit cost", HIFO, hifoLots, "1", []string{"dear=1"}, "80"},
		{"hifo ties go to the oldest", HIFO, hifoLots, "2", []string{"dear=1", "cheap=1"}, "130"},
		{"clamped to the open amount", FIFO, twoLots, "25", []string{"A=10", "B=10"}, "300"},
		{"nothing open", FIFO, nil, "1", []string{}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := StrategyFor(tt.method).Select(tt.open, MustQ(tt.amount))
			assert.Equal(t, tt.want, taken(matches))
			_, cost := sumMatches(matches)
			assertM(t, tt.wantCost, cost)
		})
	}
}

func TestStrategy_SelectDoesNotModifyLots(t *testing.T) {
	open := []Lot{
		lot("A", "2024-01-01T00:00:00Z", "10", "100", 0),
		lot("B", "2024-01-02T00:00:00Z", "10", "200", 1),
	}
	for _, m := range LotMethods() {
		StrategyFor(m).Select(open, MustQ("15"))
		assertQ(t, "10", open[0].AmountRemaining, m)
		assertQ(t, "10", open[1].AmountRemaining, m)
	}
}

func TestAverageCost_BlendsUnitCost(t *testing.T) {
	open := []Lot{
		lot("A", "2024-01-01T00:00:00Z", "1", "100", 0),
		lot("B", "2024-01-02T00:00:00Z", "1", "300", 1),
	}
	matches := StrategyFor(AverageCost).Select(open, MustQ("1"))
	require.Len(t, matches, 2)
	assertQ(t, "0.5", matches[0].Amount)
	assertQ(t, "0.5", matches[1].Amount)
	_, cost := sumMatches(matches)
	assertM(t, "200", cost)
}

func TestAverageCost_SharesSumExactly(t *testing.T) {
	open := []Lot{
		lot("A", "2024-01-01T00:00:00Z", "1", "10", 0),
		lot("B", "2024-01-02T00:00:00Z", "1", "20", 1),
		lot("C", "2024-01-03T00:00:00Z", "1", "30", 2),
	}
	matches := StrategyFor(AverageCost).Select(open, MustQ("1"))
	require.Len(t, matches, 3)
	amount, cost := sumMatches(matches)
	assertQ(t, "1", amount)
	// The blended unit cost is 20, rounding stays far below a cent.
	assert.True(t, cost.Sub(MustM("20")).Decimal().Abs().LessThan(MustM("0.000000000000000001").Decimal()), "cost %s", cost.Exact())
	for i, m := range matches {
		assert.False(t, m.Amount.GreaterThan(open[i].AmountRemaining))
		assert.False(t, m.CostBasis.GreaterThan(open[i].CostBasisRemaining))
	}
}

func TestAverageCost_WholePosition(t *testing.T) {
	open := []Lot{
		lot("A", "2024-01-01T00:00:00Z", "3", "10", 0),
		lot("B", "2024-01-02T00:00:00Z", "7", "20", 1),
	}
	matches := StrategyFor(AverageCost).Select(open, MustQ("10"))
	amount, cost := sumMatches(matches)
	assertQ(t, "10", amount)
	assertM(t, "30", cost)
}

func TestLot_Consume(t *testing.T) {
	l := lot("A", "2024-01-01T00:00:00Z", "3", "10", 0)

	q, cost := l.consume(MustQ("1"))
	assertQ(t, "1", q)
	assertM(t, "3.3333333333333333333333333333", cost)

	q, cost = l.consume(MustQ("5"))
	assertQ(t, "3", q)
	assertM(t, "10", cost)
}

func TestLot_UnitCost(t *testing.T) {
	assertM(t, "25", lot("A", "2024-01-01T00:00:00Z", "4", "100", 0).unitCost())
	assert.True(t, lot("A", "2024-01-01T00:00:00Z", "0", "100", 0).unitCost().IsZero())
}
