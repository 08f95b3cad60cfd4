package taxlots

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity(t *testing.T) {
	a, b := MustQ("0.1"), MustQ("0.2")
	assertQ(t, "0.3", a.Add(b))
	assertQ(t, "-0.1", a.Sub(b))
	assertQ(t, "0.02", a.Mul(b))
	assertQ(t, "0.5", a.Div(b))
	assertQ(t, "0.1", MinQ(a, b))
	assert.True(t, a.Sub(b).IsNegative())
	assert.Equal(t, -1, a.Cmp(b))

	// Truncation never rounds up.
	assertQ(t, "0.6666666666666666666666666666", MustQ("2").TruncDiv(MustQ("3")))
	assertQ(t, "0.6666666666666666666666666667", MustQ("2").Div(MustQ("3")))

	_, err := ParseQuantity("1.2.3")
	assert.Error(t, err)
	assert.Panics(t, func() { MustQ("x") })
}

func TestQuantity_JSON(t *testing.T) {
	assert.Equal(t, `"123456789.000000000000000001"`, mustJSON(t, MustQ("123456789.000000000000000001")))

	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`"1.25"`), &q))
	assertQ(t, "1.25", q)
	require.NoError(t, json.Unmarshal([]byte(`7`), &q))
	assertQ(t, "7", q)
}

func TestMoney(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(1234, "USD"), "$1,234.00"},
		{MustM("0.015").In("USD"), "$0.01"},
		{MustM("12.5"), "12.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.String())
	}

	assert.Equal(t, "0.015", MustM("0.015").Exact())
	assert.Equal(t, "-", M(0, "USD").SignedString())
	assert.Equal(t, "+$1.00", M(1, "USD").SignedString())

	// No currency adopts the other side.
	sum := MustM("1").Add(M(2, "EUR"))
	assert.Equal(t, "EUR", sum.Currency())
	assertM(t, "3", sum)
	assert.Panics(t, func() { M(1, "USD").Add(M(1, "EUR")) })

	assertM(t, "2.5", M(10, "USD").Div(MustQ("4")))
	assertQ(t, "0.25", M(1, "USD").DivMoney(M(4, "USD")))
	assert.Equal(t, `"0.000000000000000000000000001"`, mustJSON(t, MustM("0.000000000000000000000000001")))
}

func TestPercent(t *testing.T) {
	p := Percent{value: MustQ("0.12345").Decimal()}
	assert.Equal(t, "12.35%", p.String())
	assert.Equal(t, "+12.35%", p.SignedString())
	assert.Equal(t, "-", Percent{}.SignedString())
	assert.Equal(t, `"0.12345"`, mustJSON(t, p))
}

func TestEventType(t *testing.T) {
	for _, typ := range EventTypes() {
		text, err := typ.MarshalText()
		require.NoError(t, err)
		var got EventType
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, typ, got)
	}
	assert.True(t, Airdrop.IsReward())
	assert.False(t, TransferIn.IsReward())
	_, err := ParseEventType("buy")
	assert.Error(t, err)
	_, err = EventType(0).MarshalText()
	assert.Error(t, err)
}

func TestParseLotMethod(t *testing.T) {
	tests := []struct {
		in   string
		want LotMethod
	}{
		{"FIFO", FIFO},
		{"lifo", LIFO},
		{"HIFO", HIFO},
		{"AVG_COST", AverageCost},
		{"average", AverageCost},
	}
	for _, tt := range tests {
		got, err := ParseLotMethod(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseLotMethod("random")
	assert.Error(t, err)
	assert.Equal(t, "AVG_COST", AverageCost.String())
}

func TestWarnings(t *testing.T) {
	var ws warnings
	a := Warning{Code: WarnInsufficientLots, EventID: "s1"}
	b := Warning{Code: WarnMissingFMV, EventID: "r1"}
	ws.add(a, b, a)
	ws.add(b)
	assert.Equal(t, []Warning{a, b}, ws.list)
	assert.Equal(t, `"insufficient_lots:s1"`, mustJSON(t, a))
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, `invalid event "b1": amount: missing`, (&ValidationError{EventID: "b1", Field: "amount", Reason: "missing"}).Error())
	assert.Equal(t, `invalid line 3: unexpected EOF`, (&ValidationError{Line: 3, Reason: "unexpected EOF"}).Error())
	assert.False(t, IsValidation(assert.AnError))
}
