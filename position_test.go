package taxlots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	positions := []Position{
		{AssetID: "BTC", Amount: MustQ("2"), CostBasisBase: M(100, "USD")},
		{AssetID: "ETH", Amount: MustQ("1"), CostBasisBase: M(0, "USD")},
		{AssetID: "DOGE", Amount: MustQ("1000"), CostBasisBase: M(50, "USD")},
	}
	prices := PriceTable{"BTC": MustM("75"), "ETH": MustM("3000")}

	got := Project(positions, prices)
	require.Len(t, got, 3)

	btc := got[0]
	assert.Equal(t, positions[0], btc.Position)
	require.NotNil(t, btc.ValueBase)
	assertM(t, "150", *btc.ValueBase)
	assertM(t, "50", *btc.UnrealizedPnlBase)
	require.NotNil(t, btc.UnrealizedPnlPct)
	assert.Equal(t, "50.00%", btc.UnrealizedPnlPct.String())

	eth := got[1]
	assertM(t, "3000", *eth.ValueBase)
	assertM(t, "3000", *eth.UnrealizedPnlBase)
	assert.Nil(t, eth.UnrealizedPnlPct, "no percentage on a zero cost basis")
	assert.NotContains(t, mustJSON(t, eth), "unrealizedPnlPct")

	doge := got[2]
	assert.Nil(t, doge.ValueBase)
	assert.Nil(t, doge.UnrealizedPnlBase)
	assert.Nil(t, doge.UnrealizedPnlPct)
	assert.Equal(t, `{"assetId":"DOGE","amount":"1000","costBasisBase":"50"}`, mustJSON(t, doge))
}

func TestProject_NilValuer(t *testing.T) {
	got := Project([]Position{{AssetID: "BTC", Amount: MustQ("1")}}, nil)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ValueBase)
}

func TestProject_JSON(t *testing.T) {
	got := Project([]Position{{AssetID: "BTC", Amount: MustQ("2"), CostBasisBase: M(100, "USD")}}, PriceTable{"BTC": MustM("40")})
	assert.Equal(t,
		`{"assetId":"BTC","amount":"2","costBasisBase":"100","valueBase":"80","unrealizedPnlBase":"-20","unrealizedPnlPct":"-0.2"}`,
		mustJSON(t, got[0]))
}
