package taxlots

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerJSONL = `{"id":"b1","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00.000Z","amount":"10","costBasis":"1000"}

{"id":"r1","type":"STAKING_REWARD","assetId":"ETH","timestamp":"2024-02-01T12:30:00.250+02:00","amount":0.1,"fmvPerUnit":"2300.5"}
{"id":"s1","type":"SELL","assetId":"BTC","timestamp":"2025-01-01T00:00:00Z","amount":"-12","proceeds":"1800","fee":"20"}
{"id":"b1-fix","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00Z","amount":"10","costBasis":"999.99","supersedes":"b1"}
{"id":"x","type":"AIRDROP","assetId":"ADA","timestamp":"2024-01-01T00:00:00Z","amount":"1","deleted":true}
`

func TestDecodeEvents(t *testing.T) {
	events, err := DecodeEvents(strings.NewReader(ledgerJSONL))
	require.NoError(t, err)
	require.Len(t, events, 5)

	b1 := events[0]
	assert.Equal(t, "b1", b1.ID)
	assert.Equal(t, Buy, b1.Type)
	assert.Equal(t, "BTC", b1.AssetID)
	assert.Equal(t, at("2024-01-01T00:00:00Z"), b1.Timestamp)
	assertQ(t, "10", b1.Amount)
	require.NotNil(t, b1.CostBasis)
	assertM(t, "1000", *b1.CostBasis)
	assert.Nil(t, b1.Proceeds)
	assert.Nil(t, b1.Fee)

	r1 := events[1]
	assert.Equal(t, StakingReward, r1.Type)
	assert.Equal(t, at("2024-02-01T10:30:00.250Z"), r1.Timestamp)
	assertQ(t, "0.1", r1.Amount)
	assertM(t, "2300.5", *r1.FMVPerUnit)
	assert.Nil(t, r1.FMVTotal)

	s1 := events[2]
	assertQ(t, "-12", s1.Amount)
	assertM(t, "1800", *s1.Proceeds)
	assertM(t, "20", *s1.Fee)

	assert.Equal(t, "b1", events[3].Supersedes)
	assert.True(t, events[4].Deleted)
}

func TestDecodeEvents_ValidationError(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantField string
	}{
		{"malformed decimal", `{"id":"a","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00Z","amount":"1,5"}`, "amount"},
		{"unknown type", `{"id":"a","type":"MINT","assetId":"BTC","timestamp":"2024-01-01T00:00:00Z","amount":"1"}`, "type"},
		{"missing amount", `{"id":"a","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00Z"}`, "amount"},
		{"bad timestamp", `{"id":"a","type":"BUY","assetId":"BTC","timestamp":"yesterday","amount":"1"}`, "timestamp"},
		{"malformed money", `{"id":"a","type":"SELL","assetId":"BTC","timestamp":"2024-01-01T00:00:00Z","amount":"1","proceeds":"1e"}`, "proceeds"},
		{"unknown field", `{"id":"a","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00Z","amount":"1","price":"3"}`, ""},
		{"not json", `{"id":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ledgerJSONL + tt.line + "\n"
			events, err := DecodeEvents(strings.NewReader(input))
			assert.Nil(t, events)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, 7, verr.Line)
		})
	}
}

func TestEncodeEvents(t *testing.T) {
	events, err := DecodeEvents(strings.NewReader(ledgerJSONL))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeEvents(&buf, events))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `{"id":"b1","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00.000Z","amount":"10","costBasis":"1000"}`, lines[0])
	assert.Equal(t, `{"id":"r1","type":"STAKING_REWARD","assetId":"ETH","timestamp":"2024-02-01T10:30:00.250Z","amount":"0.1","fmvPerUnit":"2300.5"}`, lines[1])
	assert.Equal(t, `{"id":"s1","type":"SELL","assetId":"BTC","timestamp":"2025-01-01T00:00:00.000Z","amount":"-12","proceeds":"1800","fee":"20"}`, lines[2])

	// The encoded form decodes back to the same events.
	again, err := DecodeEvents(&buf)
	require.NoError(t, err)
	assert.Equal(t, mustJSON(t, events), mustJSON(t, again))
}

func TestEncodeEvents_ExplicitZero(t *testing.T) {
	e := buy("b", "BTC", "2024-01-01T00:00:00Z", "1", "0")
	assert.Equal(t, `{"id":"b","type":"BUY","assetId":"BTC","timestamp":"2024-01-01T00:00:00.000Z","amount":"1","costBasis":"0"}`, mustJSON(t, e))
}
