package taxlots

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at parses an RFC 3339 instant, panics on error.
func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// amt is a helper for test to fill optional monetary fields.
func amt(s string) *Money { return Ptr(MustM(s)) }

func buy(id, asset, ts, amount, cost string) LedgerEvent {
	return LedgerEvent{ID: id, Type: Buy, AssetID: asset, Timestamp: at(ts), Amount: MustQ(amount), CostBasis: amt(cost)}
}

func sell(id, asset, ts, amount, proceeds, fee string) LedgerEvent {
	e := LedgerEvent{ID: id, Type: Sell, AssetID: asset, Timestamp: at(ts), Amount: MustQ(amount), Proceeds: amt(proceeds)}
	if fee != "" {
		e.Fee = amt(fee)
	}
	return e
}

func event(id string, typ EventType, asset, ts, amount string) LedgerEvent {
	return LedgerEvent{ID: id, Type: typ, AssetID: asset, Timestamp: at(ts), Amount: MustQ(amount)}
}

// usd returns settings in USD with the given default method.
func usd(method LotMethod) Settings {
	s := DefaultSettings()
	s.DefaultLotMethod = method
	return s
}

func assertQ(t *testing.T, want string, got Quantity, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, MustQ(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func assertM(t *testing.T, want string, got Money, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, MustM(want).Equal(got), "want %s, got %s %v", want, got.Exact(), msgAndArgs)
}

// mustJSON marshals v, failing the test on error.
func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
