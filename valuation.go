package taxlots

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// DefaultPricePath selects the quotes of a price document shaped as
// {"prices": [{"asset": "BTC", "price": "64000.12"}, ...]}.
const DefaultPricePath = "$.prices[*]"

// PriceTable maps an asset to its unit price in the base currency.
type PriceTable map[string]Money

// Value implements Valuer.
func (t PriceTable) Value(assetID string, amount Quantity) (Money, bool) {
	price, ok := t[assetID]
	if !ok {
		return Money{}, false
	}
	return price.Mul(amount), true
}

// DecodePrices reads a JSON price document and extracts the quotes selected
// by the JSONPath expression path. Each quote is an object with an "asset"
// string and a "price" given as a decimal string or a JSON number.
func DecodePrices(r io.Reader, path string) (PriceTable, error) {
	if path == "" {
		path = DefaultPricePath
	}
	dec := json.NewDecoder(r)
	// Numbers are kept as text so that prices never go through float64.
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode price document: %w", err)
	}
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	quotes, ok := jval.([]any)
	if !ok {
		quotes = []any{jval}
	}

	table := make(PriceTable, len(quotes))
	for i, q := range quotes {
		obj, ok := q.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("quote #%d selected by %q is not an object", i, path)
		}
		asset, _ := obj["asset"].(string)
		if asset == "" {
			return nil, fmt.Errorf("quote #%d has no asset", i)
		}
		var raw string
		switch v := obj["price"].(type) {
		case string:
			raw = v
		case json.Number:
			raw = v.String()
		default:
			return nil, fmt.Errorf("quote for %q has no price", asset)
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("quote for %q: invalid price %q: %w", asset, raw, err)
		}
		table[asset] = M(price, "")
	}
	return table, nil
}
