package taxlots

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Percent is a ratio, 0.05 stands for 5%.
type Percent struct {
	value decimal.Decimal
}

func (p Percent) Equal(q Percent) bool     { return p.value.Equal(q.value) }
func (p Percent) Decimal() decimal.Decimal { return p.value }

func (p Percent) String() string {
	return p.value.Shift(2).StringFixed(2) + "%"
}

func (p Percent) SignedString() string {
	res := p.String()
	switch {
	case res == "0.00%":
		return "-"
	case p.value.IsPositive():
		return "+" + res
	}
	return res
}

// MarshalJSON writes the ratio as an exact decimal string.
func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value.String())
}
