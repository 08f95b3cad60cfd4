package taxlots

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of decimal places kept by every division in
// the engine. Additions and subtractions are always exact.
const divisionPrecision = 28

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an amount of asset units. It is backed by an arbitrary
// precision decimal, binary floating point is never involved.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity from an integer or a decimal.
func Q[T int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a decimal string like "12.5" or "-0.0001".
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Quantity{value: d}, nil
}

// MustQ is like ParseQuantity but panics on error. Meant for tests and constants.
func MustQ(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (t Quantity) Decimal() decimal.Decimal       { return t.value }
func (t Quantity) Equal(p Quantity) bool           { return t.value.Equal(p.value) }
func (t Quantity) Cmp(p Quantity) int              { return t.value.Cmp(p.value) }
func (t Quantity) LessThan(quantity Quantity) bool { return t.value.LessThan(quantity.value) }
func (t Quantity) GreaterThan(p Quantity) bool     { return t.value.GreaterThan(p.value) }
func (t Quantity) Add(p Quantity) Quantity         { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity         { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) Mul(p Quantity) Quantity         { return Quantity{value: t.value.Mul(p.value)} }
func (t Quantity) Abs() Quantity                   { return Quantity{value: t.value.Abs()} }
func (t Quantity) Neg() Quantity                   { return Quantity{value: t.value.Neg()} }
func (t Quantity) IsNegative() bool                { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool                { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                    { return t.value.IsZero() }
func (t Quantity) String() string                  { return t.value.String() }

// Div divides t by p, rounded at divisionPrecision.
func (t Quantity) Div(p Quantity) Quantity {
	return Quantity{value: t.value.DivRound(p.value, divisionPrecision)}
}

// TruncDiv divides t by p, truncated toward zero at divisionPrecision.
// The result never exceeds the exact quotient in magnitude.
func (t Quantity) TruncDiv(p Quantity) Quantity {
	q, _ := t.value.QuoRem(p.value, divisionPrecision)
	return Quantity{value: q}
}

// MinQ returns the smallest of a and b.
func MinQ(a, b Quantity) Quantity {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MarshalJSON writes the quantity as a decimal string, keeping every digit.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value.String())
}

// UnmarshalJSON accepts both a decimal string and a bare JSON number.
func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
