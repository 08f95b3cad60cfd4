package taxlots

import (
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in the base currency.
//
// The currency is informative: amounts read from the ledger have no currency
// and adopt the base currency of the settings when they are reported.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses a decimal string into a Money without currency.
func ParseMoney(s string) (Money, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: q.value}, nil
}

// MustM is like ParseMoney but panics on error.
func MustM(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// currency returns the money's currency
func (m Money) currency() *money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, formatted for
// its currency. Digits beyond the currency fraction are not displayed, use
// Exact to get them all.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.StringFixed(2)
	}
	cur := m.currency()
	if cur.Template == "" {
		return m.value.StringFixed(int32(cur.Fraction)) + " " + m.cur
	}
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Exact returns every digit of the value.
func (m Money) Exact() string { return m.value.String() }

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.DivRound(n.value, divisionPrecision), cur: m.cur} }
func (m Money) DivMoney(n Money) Quantity       { return Quantity{value: m.value.DivRound(n.value, divisionPrecision)} }
func (m Money) In(currency string) Money        { return Money{value: m.value, cur: cur(m, Money{cur: currency})} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON writes the exact decimal as a string. The currency is carried
// by the enclosing report.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.value.String())
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.value.UnmarshalJSON(b)
}
