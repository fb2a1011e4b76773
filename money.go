package perfdash

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a USD-denominated monetary value with exact arithmetic.
// Running principal and cash-flow totals are kept in Money so that
// month-over-month deltas add up without floating-point drift.
type Money struct {
	value decimal.Decimal
}

// M builds a Money from a numeric value.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

func (m Money) Add(n Money) Money  { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money  { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money         { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money         { return Money{value: m.value.Abs()} }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsPositive() bool   { return m.value.IsPositive() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) }
func (m Money) LessThan(n Money) bool {
	return m.value.LessThan(n.value)
}
func (m Money) GreaterThanOrEqual(n Money) bool {
	return m.value.GreaterThanOrEqual(n.value)
}

// Float returns the value as a float64, for compounding math and JSON output.
func (m Money) Float() float64 { return m.value.InexactFloat64() }

// Round2 returns the value rounded to cents as a float64.
func (m Money) Round2() float64 { return m.value.Round(2).InexactFloat64() }

// String formats the amount as USD with thousands separators ("$1,234.56").
func (m Money) String() string {
	cur := money.GetCurrency(money.USD)
	cents := m.value.Shift(int32(cur.Fraction)).Round(0)
	return money.New(cents.IntPart(), money.USD).Display()
}

// MarshalJSON emits the amount as a plain JSON number rounded to cents,
// the representation the dashboard consumer expects.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.Round(2).String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
