package value

import (
	"github.com/cockroachdb/apd/v3"
)

// decimalContext governs precision for all Decimal arithmetic: 34
// significant digits, the decimal128 figure.
var decimalContext = &apd.Context{
	Precision:   34,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundHalfEven,
}

// halfAwayFromZero is used only by the Round() unary operator, which
// rounds half away from zero (distinct from the banker's rounding used
// internally for arithmetic overflow).
var halfAwayFromZero = &apd.Context{
	Precision:   34,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Rounding:    apd.RoundHalfUp,
}

// Decimal is a fixed-precision base-10 Value backed by cockroachdb/apd.
type Decimal struct {
	v *apd.Decimal
}

func NewDecimal(d *apd.Decimal) Decimal { return Decimal{v: d} }

// ParseDecimal parses a decimal literal such as "5.50" or "-12".
func ParseDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{v: d}, nil
}

// Dec returns the underlying *apd.Decimal. Callers must not mutate it.
func (d Decimal) Dec() *apd.Decimal {
	if d.v == nil {
		return apd.New(0, 0)
	}
	return d.v
}

func (d Decimal) Kind() Kind { return KindDecimal }

func (d Decimal) Equal(other Value) bool {
	od, ok := other.(Decimal)
	return ok && d.Dec().Cmp(od.Dec()) == 0
}

func (d Decimal) String() string { return "d" + d.Dec().Text('f') }

func (d Decimal) Compare(other Decimal) int { return d.Dec().Cmp(other.Dec()) }

// Add, Sub, Mul, Quo, Rem perform arithmetic rounded to decimalContext.
// decimalContext sets no traps, so Quo/Rem return no error for a zero
// divisor; the evaluator checks IsZero first and reports DivisionByZero.
func (d Decimal) Add(other Decimal) (Decimal, error) {
	res := new(apd.Decimal)
	_, err := decimalContext.Add(res, d.Dec(), other.Dec())
	return Decimal{v: res}, err
}

func (d Decimal) Sub(other Decimal) (Decimal, error) {
	res := new(apd.Decimal)
	_, err := decimalContext.Sub(res, d.Dec(), other.Dec())
	return Decimal{v: res}, err
}

func (d Decimal) Mul(other Decimal) (Decimal, error) {
	res := new(apd.Decimal)
	_, err := decimalContext.Mul(res, d.Dec(), other.Dec())
	return Decimal{v: res}, err
}

func (d Decimal) IsZero() bool { return d.Dec().IsZero() }

func (d Decimal) Quo(other Decimal) (Decimal, error) {
	res := new(apd.Decimal)
	_, err := decimalContext.Quo(res, d.Dec(), other.Dec())
	return Decimal{v: res}, err
}

func (d Decimal) Rem(other Decimal) (Decimal, error) {
	res := new(apd.Decimal)
	_, err := decimalContext.Rem(res, d.Dec(), other.Dec())
	return Decimal{v: res}, err
}

func (d Decimal) Neg() Decimal {
	res := new(apd.Decimal)
	decimalContext.Neg(res, d.Dec())
	return Decimal{v: res}
}

// Round rounds to the nearest integer, half away from zero.
func (d Decimal) Round() Decimal {
	res := new(apd.Decimal)
	_, _ = halfAwayFromZero.RoundToIntegralValue(res, d.Dec())
	return Decimal{v: res}
}

// Floor rounds toward negative infinity.
func (d Decimal) Floor() Decimal {
	res := new(apd.Decimal)
	floorCtx := &apd.Context{Precision: 34, MaxExponent: apd.MaxExponent, MinExponent: apd.MinExponent, Rounding: apd.RoundFloor}
	_, _ = floorCtx.RoundToIntegralValue(res, d.Dec())
	return Decimal{v: res}
}

// Fract returns value - floor(value).
func (d Decimal) Fract() (Decimal, error) {
	return d.Sub(d.Floor())
}
