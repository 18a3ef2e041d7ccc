package eval

import (
	"context"
	"math"
	"math/big"
	"strings"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

func (c *Context) evalUnary(ctx context.Context, e expr.Expr) (value.Value, error) {
	operand, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}

	// some/isnone are the Option-style presence predicates and are the
	// only unary operators that act on None itself rather than
	// propagating it.
	switch e.Kind() {
	case expr.KindSome:
		return value.NewBool(!value.IsNone(operand)), nil
	case expr.KindIsNone:
		return value.NewBool(value.IsNone(operand)), nil
	}

	if value.IsNone(operand) {
		return value.None{}, nil
	}

	switch e.Kind() {
	case expr.KindNot:
		b, ok := operand.(value.Bool)
		if !ok {
			return nil, &errs.InvalidType{Detail: "not requires a bool"}
		}
		return value.NewBool(!bool(b)), nil
	case expr.KindNeg:
		return evalNeg(operand)
	case expr.KindCastInt:
		return value.CastInt(operand)
	case expr.KindCastFloat:
		return value.CastFloat(operand)
	case expr.KindCastDecimal:
		return value.CastDecimal(operand)
	case expr.KindCastDateTime:
		return value.CastDateTime(operand)
	case expr.KindCastDuration:
		return value.CastDuration(operand)
	case expr.KindUpperCase, expr.KindLowerCase, expr.KindTrim:
		return evalStringUnary(e.Kind(), operand)
	case expr.KindRound, expr.KindFloor, expr.KindFract:
		return evalRoundFloorFract(e.Kind(), operand)
	case expr.KindYear, expr.KindMonth, expr.KindWeek, expr.KindDay, expr.KindHour, expr.KindMinute, expr.KindSecond:
		return evalTimePart(e.Kind(), operand)
	default:
		return nil, &errs.InvalidType{Detail: "not a unary operator"}
	}
}

func evalNeg(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Int:
		neg, ok := value.NewIntFromBig(new(big.Int).Neg(x.Big()))
		if !ok {
			return nil, &errs.ValueOutOfBounds{Value: x.String(), Op: "neg"}
		}
		return neg, nil
	case value.Float:
		return value.NewFloat(-float64(x)), nil
	case value.Decimal:
		return x.Neg(), nil
	case value.Duration:
		return x.Neg(), nil
	default:
		return nil, &errs.InvalidType{Detail: v.Kind().String() + " cannot be negated"}
	}
}

func evalStringUnary(k expr.Kind, v value.Value) (value.Value, error) {
	s, ok := v.(value.String)
	if !ok {
		return nil, &errs.InvalidType{Detail: "expected a string"}
	}
	switch k {
	case expr.KindUpperCase:
		return value.NewString(strings.ToUpper(string(s))), nil
	case expr.KindLowerCase:
		return value.NewString(strings.ToLower(string(s))), nil
	case expr.KindTrim:
		return value.NewString(strings.TrimSpace(string(s))), nil
	}
	return nil, &errs.InvalidType{Detail: "not a string operator"}
}

// evalRoundFloorFract implements Round/Floor/Fract, valid on Float or
// Decimal only.
func evalRoundFloorFract(k expr.Kind, v value.Value) (value.Value, error) {
	switch d := v.(type) {
	case value.Decimal:
		switch k {
		case expr.KindRound:
			return d.Round(), nil
		case expr.KindFloor:
			return d.Floor(), nil
		case expr.KindFract:
			return d.Fract()
		}
	case value.Float:
		f := float64(d)
		switch k {
		case expr.KindRound:
			return value.NewFloat(math.Round(f)), nil
		case expr.KindFloor:
			return value.NewFloat(math.Floor(f)), nil
		case expr.KindFract:
			return value.NewFloat(f - math.Floor(f)), nil
		}
	}
	return nil, &errs.InvalidType{Detail: "round/floor/fract require a float or decimal"}
}

// durationUnitSeconds gives the fixed-length-unit multiplier for the
// Day/Hour/Minute/Second/Week names when used to extract from a Duration
// or construct one from an Int; Year/Month have no fixed length and so
// apply only to DateTime.
func durationUnitSeconds(k expr.Kind) (int64, bool) {
	switch k {
	case expr.KindWeek:
		return 7 * 86400, true
	case expr.KindDay:
		return 86400, true
	case expr.KindHour:
		return 3600, true
	case expr.KindMinute:
		return 60, true
	case expr.KindSecond:
		return 1, true
	default:
		return 0, false
	}
}

// evalTimePart implements the overloaded Year/Month/Week/Day/Hour/Minute/
// Second family: calendar components of a DateTime, total fixed-length
// units of a Duration, or construction of a Duration of n units from an
// Int.
func evalTimePart(k expr.Kind, v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.DateTime:
		switch k {
		case expr.KindYear:
			return value.NewInt(x.Year()), nil
		case expr.KindMonth:
			return value.NewInt(x.Month()), nil
		case expr.KindWeek:
			return value.NewInt(x.Week()), nil
		case expr.KindDay:
			return value.NewInt(x.Day()), nil
		case expr.KindHour:
			return value.NewInt(x.Hour()), nil
		case expr.KindMinute:
			return value.NewInt(x.Minute()), nil
		case expr.KindSecond:
			return value.NewInt(x.Second()), nil
		}
	case value.Duration:
		switch k {
		case expr.KindWeek:
			return value.NewInt(x.TotalWeeks()), nil
		case expr.KindDay:
			return value.NewInt(x.TotalDays()), nil
		case expr.KindHour:
			return value.NewInt(x.TotalHours()), nil
		case expr.KindMinute:
			return value.NewInt(x.TotalMinutes()), nil
		case expr.KindSecond:
			return value.NewInt(x.TotalSeconds()), nil
		default:
			return nil, &errs.InvalidType{Detail: "year/month do not apply to duration"}
		}
	case value.Int:
		unit, ok := durationUnitSeconds(k)
		if !ok {
			return nil, &errs.InvalidType{Detail: "year/month cannot construct a duration"}
		}
		if !x.FitsInt64() {
			return nil, &errs.ValueOutOfBounds{Value: x.String(), Op: "duration construction"}
		}
		seconds := new(big.Int).Mul(x.Big(), big.NewInt(unit))
		if !seconds.IsInt64() {
			return nil, &errs.ValueOutOfBounds{Value: x.String(), Op: "duration construction"}
		}
		return value.NewDurationSeconds(seconds.Int64()), nil
	}
	return nil, &errs.InvalidType{Detail: "expected a datetime, duration, or int"}
}
