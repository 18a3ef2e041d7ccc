package eval

import (
	"context"
	"math"
	"math/big"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

func (c *Context) evalArith(ctx context.Context, e expr.Expr) (value.Value, error) {
	l, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	r, err := c.Eval(ctx, e.B())
	if err != nil {
		return nil, err
	}
	if value.IsNone(l) || value.IsNone(r) {
		return value.None{}, nil
	}

	switch lv := l.(type) {
	case value.Int:
		rv, ok := r.(value.Int)
		if !ok {
			return nil, mismatchedOperands(l, r)
		}
		return evalIntArith(e.Kind(), lv, rv)
	case value.Float:
		rv, ok := r.(value.Float)
		if !ok {
			return nil, mismatchedOperands(l, r)
		}
		return evalFloatArith(e.Kind(), lv, rv)
	case value.Decimal:
		rv, ok := r.(value.Decimal)
		if !ok {
			return nil, mismatchedOperands(l, r)
		}
		return evalDecimalArith(e.Kind(), lv, rv)
	case value.Duration:
		return evalDurationArith(e.Kind(), lv, r)
	case value.DateTime:
		return evalDateTimeArith(e.Kind(), lv, r)
	default:
		return nil, &errs.InvalidType{Detail: l.Kind().String() + " does not support arithmetic"}
	}
}

func mismatchedOperands(l, r value.Value) error {
	return &errs.InvalidType{Detail: "mismatched operand kinds: " + l.Kind().String() + " vs " + r.Kind().String()}
}

func evalIntArith(k expr.Kind, l, r value.Int) (value.Value, error) {
	res := new(big.Int)
	switch k {
	case expr.KindAdd:
		res.Add(l.Big(), r.Big())
	case expr.KindSub:
		res.Sub(l.Big(), r.Big())
	case expr.KindMult:
		res.Mul(l.Big(), r.Big())
	case expr.KindDiv:
		if r.Big().Sign() == 0 {
			return nil, &errs.DivisionByZero{}
		}
		res.Quo(l.Big(), r.Big())
	case expr.KindRem:
		if r.Big().Sign() == 0 {
			return nil, &errs.DivisionByZero{}
		}
		res.Rem(l.Big(), r.Big())
	}
	iv, ok := value.NewIntFromBig(res)
	if !ok {
		return nil, &errs.ValueOutOfBounds{Value: res.String(), Op: "int arithmetic"}
	}
	return iv, nil
}

func evalFloatArith(k expr.Kind, l, r value.Float) (value.Value, error) {
	lf, rf := float64(l), float64(r)
	switch k {
	case expr.KindAdd:
		return value.NewFloat(lf + rf), nil
	case expr.KindSub:
		return value.NewFloat(lf - rf), nil
	case expr.KindMult:
		return value.NewFloat(lf * rf), nil
	case expr.KindDiv:
		return value.NewFloat(lf / rf), nil
	case expr.KindRem:
		return value.NewFloat(math.Mod(lf, rf)), nil
	}
	return nil, &errs.InvalidType{Detail: "not an arithmetic operator"}
}

func evalDecimalArith(k expr.Kind, l, r value.Decimal) (value.Value, error) {
	switch k {
	case expr.KindAdd:
		return l.Add(r)
	case expr.KindSub:
		return l.Sub(r)
	case expr.KindMult:
		return l.Mul(r)
	case expr.KindDiv:
		if r.IsZero() {
			return nil, &errs.DivisionByZero{}
		}
		return l.Quo(r)
	case expr.KindRem:
		if r.IsZero() {
			return nil, &errs.DivisionByZero{}
		}
		return l.Rem(r)
	}
	return nil, &errs.InvalidType{Detail: "not an arithmetic operator"}
}

func evalDurationArith(k expr.Kind, l value.Duration, r value.Value) (value.Value, error) {
	rv, ok := r.(value.Duration)
	if !ok {
		return nil, mismatchedOperands(l, r)
	}
	switch k {
	case expr.KindAdd:
		return l.Add(rv), nil
	case expr.KindSub:
		return l.Sub(rv), nil
	}
	return nil, &errs.InvalidType{Detail: "duration only supports add/sub"}
}

func evalDateTimeArith(k expr.Kind, l value.DateTime, r value.Value) (value.Value, error) {
	switch k {
	case expr.KindAdd:
		dur, ok := r.(value.Duration)
		if !ok {
			return nil, mismatchedOperands(l, r)
		}
		return l.Add(dur), nil
	case expr.KindSub:
		switch rv := r.(type) {
		case value.DateTime:
			return l.Sub(rv), nil
		case value.Duration:
			return l.Add(rv.Neg()), nil
		default:
			return nil, mismatchedOperands(l, r)
		}
	}
	return nil, &errs.InvalidType{Detail: "datetime only supports add/sub"}
}
