package eval

import (
	"context"
	"math/big"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

func (c *Context) evalEquality(ctx context.Context, e expr.Expr) (value.Value, error) {
	l, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	// A None left operand short-circuits to false without evaluating the
	// right side at all — not merely "None never equals anything".
	if value.IsNone(l) {
		return value.NewBool(false), nil
	}
	r, err := c.Eval(ctx, e.B())
	if err != nil {
		return nil, err
	}
	// A None on either side makes both == and != false: neq is the
	// negation of eq only over present values.
	if value.IsNone(r) {
		return value.NewBool(false), nil
	}
	eq := l.Equal(r)
	if e.Kind() == expr.KindNotEquals {
		return value.NewBool(!eq), nil
	}
	return value.NewBool(eq), nil
}

func (c *Context) evalOrdering(ctx context.Context, e expr.Expr) (value.Value, error) {
	l, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	r, err := c.Eval(ctx, e.B())
	if err != nil {
		return nil, err
	}
	// Ordering never propagates None the way arithmetic does: a missing
	// operand simply fails the comparison (value/compare.go).
	if value.IsNone(l) || value.IsNone(r) {
		return value.NewBool(false), nil
	}
	cmp, err := value.Compare(l, r)
	if err != nil {
		return nil, err
	}
	switch e.Kind() {
	case expr.KindGreaterThan:
		return value.NewBool(cmp > 0), nil
	case expr.KindGreaterThanEquals:
		return value.NewBool(cmp >= 0), nil
	case expr.KindLessThan:
		return value.NewBool(cmp < 0), nil
	case expr.KindLessThanEquals:
		return value.NewBool(cmp <= 0), nil
	default:
		return nil, &errs.InvalidType{Detail: "not an ordering operator"}
	}
}

func (c *Context) evalAnd(ctx context.Context, e expr.Expr) (value.Value, error) {
	l, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	// Non-Bool, including None, is InvalidType: And/Or do not propagate
	// None the way arithmetic and casts do.
	lb, ok := l.(value.Bool)
	if !ok {
		return nil, &errs.InvalidType{Detail: "and requires bool operands"}
	}
	if !bool(lb) {
		return value.NewBool(false), nil
	}
	r, err := c.Eval(ctx, e.B())
	if err != nil {
		return nil, err
	}
	rb, ok := r.(value.Bool)
	if !ok {
		return nil, &errs.InvalidType{Detail: "and requires bool operands"}
	}
	return value.NewBool(bool(rb)), nil
}

func (c *Context) evalOr(ctx context.Context, e expr.Expr) (value.Value, error) {
	l, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	lb, ok := l.(value.Bool)
	if !ok {
		return nil, &errs.InvalidType{Detail: "or requires bool operands"}
	}
	if bool(lb) {
		return value.NewBool(true), nil
	}
	r, err := c.Eval(ctx, e.B())
	if err != nil {
		return nil, err
	}
	rb, ok := r.(value.Bool)
	if !ok {
		return nil, &errs.InvalidType{Detail: "or requires bool operands"}
	}
	return value.NewBool(bool(rb)), nil
}

func (c *Context) evalBitwise(ctx context.Context, e expr.Expr) (value.Value, error) {
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

	if lb, ok := l.(value.Bool); ok {
		rb, ok := r.(value.Bool)
		if !ok {
			return nil, &errs.InvalidType{Detail: "bitwise operators require matching operand kinds"}
		}
		switch e.Kind() {
		case expr.KindBitAnd:
			return value.NewBool(bool(lb) && bool(rb)), nil
		case expr.KindBitOr:
			return value.NewBool(bool(lb) || bool(rb)), nil
		case expr.KindBitXor:
			return value.NewBool(bool(lb) != bool(rb)), nil
		}
	}

	li, ok := l.(value.Int)
	if !ok {
		return nil, &errs.InvalidType{Detail: "bitwise operators require int or bool operands"}
	}
	ri, ok := r.(value.Int)
	if !ok {
		return nil, &errs.InvalidType{Detail: "bitwise operators require matching operand kinds"}
	}
	res := new(big.Int)
	switch e.Kind() {
	case expr.KindBitAnd:
		res.And(li.Big(), ri.Big())
	case expr.KindBitOr:
		res.Or(li.Big(), ri.Big())
	case expr.KindBitXor:
		res.Xor(li.Big(), ri.Big())
	}
	iv, ok := value.NewIntFromBig(res)
	if !ok {
		return nil, &errs.ValueOutOfBounds{Value: res.String(), Op: "bitwise"}
	}
	return iv, nil
}
