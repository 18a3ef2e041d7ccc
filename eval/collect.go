package eval

import (
	"context"
	"math/big"
	"strings"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

func (c *Context) evalStringOrVecOp(ctx context.Context, e expr.Expr) (value.Value, error) {
	l, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	r, err := c.Eval(ctx, e.B())
	if err != nil {
		return nil, err
	}

	if e.Kind() == expr.KindStarts || e.Kind() == expr.KindEnds {
		if value.IsNone(l) || value.IsNone(r) {
			return value.None{}, nil
		}
		ls, ok := l.(value.String)
		if !ok {
			return nil, &errs.InvalidType{Detail: "starts/ends require string operands"}
		}
		rs, ok := r.(value.String)
		if !ok {
			return nil, &errs.InvalidType{Detail: "starts/ends require string operands"}
		}
		if e.Kind() == expr.KindStarts {
			return value.NewBool(strings.HasPrefix(string(ls), string(rs))), nil
		}
		return value.NewBool(strings.HasSuffix(string(ls), string(rs))), nil
	}

	// Contains: a None collection is false, not None-propagating.
	if value.IsNone(l) {
		return value.NewBool(false), nil
	}
	switch lv := l.(type) {
	case value.Map:
		rs, ok := r.(value.String)
		if !ok {
			return nil, &errs.InvalidType{Detail: "map contains requires a string key"}
		}
		_, found := lv.Get(string(rs))
		return value.NewBool(found), nil
	case value.Vec:
		for _, item := range lv.Items() {
			if item.Equal(r) {
				return value.NewBool(true), nil
			}
		}
		return value.NewBool(false), nil
	case value.String:
		rs, ok := r.(value.String)
		if !ok {
			return nil, &errs.InvalidType{Detail: "string contains requires a string"}
		}
		return value.NewBool(strings.Contains(string(lv), string(rs))), nil
	case value.Int:
		ri, ok := r.(value.Int)
		if !ok {
			return nil, &errs.InvalidType{Detail: "int contains requires an int mask"}
		}
		masked := new(big.Int).And(lv.Big(), ri.Big())
		return value.NewBool(masked.Sign() != 0), nil
	default:
		return nil, &errs.InvalidType{Detail: l.Kind().String() + " does not support contains"}
	}
}

func (c *Context) evalMapCtor(ctx context.Context, e expr.Expr) (value.Value, error) {
	children := e.MapChildren()
	pairs := make(map[string]value.Value, len(children))
	for k, child := range children {
		v, err := c.Eval(ctx, child)
		if err != nil {
			return nil, err
		}
		pairs[k] = v
	}
	return value.NewMap(pairs), nil
}

func (c *Context) evalVecCtor(ctx context.Context, e expr.Expr) (value.Value, error) {
	children := e.VecChildren()
	items := make([]value.Value, len(children))
	for i, child := range children {
		v, err := c.Eval(ctx, child)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return value.NewVec(items), nil
}

// evalForMap evaluates `for bind in list map body`: body is evaluated once
// per element of list, with bind shadowing that name in the facts binding
// seen by References inside body.
func (c *Context) evalForMap(ctx context.Context, e expr.Expr) (value.Value, error) {
	list, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	if value.IsNone(list) {
		return value.None{}, nil
	}
	lv, ok := list.(value.Vec)
	if !ok {
		return nil, &errs.InvalidType{Detail: "for ... in requires a vec"}
	}
	bind := e.Name()
	out := make([]value.Value, lv.Len())
	for i, item := range lv.Items() {
		v, err := c.evalWithBinding(ctx, bind, item, e.B())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return value.NewVec(out), nil
}

// evalForFilter evaluates `for bind in list filter pred`: pred must
// evaluate to a bool for each element; elements for which it is true are
// kept, in their original order.
func (c *Context) evalForFilter(ctx context.Context, e expr.Expr) (value.Value, error) {
	list, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	if value.IsNone(list) {
		return value.None{}, nil
	}
	lv, ok := list.(value.Vec)
	if !ok {
		return nil, &errs.InvalidType{Detail: "for ... in requires a vec"}
	}
	bind := e.Name()
	var out []value.Value
	for _, item := range lv.Items() {
		v, err := c.evalWithBinding(ctx, bind, item, e.B())
		if err != nil {
			return nil, err
		}
		b, ok := v.(value.Bool)
		if !ok {
			return nil, &errs.InvalidType{Detail: "filter predicate must be a bool"}
		}
		if bool(b) {
			out = append(out, item)
		}
	}
	return value.NewVec(out), nil
}

// evalWithBinding evaluates body with facts overridden so that
// Reference(bind) resolves to item, restoring the prior facts afterward.
// The binding is added to a copy of the facts Map; when facts is not a
// Map, body sees a Map holding only the binding.
func (c *Context) evalWithBinding(ctx context.Context, bind string, item value.Value, body expr.Expr) (value.Value, error) {
	base, ok := c.facts.(value.Map)
	if !ok {
		base = value.NewEmptyMap()
	}
	saved := c.facts
	c.facts = base.Set(bind, item)
	defer func() { c.facts = saved }()
	return c.Eval(ctx, body)
}
