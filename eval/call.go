package eval

import (
	"context"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

// evalFunction evaluates a Function node: either one of the two built-in
// vec reductions (all/any) or a call out to a host-registered
// function.Callback, memoized per (name, arg) for the lifetime of this
// Context.
func (c *Context) evalFunction(ctx context.Context, e expr.Expr) (value.Value, error) {
	arg, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}

	switch e.Name() {
	case "all":
		return evalAllAny(arg, true)
	case "any":
		return evalAllAny(arg, false)
	}

	fn, ok := c.functions.Lookup(e.Name())
	if !ok {
		return nil, &errs.UnknownUserFunction{Name: e.Name()}
	}

	key := memoKey{name: e.Name(), arg: arg.String()}
	if fn.Cacheable {
		if cached, ok := c.memo[key]; ok {
			return cached.value, cached.err
		}
	}

	result, callErr := fn.Call(ctx, arg)
	if callErr != nil {
		callErr = &errs.UserFunctionError{Name: e.Name(), Cause: callErr}
	}
	if fn.Cacheable {
		c.memo[key] = memoResult{value: result, err: callErr}
	}
	return result, callErr
}

// evalAllAny reduces a Vec of Bool under && (wantAll=true) or || (wantAll=false).
func evalAllAny(arg value.Value, wantAll bool) (value.Value, error) {
	v, ok := arg.(value.Vec)
	if !ok {
		return nil, &errs.InvalidType{Detail: "all/any require a vec of bool"}
	}
	for _, item := range v.Items() {
		b, ok := item.(value.Bool)
		if !ok {
			return nil, &errs.InvalidType{Detail: "all/any require a vec of bool"}
		}
		if wantAll && !bool(b) {
			return value.NewBool(false), nil
		}
		if !wantAll && bool(b) {
			return value.NewBool(true), nil
		}
	}
	return value.NewBool(wantAll), nil
}
