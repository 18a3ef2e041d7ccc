// Package eval implements rule evaluation: a recursive walk of an
// expr.Expr tree against a facts Value, resolving References, Symbols
// and Function calls, with per-evaluation memoization of user-function
// calls.
//
// Evaluation is synchronous and single-threaded; the only suspension
// point is a user Function callback, which receives a context.Context
// for cancellation the way the rest of the engine expects blocking
// calls to behave.
package eval

import (
	"context"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/function"
	"github.com/mendelt/reval/value"
)

// Context carries everything a single RuleSet evaluation needs: the
// facts being evaluated against, the bound symbol table, the user
// function registry, and state scoped to this one evaluation (the
// memoization cache and the in-flight symbol stack used to detect
// cycles). A Context is not safe for concurrent use; ruleset.Evaluate
// creates a fresh one per call.
type Context struct {
	facts     value.Value
	symbols   map[string]expr.Expr
	functions *function.Registry

	memo      map[memoKey]memoResult
	resolving map[string]bool
}

type memoKey struct {
	name string
	arg  string
}

type memoResult struct {
	value value.Value
	err   error
}

// NewContext constructs an evaluation Context.
func NewContext(facts value.Value, symbols map[string]expr.Expr, functions *function.Registry) *Context {
	if functions == nil {
		functions = function.NewRegistry()
	}
	if symbols == nil {
		symbols = map[string]expr.Expr{}
	}
	return &Context{
		facts:     facts,
		symbols:   symbols,
		functions: functions,
		memo:      map[memoKey]memoResult{},
		resolving: map[string]bool{},
	}
}

// Eval evaluates e against the Context's current facts binding.
func (c *Context) Eval(ctx context.Context, e expr.Expr) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch e.Kind() {
	case expr.KindValue:
		return e.Value(), nil
	case expr.KindReference:
		return c.evalReference(e)
	case expr.KindSymbol:
		return c.evalSymbol(ctx, e)
	case expr.KindIf:
		return c.evalIf(ctx, e)
	case expr.KindIndex:
		return c.evalIndex(ctx, e)
	case expr.KindNot, expr.KindNeg, expr.KindSome, expr.KindIsNone,
		expr.KindCastInt, expr.KindCastFloat, expr.KindCastDecimal, expr.KindCastDateTime, expr.KindCastDuration,
		expr.KindUpperCase, expr.KindLowerCase, expr.KindTrim,
		expr.KindRound, expr.KindFloor, expr.KindFract,
		expr.KindYear, expr.KindMonth, expr.KindWeek, expr.KindDay, expr.KindHour, expr.KindMinute, expr.KindSecond:
		return c.evalUnary(ctx, e)
	case expr.KindMult, expr.KindDiv, expr.KindRem, expr.KindAdd, expr.KindSub:
		return c.evalArith(ctx, e)
	case expr.KindEquals, expr.KindNotEquals:
		return c.evalEquality(ctx, e)
	case expr.KindGreaterThan, expr.KindGreaterThanEquals, expr.KindLessThan, expr.KindLessThanEquals:
		return c.evalOrdering(ctx, e)
	case expr.KindAnd:
		return c.evalAnd(ctx, e)
	case expr.KindOr:
		return c.evalOr(ctx, e)
	case expr.KindBitAnd, expr.KindBitOr, expr.KindBitXor:
		return c.evalBitwise(ctx, e)
	case expr.KindContains, expr.KindStarts, expr.KindEnds:
		return c.evalStringOrVecOp(ctx, e)
	case expr.KindFunction:
		return c.evalFunction(ctx, e)
	case expr.KindMap:
		return c.evalMapCtor(ctx, e)
	case expr.KindVec:
		return c.evalVecCtor(ctx, e)
	case expr.KindForMap:
		return c.evalForMap(ctx, e)
	case expr.KindForFilter:
		return c.evalForFilter(ctx, e)
	default:
		return nil, &errs.InvalidType{Detail: "unevaluable expr kind"}
	}
}

func (c *Context) evalReference(e expr.Expr) (value.Value, error) {
	if e.Name() == "facts" {
		return c.facts, nil
	}
	m, ok := c.facts.(value.Map)
	if !ok {
		return nil, &errs.InvalidType{Detail: "facts is not a map"}
	}
	v, ok := m.Get(e.Name())
	if !ok {
		return nil, &errs.UnknownRef{Name: e.Name()}
	}
	return v, nil
}

func (c *Context) evalSymbol(ctx context.Context, e expr.Expr) (value.Value, error) {
	name := e.Name()
	bound, ok := c.symbols[name]
	if !ok {
		return nil, &errs.InvalidSymbol{Name: name}
	}
	if c.resolving[name] {
		return nil, &errs.CyclicSymbolError{Name: name}
	}
	c.resolving[name] = true
	defer delete(c.resolving, name)
	return c.Eval(ctx, bound)
}

func (c *Context) evalIf(ctx context.Context, e expr.Expr) (value.Value, error) {
	cond, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	// None is not Bool(true) or Bool(false): it falls into the "other"
	// case the grammar maps to InvalidType, same as any other non-bool.
	b, ok := cond.(value.Bool)
	if !ok {
		return nil, &errs.InvalidType{Detail: "if condition must be a bool"}
	}
	if bool(b) {
		return c.Eval(ctx, e.B())
	}
	return c.Eval(ctx, e.C())
}

func (c *Context) evalIndex(ctx context.Context, e expr.Expr) (value.Value, error) {
	subject, err := c.Eval(ctx, e.A())
	if err != nil {
		return nil, err
	}
	if value.IsNone(subject) {
		return value.None{}, nil
	}
	idx := e.Index()
	if idx.IsMap {
		m, ok := subject.(value.Map)
		if !ok {
			return nil, &errs.InvalidType{Detail: "index target is not a map"}
		}
		keyVal, err := c.Eval(ctx, idx.MapKey)
		if err != nil {
			return nil, err
		}
		key, ok := keyVal.(value.String)
		if !ok {
			return nil, &errs.InvalidType{Detail: "map index key must be a string"}
		}
		v, ok := m.Get(string(key))
		if !ok {
			return value.None{}, nil
		}
		return v, nil
	}
	v, ok := subject.(value.Vec)
	if !ok {
		return nil, &errs.InvalidType{Detail: "index target is not a vector"}
	}
	posVal, err := c.Eval(ctx, idx.VecPos)
	if err != nil {
		return nil, err
	}
	if value.IsNone(posVal) {
		return value.None{}, nil
	}
	pos, ok := posVal.(value.Int)
	if !ok {
		return nil, &errs.InvalidType{Detail: "vector index must be an int"}
	}
	if !pos.FitsInt64() || pos.Int64() < 0 {
		return value.None{}, nil
	}
	item, ok := v.Get(int(pos.Int64()))
	if !ok {
		return value.None{}, nil
	}
	return item, nil
}
