package eval

import (
	"context"
	"errors"
	"testing"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/function"
	"github.com/mendelt/reval/value"
)

func evalText(t *testing.T, facts value.Value, e expr.Expr) (value.Value, error) {
	t.Helper()
	return NewContext(facts, nil, nil).Eval(context.Background(), e)
}

func factsMap(pairs map[string]value.Value) value.Value {
	return value.NewMap(pairs)
}

func TestEvalReferenceLookup(t *testing.T) {
	facts := factsMap(map[string]value.Value{"age": value.NewInt(21)})
	v, err := evalText(t, facts, expr.Reference("age"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !v.Equal(value.NewInt(21)) {
		t.Errorf("got %v, want Int(21)", v)
	}
}

func TestEvalUnknownReference(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	_, err := evalText(t, facts, expr.Reference("missing"))
	var unknown *errs.UnknownRef
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownRef, got %v", err)
	}
}

func TestEvalFactsSelfReference(t *testing.T) {
	facts := factsMap(map[string]value.Value{"x": value.NewInt(1)})
	v, err := evalText(t, facts, expr.Reference("facts"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !v.Equal(facts) {
		t.Errorf("ref(facts) should return the whole facts value, got %v", v)
	}
}

func TestEvalIfBranchesOnCondition(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	e := expr.If(expr.Val(value.NewBool(true)), expr.Val(value.NewInt(1)), expr.Val(value.NewInt(2)))
	v, err := evalText(t, facts, e)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !v.Equal(value.NewInt(1)) {
		t.Errorf("true branch should select then-arm, got %v", v)
	}
}

func TestEvalIfRejectsNonBoolCondition(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	e := expr.If(expr.Val(value.NewInt(1)), expr.Val(value.NewInt(1)), expr.Val(value.NewInt(2)))
	_, err := evalText(t, facts, e)
	var invalid *errs.InvalidType
	if !errors.As(err, &invalid) {
		t.Errorf("non-bool if condition should be InvalidType, got %v", err)
	}
}

func TestEvalAndShortCircuitsOnFalse(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	panicky := expr.GreaterThan(expr.Reference("missing"), expr.Val(value.NewInt(0)))
	e := expr.And(expr.Val(value.NewBool(false)), panicky)
	v, err := evalText(t, facts, e)
	if err != nil {
		t.Fatalf("And should short-circuit without evaluating the right side: %v", err)
	}
	if !v.Equal(value.NewBool(false)) {
		t.Errorf("got %v, want false", v)
	}
}

func TestEvalOrShortCircuitsOnTrue(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	panicky := expr.GreaterThan(expr.Reference("missing"), expr.Val(value.NewInt(0)))
	e := expr.Or(expr.Val(value.NewBool(true)), panicky)
	v, err := evalText(t, facts, e)
	if err != nil {
		t.Fatalf("Or should short-circuit without evaluating the right side: %v", err)
	}
	if !v.Equal(value.NewBool(true)) {
		t.Errorf("got %v, want true", v)
	}
}

func TestEvalAndRejectsNonBoolOperandIncludingNone(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	e := expr.And(expr.Val(value.NewBool(true)), expr.Val(value.None{}))
	_, err := evalText(t, facts, e)
	var invalid *errs.InvalidType
	if !errors.As(err, &invalid) {
		t.Errorf("and with a None right operand should be InvalidType, got %v", err)
	}
}

func TestEvalEqualityNoneShortCircuitsToFalse(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	e := expr.Equals(expr.Val(value.None{}), expr.Reference("missing"))
	v, err := evalText(t, facts, e)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !v.Equal(value.NewBool(false)) {
		t.Errorf("None == anything should be false without evaluating the right side, got %v, err %v", v, err)
	}
}

func TestEvalEqualityNoneRightOperandIsFalseForBothOps(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	one := expr.Val(value.NewInt(1))
	none := expr.Val(value.None{})

	v, err := evalText(t, facts, expr.Equals(one, none))
	if err != nil || !v.Equal(value.NewBool(false)) {
		t.Errorf("i1 == none should be false, got %v, %v", v, err)
	}
	v, err = evalText(t, facts, expr.NotEquals(one, none))
	if err != nil || !v.Equal(value.NewBool(false)) {
		t.Errorf("i1 != none should also be false, not the negation, got %v, %v", v, err)
	}
}

func TestEvalIndexIntoMapAndVec(t *testing.T) {
	facts := factsMap(map[string]value.Value{
		"person": value.NewMap(map[string]value.Value{"name": value.NewString("ada")}),
		"nums":   value.NewVec([]value.Value{value.NewInt(10), value.NewInt(20)}),
	})
	v, err := evalText(t, facts, expr.IndexMap(expr.Reference("person"), expr.Val(value.NewString("name"))))
	if err != nil || !v.Equal(value.NewString("ada")) {
		t.Errorf("map index: got %v, %v", v, err)
	}
	v, err = evalText(t, facts, expr.IndexVec(expr.Reference("nums"), expr.Val(value.NewInt(1))))
	if err != nil || !v.Equal(value.NewInt(20)) {
		t.Errorf("vec index: got %v, %v", v, err)
	}
}

func TestEvalIndexOutOfBoundsIsNone(t *testing.T) {
	facts := factsMap(map[string]value.Value{
		"nums": value.NewVec([]value.Value{value.NewInt(1)}),
	})
	v, err := evalText(t, facts, expr.IndexVec(expr.Reference("nums"), expr.Val(value.NewInt(5))))
	if err != nil {
		t.Fatalf("out-of-bounds index should not error: %v", err)
	}
	if !value.IsNone(v) {
		t.Errorf("out-of-bounds index should yield None, got %v", v)
	}
}

func TestEvalFunctionCallAndMemoization(t *testing.T) {
	calls := 0
	reg := function.NewRegistry()
	_ = reg.AddFunction("bump", func(ctx context.Context, arg value.Value) (value.Value, error) {
		calls++
		n := arg.(value.Int)
		return value.NewInt(n.Int64() + 1), nil
	})
	facts := factsMap(map[string]value.Value{})
	c := NewContext(facts, nil, reg)
	e := expr.Function("bump", expr.Val(value.NewInt(1)))

	v1, err := c.Eval(context.Background(), e)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	v2, err := c.Eval(context.Background(), e)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !v1.Equal(v2) || !v1.Equal(value.NewInt(2)) {
		t.Errorf("got %v and %v, want both Int(2)", v1, v2)
	}
	if calls != 1 {
		t.Errorf("a cacheable function should only be invoked once per Context, got %d calls", calls)
	}
}

func TestEvalFunctionNotCacheableCallsEveryTime(t *testing.T) {
	calls := 0
	reg := function.NewRegistry()
	_ = reg.AddFunction("tick", func(ctx context.Context, arg value.Value) (value.Value, error) {
		calls++
		return arg, nil
	}, function.NotCacheable())
	facts := factsMap(map[string]value.Value{})
	c := NewContext(facts, nil, reg)
	e := expr.Function("tick", expr.Val(value.NewInt(1)))

	if _, err := c.Eval(context.Background(), e); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if _, err := c.Eval(context.Background(), e); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if calls != 2 {
		t.Errorf("a non-cacheable function should be invoked every call, got %d calls", calls)
	}
}

func TestEvalUnknownUserFunction(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	_, err := evalText(t, facts, expr.Function("nope", expr.Val(value.NewInt(1))))
	var unknown *errs.UnknownUserFunction
	if !errors.As(err, &unknown) {
		t.Errorf("calling an unregistered function should be UnknownUserFunction, got %v", err)
	}
}

func TestEvalSymbolCycleDetection(t *testing.T) {
	symbols := map[string]expr.Expr{
		"a": expr.Symbol("b"),
		"b": expr.Symbol("a"),
	}
	facts := factsMap(map[string]value.Value{})
	_, err := NewContext(facts, symbols, nil).Eval(context.Background(), expr.Symbol("a"))
	var cyclic *errs.CyclicSymbolError
	if !errors.As(err, &cyclic) {
		t.Errorf("mutually recursive symbols should be CyclicSymbolError, got %v", err)
	}
}

func TestEvalAllAny(t *testing.T) {
	facts := factsMap(map[string]value.Value{})
	trues := expr.VecExpr([]expr.Expr{expr.Val(value.NewBool(true)), expr.Val(value.NewBool(true))})
	mixed := expr.VecExpr([]expr.Expr{expr.Val(value.NewBool(true)), expr.Val(value.NewBool(false))})

	v, err := evalText(t, facts, expr.Function("all", trues))
	if err != nil || !v.Equal(value.NewBool(true)) {
		t.Errorf("all(true,true) = %v, %v, want true", v, err)
	}
	v, err = evalText(t, facts, expr.Function("all", mixed))
	if err != nil || !v.Equal(value.NewBool(false)) {
		t.Errorf("all(true,false) = %v, %v, want false", v, err)
	}
	v, err = evalText(t, facts, expr.Function("any", mixed))
	if err != nil || !v.Equal(value.NewBool(true)) {
		t.Errorf("any(true,false) = %v, %v, want true", v, err)
	}
}
