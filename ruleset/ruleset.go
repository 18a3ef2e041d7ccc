// Package ruleset is the named evaluation environment: an ordered bag of
// rules, pre-bound symbols and user functions, built once via Builder
// and evaluated many times.
// Building validates everything the Builder can check statically
// (duplicate or reserved names) so a constructed RuleSet can never fail
// for reasons other than the per-rule errors its own Expr nodes raise.
package ruleset

import (
	"context"

	"github.com/mendelt/reval/convert"
	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/eval"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/function"
	"github.com/mendelt/reval/rule"
	"github.com/mendelt/reval/value"
)

// RuleSet is a built, read-only evaluation environment: an ordered
// sequence of Rules, an ordered symbol table, and a user-function
// registry. It is safe to share across concurrent evaluations; nothing
// about evaluating it mutates the RuleSet itself.
type RuleSet struct {
	rules       []rule.Rule
	symbolNames []string
	symbols     map[string]expr.Expr
	functions   *function.Registry
}

// Builder accumulates rules, symbols and functions before Build
// validates and freezes them into a RuleSet. A zero Builder is not
// usable; start with NewBuilder.
type Builder struct {
	rules       []rule.Rule
	symbolNames []string
	symbols     map[string]expr.Expr
	functions   *function.Registry
	err         error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		symbols:   map[string]expr.Expr{},
		functions: function.NewRegistry(),
	}
}

// WithRule appends a Rule to the RuleSet under construction. Rules
// evaluate in the order they are added.
func (b *Builder) WithRule(r rule.Rule) *Builder {
	b.rules = append(b.rules, r)
	return b
}

// WithSymbol binds name to e so Symbol(name) expressions in any rule
// can expand to it. A name already used by a registered user function
// is rejected at Build time.
func (b *Builder) WithSymbol(name string, e expr.Expr) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.symbols[name]; !exists {
		b.symbolNames = append(b.symbolNames, name)
	}
	b.symbols[name] = e
	return b
}

// WithFunction registers a host callback under name, following the same
// identifier rules function.Registry.AddFunction enforces. A name
// already used by a bound symbol is rejected at Build time.
func (b *Builder) WithFunction(name string, call function.Callback, opts ...function.Option) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.functions.AddFunction(name, call, opts...); err != nil {
		b.err = err
	}
	return b
}

// Build validates the accumulated rules, symbols and functions and
// freezes them into a RuleSet. Parse-time and registration errors are
// surfaced here rather than during evaluation: a RuleSet either builds
// cleanly or not at all.
func (b *Builder) Build() (*RuleSet, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, name := range b.symbolNames {
		if _, exists := b.functions.Lookup(name); exists {
			return nil, &errs.DuplicateFunctionName{Name: name}
		}
	}
	return &RuleSet{
		rules:       append([]rule.Rule{}, b.rules...),
		symbolNames: append([]string{}, b.symbolNames...),
		symbols:     b.symbols,
		functions:   b.functions,
	}, nil
}

// Evaluate projects facts into a value.Map (via the convert package's
// rules) and evaluates every rule against it in declaration order,
// returning one Outcome per rule. A fresh evaluation context — and so a
// fresh memoization cache — is created for this call only; concurrent
// calls against the same RuleSet never share memoized function results.
func (rs *RuleSet) Evaluate(ctx context.Context, facts any) ([]rule.Outcome, error) {
	factsValue, err := convert.ToFactsMap(facts)
	if err != nil {
		return nil, err
	}
	return rs.EvaluateValue(ctx, factsValue)
}

// EvaluateValue evaluates every rule against an already-built facts
// Value, skipping host-struct projection entirely.
func (rs *RuleSet) EvaluateValue(ctx context.Context, facts value.Value) ([]rule.Outcome, error) {
	evalCtx := eval.NewContext(facts, rs.symbols, rs.functions)
	outcomes := make([]rule.Outcome, len(rs.rules))
	for i, r := range rs.rules {
		v, err := evalCtx.Eval(ctx, r.Expr)
		if err != nil {
			outcomes[i] = rule.Outcome{Name: r.Name, Error: err}
			continue
		}
		outcomes[i] = rule.Outcome{Name: r.Name, Value: v}
	}
	return outcomes, nil
}

// Rules returns the RuleSet's rules in declaration order.
func (rs *RuleSet) Rules() []rule.Rule { return append([]rule.Rule{}, rs.rules...) }
