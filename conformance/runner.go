package conformance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mendelt/reval/convert"
	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/jsonparser"
	"github.com/mendelt/reval/parser"
	"github.com/mendelt/reval/rule"
	"github.com/mendelt/reval/ruleset"
	"github.com/mendelt/reval/value"
)

// Result is the outcome of running one Scenario.
type Result struct {
	Scenario LoadedScenario
	Passed   bool
	Error    error
}

// Run builds the RuleSet a Scenario describes, evaluates it against the
// Scenario's facts, and checks every rule's Outcome against its
// Expectation in declaration order.
func Run(ctx context.Context, s LoadedScenario) Result {
	rs, err := build(s.Scenario)
	if err != nil {
		return Result{Scenario: s, Error: fmt.Errorf("build: %w", err)}
	}

	facts, err := convert.ToValue(s.Scenario.Facts)
	if err != nil {
		return Result{Scenario: s, Error: fmt.Errorf("project facts: %w", err)}
	}
	if _, ok := facts.(value.Map); !ok {
		facts = value.NewEmptyMap()
	}

	outcomes, err := rs.EvaluateValue(ctx, facts)
	if err != nil {
		return Result{Scenario: s, Error: fmt.Errorf("evaluate: %w", err)}
	}
	if len(outcomes) != len(s.Scenario.Expect) {
		return Result{Scenario: s, Error: fmt.Errorf("expected %d outcomes, got %d", len(s.Scenario.Expect), len(outcomes))}
	}

	for i, outcome := range outcomes {
		if err := checkExpectation(s.Scenario.Expect[i], outcome); err != nil {
			return Result{Scenario: s, Error: fmt.Errorf("rule %q (#%d): %w", outcome.Name, i, err)}
		}
	}
	return Result{Scenario: s, Passed: true}
}

// RunAll runs every Scenario in scenarios.
func RunAll(ctx context.Context, scenarios []LoadedScenario) []Result {
	results := make([]Result, len(scenarios))
	for i, s := range scenarios {
		results[i] = Run(ctx, s)
	}
	return results
}

func build(s Scenario) (*ruleset.RuleSet, error) {
	b := ruleset.NewBuilder()
	for name, src := range s.Symbols {
		e, err := parser.ParseText(src)
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", name, err)
		}
		b.WithSymbol(name, e)
	}
	for i, src := range s.Rules {
		r, err := rule.ParseText(src)
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i, err)
		}
		b.WithRule(r)
	}
	for i, src := range s.RulesJSON {
		r, err := jsonparser.ParseRule([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("json rule #%d: %w", i, err)
		}
		b.WithRule(r)
	}
	return b.Build()
}

func checkExpectation(expect Expectation, outcome rule.Outcome) error {
	if expect.Error != "" {
		if outcome.Error == nil {
			return fmt.Errorf("expected error %s, got value %s", expect.Error, outcome.Value)
		}
		if got := errorKindName(outcome.Error); !strings.EqualFold(got, expect.Error) {
			return fmt.Errorf("expected error %s, got %s (%v)", expect.Error, got, outcome.Error)
		}
		return nil
	}
	if outcome.Error != nil {
		return fmt.Errorf("unexpected error: %v", outcome.Error)
	}
	wantVal, err := convert.ToValue(expect.Value)
	if err != nil {
		return fmt.Errorf("expected value: %w", err)
	}
	if !outcome.Value.Equal(wantVal) {
		return fmt.Errorf("expected %s, got %s", wantVal, outcome.Value)
	}
	return nil
}

// errorKindName maps an evaluator error back to its bare kind name
// (UnknownRef, InvalidType, ...), so fixtures can name expected failures
// without spelling out Go types.
func errorKindName(err error) string {
	switch {
	case errors.As(err, new(*errs.ParseError)):
		return "ParseError"
	case errors.As(err, new(*errs.UnknownRef)):
		return "UnknownRef"
	case errors.As(err, new(*errs.InvalidSymbol)):
		return "InvalidSymbol"
	case errors.As(err, new(*errs.CyclicSymbolError)):
		return "CyclicSymbolError"
	case errors.As(err, new(*errs.UnknownUserFunction)):
		return "UnknownUserFunction"
	case errors.As(err, new(*errs.InvalidType)):
		return "InvalidType"
	case errors.As(err, new(*errs.InvalidCast)):
		return "InvalidCast"
	case errors.As(err, new(*errs.ValueOutOfBounds)):
		return "ValueOutOfBounds"
	case errors.As(err, new(*errs.DivisionByZero)):
		return "DivisionByZero"
	case errors.As(err, new(*errs.UserFunctionError)):
		return "UserFunctionError"
	case errors.As(err, new(*errs.InvalidFunctionName)):
		return "InvalidFunctionName"
	case errors.As(err, new(*errs.DuplicateFunctionName)):
		return "DuplicateFunctionName"
	case errors.As(err, new(*errs.SerializationError)):
		return "SerializationError"
	default:
		return fmt.Sprintf("%T", err)
	}
}
