// Package function implements the host-provided user-function registry:
// named callbacks a RuleSet's Function nodes invoke during evaluation.
package function

import (
	"context"
	"unicode"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/parser"
	"github.com/mendelt/reval/value"
)

// Callback is a host-provided function body. It receives the evaluation
// context (for cancellation) and the single argument Value, and returns
// a result Value or an error. A Callback must not block indefinitely;
// the evaluator propagates ctx cancellation but cannot forcibly abort a
// running Go call.
type Callback func(ctx context.Context, arg value.Value) (value.Value, error)

// UserFunction is a registered callback plus its memoization policy.
type UserFunction struct {
	Name      string
	Call      Callback
	Cacheable bool // default true: see Registry.AddFunction
}

// Registry holds the user functions a RuleSet may call by name.
type Registry struct {
	functions map[string]UserFunction
}

// NewRegistry returns an empty function Registry.
func NewRegistry() *Registry {
	return &Registry{functions: map[string]UserFunction{}}
}

// Option configures a UserFunction at registration time.
type Option func(*UserFunction)

// NotCacheable marks a function's results as never memoized — use this
// for functions with side effects or whose result depends on more than
// their argument (e.g. wall-clock reads).
func NotCacheable() Option {
	return func(f *UserFunction) { f.Cacheable = false }
}

// AddFunction registers a callback under name. name must be a valid
// identifier, must not collide with a reserved grammar keyword
// (parser.ReservedIdentifiers), and must not already be registered.
func (r *Registry) AddFunction(name string, call Callback, opts ...Option) error {
	if !isValidIdentifier(name) || parser.ReservedIdentifiers[name] {
		return &errs.InvalidFunctionName{Name: name}
	}
	if _, exists := r.functions[name]; exists {
		return &errs.DuplicateFunctionName{Name: name}
	}
	f := UserFunction{Name: name, Call: call, Cacheable: true}
	for _, opt := range opts {
		opt(&f)
	}
	r.functions[name] = f
	return nil
}

// Lookup returns the registered function by name, if any.
func (r *Registry) Lookup(name string) (UserFunction, bool) {
	f, ok := r.functions[name]
	return f, ok
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
