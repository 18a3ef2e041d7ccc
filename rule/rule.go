// Package rule defines the named, documented unit of evaluation: a rule
// pairs an Expr with a Name and an ordered bag of Metadata, and produces
// an Outcome when evaluated.
package rule

import (
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/value"
)

// Metadata is an insertion-ordered string->Value bag attached to a rule
// (description, severity, owner, ...). Unlike value.Map, which always
// iterates in lexicographic key order, Metadata preserves the order
// entries were added in: metadata is authored and typically meant to be
// read back in that same order.
type Metadata struct {
	keys   []string
	values map[string]value.Value
}

// NewMetadata returns an empty Metadata bag.
func NewMetadata() Metadata {
	return Metadata{values: map[string]value.Value{}}
}

// With returns a new Metadata with key set to v, appended to the end of
// the iteration order if key is new, or updated in place if it already
// exists.
func (m Metadata) With(key string, v value.Value) Metadata {
	values := make(map[string]value.Value, len(m.values)+1)
	for k, existing := range m.values {
		values[k] = existing
	}
	keys := m.keys
	if _, exists := values[key]; !exists {
		keys = append(append([]string{}, m.keys...), key)
	}
	values[key] = v
	return Metadata{keys: keys, values: values}
}

// Get looks up a metadata value by key.
func (m Metadata) Get(key string) (value.Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns metadata keys in insertion order.
func (m Metadata) Keys() []string {
	return append([]string{}, m.keys...)
}

// Len reports the number of metadata entries.
func (m Metadata) Len() int { return len(m.keys) }

// Rule is a single named expression with attached metadata.
type Rule struct {
	Name     string
	Metadata Metadata
	Expr     expr.Expr
}

// New constructs a Rule.
func New(name string, metadata Metadata, e expr.Expr) Rule {
	return Rule{Name: name, Metadata: metadata, Expr: e}
}

// Outcome is the result of evaluating a single rule: either a Value or
// an error, never both. Because rules are evaluated independently, one
// rule's error never prevents its siblings from producing an Outcome.
type Outcome struct {
	Name  string
	Value value.Value
	Error error
}

// Ok reports whether the rule evaluated without error.
func (o Outcome) Ok() bool { return o.Error == nil }
