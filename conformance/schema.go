// Package conformance is a YAML-fixture-driven end-to-end scenario
// runner: each fixture describes a small RuleSet (rule sources, an
// optional symbol table) plus a facts document and the Outcome every
// rule is expected to produce.
package conformance

// Scenario is one YAML test file: a RuleSet under construction plus the
// facts to evaluate it against and the expected per-rule outcomes, in
// the same order the rules are declared.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Symbols     map[string]string `yaml:"symbols,omitempty"`
	Rules       []string          `yaml:"rules,omitempty"`
	RulesJSON   []string          `yaml:"rules_json,omitempty"`
	Facts       any               `yaml:"facts,omitempty"`
	Expect      []Expectation     `yaml:"expect"`
}

// Expectation is the expected Outcome for one rule: exactly one of
// Value or Error should be set.
type Expectation struct {
	Value any    `yaml:"value,omitempty"`
	Error string `yaml:"error,omitempty"`
}
