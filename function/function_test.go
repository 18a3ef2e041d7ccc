package function

import (
	"context"
	"testing"

	"github.com/mendelt/reval/value"
)

func echo(ctx context.Context, arg value.Value) (value.Value, error) {
	return arg, nil
}

func TestAddFunctionAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.AddFunction("double", echo); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}
	f, ok := r.Lookup("double")
	if !ok {
		t.Fatal("Lookup(\"double\") should find the registered function")
	}
	if !f.Cacheable {
		t.Error("functions default to Cacheable")
	}
}

func TestAddFunctionRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.AddFunction("score", echo); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}
	if err := r.AddFunction("score", echo); err == nil {
		t.Error("registering the same name twice should fail")
	}
}

func TestAddFunctionRejectsReservedIdentifier(t *testing.T) {
	r := NewRegistry()
	if err := r.AddFunction("if", echo); err == nil {
		t.Error("\"if\" is a reserved keyword and should be rejected as a function name")
	}
}

func TestAddFunctionRejectsInvalidIdentifier(t *testing.T) {
	r := NewRegistry()
	tests := []string{"", "1abc", "has space", "bad-name"}
	for _, name := range tests {
		if err := r.AddFunction(name, echo); err == nil {
			t.Errorf("AddFunction(%q) should be rejected as an invalid identifier", name)
		}
	}
}

func TestNotCacheableOption(t *testing.T) {
	r := NewRegistry()
	if err := r.AddFunction("now", echo, NotCacheable()); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}
	f, _ := r.Lookup("now")
	if f.Cacheable {
		t.Error("NotCacheable() should mark the function as not cacheable")
	}
}

func TestLookupMissing(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("nope"); ok {
		t.Error("Lookup of an unregistered name should report not-found")
	}
}
