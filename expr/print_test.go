package expr

import (
	"testing"

	"github.com/mendelt/reval/value"
)

func TestFormatLiterals(t *testing.T) {
	tests := []struct {
		e    Expr
		want string
	}{
		{Val(value.NewInt(5)), "i5"},
		{Val(value.None{}), "none"},
		{Val(value.NewBool(true)), "true"},
		{Reference("age"), "ref(age)"},
		{Symbol("sym"), ":sym"},
	}
	for _, tt := range tests {
		if got := Format(tt.e); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestFormatIf(t *testing.T) {
	e := If(Val(value.NewBool(true)), Val(value.NewInt(1)), Val(value.NewInt(2)))
	want := "(if true then i1 else i2)"
	if got := Format(e); got != want {
		t.Errorf("Format(If) = %q, want %q", got, want)
	}
}

func TestFormatBinaryOperators(t *testing.T) {
	l, r := Val(value.NewInt(1)), Val(value.NewInt(2))
	tests := []struct {
		e    Expr
		want string
	}{
		{Add(l, r), "(i1 + i2)"},
		{Equals(l, r), "(i1 == i2)"},
		{And(l, r), "(i1 and i2)"},
		{BitXor(l, r), "(i1 ^ i2)"},
	}
	for _, tt := range tests {
		if got := Format(tt.e); got != tt.want {
			t.Errorf("Format(...) = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatComprehensions(t *testing.T) {
	list := VecExpr([]Expr{Val(value.NewInt(1)), Val(value.NewInt(2))})
	body := Val(value.NewBool(true))

	got := Format(ForMap("x", list, body))
	want := "for x in [i1, i2] map true"
	if got != want {
		t.Errorf("Format(ForMap) = %q, want %q", got, want)
	}

	got = Format(ForFilter("x", list, body))
	want = "for x in [i1, i2] filter true"
	if got != want {
		t.Errorf("Format(ForFilter) = %q, want %q", got, want)
	}
}

func TestFormatMapIsKeySorted(t *testing.T) {
	m := MapExpr(map[string]Expr{
		"b": Val(value.NewInt(2)),
		"a": Val(value.NewInt(1)),
	})
	want := "{a: i1, b: i2}"
	if got := Format(m); got != want {
		t.Errorf("Format(Map) = %q, want %q", got, want)
	}
}

func TestFormatFunctionCall(t *testing.T) {
	got := Format(Function("score", Val(value.NewInt(7))))
	want := "score(i7)"
	if got != want {
		t.Errorf("Format(Function) = %q, want %q", got, want)
	}
}
