package jsonparser

import (
	"testing"

	"github.com/mendelt/reval/expr"
)

func mustParseExpr(t *testing.T, src string) expr.Expr {
	t.Helper()
	e, err := ParseExpr([]byte(src))
	if err != nil {
		t.Fatalf("ParseExpr(%s): %v", src, err)
	}
	return e
}

func TestParseExprLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`{"int": 5}`, "i5"},
		{`{"string": "hi"}`, `"hi"`},
		{`{"bool": true}`, "true"},
		{`{"none": null}`, "none"},
		{`{"ref": "age"}`, "ref(age)"},
		{`{"symbol": "limit"}`, ":limit"},
	}
	for _, tt := range tests {
		got := expr.Format(mustParseExpr(t, tt.src))
		if got != tt.want {
			t.Errorf("ParseExpr(%s) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseExprIntOverloadAsCast(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"int": {"ref": "x"}}`))
	want := "int(ref(x))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprDecimalOverloads(t *testing.T) {
	e := mustParseExpr(t, `{"decimal": "12.50"}`)
	if e.Kind() != expr.KindValue {
		t.Errorf("a string payload should parse as a decimal literal, got kind %d", e.Kind())
	}
	got := expr.Format(mustParseExpr(t, `{"decimal": {"ref": "amount"}}`))
	want := "dec(ref(amount))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprBinaryOps(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"add": [{"int": 1}, {"int": 2}]}`))
	want := "(i1 + i2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprIf(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"if": [{"bool": true}, {"int": 1}, {"int": 2}]}`))
	want := "(if true then i1 else i2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprIdxStringKeyIsMapIndex(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"idx": [{"ref": "person"}, {"string": "name"}]}`))
	want := `ref(person)["name"]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprIdxIntKeyIsVecIndex(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"idx": [{"ref": "items"}, {"int": 0}]}`))
	want := "ref(items)[i0]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprFuncCall(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"func": ["score", {"ref": "x"}]}`))
	want := "score(ref(x))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprVecAndMap(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"vec": [{"int": 1}, {"int": 2}]}`))
	want := "[i1, i2]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = expr.Format(mustParseExpr(t, `{"map": {"a": {"int": 1}, "b": {"int": 2}}}`))
	want = "{a: i1, b: i2}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprForMapForFilter(t *testing.T) {
	got := expr.Format(mustParseExpr(t, `{"for_map": ["x", {"vec": [{"int": 1}]}, {"bool": true}]}`))
	want := "for x in [i1] map true"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = expr.Format(mustParseExpr(t, `{"for_filter": ["x", {"vec": [{"int": 1}]}, {"bool": true}]}`))
	want = "for x in [i1] filter true"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseExprRejectsMultiKeyObject(t *testing.T) {
	if _, err := ParseExpr([]byte(`{"int": 1, "bool": true}`)); err == nil {
		t.Error("an expr object with more than one key should fail to parse")
	}
}

func TestParseExprRejectsUnknownKey(t *testing.T) {
	if _, err := ParseExpr([]byte(`{"nope": 1}`)); err == nil {
		t.Error("an unrecognised expr key should fail to parse")
	}
}

func TestParseRuleWithMetadata(t *testing.T) {
	src := `{"name": "adult", "metadata": {"owner": "alice", "version": 2}, "expr": {"gt": [{"ref": "age"}, {"int": 17}]}}`
	r, err := ParseRule([]byte(src))
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if r.Name != "adult" {
		t.Errorf("Name = %q, want \"adult\"", r.Name)
	}
	owner, ok := r.Metadata.Get("owner")
	if !ok || owner.String() != `"alice"` {
		t.Errorf("metadata[owner] = %v, %v", owner, ok)
	}
	want := "(ref(age) > i17)"
	if got := expr.Format(r.Expr); got != want {
		t.Errorf("Expr formatted = %q, want %q", got, want)
	}
}

func TestParseRuleRequiresName(t *testing.T) {
	if _, err := ParseRule([]byte(`{"expr": {"bool": true}}`)); err == nil {
		t.Error("a rule missing \"name\" should fail to parse")
	}
}
