package value

import (
	"math/big"
	"testing"
)

func TestEqualityNeverCrossesKind(t *testing.T) {
	if NewInt(1).Equal(NewFloat(1.0)) {
		t.Error("Int(1) should not equal Float(1.0)")
	}
	if NewFloat(1.0).Equal(NewInt(1)) {
		t.Error("Float(1.0) should not equal Int(1)")
	}
	if NewString("1").Equal(NewInt(1)) {
		t.Error("String and Int should never be equal")
	}
}

func TestNoneNeverEqual(t *testing.T) {
	if (None{}).Equal(None{}) {
		t.Error("None should not equal None")
	}
	if (None{}).Equal(NewInt(0)) {
		t.Error("None should not equal anything")
	}
}

func TestIsNone(t *testing.T) {
	if !IsNone(None{}) {
		t.Error("IsNone(None{}) should be true")
	}
	if IsNone(NewInt(0)) {
		t.Error("IsNone(Int(0)) should be false")
	}
}

func TestMapEqualityIsElementwise(t *testing.T) {
	a := NewMap(map[string]Value{"x": NewInt(1), "y": NewString("a")})
	b := NewMap(map[string]Value{"y": NewString("a"), "x": NewInt(1)})
	c := NewMap(map[string]Value{"x": NewInt(2), "y": NewString("a")})

	if !a.Equal(b) {
		t.Error("maps with the same pairs in different insertion order should be equal")
	}
	if a.Equal(c) {
		t.Error("maps with differing values should not be equal")
	}
}

func TestMapIterationIsLexicographic(t *testing.T) {
	m := NewMap(map[string]Value{"b": NewInt(2), "a": NewInt(1), "c": NewInt(3)})
	got := m.Keys()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestVecEquality(t *testing.T) {
	a := NewVec([]Value{NewInt(1), NewInt(2)})
	b := NewVec([]Value{NewInt(1), NewInt(2)})
	c := NewVec([]Value{NewInt(2), NewInt(1)})

	if !a.Equal(b) {
		t.Error("vecs with the same elements in the same order should be equal")
	}
	if a.Equal(c) {
		t.Error("vecs differing in order should not be equal")
	}
}

func TestIntBoundsReject128thBit(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, ok := NewIntFromBig(huge); ok {
		t.Error("2^128 should not fit in a signed 128-bit Int")
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	if _, ok := NewIntFromBig(max); !ok {
		t.Error("2^127-1 should fit in a signed 128-bit Int")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindNone, "none"},
		{KindString, "string"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindDecimal, "decimal"},
		{KindBool, "bool"},
		{KindDateTime, "datetime"},
		{KindDuration, "duration"},
		{KindVec, "vec"},
		{KindMap, "map"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
