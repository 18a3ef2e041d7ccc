package value

import "testing"

func TestCastNonePassesThrough(t *testing.T) {
	casts := []func(Value) (Value, error){CastInt, CastFloat, CastDecimal, CastDateTime, CastDuration}
	for _, cast := range casts {
		got, err := cast(None{})
		if err != nil {
			t.Errorf("cast(None) returned error: %v", err)
		}
		if !IsNone(got) {
			t.Errorf("cast(None) = %v, want None", got)
		}
	}
}

func TestCastIntFromFloatTruncatesTowardZero(t *testing.T) {
	got, err := CastInt(NewFloat(-3.9))
	if err != nil {
		t.Fatalf("CastInt: %v", err)
	}
	want := NewInt(-3)
	if !got.Equal(want) {
		t.Errorf("CastInt(-3.9) = %v, want %v", got, want)
	}
}

func TestCastIntFromStringRejectsGarbage(t *testing.T) {
	if _, err := CastInt(NewString("not a number")); err == nil {
		t.Error("CastInt(\"not a number\") should fail")
	}
}

func TestCastDecimalFromStringRoundTrips(t *testing.T) {
	got, err := CastDecimal(NewString("12.50"))
	if err != nil {
		t.Fatalf("CastDecimal: %v", err)
	}
	want, _ := ParseDecimal("12.50")
	if !got.Equal(want) {
		t.Errorf("CastDecimal(\"12.50\") = %v, want %v", got, want)
	}
}

func TestCastDateTimeFromIntIsUnixSeconds(t *testing.T) {
	got, err := CastDateTime(NewInt(0))
	if err != nil {
		t.Fatalf("CastDateTime: %v", err)
	}
	want := NewDateTimeUnix(0)
	if !got.Equal(want) {
		t.Errorf("CastDateTime(0) = %v, want %v", got, want)
	}
}

func TestCastRejectsIncompatibleKind(t *testing.T) {
	if _, err := CastDateTime(NewFloat(1.5)); err == nil {
		t.Error("CastDateTime(Float) should fail: no defined conversion")
	}
}
