package value

import (
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/mendelt/reval/errs"
)

// CastInt converts to Int: Float truncates toward zero, Decimal rounds
// to an integer if representable, String parses as a signed decimal.
func CastInt(v Value) (Value, error) {
	switch x := v.(type) {
	case None:
		return None{}, nil
	case Int:
		return x, nil
	case Float:
		if x.IsNaN() || math.IsInf(float64(x), 0) {
			return nil, &errs.InvalidCast{From: "float", To: "int", Detail: "not finite"}
		}
		bi, _ := big.NewFloat(float64(x)).Int(nil) // truncates toward zero
		out, ok := NewIntFromBig(bi)
		if !ok {
			return nil, &errs.InvalidCast{From: "float", To: "int", Detail: "out of 128-bit range"}
		}
		return out, nil
	case Decimal:
		rounded := new(apd.Decimal)
		if _, err := decimalContext.RoundToIntegralValue(rounded, x.Dec()); err != nil {
			return nil, &errs.InvalidCast{From: "decimal", To: "int", Detail: err.Error()}
		}
		bi, ok := new(big.Int).SetString(rounded.Text('f'), 10)
		if !ok {
			return nil, &errs.InvalidCast{From: "decimal", To: "int", Detail: "not representable"}
		}
		out, ok := NewIntFromBig(bi)
		if !ok {
			return nil, &errs.InvalidCast{From: "decimal", To: "int", Detail: "out of 128-bit range"}
		}
		return out, nil
	case String:
		bi, ok := new(big.Int).SetString(string(x), 10)
		if !ok {
			return nil, &errs.InvalidCast{From: "string", To: "int", Detail: "not a signed decimal integer"}
		}
		out, ok := NewIntFromBig(bi)
		if !ok {
			return nil, &errs.InvalidCast{From: "string", To: "int", Detail: "out of 128-bit range"}
		}
		return out, nil
	default:
		return nil, &errs.InvalidType{Detail: "cannot cast " + v.Kind().String() + " to int"}
	}
}

// CastFloat converts to Float: Int widens, Decimal and String parse as
// IEEE 754 binary64.
func CastFloat(v Value) (Value, error) {
	switch x := v.(type) {
	case None:
		return None{}, nil
	case Int:
		f := new(big.Float).SetInt(x.Big())
		out, _ := f.Float64()
		return Float(out), nil
	case Float:
		return x, nil
	case Decimal:
		f, err := strconv.ParseFloat(x.Dec().Text('f'), 64)
		if err != nil {
			return nil, &errs.InvalidCast{From: "decimal", To: "float", Detail: err.Error()}
		}
		return Float(f), nil
	case String:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, &errs.InvalidCast{From: "string", To: "float", Detail: err.Error()}
		}
		return Float(f), nil
	default:
		return nil, &errs.InvalidType{Detail: "cannot cast " + v.Kind().String() + " to float"}
	}
}

// CastDecimal converts to Decimal: Int widens exactly, Float converts if
// representable, String parses as a decimal literal.
func CastDecimal(v Value) (Value, error) {
	switch x := v.(type) {
	case None:
		return None{}, nil
	case Int:
		d, _, err := apd.NewFromString(x.Big().String())
		if err != nil {
			return nil, &errs.InvalidCast{From: "int", To: "decimal", Detail: err.Error()}
		}
		return Decimal{v: d}, nil
	case Float:
		if x.IsNaN() || math.IsInf(float64(x), 0) {
			return nil, &errs.InvalidCast{From: "float", To: "decimal", Detail: "not finite"}
		}
		d, err := new(apd.Decimal).SetFloat64(float64(x))
		if err != nil {
			return nil, &errs.InvalidCast{From: "float", To: "decimal", Detail: err.Error()}
		}
		return Decimal{v: d}, nil
	case Decimal:
		return x, nil
	case String:
		d, err := ParseDecimal(string(x))
		if err != nil {
			return nil, &errs.InvalidCast{From: "string", To: "decimal", Detail: err.Error()}
		}
		return d, nil
	default:
		return nil, &errs.InvalidType{Detail: "cannot cast " + v.Kind().String() + " to decimal"}
	}
}

// CastDateTime converts to DateTime: Int is seconds since the Unix
// epoch, String parses as RFC-3339. Float/Decimal have no defined
// conversion.
func CastDateTime(v Value) (Value, error) {
	switch x := v.(type) {
	case None:
		return None{}, nil
	case Int:
		if !x.FitsInt64() {
			return nil, &errs.InvalidCast{From: "int", To: "datetime", Detail: "out of range"}
		}
		return NewDateTimeUnix(x.Int64()), nil
	case String:
		dt, err := ParseDateTime(string(x))
		if err != nil {
			return nil, &errs.InvalidCast{From: "string", To: "datetime", Detail: err.Error()}
		}
		return dt, nil
	default:
		return nil, &errs.InvalidType{Detail: "cannot cast " + v.Kind().String() + " to datetime"}
	}
}

// CastDuration converts to Duration: Int seconds only.
func CastDuration(v Value) (Value, error) {
	switch x := v.(type) {
	case None:
		return None{}, nil
	case Int:
		if !x.FitsInt64() {
			return nil, &errs.InvalidCast{From: "int", To: "duration", Detail: "out of range"}
		}
		return NewDurationSeconds(x.Int64()), nil
	default:
		return nil, &errs.InvalidType{Detail: "cannot cast " + v.Kind().String() + " to duration"}
	}
}
