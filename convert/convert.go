// Package convert is the host-facing facade kept outside the evaluation
// kernel: a mechanical reflector that turns whatever structured data a
// host already has — a struct, a map, a JSON document — into the
// value.Value the evaluator actually consumes.
// None of this package's logic participates in rule evaluation; it
// exists purely to save hosts from hand-writing value.Value literals.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/mitchellh/mapstructure"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/value"
)

// ToValue projects an arbitrary host value into a value.Value. Structs
// and maps become value.Map (via mapstructure, so struct tags and
// embedding behave the way hosts already expect); slices and arrays
// become value.Vec; the Go numeric/string/bool/time kinds map onto
// their matching Value variant; nil becomes value.None{}.
func ToValue(v any) (value.Value, error) {
	if v == nil {
		return value.None{}, nil
	}
	switch x := v.(type) {
	case value.Value:
		return x, nil
	case string:
		return value.NewString(x), nil
	case bool:
		return value.NewBool(x), nil
	case int:
		return value.NewInt(int64(x)), nil
	case int8:
		return value.NewInt(int64(x)), nil
	case int16:
		return value.NewInt(int64(x)), nil
	case int32:
		return value.NewInt(int64(x)), nil
	case int64:
		return value.NewInt(x), nil
	case uint:
		return value.NewInt(int64(x)), nil
	case uint8:
		return value.NewInt(int64(x)), nil
	case uint16:
		return value.NewInt(int64(x)), nil
	case uint32:
		return value.NewInt(int64(x)), nil
	case uint64:
		iv, ok := value.NewIntFromBig(new(big.Int).SetUint64(x))
		if !ok {
			return nil, &errs.SerializationError{Detail: "uint64 out of Int range"}
		}
		return iv, nil
	case float32:
		return value.NewFloat(float64(x)), nil
	case float64:
		return value.NewFloat(x), nil
	case *apd.Decimal:
		return value.NewDecimal(x), nil
	case apd.Decimal:
		return value.NewDecimal(&x), nil
	case time.Time:
		return value.NewDateTime(x), nil
	case time.Duration:
		return value.NewDuration(int64(x/time.Second), int32(x%time.Second)), nil
	case json.Number:
		return jsonNumberToValue(x)
	}

	if m, ok := v.(map[string]any); ok {
		return mapToValue(m)
	}
	if slice, ok := asSlice(v); ok {
		return sliceToValue(slice)
	}

	projected := map[string]any{}
	if err := mapstructure.Decode(v, &projected); err != nil {
		return nil, &errs.SerializationError{Detail: fmt.Sprintf("cannot project %T into facts: %v", v, err)}
	}
	return mapToValue(projected)
}

// ToFactsMap projects v the way ToValue does, then requires the result
// be a value.Map: facts are always a top-level record, never a scalar
// or a bare vector.
func ToFactsMap(v any) (value.Value, error) {
	projected, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	if _, ok := projected.(value.Map); !ok {
		return nil, &errs.SerializationError{Detail: "facts must project into a map"}
	}
	return projected, nil
}

func mapToValue(m map[string]any) (value.Value, error) {
	pairs := make(map[string]value.Value, len(m))
	for k, v := range m {
		cv, err := ToValue(v)
		if err != nil {
			return nil, err
		}
		pairs[k] = cv
	}
	return value.NewMap(pairs), nil
}

func sliceToValue(items []any) (value.Value, error) {
	out := make([]value.Value, len(items))
	for i, item := range items {
		cv, err := ToValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return value.NewVec(out), nil
}

func jsonNumberToValue(n json.Number) (value.Value, error) {
	if i, err := n.Int64(); err == nil {
		return value.NewInt(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, &errs.SerializationError{Detail: "malformed json number: " + string(n)}
	}
	return value.NewFloat(f), nil
}

// FromJSON parses a JSON document directly into a value.Value, using
// json.Number to avoid float64-rounding small integers before ToValue
// has a chance to recognize them as Int.
func FromJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &errs.SerializationError{Detail: "invalid json: " + err.Error()}
	}
	return ToValue(raw)
}

func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}
		return out, true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
}
