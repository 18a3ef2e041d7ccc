// Package jsonparser implements the JSON-object rule grammar: a direct
// alternative surface for the same Expr tree the text parser produces,
// keyed by node-name tags like {"add":[L,R]}.
package jsonparser

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/mendelt/reval/errs"
	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/rule"
	"github.com/mendelt/reval/value"
)

// ParseExpr parses a single-key tagged-object expression.
func ParseExpr(data []byte) (expr.Expr, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return expr.Expr{}, &errs.ParseError{Detail: "invalid JSON: " + err.Error()}
	}
	return parseExprObj(raw)
}

func parseErr(format string, args ...any) error {
	return &errs.ParseError{Detail: fmt.Sprintf(format, args...)}
}

func parseExprObj(raw map[string]json.RawMessage) (expr.Expr, error) {
	if len(raw) != 1 {
		return expr.Expr{}, parseErr("expr object must have exactly one key, got %d", len(raw))
	}
	var key string
	var payload json.RawMessage
	for k, v := range raw {
		key, payload = k, v
	}

	switch key {
	case "string":
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return expr.Expr{}, parseErr("string: %v", err)
		}
		return expr.Val(value.NewString(s)), nil
	case "int":
		return parseIntLiteralOrCast(payload)
	case "float":
		return parseFloatLiteralOrCast(payload)
	case "bool":
		var b bool
		if err := json.Unmarshal(payload, &b); err != nil {
			return expr.Expr{}, parseErr("bool: %v", err)
		}
		return expr.Val(value.NewBool(b)), nil
	case "decimal":
		return parseDecimalLiteralOrCast(payload)
	case "cdecimal":
		arg, err := unmarshalExpr(payload)
		if err != nil {
			return expr.Expr{}, err
		}
		return expr.CastDecimal(arg), nil
	case "none":
		return expr.Val(value.None{}), nil
	case "ref":
		var name string
		if err := json.Unmarshal(payload, &name); err != nil {
			return expr.Expr{}, parseErr("ref: %v", err)
		}
		return expr.Reference(name), nil
	case "symbol":
		var name string
		if err := json.Unmarshal(payload, &name); err != nil {
			return expr.Expr{}, parseErr("symbol: %v", err)
		}
		return expr.Symbol(name), nil
	case "idx":
		return parseIdx(payload)
	case "if":
		return parseTriple(payload, expr.If)
	case "datetime":
		return parseUnary(payload, expr.CastDateTime)
	case "duration":
		return parseUnary(payload, expr.CastDuration)
	case "not":
		return parseUnary(payload, expr.Not)
	case "neg":
		return parseUnary(payload, expr.Neg)
	case "some":
		return parseUnary(payload, expr.Some)
	case "isnone":
		return parseUnary(payload, expr.IsNoneExpr)
	case "add":
		return parsePair(payload, expr.Add)
	case "sub":
		return parsePair(payload, expr.Sub)
	case "mult":
		return parsePair(payload, expr.Mult)
	case "div":
		return parsePair(payload, expr.Div)
	case "rem":
		return parsePair(payload, expr.Rem)
	case "eq":
		return parsePair(payload, expr.Equals)
	case "neq":
		return parsePair(payload, expr.NotEquals)
	case "gt":
		return parsePair(payload, expr.GreaterThan)
	case "gte":
		return parsePair(payload, expr.GreaterThanEquals)
	case "lt":
		return parsePair(payload, expr.LessThan)
	case "lte":
		return parsePair(payload, expr.LessThanEquals)
	case "and":
		return parsePair(payload, expr.And)
	case "or":
		return parsePair(payload, expr.Or)
	case "bitand":
		return parsePair(payload, expr.BitAnd)
	case "bitor":
		return parsePair(payload, expr.BitOr)
	case "bitxor":
		return parsePair(payload, expr.BitXor)
	case "contains":
		return parsePair(payload, expr.Contains)
	case "starts":
		return parsePair(payload, expr.Starts)
	case "ends":
		return parsePair(payload, expr.Ends)
	case "func":
		return parseFunc(payload)
	case "map":
		return parseMapCtor(payload)
	case "vec":
		return parseVecCtor(payload)
	case "for_map":
		return parseForMap(payload)
	case "for_filter":
		return parseForFilter(payload)
	default:
		return expr.Expr{}, parseErr("unrecognised expr key %q", key)
	}
}

func unmarshalExpr(payload json.RawMessage) (expr.Expr, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return expr.Expr{}, parseErr("expected expr object: %v", err)
	}
	return parseExprObj(raw)
}

// parseIntLiteralOrCast handles the {"int": n} overload: a literal when
// n is a JSON number, and a cast node when n is itself an expr object
// (the unary-cast form, e.g. {"int": {"ref": "x"}}).
func parseIntLiteralOrCast(payload json.RawMessage) (expr.Expr, error) {
	var num json.Number
	if err := json.Unmarshal(payload, &num); err == nil {
		return parseIntNumber(num)
	}
	arg, err := unmarshalExpr(payload)
	if err != nil {
		return expr.Expr{}, parseErr("int: %v", err)
	}
	return expr.CastInt(arg), nil
}

func parseIntNumber(num json.Number) (expr.Expr, error) {
	bi, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return expr.Expr{}, parseErr("int: invalid integer literal %q", num.String())
	}
	iv, ok := value.NewIntFromBig(bi)
	if !ok {
		return expr.Expr{}, &errs.ValueOutOfBounds{Value: num.String(), Op: "int literal"}
	}
	return expr.Val(iv), nil
}

func parseFloatLiteralOrCast(payload json.RawMessage) (expr.Expr, error) {
	var f float64
	if err := json.Unmarshal(payload, &f); err == nil {
		return expr.Val(value.NewFloat(f)), nil
	}
	arg, err := unmarshalExpr(payload)
	if err != nil {
		return expr.Expr{}, parseErr("float: %v", err)
	}
	return expr.CastFloat(arg), nil
}

// parseDecimalLiteralOrCast handles the {"decimal": x} overload the same
// way as int/float: a literal when x is a string or JSON number, a cast
// node when x is itself an expr object.
func parseDecimalLiteralOrCast(payload json.RawMessage) (expr.Expr, error) {
	var s string
	if err := json.Unmarshal(payload, &s); err == nil {
		d, err := value.ParseDecimal(s)
		if err != nil {
			return expr.Expr{}, parseErr("decimal: %v", err)
		}
		return expr.Val(d), nil
	}
	var num json.Number
	if err := json.Unmarshal(payload, &num); err == nil {
		d, err := value.ParseDecimal(num.String())
		if err != nil {
			return expr.Expr{}, parseErr("decimal: %v", err)
		}
		return expr.Val(d), nil
	}
	arg, err := unmarshalExpr(payload)
	if err != nil {
		return expr.Expr{}, parseErr("decimal: expected string, number, or expr object")
	}
	return expr.CastDecimal(arg), nil
}

func parseUnary(payload json.RawMessage, ctor func(expr.Expr) expr.Expr) (expr.Expr, error) {
	arg, err := unmarshalExpr(payload)
	if err != nil {
		return expr.Expr{}, err
	}
	return ctor(arg), nil
}

func parsePairRaw(payload json.RawMessage) (expr.Expr, expr.Expr, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil {
		return expr.Expr{}, expr.Expr{}, parseErr("expected 2-element array: %v", err)
	}
	if len(arr) != 2 {
		return expr.Expr{}, expr.Expr{}, parseErr("expected 2-element array, got %d", len(arr))
	}
	l, err := unmarshalExpr(arr[0])
	if err != nil {
		return expr.Expr{}, expr.Expr{}, err
	}
	r, err := unmarshalExpr(arr[1])
	if err != nil {
		return expr.Expr{}, expr.Expr{}, err
	}
	return l, r, nil
}

func parsePair(payload json.RawMessage, ctor func(l, r expr.Expr) expr.Expr) (expr.Expr, error) {
	l, r, err := parsePairRaw(payload)
	if err != nil {
		return expr.Expr{}, err
	}
	return ctor(l, r), nil
}

func parseIdx(payload json.RawMessage) (expr.Expr, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil || len(arr) != 2 {
		return expr.Expr{}, parseErr("idx: expected [subject, key] array")
	}
	subject, err := unmarshalExpr(arr[0])
	if err != nil {
		return expr.Expr{}, err
	}
	key, err := unmarshalExpr(arr[1])
	if err != nil {
		return expr.Expr{}, err
	}
	if key.Kind() == expr.KindValue {
		if _, ok := key.Value().(value.String); ok {
			return expr.IndexMap(subject, key), nil
		}
	}
	// Any non-string-literal key is treated as a vector position, so a
	// computed key applied to a map subject evaluates to InvalidType.
	return expr.IndexVec(subject, key), nil
}

func parseTriple(payload json.RawMessage, ctor func(a, b, c expr.Expr) expr.Expr) (expr.Expr, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil || len(arr) != 3 {
		return expr.Expr{}, parseErr("expected 3-element array")
	}
	a, err := unmarshalExpr(arr[0])
	if err != nil {
		return expr.Expr{}, err
	}
	b, err := unmarshalExpr(arr[1])
	if err != nil {
		return expr.Expr{}, err
	}
	c, err := unmarshalExpr(arr[2])
	if err != nil {
		return expr.Expr{}, err
	}
	return ctor(a, b, c), nil
}

func parseFunc(payload json.RawMessage) (expr.Expr, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil || len(arr) != 2 {
		return expr.Expr{}, parseErr("func: expected [name, arg] array")
	}
	var name string
	if err := json.Unmarshal(arr[0], &name); err != nil {
		return expr.Expr{}, parseErr("func: name: %v", err)
	}
	arg, err := unmarshalExpr(arr[1])
	if err != nil {
		return expr.Expr{}, err
	}
	return expr.Function(name, arg), nil
}

func parseMapCtor(payload json.RawMessage) (expr.Expr, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return expr.Expr{}, parseErr("map: %v", err)
	}
	children := make(map[string]expr.Expr, len(raw))
	for k, v := range raw {
		e, err := unmarshalExpr(v)
		if err != nil {
			return expr.Expr{}, err
		}
		children[k] = e
	}
	return expr.MapExpr(children), nil
}

func parseVecCtor(payload json.RawMessage) (expr.Expr, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil {
		return expr.Expr{}, parseErr("vec: %v", err)
	}
	items := make([]expr.Expr, len(arr))
	for i, v := range arr {
		e, err := unmarshalExpr(v)
		if err != nil {
			return expr.Expr{}, err
		}
		items[i] = e
	}
	return expr.VecExpr(items), nil
}

func parseForMap(payload json.RawMessage) (expr.Expr, error) {
	bind, list, body, err := parseComprehension(payload)
	if err != nil {
		return expr.Expr{}, err
	}
	return expr.ForMap(bind, list, body), nil
}

func parseForFilter(payload json.RawMessage) (expr.Expr, error) {
	bind, list, pred, err := parseComprehension(payload)
	if err != nil {
		return expr.Expr{}, err
	}
	return expr.ForFilter(bind, list, pred), nil
}

func parseComprehension(payload json.RawMessage) (string, expr.Expr, expr.Expr, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err != nil || len(arr) != 3 {
		return "", expr.Expr{}, expr.Expr{}, parseErr("expected [bind, list, body] array")
	}
	var bind string
	if err := json.Unmarshal(arr[0], &bind); err != nil {
		return "", expr.Expr{}, expr.Expr{}, parseErr("bind: %v", err)
	}
	list, err := unmarshalExpr(arr[1])
	if err != nil {
		return "", expr.Expr{}, expr.Expr{}, err
	}
	body, err := unmarshalExpr(arr[2])
	if err != nil {
		return "", expr.Expr{}, expr.Expr{}, err
	}
	return bind, list, body, nil
}

// jsonRule is the JSON rule envelope: {"name", "metadata"?, "expr"}.
type jsonRule struct {
	Name     string                     `json:"name"`
	Metadata map[string]json.RawMessage `json:"metadata"`
	Expr     json.RawMessage            `json:"expr"`
}

// ParseRule parses a full `{"name", "metadata"?, "expr"}` rule.
func ParseRule(data []byte) (rule.Rule, error) {
	var jr jsonRule
	if err := json.Unmarshal(data, &jr); err != nil {
		return rule.Rule{}, &errs.ParseError{Detail: "invalid JSON rule: " + err.Error()}
	}
	if jr.Name == "" {
		return rule.Rule{}, parseErr("rule missing \"name\"")
	}
	e, err := ParseExpr(jr.Expr)
	if err != nil {
		return rule.Rule{}, err
	}
	meta := rule.NewMetadata()
	for _, k := range sortedJSONKeys(jr.Metadata) {
		v, err := jsonValueToValue(jr.Metadata[k])
		if err != nil {
			return rule.Rule{}, err
		}
		meta = meta.With(k, v)
	}
	return rule.New(jr.Name, meta, e), nil
}

// sortedJSONKeys gives metadata entries a deterministic order, since
// Go's map iteration is random and encoding/json discards source order
// for JSON objects. Rules needing authored metadata order should use
// the text rule grammar (rule.ParseText) instead.
func sortedJSONKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// jsonValueToValue converts a plain JSON scalar (string, number, bool,
// null) found in a rule's metadata object into a value.Value. Metadata
// values are always simple scalars, never nested structures.
func jsonValueToValue(raw json.RawMessage) (value.Value, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return value.NewString(s), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return value.NewBool(b), nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if bi, ok := new(big.Int).SetString(num.String(), 10); ok {
			if iv, ok := value.NewIntFromBig(bi); ok {
				return iv, nil
			}
		}
		f, err := num.Float64()
		if err != nil {
			return nil, parseErr("metadata: invalid number %q", num.String())
		}
		return value.NewFloat(f), nil
	}
	var null any
	if err := json.Unmarshal(raw, &null); err == nil && null == nil {
		return value.None{}, nil
	}
	return nil, parseErr("metadata: unsupported JSON value %q", string(raw))
}
