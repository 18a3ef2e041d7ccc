package value

import "github.com/mendelt/reval/errs"

// Compare orders a and b within a single numeric, DateTime, or Duration
// kind. Strings and booleans have no ordering — there is deliberately no
// lexicographic fallback — so those kinds return InvalidType. Callers
// handle None specially before reaching here (ordering ops with a None
// operand yield false, not an error — see eval).
func Compare(a, b Value) (int, error) {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		if !ok {
			return 0, &errs.InvalidType{Detail: "gt/lt requires both operands to be Int"}
		}
		return av.Compare(bv), nil
	case Float:
		bv, ok := b.(Float)
		if !ok {
			return 0, &errs.InvalidType{Detail: "gt/lt requires both operands to be Float"}
		}
		if av.IsNaN() || bv.IsNaN() {
			return 0, &errs.InvalidType{Detail: "NaN has no ordering"}
		}
		return av.Compare(bv), nil
	case Decimal:
		bv, ok := b.(Decimal)
		if !ok {
			return 0, &errs.InvalidType{Detail: "gt/lt requires both operands to be Decimal"}
		}
		return av.Compare(bv), nil
	case DateTime:
		bv, ok := b.(DateTime)
		if !ok {
			return 0, &errs.InvalidType{Detail: "gt/lt requires both operands to be DateTime"}
		}
		return av.Compare(bv), nil
	case Duration:
		bv, ok := b.(Duration)
		if !ok {
			return 0, &errs.InvalidType{Detail: "gt/lt requires both operands to be Duration"}
		}
		return av.Compare(bv), nil
	default:
		return 0, &errs.InvalidType{Detail: a.Kind().String() + " has no ordering"}
	}
}
