package expr

import (
	"fmt"
	"sort"
	"strings"
)

// Format renders e in a canonical parenthesised textual form, used by
// tests and diagnostics. Reparsing its output with parser.ParseText gives
// back the same tree, modulo left-associative chain grouping, with two
// exceptions: map-constructor keys print unquoted, so a key that is not a
// plain identifier does not reparse; and a comprehension prints without
// parentheses, so as the left operand of a binary operator or the subject
// of an index it reparses with the rest folded into its body.
func Format(e Expr) string {
	switch e.kind {
	case KindValue:
		return e.value.String()
	case KindReference:
		return "ref(" + e.name + ")"
	case KindSymbol:
		return ":" + e.name
	case KindIf:
		return fmt.Sprintf("(if %s then %s else %s)", Format(e.A()), Format(e.B()), Format(e.C()))
	case KindIndex:
		if e.index.IsMap {
			return fmt.Sprintf("%s[%s]", Format(e.A()), Format(e.index.MapKey))
		}
		return fmt.Sprintf("%s[%s]", Format(e.A()), Format(e.index.VecPos))
	case KindNot:
		return "!(" + Format(e.A()) + ")"
	case KindNeg:
		return "-(" + Format(e.A()) + ")"
	case KindSome:
		return "some(" + Format(e.A()) + ")"
	case KindIsNone:
		return "is_none(" + Format(e.A()) + ")"
	case KindCastInt:
		return "int(" + Format(e.A()) + ")"
	case KindCastFloat:
		return "float(" + Format(e.A()) + ")"
	case KindCastDecimal:
		return "dec(" + Format(e.A()) + ")"
	case KindCastDateTime:
		return "datetime(" + Format(e.A()) + ")"
	case KindCastDuration:
		return "duration(" + Format(e.A()) + ")"
	case KindUpperCase:
		return "upper_case(" + Format(e.A()) + ")"
	case KindLowerCase:
		return "lower_case(" + Format(e.A()) + ")"
	case KindTrim:
		return "trim(" + Format(e.A()) + ")"
	case KindRound:
		return "round(" + Format(e.A()) + ")"
	case KindFloor:
		return "floor(" + Format(e.A()) + ")"
	case KindFract:
		return "fract(" + Format(e.A()) + ")"
	case KindYear:
		return "year(" + Format(e.A()) + ")"
	case KindMonth:
		return "month(" + Format(e.A()) + ")"
	case KindWeek:
		return "week(" + Format(e.A()) + ")"
	case KindDay:
		return "day(" + Format(e.A()) + ")"
	case KindHour:
		return "hour(" + Format(e.A()) + ")"
	case KindMinute:
		return "minute(" + Format(e.A()) + ")"
	case KindSecond:
		return "second(" + Format(e.A()) + ")"
	case KindMult:
		return binop(e, "*")
	case KindDiv:
		return binop(e, "/")
	case KindRem:
		return binop(e, "%")
	case KindAdd:
		return binop(e, "+")
	case KindSub:
		return binop(e, "-")
	case KindEquals:
		return binop(e, "==")
	case KindNotEquals:
		return binop(e, "!=")
	case KindGreaterThan:
		return binop(e, ">")
	case KindGreaterThanEquals:
		return binop(e, ">=")
	case KindLessThan:
		return binop(e, "<")
	case KindLessThanEquals:
		return binop(e, "<=")
	case KindAnd:
		return binop(e, "and")
	case KindOr:
		return binop(e, "or")
	case KindBitAnd:
		return binop(e, "&")
	case KindBitOr:
		return binop(e, "|")
	case KindBitXor:
		return binop(e, "^")
	case KindContains:
		return fmt.Sprintf("contains(%s, %s)", Format(e.A()), Format(e.B()))
	case KindStarts:
		return fmt.Sprintf("starts(%s, %s)", Format(e.A()), Format(e.B()))
	case KindEnds:
		return fmt.Sprintf("ends(%s, %s)", Format(e.A()), Format(e.B()))
	case KindFunction:
		return fmt.Sprintf("%s(%s)", e.name, Format(e.A()))
	case KindMap:
		keys := make([]string, 0, len(e.mapChildren))
		for k := range e.mapChildren {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, Format(e.mapChildren[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindVec:
		parts := make([]string, len(e.vecChildren))
		for i, c := range e.vecChildren {
			parts[i] = Format(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindForMap:
		return fmt.Sprintf("for %s in %s map %s", e.name, Format(e.A()), Format(e.B()))
	case KindForFilter:
		return fmt.Sprintf("for %s in %s filter %s", e.name, Format(e.A()), Format(e.B()))
	default:
		return fmt.Sprintf("<unknown-expr-kind-%d>", int(e.kind))
	}
}

func binop(e Expr, op string) string {
	return fmt.Sprintf("(%s %s %s)", Format(e.A()), op, Format(e.B()))
}
