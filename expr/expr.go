// Package expr implements the rule-language AST: a recursive, immutable
// tree produced by either the text parser or the JSON parser and walked by
// the evaluator.
package expr

import "github.com/mendelt/reval/value"

// Kind tags an Expr node.
type Kind int

const (
	KindValue Kind = iota
	KindReference
	KindSymbol
	KindIf
	KindIndex
	KindNot
	KindNeg
	KindSome
	KindIsNone
	KindCastInt
	KindCastFloat
	KindCastDecimal
	KindCastDateTime
	KindCastDuration
	KindUpperCase
	KindLowerCase
	KindTrim
	KindRound
	KindFloor
	KindFract
	KindYear
	KindMonth
	KindWeek
	KindDay
	KindHour
	KindMinute
	KindSecond
	KindMult
	KindDiv
	KindRem
	KindAdd
	KindSub
	KindEquals
	KindNotEquals
	KindGreaterThan
	KindGreaterThanEquals
	KindLessThan
	KindLessThanEquals
	KindAnd
	KindOr
	KindBitAnd
	KindBitOr
	KindBitXor
	KindContains
	KindStarts
	KindEnds
	KindFunction
	KindMap
	KindVec
	KindForMap
	KindForFilter
)

// IndexKey distinguishes map-key indexing from vector-position indexing.
type IndexKey struct {
	// Exactly one of MapKey / VecPos is set, chosen by IsMap.
	IsMap  bool
	MapKey Expr
	VecPos Expr
}

// Expr is an immutable AST node. All node kinds are represented by the
// single struct below (a tagged variant), rather than one Go type per
// kind — with ~50 node kinds, a struct-per-kind hierarchy would multiply
// type-switch boilerplate across parser/printer/evaluator for no
// behavioural benefit. Smart constructors (below) are the public
// surface; callers never build an Expr struct literal directly.
type Expr struct {
	kind Kind

	// Leaves.
	value     value.Value
	name      string // Reference/Symbol name, Function name, ForMap/ForFilter bind name

	// Interior nodes: boxed children, named by role. Not every node uses
	// every field; see the doc comment on each constructor for which
	// apply. Children are pointers because Expr is recursive; the
	// accessors below hide the boxing from callers.
	a, b, c *Expr // generic children: If(a=cond,b=then,c=else), binary(a,b),
	//             comprehension(a=list,b=body/pred), unary(a)
	index *IndexKey // Index node only

	mapChildren map[string]Expr // Map node only
	vecChildren []Expr          // Vec node only
}

func (e Expr) Kind() Kind { return e.kind }

// IsZero reports whether e is the zero Expr (never produced by a smart
// constructor; useful as a "no such child" sentinel in the printer/evaluator).
func (e Expr) IsZero() bool { return e.kind == KindValue && e.value == nil }

// --- Leaves -----------------------------------------------------------

func Val(v value.Value) Expr { return Expr{kind: KindValue, value: v} }

func Reference(name string) Expr { return Expr{kind: KindReference, name: name} }

func Symbol(name string) Expr { return Expr{kind: KindSymbol, name: name} }

// --- Accessors used by eval/printer ------------------------------------

func (e Expr) Value() value.Value { return e.value }
func (e Expr) Name() string       { return e.name }
func (e Expr) A() Expr            { return deref(e.a) }
func (e Expr) B() Expr            { return deref(e.b) }
func (e Expr) C() Expr            { return deref(e.c) }
func (e Expr) Index() *IndexKey   { return e.index }
func (e Expr) MapChildren() map[string]Expr { return e.mapChildren }
func (e Expr) VecChildren() []Expr          { return e.vecChildren }

// --- Interior nodes -----------------------------------------------------

func box(e Expr) *Expr { return &e }

func deref(p *Expr) Expr {
	if p == nil {
		return Expr{}
	}
	return *p
}

func If(cond, then, els Expr) Expr {
	return Expr{kind: KindIf, a: box(cond), b: box(then), c: box(els)}
}

func IndexMap(subject, key Expr) Expr {
	return Expr{kind: KindIndex, a: box(subject), index: &IndexKey{IsMap: true, MapKey: key}}
}

func IndexVec(subject, pos Expr) Expr {
	return Expr{kind: KindIndex, a: box(subject), index: &IndexKey{IsMap: false, VecPos: pos}}
}

func unary(k Kind, operand Expr) Expr { return Expr{kind: k, a: box(operand)} }

func Not(x Expr) Expr        { return unary(KindNot, x) }
func Neg(x Expr) Expr        { return unary(KindNeg, x) }
func Some(x Expr) Expr       { return unary(KindSome, x) }
func IsNoneExpr(x Expr) Expr { return unary(KindIsNone, x) }

func CastInt(x Expr) Expr      { return unary(KindCastInt, x) }
func CastFloat(x Expr) Expr    { return unary(KindCastFloat, x) }
func CastDecimal(x Expr) Expr  { return unary(KindCastDecimal, x) }
func CastDateTime(x Expr) Expr { return unary(KindCastDateTime, x) }
func CastDuration(x Expr) Expr { return unary(KindCastDuration, x) }

func UpperCase(x Expr) Expr { return unary(KindUpperCase, x) }
func LowerCase(x Expr) Expr { return unary(KindLowerCase, x) }
func Trim(x Expr) Expr      { return unary(KindTrim, x) }
func Round(x Expr) Expr     { return unary(KindRound, x) }
func Floor(x Expr) Expr     { return unary(KindFloor, x) }
func Fract(x Expr) Expr     { return unary(KindFract, x) }

func Year(x Expr) Expr   { return unary(KindYear, x) }
func Month(x Expr) Expr  { return unary(KindMonth, x) }
func Week(x Expr) Expr   { return unary(KindWeek, x) }
func Day(x Expr) Expr    { return unary(KindDay, x) }
func Hour(x Expr) Expr   { return unary(KindHour, x) }
func Minute(x Expr) Expr { return unary(KindMinute, x) }
func Second(x Expr) Expr { return unary(KindSecond, x) }

func binary(k Kind, l, r Expr) Expr { return Expr{kind: k, a: box(l), b: box(r)} }

func Mult(l, r Expr) Expr { return binary(KindMult, l, r) }
func Div(l, r Expr) Expr  { return binary(KindDiv, l, r) }
func Rem(l, r Expr) Expr  { return binary(KindRem, l, r) }
func Add(l, r Expr) Expr  { return binary(KindAdd, l, r) }
func Sub(l, r Expr) Expr  { return binary(KindSub, l, r) }

func Equals(l, r Expr) Expr             { return binary(KindEquals, l, r) }
func NotEquals(l, r Expr) Expr          { return binary(KindNotEquals, l, r) }
func GreaterThan(l, r Expr) Expr        { return binary(KindGreaterThan, l, r) }
func GreaterThanEquals(l, r Expr) Expr  { return binary(KindGreaterThanEquals, l, r) }
func LessThan(l, r Expr) Expr           { return binary(KindLessThan, l, r) }
func LessThanEquals(l, r Expr) Expr     { return binary(KindLessThanEquals, l, r) }

func And(l, r Expr) Expr { return binary(KindAnd, l, r) }
func Or(l, r Expr) Expr  { return binary(KindOr, l, r) }

func BitAnd(l, r Expr) Expr { return binary(KindBitAnd, l, r) }
func BitOr(l, r Expr) Expr  { return binary(KindBitOr, l, r) }
func BitXor(l, r Expr) Expr { return binary(KindBitXor, l, r) }

func Contains(l, r Expr) Expr { return binary(KindContains, l, r) }
func Starts(l, r Expr) Expr   { return binary(KindStarts, l, r) }
func Ends(l, r Expr) Expr     { return binary(KindEnds, l, r) }

// Function represents a user-function call with a single positional
// argument; callers pack records or lists as needed.
func Function(name string, arg Expr) Expr {
	return Expr{kind: KindFunction, name: name, a: box(arg)}
}

// MapExpr builds a Map-constructor node.
func MapExpr(children map[string]Expr) Expr {
	cp := make(map[string]Expr, len(children))
	for k, v := range children {
		cp[k] = v
	}
	return Expr{kind: KindMap, mapChildren: cp}
}

// VecExpr builds a Vec-constructor node.
func VecExpr(children []Expr) Expr {
	cp := make([]Expr, len(children))
	copy(cp, children)
	return Expr{kind: KindVec, vecChildren: cp}
}

// ForMap builds a `for bind in list map body` comprehension node.
func ForMap(bind string, list, body Expr) Expr {
	return Expr{kind: KindForMap, name: bind, a: box(list), b: box(body)}
}

// ForFilter builds a `for bind in list filter pred` comprehension node.
func ForFilter(bind string, list, pred Expr) Expr {
	return Expr{kind: KindForFilter, name: bind, a: box(list), b: box(pred)}
}
