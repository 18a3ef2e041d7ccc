// Package value implements the dynamically-typed runtime datum rules are
// evaluated over and that rules produce: a tagged union of string, the
// three numeric kinds, bool, datetime, duration, vector, map, and the
// absent-value sentinel None.
package value

import "fmt"

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindInt
	KindFloat
	KindDecimal
	KindBool
	KindDateTime
	KindDuration
	KindVec
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindVec:
		return "vec"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the interface every runtime datum implements. Implementations
// are immutable; operations that would "mutate" a Map or Vec return a new
// Value instead (copy-on-write).
type Value interface {
	Kind() Kind
	// Equal is structural equality. It never compares across variants,
	// not even across the three numeric kinds, and None is never equal
	// to anything, including another None.
	Equal(other Value) bool
	String() string
}

// None is the singleton absent-value sentinel.
type None struct{}

func (None) Kind() Kind            { return KindNone }
func (None) Equal(other Value) bool { return false }
func (None) String() string        { return "none" }

// IsNone reports whether v is the None sentinel.
func IsNone(v Value) bool {
	_, ok := v.(None)
	return ok
}
