package value

import "strings"

// Vec is an ordered sequence of Values.
type Vec struct {
	items []Value
}

func NewVec(items []Value) Vec {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Vec{items: cp}
}

func NewEmptyVec() Vec { return Vec{} }

func (v Vec) Kind() Kind { return KindVec }

func (v Vec) Len() int { return len(v.items) }

// Get returns the element at i, or None with ok=false if out of range.
func (v Vec) Get(i int) (Value, bool) {
	if i < 0 || i >= len(v.items) {
		return None{}, false
	}
	return v.items[i], true
}

// Items returns the underlying slice. Callers must not mutate it.
func (v Vec) Items() []Value { return v.items }

func (v Vec) Equal(other Value) bool {
	ov, ok := other.(Vec)
	if !ok || len(v.items) != len(ov.items) {
		return false
	}
	for i := range v.items {
		if !v.items[i].Equal(ov.items[i]) {
			return false
		}
	}
	return true
}

func (v Vec) String() string {
	parts := make([]string, len(v.items))
	for i, item := range v.items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
