package value

import (
	"sort"
	"strings"
)

// Map is a string-keyed ordered dictionary of Values. Its iteration
// order is always lexicographic by key, keeping output deterministic.
// (rule.Metadata, a different ordered map, preserves insertion order
// instead — the two must not be conflated.)
type Map struct {
	pairs map[string]Value
}

// NewMap builds a Map from key/value pairs. Later duplicates overwrite
// earlier ones.
func NewMap(pairs map[string]Value) Map {
	cp := make(map[string]Value, len(pairs))
	for k, v := range pairs {
		cp[k] = v
	}
	return Map{pairs: cp}
}

func NewEmptyMap() Map { return Map{pairs: map[string]Value{}} }

func (m Map) Kind() Kind { return KindMap }

func (m Map) Len() int { return len(m.pairs) }

func (m Map) Get(key string) (Value, bool) {
	v, ok := m.pairs[key]
	return v, ok
}

// Set returns a new Map with key bound to val (copy-on-write).
func (m Map) Set(key string, val Value) Map {
	cp := make(map[string]Value, len(m.pairs)+1)
	for k, v := range m.pairs {
		cp[k] = v
	}
	cp[key] = val
	return Map{pairs: cp}
}

// Keys returns the keys in lexicographic order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.pairs))
	for k := range m.pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Pairs returns key/value pairs in lexicographic key order.
func (m Map) Pairs() []KV {
	keys := m.Keys()
	out := make([]KV, len(keys))
	for i, k := range keys {
		out[i] = KV{Key: k, Value: m.pairs[k]}
	}
	return out
}

type KV struct {
	Key   string
	Value Value
}

func (m Map) Equal(other Value) bool {
	om, ok := other.(Map)
	if !ok || len(m.pairs) != len(om.pairs) {
		return false
	}
	for k, v := range m.pairs {
		ov, ok := om.pairs[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (m Map) String() string {
	pairs := m.Pairs()
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Key + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
