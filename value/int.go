package value

import "math/big"

// Int128 bounds: [-2^127, 2^127-1].
var (
	int128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	int128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// Int is a signed 128-bit integer Value. Go has no native int128, so
// this wraps math/big.Int and enforces 128-bit bounds at construction.
type Int struct {
	v *big.Int
}

// NewInt wraps a Go int64.
func NewInt(i int64) Int { return Int{v: big.NewInt(i)} }

// NewIntFromBig wraps an existing big.Int, cloning it and checking bounds.
func NewIntFromBig(i *big.Int) (Int, bool) {
	if i.Cmp(int128Min) < 0 || i.Cmp(int128Max) > 0 {
		return Int{}, false
	}
	return Int{v: new(big.Int).Set(i)}, true
}

// Big returns the underlying big.Int. Callers must not mutate it.
func (i Int) Big() *big.Int {
	if i.v == nil {
		return big.NewInt(0)
	}
	return i.v
}

func (i Int) Kind() Kind { return KindInt }

func (i Int) Equal(other Value) bool {
	oi, ok := other.(Int)
	return ok && i.Big().Cmp(oi.Big()) == 0
}

func (i Int) String() string { return "i" + i.Big().String() }

// Compare returns -1/0/1, used by ordering comparisons within the Int kind.
func (i Int) Compare(other Int) int { return i.Big().Cmp(other.Big()) }

// Int64 truncates to a Go int64 (used by Year/Month/.../Duration-from-Int
// constructors, which bounds-check separately).
func (i Int) Int64() int64 { return i.Big().Int64() }

// FitsInt64 reports whether the value is representable as an int64.
func (i Int) FitsInt64() bool { return i.Big().IsInt64() }
