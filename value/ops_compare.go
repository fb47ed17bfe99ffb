// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// OpEq is bit equality of the Value word: because strings are
// interned at construction time this already implements correct
// byte-string equality without a byte-for-byte comparison. Differing
// types always compare unequal, since their bit patterns necessarily
// differ.
func (v Value) OpEq(other Value) bool { return v.bits == other.bits }

// OpLt, OpGt, OpLeq, OpGeq are defined only when both operands are the
// same comparable kind (Int, Float, String); mixed-type comparisons
// return false rather than raising.
func (v Value) OpLt(other Value) bool { return compareOrdering(v, other) == orderLess }
func (v Value) OpGt(other Value) bool { return compareOrdering(v, other) == orderGreater }
func (v Value) OpLeq(other Value) bool {
	o := compareOrdering(v, other)
	return o == orderLess || o == orderEqual
}
func (v Value) OpGeq(other Value) bool {
	o := compareOrdering(v, other)
	return o == orderGreater || o == orderEqual
}

type ordering int

const (
	orderIncomparable ordering = iota
	orderLess
	orderEqual
	orderGreater
)

func compareOrdering(a, b Value) ordering {
	switch {
	case a.IsInt() && b.IsInt():
		return cmpOrdering(a.Int(), b.Int())
	case a.IsFloat() && b.IsFloat():
		return cmpOrdering(a.Float(), b.Float())
	case a.IsString() && b.IsString():
		return cmpOrdering(a.ByteString().Compare(b.ByteString()), 0)
	default:
		return orderIncomparable
	}
}

func cmpOrdering[T int | int32 | float64](a, b T) ordering {
	switch {
	case a < b:
		return orderLess
	case a > b:
		return orderGreater
	default:
		return orderEqual
	}
}

// OpHash is rotate_right_5(bits) * FNV-prime, the same
// function TaggedHandle.Hash uses.
func (v Value) OpHash() uint64 { return mix(v.bits) }
