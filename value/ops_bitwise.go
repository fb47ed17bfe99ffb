// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// bitwise implements the shared "both operands must be Int" contract for
// the bitwise operators.
func bitwise(op string, a, b Value, fn func(a, b int32) int32) Value {
	if !a.IsInt() || !b.IsInt() {
		raiseType(op, a, b)
	}
	return FromInt(fn(a.Int(), b.Int()))
}

func (v Value) OpBitAnd(other Value) Value {
	return bitwise("band", v, other, func(a, b int32) int32 { return a & b })
}

func (v Value) OpBitOr(other Value) Value {
	return bitwise("bor", v, other, func(a, b int32) int32 { return a | b })
}

func (v Value) OpBitXor(other Value) Value {
	return bitwise("bxor", v, other, func(a, b int32) int32 { return a ^ b })
}

// OpLShift and OpRShift take the shift amount mod the 32-bit width;
// negative shifts are not supported in this core and raise a
// TypeError rather than silently doing something shift-by-negative-proof.
func (v Value) OpLShift(other Value) Value {
	return shift("shl", v, other, func(x int32, n uint) int32 { return x << n })
}

func (v Value) OpRShift(other Value) Value {
	return shift("shr", v, other, func(x int32, n uint) int32 { return int32(uint32(x) >> n) })
}

func shift(op string, a, b Value, fn func(x int32, n uint) int32) Value {
	if !a.IsInt() || !b.IsInt() {
		raiseType(op, a, b)
	}
	n := b.Int()
	if n < 0 {
		raiseType(op, a, b)
	}
	return FromInt(fn(a.Int(), uint(n)%32))
}

// OpBitNot is the unary bitwise complement, defined for Int only.
func (v Value) OpBitNot() Value {
	if !v.IsInt() {
		raiseType("bnot", v)
	}
	return FromInt(^v.Int())
}
