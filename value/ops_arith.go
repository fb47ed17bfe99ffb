// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math"

func numeric(v Value) bool { return v.IsInt() || v.IsFloat() }

func toFloat(v Value) float64 {
	if v.IsFloat() {
		return v.Float()
	}
	return float64(v.Int())
}

// arith implements the coercion rule: if either operand is Float,
// both are promoted to Float and floatOp applies; otherwise both must be
// Int and intOp applies. Anything else is a TypeError.
func arith(op string, a, b Value, intOp func(a, b int32) int32, floatOp func(a, b float64) float64) Value {
	if !numeric(a) || !numeric(b) {
		raiseType(op, a, b)
	}
	if a.IsFloat() || b.IsFloat() {
		return FromFloat(floatOp(toFloat(a), toFloat(b)))
	}
	return FromInt(intOp(a.Int(), b.Int()))
}

func (v Value) OpAdd(other Value) Value {
	return arith("add", v, other, func(a, b int32) int32 { return a + b }, func(a, b float64) float64 { return a + b })
}

func (v Value) OpSub(other Value) Value {
	return arith("sub", v, other, func(a, b int32) int32 { return a - b }, func(a, b float64) float64 { return a - b })
}

func (v Value) OpMul(other Value) Value {
	return arith("mul", v, other, func(a, b int32) int32 { return a * b }, func(a, b float64) float64 { return a * b })
}

func (v Value) OpMod(other Value) Value {
	return arith("mod", v, other,
		func(a, b int32) int32 {
			m := a % b
			if m != 0 && (m^b) < 0 {
				m += b
			}
			return m
		},
		func(a, b float64) float64 { return math.Mod(math.Mod(a, b)+b, b) },
	)
}

// OpDiv always yields Float.
func (v Value) OpDiv(other Value) Value {
	if !numeric(v) || !numeric(other) {
		raiseType("div", v, other)
	}
	return FromFloat(toFloat(v) / toFloat(other))
}

// OpIntDiv is integer floor-division of two Ints, or floor(a/b) coerced to
// Int when either operand is Float.
func (v Value) OpIntDiv(other Value) Value {
	if !numeric(v) || !numeric(other) {
		raiseType("floor div", v, other)
	}
	if v.IsInt() && other.IsInt() {
		a, b := v.Int(), other.Int()
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return FromInt(q)
	}
	return FromInt(int32(math.Floor(toFloat(v) / toFloat(other))))
}

// OpExp is integer power on two Ints, math.Pow once either operand is
// Float. A negative integer exponent has no exact integer result, so it
// falls back to float exponentiation truncated to Int, the same fallback
// shape as OpIntDiv's.
func (v Value) OpExp(other Value) Value {
	if !numeric(v) || !numeric(other) {
		raiseType("exp", v, other)
	}
	if v.IsInt() && other.IsInt() && other.Int() >= 0 {
		return FromInt(intPow(v.Int(), other.Int()))
	}
	if v.IsInt() && other.IsInt() {
		return FromInt(int32(math.Pow(toFloat(v), toFloat(other))))
	}
	return FromFloat(math.Pow(toFloat(v), toFloat(other)))
}

func intPow(base, exp int32) int32 {
	result := int32(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// OpNeg negates an Int or Float; anything else is a TypeError.
func (v Value) OpNeg() Value {
	switch {
	case v.IsInt():
		return FromInt(-v.Int())
	case v.IsFloat():
		return FromFloat(-v.Float())
	default:
		raiseType("neg", v)
		panic("unreachable")
	}
}
