// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Truthy reduces a Value to a boolean: nil and false are falsy, every
// other value is truthy, including integer 0 and the empty string.
func (v Value) Truthy() bool {
	if v.IsNil() {
		return false
	}
	if v.IsBool() {
		return v.Bool()
	}
	return true
}

// OpNot inverts truthiness.
func (v Value) OpNot() Value { return FromBool(!v.Truthy()) }

// OpAnd and OpOr are the non-short-circuiting Value-level combinators:
// both operands are already evaluated by the caller, and the operator
// returns a boolean combination of their truthiness. Short-circuiting,
// where it matters, is the evaluator's job; runtime/eval never calls
// these except after already deciding whether the second operand needs
// evaluating at all.
func (v Value) OpAnd(other Value) Value {
	return FromBool(v.Truthy() && other.Truthy())
}

func (v Value) OpOr(other Value) Value {
	return FromBool(v.Truthy() || other.Truthy())
}
