// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// OpLen is `#v`: entry count for a Table, byte count for a String.
func (v Value) OpLen() Value {
	switch {
	case v.IsTable():
		return FromInt(int32(v.Table().Len()))
	case v.IsString():
		return FromInt(int32(v.ByteString().Len()))
	default:
		raiseType("len", v)
		panic("unreachable")
	}
}

// OpProperty is `t[k]` / `t.k`: defined only when v is a Table, returning
// Table.Get(key).
func (v Value) OpProperty(key Value) Value {
	if !v.IsTable() {
		raiseType("index", v)
	}
	return v.Table().Get(key)
}

// OpMethod is `t:m`: like OpProperty, but additionally asserts the
// retrieved value is a Function.
func (v Value) OpMethod(key Value) Value {
	result := v.OpProperty(key)
	if !result.IsFunction() {
		raiseType("method lookup", result)
	}
	return result
}

// ConcatBytes implements the byte-level half of concatenation: both
// operands must be String. The caller (runtime/eval, via Ctx) is
// responsible for interning the result through the heap, since
// allocating a ByteString needs a Heap reference the value package
// deliberately doesn't hold onto per-Value.
func ConcatBytes(a, b Value) []byte {
	if !a.IsString() || !b.IsString() {
		raiseType("concat", a, b)
	}
	ab, bb := a.ByteString().Bytes(), b.ByteString().Bytes()
	out := make([]byte, 0, len(ab)+len(bb))
	out = append(out, ab...)
	out = append(out, bb...)
	return out
}
