// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/namibj/zaia/value/encoding"

// Value is the tagged 64-bit runtime value. bits is the
// NaN-boxed word; ref carries the live Go pointer for heap-pointer
// variants so the interpreter can dereference a Value without resurrecting
// a pointer from a bare uintptr, which unsafe.Pointer's rules don't permit
// safely once the value has round-tripped through a plain integer. ref is
// nil for every immediate (Nil, Bool, Int, Float).
type Value struct {
	bits uint64
	ref  any
}

// Nil is the singleton nil value.
func Nil() Value { return Value{bits: encoding.MakeNil()} }

// FromBool wraps a boolean.
func FromBool(b bool) Value { return Value{bits: encoding.MakeBool(b)} }

// FromInt wraps a signed 32-bit integer.
func FromInt(x int32) Value { return Value{bits: encoding.MakeInt(x)} }

// FromFloat wraps a float64.
func FromFloat(x float64) Value { return Value{bits: encoding.MakeFloat(x)} }

// FromTable wraps a Table handle.
func FromTable(h Handle[*Table]) Value {
	return Value{bits: encoding.MakeTable(uint64(addrOf(h.ptr))), ref: h.ptr}
}

// FromString wraps a ByteString handle.
func FromString(h Handle[*ByteString]) Value {
	return Value{bits: encoding.MakeString(uint64(addrOf(h.ptr))), ref: h.ptr}
}

// FromFunction wraps a Function handle.
func FromFunction(h Handle[*Function]) Value {
	return Value{bits: encoding.MakeFunction(uint64(addrOf(h.ptr))), ref: h.ptr}
}

// FromUserdata wraps a Userdata handle.
func FromUserdata(h Handle[*Userdata]) Value {
	return Value{bits: encoding.MakeUserdata(uint64(addrOf(h.ptr))), ref: h.ptr}
}

// IsNil, IsBool, IsInt, IsFloat, IsTable, IsString, IsFunction, IsUserdata
// are the discrimination predicates: for any Value, exactly one of these
// returns true.
func (v Value) IsNil() bool      { return encoding.IsNil(v.bits) }
func (v Value) IsBool() bool     { return encoding.IsBool(v.bits) }
func (v Value) IsInt() bool      { return encoding.IsInt(v.bits) }
func (v Value) IsFloat() bool    { return encoding.IsFloat(v.bits) }
func (v Value) IsTable() bool    { return encoding.IsTable(v.bits) }
func (v Value) IsString() bool   { return encoding.IsString(v.bits) }
func (v Value) IsFunction() bool { return encoding.IsFunction(v.bits) }
func (v Value) IsUserdata() bool { return encoding.IsUserdata(v.bits) }

// Bool extracts the boolean payload. Behavior is undefined unless IsBool.
func (v Value) Bool() bool { return encoding.GetBool(v.bits) }

// Int extracts the integer payload. Behavior is undefined unless IsInt.
func (v Value) Int() int32 { return encoding.GetInt(v.bits) }

// Float extracts the float payload. Behavior is undefined unless IsFloat.
func (v Value) Float() float64 { return encoding.GetFloat(v.bits) }

// Table extracts the referenced Table. Behavior is undefined unless
// IsTable.
func (v Value) Table() *Table { return v.ref.(*Table) }

// ByteString extracts the referenced ByteString. Behavior is undefined
// unless IsString.
func (v Value) ByteString() *ByteString { return v.ref.(*ByteString) }

// Function extracts the referenced Function. Behavior is undefined unless
// IsFunction.
func (v Value) Function() *Function { return v.ref.(*Function) }

// Userdata extracts the referenced Userdata. Behavior is undefined unless
// IsUserdata.
func (v Value) Userdata() *Userdata { return v.ref.(*Userdata) }

// TypeName reports a type label for v, for type-error diagnostics. Int
// and Float both report "number".
func (v Value) TypeName() string {
	switch {
	case v.IsNil():
		return "nil"
	case v.IsBool():
		return "boolean"
	case v.IsInt(), v.IsFloat():
		return "number"
	case v.IsTable():
		return "table"
	case v.IsString():
		return "string"
	case v.IsFunction():
		return "function"
	case v.IsUserdata():
		return "userdata"
	default:
		return "unknown"
	}
}

// Visit marks v's referenced object (if any) and recurses into it,
// implementing the "heap pointer" half of the Trace contract.
func (v Value) Visit(vis *Visitor) {
	if v.ref == nil {
		return
	}
	h := handleOf(v.ref)
	if vis.Marked(h) {
		return
	}
	vis.Mark(h)
	if t, ok := v.ref.(Trace); ok {
		t.Visit(vis)
	}
}

func handleOf(ref any) TaggedHandle {
	switch p := ref.(type) {
	case *Table:
		return Handle[*Table]{ptr: p}.Tagged()
	case *ByteString:
		return Handle[*ByteString]{ptr: p}.Tagged()
	case *Function:
		return Handle[*Function]{ptr: p}.Tagged()
	case *Userdata:
		return Handle[*Userdata]{ptr: p}.Tagged()
	default:
		panic("value: Visit of unrecognized ref kind")
	}
}

// key reduces a Value to the hashable key used by Table. Key equality is
// OpEq, which is bit equality of the raw word, so the raw word is the
// key.
type key uint64

func (v Value) key() key { return key(v.bits) }
