// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "unsafe"

// Handle is a typed, copyable reference to a heap object of known kind T.
// Equality is by address. It carries no ownership semantics of its own;
// the Heap's ObjectSet is the sole owner bookkeeping record.
type Handle[T hasKind] struct {
	ptr T
}

// Ptr returns the underlying pointer. Safe as long as the object is still
// live; a Handle to a collected object is a dangling reference the language
// assumes the evaluator never produces.
func (h Handle[T]) Ptr() T { return h.ptr }

// Tagged erases T, producing a kind-erased handle suitable for storage in
// an ObjectSet or for passing to a Visitor.
func (h Handle[T]) Tagged() TaggedHandle {
	return TaggedHandle{kind: h.ptr.heapKind(), addr: addrOf(h.ptr), ref: h.ptr}
}

// TaggedHandle is the kind-erased address used as the ObjectSet's element
// type and as the Visitor's marking key.
type TaggedHandle struct {
	kind Kind
	addr uintptr
	ref  any // the live Go pointer; keeps the Go GC from reclaiming it out from under our bookkeeping
}

// Kind reports which heap kind this handle refers to.
func (t TaggedHandle) Kind() Kind { return t.kind }

// Addr reports the raw address. It is never dereferenced; object access
// goes back through ref.
func (t TaggedHandle) Addr() uintptr { return t.addr }

// Ref returns the live Go pointer this handle refers to (one of *Table,
// *ByteString, *Function, *Userdata), for callers (e.g. a finalize
// callback) that need to act on the concrete object a stale handle named.
func (t TaggedHandle) Ref() any { return t.ref }

// Hash mixes the tagged bits the same way Value.OpHash mixes a Value's raw
// word.
func (t TaggedHandle) Hash() uint64 {
	return mix(uint64(t.addr)<<8 | uint64(t.kind))
}

func addrOf(ptr hasKind) uintptr {
	switch p := ptr.(type) {
	case *Table:
		return uintptr(unsafe.Pointer(p))
	case *ByteString:
		return uintptr(unsafe.Pointer(p))
	case *Function:
		return uintptr(unsafe.Pointer(p))
	case *Userdata:
		return uintptr(unsafe.Pointer(p))
	default:
		panic("value: tagged handle of unrecognized kind")
	}
}

// mix is the rotate-right-5 + FNV-prime multiply used throughout the
// runtime for both Value.OpHash and TaggedHandle.Hash.
func mix(x uint64) uint64 {
	const fnvPrime = 1099511628211
	return bitsRotateRight(x, 5) * fnvPrime
}

func bitsRotateRight(x uint64, k uint) uint64 {
	const n = 64
	k &= n - 1
	return x>>k | x<<(n-k)
}
