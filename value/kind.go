// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Kind discriminates the heap-allocated object kinds. It mirrors the
// high-bits discriminator baked into a NaN-boxed pointer Value (see
// value/encoding), but is carried as an ordinary Go value wherever the
// bit-packed form isn't needed.
type Kind uint8

const (
	KindTable Kind = iota
	KindString
	KindFunction
	KindUserdata
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindUserdata:
		return "userdata"
	default:
		return "unknown"
	}
}

// hasKind is implemented by every heap object's pointer type; it is the
// single source of truth linking a concrete Go type to its NaN-boxing
// tag.
type hasKind interface {
	heapKind() Kind
}

func (*Table) heapKind() Kind      { return KindTable }
func (*ByteString) heapKind() Kind { return KindString }
func (*Function) heapKind() Kind   { return KindFunction }
func (*Userdata) heapKind() Kind   { return KindUserdata }
