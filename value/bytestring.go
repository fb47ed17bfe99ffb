// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "bytes"

// ByteString is an immutable byte sequence. The original's
// flexible-array-member layout (a 4-byte length prefix immediately
// followed by the payload in one allocation) is a manual-memory-layout
// trick with no idiomatic Go equivalent and no benefit once Go already
// owns the backing array for us; data is an ordinary (and, once
// constructed, never-mutated) []byte. Identity is still what matters:
// equality at the Value level is pointer identity via interning, never a
// byte-for-byte comparison of two distinct ByteStrings.
type ByteString struct {
	data []byte
}

// Bytes returns the string's payload. Callers must not mutate the
// returned slice; ByteString is immutable by contract.
func (b *ByteString) Bytes() []byte { return b.data }

// Len returns the byte length.
func (b *ByteString) Len() int { return len(b.data) }

// String renders the payload for diagnostics; it does not assume the
// bytes are valid UTF-8.
func (b *ByteString) String() string { return string(b.data) }

// Compare performs the lexicographic byte comparison backing the String
// ordering operators.
func (b *ByteString) Compare(other *ByteString) int {
	return bytes.Compare(b.data, other.data)
}

// Visit is a no-op: a ByteString holds no outgoing references.
func (b *ByteString) Visit(v *Visitor) {}
