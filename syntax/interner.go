// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Interner is the parser's identifier interner: it deduplicates
// identifier source text into small opaque Ident keys during lexing, and
// resolves them back to text on demand. The runtime's Ctx holds a
// reference to it; Ctx.InternIdent calls Resolve here and then
// re-interns the resulting text as a runtime ByteString through the
// Heap, deliberately not sharing storage with this interner.
type Interner struct {
	strs []string
	ids  map[string]int
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]int)}
}

// Intern returns the Ident for s, reusing an existing key if s was seen
// before.
func (in *Interner) Intern(s string) Ident {
	if key, ok := in.ids[s]; ok {
		return Ident{key: key}
	}
	key := len(in.strs)
	in.strs = append(in.strs, s)
	in.ids[s] = key
	return Ident{key: key}
}

// Resolve returns the source text for id.
func (in *Interner) Resolve(id Ident) string {
	return in.strs[id.key]
}
