// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Table is an unordered Value-to-Value mapping, allocated inside the
// managed heap. Key hash/equality is op_hash/op_eq — bit
// equality of the raw Value word — so interning is what
// makes two equal-content strings collide to the same key.
type Table struct {
	heap    *Heap
	entries map[key]entry
}

type entry struct {
	k, v Value
}

// NewTable constructs an empty table bound to heap, so its bucket growth
// participates in the heap's allocation accounting.
func NewTable(heap *Heap) *Table {
	return &Table{heap: heap, entries: make(map[key]entry)}
}

// Get returns the value bound to k, or Nil if absent.
func (t *Table) Get(k Value) Value {
	e, ok := t.entries[k.key()]
	if !ok {
		return Nil()
	}
	return e.v
}

// Insert binds k to v. Inserting Nil removes the key instead of storing
// it.
func (t *Table) Insert(k, v Value) {
	if v.IsNil() {
		t.Remove(k)
		return
	}
	_, existed := t.entries[k.key()]
	t.entries[k.key()] = entry{k: k, v: v}
	if !existed && t.heap != nil {
		t.heap.Grow(0, tableEntrySize)
	}
}

// Remove deletes k, if present.
func (t *Table) Remove(k Value) {
	if _, ok := t.entries[k.key()]; ok {
		delete(t.entries, k.key())
		if t.heap != nil {
			t.heap.Shrink(tableEntrySize, 0)
		}
	}
}

// Len returns the entry count (what the `#t` operator reports).
func (t *Table) Len() int { return len(t.entries) }

// IsEmpty reports whether the table has no entries.
func (t *Table) IsEmpty() bool { return len(t.entries) == 0 }

// Each calls fn once per entry in unspecified order. Mutating the table
// from within fn is not supported: the evaluator must not mutate a table
// while iterating it.
func (t *Table) Each(fn func(k, v Value)) {
	for _, e := range t.entries {
		fn(e.k, e.v)
	}
}

// Visit iterates every entry and visits both the key and the value.
func (t *Table) Visit(v *Visitor) {
	for _, e := range t.entries {
		e.k.Visit(v)
		e.v.Visit(v)
	}
}
