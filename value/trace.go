// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Trace is implemented by every heap object (and by Value) that can hold
// outgoing references. Visit must call visitor.Mark on every directly
// reachable heap pointer and recurse into every directly reachable
// object, so that a Table's held Values are marked transitively.
type Trace interface {
	Visit(v *Visitor)
}

// Visitor carries the mark state for a single collection cycle. Marking
// is idempotent, which is what guarantees termination over a
// possibly-cyclic object graph.
type Visitor struct {
	marked *ObjectSet
}

// NewVisitor returns a Visitor with an empty mark set.
func NewVisitor() *Visitor {
	return &Visitor{marked: NewObjectSet()}
}

// Mark records h as reachable. Idempotent.
func (v *Visitor) Mark(h TaggedHandle) {
	v.marked.Insert(h)
}

// Marked reports whether h has already been visited, letting callers
// avoid re-recursing into an already-marked object.
func (v *Visitor) Marked(h TaggedHandle) bool {
	return v.marked.Contains(h)
}

// Reset clears the mark set for reuse by the next collection cycle.
func (v *Visitor) Reset() {
	v.marked = NewObjectSet()
}
