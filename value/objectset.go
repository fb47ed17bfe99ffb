// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// ObjectSet is the Heap's authoritative census of live managed objects,
// backed by a plain Go map rather than a hand-rolled open-addressing
// table: the stdlib map already gives insert/remove/iterate/difference
// at the performance this needs.
type ObjectSet struct {
	objects map[TaggedHandle]struct{}
}

// NewObjectSet returns an empty set.
func NewObjectSet() *ObjectSet {
	return &ObjectSet{objects: make(map[TaggedHandle]struct{})}
}

// Insert records h as live.
func (s *ObjectSet) Insert(h TaggedHandle) {
	s.objects[h] = struct{}{}
}

// Remove drops h from the census. It is a no-op if h was already absent.
func (s *ObjectSet) Remove(h TaggedHandle) {
	delete(s.objects, h)
}

// Contains reports whether h is currently recorded as live.
func (s *ObjectSet) Contains(h TaggedHandle) bool {
	_, ok := s.objects[h]
	return ok
}

// Len reports the number of live objects.
func (s *ObjectSet) Len() int { return len(s.objects) }

// Each calls fn once per live handle. Iteration order is unspecified.
func (s *ObjectSet) Each(fn func(TaggedHandle)) {
	for h := range s.objects {
		fn(h)
	}
}

// Difference returns every handle in s that is absent from other — used
// by collection to compute the stale set.
func (s *ObjectSet) Difference(other *ObjectSet) []TaggedHandle {
	var stale []TaggedHandle
	for h := range s.objects {
		if !other.Contains(h) {
			stale = append(stale, h)
		}
	}
	return stale
}
