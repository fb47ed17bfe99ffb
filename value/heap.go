// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

const (
	initialThreshold = 128 * 1024
	thresholdFactor  = 1.75

	tableBaseSize    = 48 // header overhead for the bucket map, excluding entries
	tableEntrySize   = 32 // two Values plus map bookkeeping, approximated
	functionBaseSize = 64
	userdataBaseSize = 16
	byteStringPrefix = 4 // length prefix preceding the payload
)

// Heap owns the set of every live managed object plus the allocation
// bookkeeping that drives the collection heuristic.
//
// Real memory for each object is ordinary Go-GC-managed memory; Go gives
// no hook for a program to call free() by hand. Heap therefore plays two
// roles simultaneously: it is the allocator (tracking byte counts through
// Allocate/Deallocate/Grow/Shrink so Table's bucket growth is visible to
// the heuristic), and it is the language-level liveness oracle (the
// ObjectSet plus mark-sweep). An object dropped from the ObjectSet during collect is
// simply no longer reachable from any Go variable the interpreter holds,
// so the Go runtime's own collector reclaims the backing memory in its
// own time; Heap's byte counter is decremented immediately so the
// heuristic still behaves as the language prescribes.
type Heap struct {
	objects      *ObjectSet
	visitor      *Visitor
	allocated    int64
	threshold    int64
	growthFactor float64
}

// NewHeap constructs an empty heap with the language's initial 128 KiB
// threshold and 1.75x post-collection growth factor.
func NewHeap() *Heap {
	return NewHeapWithHeuristic(initialThreshold, thresholdFactor)
}

// NewHeapWithHeuristic is NewHeap but with the initial threshold (bytes)
// and post-collection growth factor overridden, exposing the heuristic's
// two tunables to an embedder (the cmd/zaia CLI's --heap-initial-kib /
// --heap-growth-factor flags).
func NewHeapWithHeuristic(initialThresholdBytes int64, growthFactor float64) *Heap {
	return &Heap{
		objects:      NewObjectSet(),
		visitor:      NewVisitor(),
		threshold:    initialThresholdBytes,
		growthFactor: growthFactor,
	}
}

// Allocate records size freshly-allocated bytes.
func (h *Heap) Allocate(size int64) { h.allocated += size }

// Deallocate reverses a prior Allocate.
func (h *Heap) Deallocate(size int64) { h.allocated -= size }

// Grow records a buffer growing from oldSize to newSize bytes, as Table's
// bucket array does when it rehashes.
func (h *Heap) Grow(oldSize, newSize int64) { h.allocated += newSize - oldSize }

// GrowZeroed is Grow for allocations the caller additionally zero-fills;
// zeroing doesn't change the byte accounting.
func (h *Heap) GrowZeroed(oldSize, newSize int64) { h.Grow(oldSize, newSize) }

// Shrink records a buffer shrinking from oldSize to newSize bytes.
func (h *Heap) Shrink(oldSize, newSize int64) { h.allocated -= oldSize - newSize }

// Allocated reports the heuristic's current live-byte count.
func (h *Heap) Allocated() int64 { return h.allocated }

// Threshold reports the next collection trigger.
func (h *Heap) Threshold() int64 { return h.threshold }

// ShouldCollect queries the heuristic.
func (h *Heap) ShouldCollect() bool {
	return h.allocated >= h.threshold
}

// Len reports how many objects are currently tracked as live.
func (h *Heap) Len() int { return h.objects.Len() }

// InsertObject allocates bookkeeping for obj (already heap-allocated by
// the caller via composite literal / new) and registers it in the
// ObjectSet.
func InsertObject[T hasKind](h *Heap, obj T) Handle[T] {
	handle := Handle[T]{ptr: obj}
	h.Allocate(sizeOf(obj))
	h.objects.Insert(handle.Tagged())
	return handle
}

// InsertString allocates a ByteString, copying data, and registers it in
// the ObjectSet.
func (h *Heap) InsertString(data []byte) Handle[*ByteString] {
	buf := make([]byte, len(data))
	copy(buf, data)
	bs := &ByteString{data: buf}
	handle := Handle[*ByteString]{ptr: bs}
	h.Allocate(sizeOf(bs))
	h.objects.Insert(handle.Tagged())
	return handle
}

// destroy dispatches on the handle's kind and reverses the byte
// accounting for an object about to be dropped.
func (h *Heap) destroy(t TaggedHandle) {
	switch o := t.ref.(type) {
	case *Table:
		h.Deallocate(sizeOf(o))
	case *ByteString:
		h.Deallocate(sizeOf(o))
	case *Function:
		h.Deallocate(sizeOf(o))
	case *Userdata:
		h.Deallocate(sizeOf(o))
	}
}

func sizeOf(obj hasKind) int64 {
	switch o := obj.(type) {
	case *Table:
		return tableBaseSize + int64(o.Len())*tableEntrySize
	case *ByteString:
		return byteStringPrefix + int64(len(o.data))
	case *Function:
		return functionBaseSize + int64(len(o.Upvalues))*tableEntrySize
	case *Userdata:
		return userdataBaseSize
	default:
		return 0
	}
}

// Collect runs one full stop-the-world mark-sweep cycle.
//
// rootTrace is invoked with the cycle's Visitor; the caller must mark
// every root and recurse into everything transitively reachable from it.
// That recursion happens naturally through each Trace-implementing
// type's Visit method rather than an explicit worklist; marking is
// idempotent, so it terminates on cyclic graphs. finalize is invoked
// once per object about to be freed, before it is removed from the
// census.
func (h *Heap) Collect(rootTrace func(*Visitor), finalize func(TaggedHandle)) {
	rootTrace(h.visitor)

	stale := h.objects.Difference(h.visitor.marked)
	for _, t := range stale {
		finalize(t)
		h.objects.Remove(t)
		h.destroy(t)
	}

	h.visitor.Reset()
	h.retune()
}

// retune applies the post-collection proportional growth law:
// threshold = allocated * growthFactor.
func (h *Heap) retune() {
	h.threshold = int64(float64(h.allocated) * h.growthFactor)
}

// Teardown destroys every object still tracked, as when the last
// reference to a Heap is dropped. Because Go
// has no explicit Heap destructor, the embedder calls this directly when
// a Runtime is done with a Heap.
func (h *Heap) Teardown() {
	h.objects.Each(func(t TaggedHandle) {
		h.destroy(t)
	})
	h.objects = NewObjectSet()
}
