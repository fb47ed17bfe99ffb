// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "testing"

func TestTableGetInsert(t *testing.T) {
	tbl := NewTable(NewHeap())
	k := FromInt(1)
	v := FromInt(42)
	tbl.Insert(k, v)
	if got := tbl.Get(k); !got.OpEq(v) {
		t.Fatalf("Get after Insert = %v, want %v", got, v)
	}
	if got := tbl.Get(FromInt(2)); !got.IsNil() {
		t.Fatalf("Get of absent key = %v, want Nil", got)
	}
}

func TestTableNilAssignRemoves(t *testing.T) {
	tbl := NewTable(NewHeap())
	k := FromInt(1)
	tbl.Insert(k, FromInt(1))
	tbl.Insert(k, Nil())
	if tbl.Len() != 0 {
		t.Fatalf("table len after nil-assign = %d, want 0", tbl.Len())
	}
}

func TestOpEqDifferingTypes(t *testing.T) {
	if FromInt(0).OpEq(Nil()) {
		t.Error("Int(0) should not equal Nil")
	}
	if FromBool(false).OpEq(FromInt(0)) {
		t.Error("false should not equal Int(0)")
	}
}

func TestOpLtMixedTypesFalse(t *testing.T) {
	if FromInt(1).OpLt(FromFloat(2)) {
		t.Error("mixed-type comparisons must return false, not raise or compare numerically")
	}
}

func TestArithCoercion(t *testing.T) {
	sum := FromInt(1).OpAdd(FromFloat(2.5))
	if !sum.IsFloat() || sum.Float() != 3.5 {
		t.Fatalf("Int+Float = %v, want Float(3.5)", sum)
	}
	isum := FromInt(1).OpAdd(FromInt(2))
	if !isum.IsInt() || isum.Int() != 3 {
		t.Fatalf("Int+Int = %v, want Int(3)", isum)
	}
}

func TestOpIntDivFloor(t *testing.T) {
	if got := FromInt(-7).OpIntDiv(FromInt(2)); got.Int() != -4 {
		t.Errorf("-7 // 2 = %d, want -4", got.Int())
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil(), false},
		{FromBool(false), false},
		{FromBool(true), true},
		{FromInt(0), true},
		{FromFloat(0), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestConcatInterningIdentity(t *testing.T) {
	// Interning is the caller's job, but the bytes produced here must be
	// identical content for equal inputs so that the runtime's intern
	// cache (tested separately) can collapse them to one Handle.
	a := newTestString("foo")
	b := newTestString("bar")
	got := ConcatBytes(a, b)
	if string(got) != "foobar" {
		t.Fatalf("ConcatBytes = %q, want %q", got, "foobar")
	}
}

func newTestString(s string) Value {
	h := NewHeap().InsertString([]byte(s))
	return FromString(h)
}

func TestCollectionReclaimsUnreachable(t *testing.T) {
	h := NewHeap()
	before := h.Len()

	for i := 0; i < 100; i++ {
		h.InsertString([]byte{byte(i)})
	}
	if h.Len() != before+100 {
		t.Fatalf("Len after inserts = %d, want %d", h.Len(), before+100)
	}

	h.Collect(func(v *Visitor) { /* no roots retained */ }, func(TaggedHandle) {})

	if h.Len() != before {
		t.Fatalf("Len after collect with no roots = %d, want %d", h.Len(), before)
	}
}

func TestCollectionSoundness(t *testing.T) {
	h := NewHeap()
	keep := h.InsertString([]byte("keep"))
	h.InsertString([]byte("drop"))

	var finalized []TaggedHandle
	h.Collect(func(v *Visitor) {
		FromString(keep).Visit(v)
	}, func(t TaggedHandle) {
		finalized = append(finalized, t)
	})

	if h.Len() != 1 {
		t.Fatalf("Len after collect = %d, want 1", h.Len())
	}
	if len(finalized) != 1 {
		t.Fatalf("finalized %d objects, want 1", len(finalized))
	}
	if finalized[0].Kind() != KindString {
		t.Fatalf("finalized kind = %v, want string", finalized[0].Kind())
	}
}

func TestHeuristicMonotonicity(t *testing.T) {
	h := NewHeap()
	h.InsertString(make([]byte, 200*1024))
	if !h.ShouldCollect() {
		t.Fatal("expected ShouldCollect after exceeding initial threshold")
	}
	h.Collect(func(v *Visitor) {}, func(TaggedHandle) {})
	wantThreshold := int64(float64(h.Allocated()) * thresholdFactor)
	if h.Threshold() != wantThreshold {
		t.Fatalf("threshold after cycle = %d, want %d", h.Threshold(), wantThreshold)
	}
}

func TestCyclicTableDoesNotHang(t *testing.T) {
	h := NewHeap()
	th := InsertObject(h, NewTable(h))
	self := FromTable(th)
	th.Ptr().Insert(FromInt(1), self)

	h.Collect(func(v *Visitor) { self.Visit(v) }, func(TaggedHandle) {})
	if h.Len() != 1 {
		t.Fatalf("cyclic table should survive collection, Len = %d", h.Len())
	}
}

// TestCollectionTransitiveThroughTable: rooting only a table must keep
// the values it holds alive, transitively.
func TestCollectionTransitiveThroughTable(t *testing.T) {
	h := NewHeap()
	th := InsertObject(h, NewTable(h))
	held := h.InsertString([]byte("held"))
	th.Ptr().Insert(FromInt(1), FromString(held))
	h.InsertString([]byte("loose"))

	root := FromTable(th)
	h.Collect(func(v *Visitor) { root.Visit(v) }, func(TaggedHandle) {})

	if h.Len() != 2 {
		t.Fatalf("Len after collect = %d, want 2 (table + held string)", h.Len())
	}
}

// TestCensusAccounting: bytes allocated must return to the baseline once
// everything inserted has been collected.
func TestCensusAccounting(t *testing.T) {
	h := NewHeap()
	base := h.Allocated()
	for i := 0; i < 10; i++ {
		h.InsertString(make([]byte, 100))
	}
	if h.Allocated() <= base {
		t.Fatal("inserts did not raise the allocated counter")
	}
	h.Collect(func(*Visitor) {}, func(TaggedHandle) {})
	if h.Allocated() != base {
		t.Fatalf("allocated after full collect = %d, want %d", h.Allocated(), base)
	}
}
