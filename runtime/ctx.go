// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime implements the evaluation context and tree-walking
// evaluator: Ctx threads the global table, the scope
// stack, and the identifier-intern cache through every evaluator
// invocation; Eval dispatches over the syntax tree's statement and
// expression variants.
package runtime

import (
	"github.com/namibj/zaia/syntax"
	"github.com/namibj/zaia/value"
)

// Ctx is the per-evaluation context. It is passed by pointer
// through every recursive eval call; there is exactly one Ctx per
// top-level program evaluation, and it is never shared across
// goroutines.
type Ctx struct {
	heap     *value.Heap
	global   *value.Table
	scopes   []frame
	interner *syntax.Interner
	cache    map[syntax.Ident]value.Handle[*value.ByteString]
	interned map[string]value.Handle[*value.ByteString]

	// transients holds heap Values the evaluator is in the middle of
	// producing but has not yet stored anywhere a root trace can see —
	// a table literal under construction, an expression list being
	// accumulated. A collection triggered by a nested call's safe point
	// must not sweep these.
	transients []value.Value

	// suspended holds the scope stacks of callers waiting on an active
	// function call. Call swaps scopes for the callee's isolated stack;
	// the caller's bindings must stay visible to the root trace for the
	// duration.
	suspended [][]frame
}

// frame maps a local name to the cell holding its current Value. Cells
// are shared: a closure capturing the name holds the same *Value, so
// assignment through either side is visible to both.
type frame map[string]*value.Value

// NewCtx constructs a Ctx bound to a global table, a Heap, and the
// parser's identifier interner.
func NewCtx(heap *value.Heap, global *value.Table, interner *syntax.Interner) *Ctx {
	return &Ctx{
		heap:     heap,
		global:   global,
		scopes:   []frame{make(frame)},
		interner: interner,
		cache:    make(map[syntax.Ident]value.Handle[*value.ByteString]),
		interned: make(map[string]value.Handle[*value.ByteString]),
	}
}

// Heap returns the bound heap, for callers (e.g. table/function literal
// evaluation) that need to allocate.
func (c *Ctx) Heap() *value.Heap { return c.heap }

// Global returns the global table.
func (c *Ctx) Global() *value.Table { return c.global }

// Scope pushes a new local frame and returns a guard whose call pops it.
// If the current top frame is already empty, the push is elided and the
// frame is reused; the matching pop then clears whatever bindings the
// reused frame accumulated, so the elision is not observable through
// Resolve after the guard runs.
func (c *Ctx) Scope() func() {
	top := c.scopes[len(c.scopes)-1]
	if len(top) == 0 {
		return func() {
			clear(top)
		}
	}
	c.scopes = append(c.scopes, make(frame))
	return func() {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// Local declares key in the current top frame, bound to Nil. Re-declaring
// a name already present in the same frame is a VariableAlreadyDeclared
// error; outer-frame shadowing is unaffected.
func (c *Ctx) Local(key string) error {
	top := c.scopes[len(c.scopes)-1]
	if _, ok := top[key]; ok {
		return &VariableAlreadyDeclaredError{Name: key}
	}
	cell := value.Nil()
	top[key] = &cell
	return nil
}

// setLocal binds key in the top frame to a fresh cell holding v,
// bypassing the redeclaration check; loop counters and generic-for
// targets rebind on every iteration.
func (c *Ctx) setLocal(key string, v value.Value) {
	cell := v
	c.scopes[len(c.scopes)-1][key] = &cell
}

// Assign searches frames top-down and assigns into the first frame
// already containing key; if no frame contains it, it creates the
// binding in the global table.
func (c *Ctx) Assign(key string, v value.Value) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if cell, ok := c.scopes[i][key]; ok {
			*cell = v
			return
		}
	}
	c.global.Insert(value.FromString(c.InternBytes([]byte(key))), v)
}

// Resolve searches frames top-down, falls back to the global table, and
// finally falls back to Nil.
func (c *Ctx) Resolve(key string) value.Value {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if cell, ok := c.scopes[i][key]; ok {
			return *cell
		}
	}
	return c.global.Get(value.FromString(c.InternBytes([]byte(key))))
}

// Intern returns the interned ByteString Value for bytes, allocating (and
// registering) a new ByteString via Heap.InsertString only if this exact
// content hasn't been interned through this Ctx before.
func (c *Ctx) Intern(bytes []byte) value.Value {
	return value.FromString(c.InternBytes(bytes))
}

// InternBytes is Intern but returns the Handle directly, for callers that
// need the handle itself rather than a wrapped Value.
func (c *Ctx) InternBytes(bytes []byte) value.Handle[*value.ByteString] {
	s := string(bytes)
	if h, ok := c.interned[s]; ok {
		return h
	}
	h := c.heap.InsertString(bytes)
	c.interned[s] = h
	return h
}

// InternIdent resolves ident's source text through the parser's interner
// and re-interns it as a runtime ByteString, caching the Ident->Handle
// mapping so repeated resolution of the same identifier token never
// re-hashes its source text.
func (c *Ctx) InternIdent(ident syntax.Ident) value.Handle[*value.ByteString] {
	if h, ok := c.cache[ident]; ok {
		return h
	}
	h := c.InternBytes([]byte(c.interner.Resolve(ident)))
	c.cache[ident] = h
	return h
}

// protect roots v for the duration of whatever the caller does next,
// returning the matching un-protect. Used around evaluation steps that
// can reach a safe point (any function call) while the caller is holding
// a heap Value nothing else roots yet.
func (c *Ctx) protect(v value.Value) func() {
	c.transients = append(c.transients, v)
	return func() {
		c.transients = c.transients[:len(c.transients)-1]
	}
}

// transientMark, protectPush, and transientRelease are the list form of
// protect, for callers accumulating values one at a time: take a mark,
// push as values arrive, release back to the mark when done.
func (c *Ctx) transientMark() int { return len(c.transients) }

func (c *Ctx) protectPush(v value.Value) { c.transients = append(c.transients, v) }

func (c *Ctx) transientRelease(mark int) { c.transients = c.transients[:mark] }

// Roots invokes fn with every Value this Ctx can currently reach directly:
// the global table, every binding in every scope frame, and every
// transient the evaluator is holding mid-expression. The interned-string
// cache is deliberately not a root: an interned string no longer
// referenced by any binding, table, or transient is collectible, and
// forgetFinalized keeps the cache consistent when that happens.
func (c *Ctx) Roots(fn func(value.Value)) {
	fn(value.FromTable(value.WrapTableHandle(c.global)))
	for _, frame := range c.scopes {
		for _, cell := range frame {
			fn(*cell)
		}
	}
	for _, stack := range c.suspended {
		for _, frame := range stack {
			for _, cell := range frame {
				fn(*cell)
			}
		}
	}
	for _, v := range c.transients {
		fn(v)
	}
}

// MaybeCollect polls the heap's heuristic and runs one mark-sweep cycle
// if it says to. The root trace marks everything Roots yields, recursing
// transitively through each Value's own Visit. Called between statement
// evaluations, the evaluator's one collection safe point.
func (c *Ctx) MaybeCollect() {
	if !c.heap.ShouldCollect() {
		return
	}
	c.heap.Collect(func(vis *value.Visitor) {
		c.Roots(func(v value.Value) { v.Visit(vis) })
	}, c.forgetFinalized)
}

// forgetFinalized drops a finalized ByteString from the intern caches so a
// later InternBytes/InternIdent lookup never hands back a Handle to an
// object the heap has already destroyed. The caches are plain maps the
// root trace skips, so they must be swept in step with collection rather
// than kept alive by it.
func (c *Ctx) forgetFinalized(t value.TaggedHandle) {
	bs, ok := t.Ref().(*value.ByteString)
	if !ok {
		return
	}
	delete(c.interned, bs.String())
	for ident, h := range c.cache {
		if h.Ptr() == bs {
			delete(c.cache, ident)
		}
	}
}

// IdentName resolves ident to its source text via the parser's interner.
// Unlike InternIdent, this does not allocate a heap ByteString; it's used
// wherever an identifier names a scope binding rather than a zaia String
// value (variable references, parameter names, for-loop variables).
func (c *Ctx) IdentName(ident syntax.Ident) string {
	return c.interner.Resolve(ident)
}

// captureUpvalues snapshots every binding currently reachable from the
// scope stack (innermost wins on name collision) into the Upvalue slice a
// new closure carries. The cells themselves are shared, not copied, so
// later assignment through either the closure or the defining scope is
// seen by both. The global table is not captured: it's always reachable
// through Resolve's fallback.
func (c *Ctx) captureUpvalues() []value.Upvalue {
	seen := make(map[string]*value.Value)
	for _, frame := range c.scopes {
		for name, cell := range frame {
			seen[name] = cell
		}
	}
	upvalues := make([]value.Upvalue, 0, len(seen))
	for name, cell := range seen {
		upvalues = append(upvalues, value.Upvalue{Name: name, Box: cell})
	}
	return upvalues
}

// Call invokes fn with args bound to its parameters (missing trailing
// arguments default to Nil), running its body against a scope stack
// consisting solely of its captured upvalue cells and parameters — true
// lexical scoping rather than the caller's dynamic stack. A Break
// escaping every loop inside the call body is an UncaughtBreakError;
// falling off the end of the body without a Return yields no values.
func (c *Ctx) Call(fn *value.Function, args []value.Value) ([]value.Value, error) {
	callFrame := make(frame, len(fn.Upvalues)+len(fn.Params))
	for _, uv := range fn.Upvalues {
		callFrame[uv.Name] = uv.Box
	}
	for i, p := range fn.Params {
		cell := value.Nil()
		if i < len(args) {
			cell = args[i]
		}
		callFrame[p] = &cell
	}

	c.suspended = append(c.suspended, c.scopes)
	c.scopes = []frame{callFrame}
	out, err := EvalBlock(c, fn.Body)
	c.scopes = c.suspended[len(c.suspended)-1]
	c.suspended = c.suspended[:len(c.suspended)-1]

	if err != nil {
		return nil, err
	}
	switch out.Kind {
	case KindReturn:
		return out.Returns, nil
	case KindBreak:
		return nil, &UncaughtBreakError{}
	default:
		return nil, nil
	}
}
