// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/namibj/zaia/syntax"

// Upvalue is one captured binding a closure carries with it: the source
// identifier's resolved name and a pointer to the shared cell the binding
// lives in. The cell is shared with the defining scope (and with every
// other closure that captured the same binding), so a mutation made
// inside one call is visible to the next — what makes a stateful
// iterator like a counter closure work.
type Upvalue struct {
	Name string
	Box  *Value
}

// Function is a callable heap object: parameter names, the statement
// block making up its body, and the upvalues captured from the enclosing
// scope at the point the FunctionLiteral expression was evaluated.
type Function struct {
	Params   []string
	Body     []syntax.Stmt
	Upvalues []Upvalue
}

// NewFunction constructs a Function value, snapshotting captured.
func NewFunction(params []string, body []syntax.Stmt, captured []Upvalue) *Function {
	return &Function{Params: params, Body: body, Upvalues: captured}
}

// Visit marks every captured upvalue's current Value, the only outgoing
// references a Function holds.
func (f *Function) Visit(v *Visitor) {
	for _, uv := range f.Upvalues {
		uv.Box.Visit(v)
	}
}
