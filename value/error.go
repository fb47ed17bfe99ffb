// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "fmt"

// TypeError reports an operator applied to operand(s) of the wrong kind.
// A TypeError is fatal: every operator panics with one rather than
// returning an error value. runtime.Eval recovers it only to print a
// diagnostic and then panics again; the cmd/zaia REPL recovers it per
// input line.
type TypeError struct {
	Op       string
	Operands []Value
}

func (e *TypeError) Error() string {
	names := make([]string, len(e.Operands))
	for i, v := range e.Operands {
		names[i] = v.TypeName()
	}
	return fmt.Sprintf("attempt to perform %s on %v", e.Op, names)
}

func raiseType(op string, operands ...Value) {
	panic(&TypeError{Op: op, Operands: operands})
}
