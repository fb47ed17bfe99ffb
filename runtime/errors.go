// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"

	"github.com/namibj/zaia/value"
)

// The non-fatal error kinds an evaluation can surface to the embedder.
// TypeError is not listed here: it is value.TypeError, raised as a panic
// and fatal to the process.

// VariableAlreadyDeclaredError is raised when an inner `local` re-declares
// a name already bound in the same frame.
type VariableAlreadyDeclaredError struct {
	Name string
}

func (e *VariableAlreadyDeclaredError) Error() string {
	return fmt.Sprintf("variable %q already declared in this scope", e.Name)
}

// UncaughtReturnError describes a Return that propagated past the top
// level of the program. Nothing in this package returns it: Eval turns
// such a Return into the program's result, and Call absorbs a Return
// from the function body.
type UncaughtReturnError struct {
	Values []value.Value
}

func (e *UncaughtReturnError) Error() string { return "return statement outside of a function" }

// UncaughtBreakError is a Break that propagated past every loop.
type UncaughtBreakError struct{}

func (e *UncaughtBreakError) Error() string { return "break statement outside of a loop" }
