// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/namibj/zaia/runtime"
	"github.com/namibj/zaia/syntax"
	"github.com/namibj/zaia/syntax/parser"
	"github.com/namibj/zaia/value"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Parse and evaluate a zaia source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	interner := syntax.NewInterner()
	root, err := parser.Parse(src, interner)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	heap := newHeap()
	global := value.NewTable(heap)
	ctx := runtime.NewCtx(heap, global, interner)

	result, err := runtime.Eval(ctx, root)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", path, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "heap: %d objects, %d bytes allocated\n", heap.Len(), heap.Allocated())
	}
	fmt.Println(describeResult(result))
	return nil
}

func describeResult(v value.Value) string {
	switch {
	case v.IsNil():
		return "nil"
	case v.IsBool():
		return fmt.Sprintf("%v", v.Bool())
	case v.IsInt():
		return fmt.Sprintf("%d", v.Int())
	case v.IsFloat():
		return fmt.Sprintf("%g", v.Float())
	case v.IsString():
		return v.ByteString().String()
	case v.IsTable():
		return fmt.Sprintf("table: %d entries", v.Table().Len())
	case v.IsFunction():
		return "function"
	case v.IsUserdata():
		return fmt.Sprintf("userdata: %s", v.Userdata().Tag())
	default:
		return "<?>"
	}
}
