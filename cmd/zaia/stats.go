// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/namibj/zaia/runtime"
	"github.com/namibj/zaia/syntax"
	"github.com/namibj/zaia/syntax/parser"
	"github.com/namibj/zaia/value"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Run a file and report heap statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(args[0])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats mirrors golang-debug's viewcore "overview"/"breakdown"
// reports: a tabwriter-aligned column dump, here of this runtime's Heap
// bookkeeping rather than a core dump's memory mappings. The
// column width adapts to the terminal via termWidth (golang.org/x/sys),
// truncating the path column on narrow terminals.
func runStats(path string) error {
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

	width := termWidth()
	pathCol := path
	if maxPathCol := width - 40; maxPathCol > 8 && len(pathCol) > maxPathCol {
		pathCol = "..." + pathCol[len(pathCol)-maxPathCol+3:]
	}

	t := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(t, "file\t%s\n", pathCol)
	fmt.Fprintf(t, "result\t%s\n", describeResult(result))
	fmt.Fprintf(t, "heap objects\t%d\n", heap.Len())
	fmt.Fprintf(t, "heap allocated\t%d bytes\n", heap.Allocated())
	fmt.Fprintf(t, "collect threshold\t%d bytes\n", heap.Threshold())
	return t.Flush()
}
