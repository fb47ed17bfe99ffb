// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command zaia runs zaia source files and provides an interactive REPL
// over the runtime package's Ctx/Eval pair.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/namibj/zaia/value"
)

var (
	verbose          bool
	heapInitialKiB   int
	heapGrowthFactor float64
)

var rootCmd = &cobra.Command{
	Use:     "zaia",
	Short:   "Run and explore zaia programs",
	Long:    `zaia is a tree-walking interpreter for a small Lua-family scripting language.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print heap diagnostics")
	rootCmd.PersistentFlags().IntVar(&heapInitialKiB, "heap-initial-kib", 128, "initial GC trigger threshold, in KiB")
	rootCmd.PersistentFlags().Float64Var(&heapGrowthFactor, "heap-growth-factor", 1.75, "post-collection threshold growth factor")
}

// newHeap constructs a Heap honoring the --heap-initial-kib /
// --heap-growth-factor flags, the CLI's exposure of the collection
// heuristic's two tunables.
func newHeap() *value.Heap {
	return value.NewHeapWithHeuristic(int64(heapInitialKiB)*1024, heapGrowthFactor)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
