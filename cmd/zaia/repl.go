// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/namibj/zaia/runtime"
	"github.com/namibj/zaia/syntax"
	"github.com/namibj/zaia/syntax/parser"
	"github.com/namibj/zaia/value"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive zaia session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runREPL reuses a single interner, heap, and Ctx across every line, so
// that `local`/global bindings and the interned-string cache persist the
// way a single program's would (the Ctx is otherwise scoped to
// one whole-program evaluation).
func runREPL() error {
	rl, err := readline.New("zaia> ")
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	interner := syntax.NewInterner()
	heap := newHeap()
	global := value.NewTable(heap)
	ctx := runtime.NewCtx(heap, global, interner)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		evalLine(ctx, interner, line)
	}
	return nil
}

func evalLine(ctx *runtime.Ctx, interner *syntax.Interner, line string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("error: %v\n", r)
		}
	}()

	root, err := parser.Parse([]byte(line), interner)
	if err != nil {
		fmt.Printf("parse error: %v\n", err)
		return
	}
	result, err := runtime.Eval(ctx, root)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(describeResult(result))
}
