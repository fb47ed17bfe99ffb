// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/namibj/zaia/syntax"
)

func parseSrc(t *testing.T, src string) *syntax.Root {
	t.Helper()
	root, err := Parse([]byte(src), syntax.NewInterner())
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return root
}

func TestParseArithmeticPrecedence(t *testing.T) {
	root := parseSrc(t, "return 1 + 2 * 3")
	ret, ok := root.Block[0].(syntax.Return)
	if !ok || len(ret.Values) != 1 {
		t.Fatalf("expected a single-value Return, got %#v", root.Block[0])
	}
	bin, ok := ret.Values[0].(syntax.Binary)
	if !ok || bin.Op != syntax.OpAdd {
		t.Fatalf("top-level op = %#v, want OpAdd", ret.Values[0])
	}
	rhs, ok := bin.Rhs.(syntax.Binary)
	if !ok || rhs.Op != syntax.OpMul {
		t.Fatalf("rhs = %#v, want a Mul subexpression", bin.Rhs)
	}
}

func TestParseConcatRightAssociative(t *testing.T) {
	root := parseSrc(t, `return "a" .. "b" .. "c"`)
	ret := root.Block[0].(syntax.Return)
	top, ok := ret.Values[0].(syntax.Concat)
	if !ok {
		t.Fatalf("expected top-level Concat, got %#v", ret.Values[0])
	}
	if _, ok := top.Lhs.(syntax.Literal); !ok {
		t.Fatalf("concat should nest on the right; lhs = %#v", top.Lhs)
	}
	if _, ok := top.Rhs.(syntax.Concat); !ok {
		t.Fatalf("concat should nest on the right; rhs = %#v", top.Rhs)
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	root := parseSrc(t, `
if x then
  return 1
elseif y then
  return 2
else
  return 3
end
`)
	top, ok := root.Block[0].(syntax.If)
	if !ok {
		t.Fatalf("expected If, got %#v", root.Block[0])
	}
	elseif, ok := top.Or.(syntax.ElseIf)
	if !ok {
		t.Fatalf("expected ElseIf tail, got %#v", top.Or)
	}
	if _, ok := elseif.If.Or.(syntax.Else); !ok {
		t.Fatalf("expected Else tail on nested if, got %#v", elseif.If.Or)
	}
}

func TestParseNumericFor(t *testing.T) {
	root := parseSrc(t, "for i = 1, 5 do end")
	stmt, ok := root.Block[0].(syntax.ForNumeric)
	if !ok {
		t.Fatalf("expected ForNumeric, got %#v", root.Block[0])
	}
	if stmt.Step != nil {
		t.Errorf("step should default to nil, got %#v", stmt.Step)
	}
}

func TestParseLocalAssign(t *testing.T) {
	root := parseSrc(t, "local a, b = 1, 2")
	exprStmt, ok := root.Block[0].(syntax.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt wrapping a local Assign, got %#v", root.Block[0])
	}
	stmt, ok := exprStmt.Expr.(syntax.Assign)
	if !ok || !stmt.IsLocal {
		t.Fatalf("expected local Assign, got %#v", root.Block[0])
	}
	if len(stmt.Target) != 2 || len(stmt.Value) != 2 {
		t.Fatalf("expected two targets and two values, got %#v", stmt)
	}
}

func TestParseTableLiteral(t *testing.T) {
	root := parseSrc(t, `return {1, 2, x = 3, [y] = 4}`)
	ret := root.Block[0].(syntax.Return)
	tbl, ok := ret.Values[0].(syntax.TableLiteral)
	if !ok {
		t.Fatalf("expected TableLiteral, got %#v", ret.Values[0])
	}
	if len(tbl.Elements) != 4 {
		t.Fatalf("got %d elements, want 4", len(tbl.Elements))
	}
	if tbl.Elements[0].Key != nil || tbl.Elements[1].Key != nil {
		t.Errorf("positional elements should have nil keys")
	}
	if tbl.Elements[2].Key == nil || tbl.Elements[3].Key == nil {
		t.Errorf("keyed elements should have non-nil keys")
	}
}

func TestParseFunctionCall(t *testing.T) {
	root := parseSrc(t, "f(1, 2)")
	stmt, ok := root.Block[0].(syntax.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %#v", root.Block[0])
	}
	call, ok := stmt.Expr.(syntax.Call)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected a 2-arg Call, got %#v", stmt.Expr)
	}
}

func TestParseMethodCallDesugarsSelf(t *testing.T) {
	root := parseSrc(t, "obj:m(1)")
	stmt := root.Block[0].(syntax.ExprStmt)
	call, ok := stmt.Expr.(syntax.Call)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected a 2-arg Call (self + 1), got %#v", stmt.Expr)
	}
	if _, ok := call.Func.(syntax.Index); !ok {
		t.Fatalf("expected call target to be the method Index, got %#v", call.Func)
	}
}
