// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"

	"github.com/namibj/zaia/syntax"
	"github.com/namibj/zaia/value"
)

// OutcomeKind is the discriminant of the evaluator's three-way result:
// Value is the normal case, Return propagates to the enclosing function
// call, Break propagates to the enclosing loop. Errors travel as this
// package's ordinary Go `error` return — idiomatic for the two non-fatal
// error kinds that can actually arise mid-walk; a TypeError is fatal and
// travels as a panic instead.
type OutcomeKind int

const (
	KindValue OutcomeKind = iota
	KindReturn
	KindBreak
)

// Outcome is one statement or block's result.
type Outcome struct {
	Kind    OutcomeKind
	Value   value.Value   // valid when Kind == KindValue
	Returns []value.Value // valid when Kind == KindReturn
}

func valueOutcome(v value.Value) Outcome { return Outcome{Kind: KindValue, Value: v} }

// Eval runs root to completion, returning the program's terminal Value.
// A Return that escapes the program root becomes its returned value
// (rather than UncaughtReturnError), since "return" at top level is
// exactly how a zaia program reports its result; a Break that escapes
// every loop becomes UncaughtBreakError.
func Eval(ctx *Ctx, root *syntax.Root) (result value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if te, ok := r.(*value.TypeError); ok {
				fmt.Printf("fatal: type error: %s\n", te.Error())
				panic(te) // re-panic after the diagnostic: TypeError is fatal
			}
			panic(r)
		}
	}()

	out, err := EvalBlock(ctx, root.Block)
	if err != nil {
		return value.Nil(), err
	}
	switch out.Kind {
	case KindReturn:
		if len(out.Returns) == 0 {
			return value.Nil(), nil
		}
		return out.Returns[0], nil
	case KindBreak:
		return value.Nil(), &UncaughtBreakError{}
	default:
		return out.Value, nil
	}
}

// EvalBlock evaluates each statement in sequence, propagating the first
// non-Value outcome.
func EvalBlock(ctx *Ctx, stmts []syntax.Stmt) (Outcome, error) {
	for _, s := range stmts {
		ctx.MaybeCollect()
		out, err := EvalStmt(ctx, s)
		if err != nil {
			return Outcome{}, err
		}
		if out.Kind != KindValue {
			return out, nil
		}
	}
	return valueOutcome(value.Nil()), nil
}

func inScope(ctx *Ctx, fn func() (Outcome, error)) (Outcome, error) {
	pop := ctx.Scope()
	defer pop()
	return fn()
}

// EvalStmt dispatches a single statement per the statement table.
func EvalStmt(ctx *Ctx, stmt syntax.Stmt) (Outcome, error) {
	switch s := stmt.(type) {
	case syntax.ExprStmt:
		_, err := evalExpr(ctx, s.Expr)
		if err != nil {
			return Outcome{}, err
		}
		return valueOutcome(value.Nil()), nil

	case syntax.Do:
		return inScope(ctx, func() (Outcome, error) { return EvalBlock(ctx, s.Block) })

	case syntax.While:
		for {
			cond, err := evalExpr(ctx, s.Condition)
			if err != nil {
				return Outcome{}, err
			}
			if !cond.Truthy() {
				return valueOutcome(value.Nil()), nil
			}
			out, err := inScope(ctx, func() (Outcome, error) { return EvalBlock(ctx, s.Block) })
			if err != nil {
				return Outcome{}, err
			}
			switch out.Kind {
			case KindBreak:
				return valueOutcome(value.Nil()), nil
			case KindReturn:
				return out, nil
			}
		}

	case syntax.Repeat:
		for {
			out, err := inScope(ctx, func() (Outcome, error) { return EvalBlock(ctx, s.Block) })
			if err != nil {
				return Outcome{}, err
			}
			switch out.Kind {
			case KindBreak:
				return valueOutcome(value.Nil()), nil
			case KindReturn:
				return out, nil
			}
			cond, err := evalExpr(ctx, s.Condition)
			if err != nil {
				return Outcome{}, err
			}
			if cond.Truthy() {
				return valueOutcome(value.Nil()), nil
			}
		}

	case syntax.If:
		return evalIf(ctx, s)

	case syntax.ForNumeric:
		return evalForNumeric(ctx, s)

	case syntax.ForGeneric:
		return evalForGeneric(ctx, s)

	case syntax.Return:
		values, err := evalExprList(ctx, s.Values)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: KindReturn, Returns: values}, nil

	case syntax.Break:
		return Outcome{Kind: KindBreak}, nil

	default:
		return Outcome{}, fmt.Errorf("runtime: unhandled statement %T", stmt)
	}
}

func evalIf(ctx *Ctx, s syntax.If) (Outcome, error) {
	cond, err := evalExpr(ctx, s.Condition)
	if err != nil {
		return Outcome{}, err
	}
	if cond.Truthy() {
		return inScope(ctx, func() (Outcome, error) { return EvalBlock(ctx, s.Block) })
	}
	switch or := s.Or.(type) {
	case nil:
		return valueOutcome(value.Nil()), nil
	case syntax.ElseIf:
		return evalIf(ctx, or.If)
	case syntax.Else:
		return inScope(ctx, func() (Outcome, error) { return EvalBlock(ctx, or.Block) })
	default:
		return Outcome{}, fmt.Errorf("runtime: unhandled if-chain %T", or)
	}
}

// evalForNumeric implements the numeric for. Termination is the
// directional inequality: counter <= end for a positive step, counter >=
// end for a negative one, so a step that doesn't divide end-start evenly
// still terminates.
func evalForNumeric(ctx *Ctx, s syntax.ForNumeric) (Outcome, error) {
	start, err := evalExpr(ctx, s.Start)
	if err != nil {
		return Outcome{}, err
	}
	end, err := evalExpr(ctx, s.End)
	if err != nil {
		return Outcome{}, err
	}
	step := value.FromInt(1)
	if s.Step != nil {
		step, err = evalExpr(ctx, s.Step)
		if err != nil {
			return Outcome{}, err
		}
	}
	if !start.IsInt() && !start.IsFloat() || !end.IsInt() && !end.IsFloat() || !step.IsInt() && !step.IsFloat() {
		panic(&value.TypeError{Op: "numeric for", Operands: []value.Value{start, end, step}})
	}

	useFloat := start.IsFloat() || end.IsFloat() || step.IsFloat()
	name := ctx.IdentName(s.Variable)

	if useFloat {
		cur, endF, stepF := toF(start), toF(end), toF(step)
		negative := stepF < 0
		for (negative && cur >= endF) || (!negative && cur <= endF) {
			out, stop, err := runForBody(ctx, name, value.FromFloat(cur), s.Block)
			if err != nil || stop {
				return out, err
			}
			cur += stepF
		}
		return valueOutcome(value.Nil()), nil
	}

	cur, endI, stepI := start.Int(), end.Int(), step.Int()
	negative := stepI < 0
	for (negative && cur >= endI) || (!negative && cur <= endI) {
		out, stop, err := runForBody(ctx, name, value.FromInt(cur), s.Block)
		if err != nil || stop {
			return out, err
		}
		cur += stepI
	}
	return valueOutcome(value.Nil()), nil
}

func toF(v value.Value) float64 {
	if v.IsFloat() {
		return v.Float()
	}
	return float64(v.Int())
}

// runForBody binds name to counter in a fresh scope and runs block once,
// reporting whether the loop should stop (Break) and any Return that
// should propagate out of the loop entirely.
func runForBody(ctx *Ctx, name string, counter value.Value, block []syntax.Stmt) (Outcome, bool, error) {
	pop := ctx.Scope()
	defer pop()
	ctx.setLocal(name, counter)
	out, err := EvalBlock(ctx, block)
	if err != nil {
		return Outcome{}, true, err
	}
	switch out.Kind {
	case KindBreak:
		return valueOutcome(value.Nil()), true, nil
	case KindReturn:
		return out, true, nil
	default:
		return Outcome{}, false, nil
	}
}

// evalForGeneric calls the iterator Function repeatedly, binding each
// result to Targets and terminating when the first target is Nil.
func evalForGeneric(ctx *Ctx, s syntax.ForGeneric) (Outcome, error) {
	iter, err := evalExpr(ctx, s.Yielder)
	if err != nil {
		return Outcome{}, err
	}
	if !iter.IsFunction() {
		panic(&value.TypeError{Op: "generic for", Operands: []value.Value{iter}})
	}
	fn := iter.Function()
	// The iterator is typically an immediately-produced closure bound to
	// no scope; keep it rooted across the repeated calls.
	release := ctx.protect(iter)
	defer release()

	for {
		results, err := ctx.Call(fn, nil)
		if err != nil {
			return Outcome{}, err
		}
		if len(results) == 0 || results[0].IsNil() {
			return valueOutcome(value.Nil()), nil
		}

		pop := ctx.Scope()
		for i, target := range s.Targets {
			name := ctx.IdentName(target)
			if i < len(results) {
				ctx.setLocal(name, results[i])
			} else {
				ctx.setLocal(name, value.Nil())
			}
		}
		out, err := EvalBlock(ctx, s.Block)
		pop()
		if err != nil {
			return Outcome{}, err
		}
		switch out.Kind {
		case KindBreak:
			return valueOutcome(value.Nil()), nil
		case KindReturn:
			return out, nil
		}
	}
}

// evalExpr evaluates e to a single Value. A Call expression contributes
// only its first result (or Nil if it returned none); evalExprList is
// what expands a trailing Call to all of its results.
func evalExpr(ctx *Ctx, e syntax.Expr) (value.Value, error) {
	switch ex := e.(type) {
	case syntax.Variable:
		return ctx.Resolve(ctx.IdentName(ex.Ident)), nil

	case syntax.Unary:
		return evalUnary(ctx, ex)

	case syntax.Binary:
		return evalBinary(ctx, ex)

	case syntax.FunctionLiteral:
		return evalFunctionLiteral(ctx, ex), nil

	case syntax.Literal:
		return evalLiteral(ctx, ex.Value), nil

	case syntax.Call:
		results, err := evalCall(ctx, ex)
		if err != nil {
			return value.Value{}, err
		}
		if len(results) == 0 {
			return value.Nil(), nil
		}
		return results[0], nil

	case syntax.TableLiteral:
		return evalTableLiteral(ctx, ex)

	case syntax.Assign:
		if err := evalAssign(ctx, ex); err != nil {
			return value.Value{}, err
		}
		return value.Nil(), nil

	case syntax.Index:
		target, err := evalExpr(ctx, ex.Target)
		if err != nil {
			return value.Value{}, err
		}
		release := ctx.protect(target)
		key, err := evalExpr(ctx, ex.Key)
		release()
		if err != nil {
			return value.Value{}, err
		}
		if ex.IsMethod {
			return target.OpMethod(key), nil
		}
		return target.OpProperty(key), nil

	case syntax.Concat:
		lhs, err := evalExpr(ctx, ex.Lhs)
		if err != nil {
			return value.Value{}, err
		}
		release := ctx.protect(lhs)
		rhs, err := evalExpr(ctx, ex.Rhs)
		release()
		if err != nil {
			return value.Value{}, err
		}
		return ctx.Intern(value.ConcatBytes(lhs, rhs)), nil

	default:
		return value.Value{}, fmt.Errorf("runtime: unhandled expression %T", e)
	}
}

func evalUnary(ctx *Ctx, u syntax.Unary) (value.Value, error) {
	v, err := evalExpr(ctx, u.Expr)
	if err != nil {
		return value.Value{}, err
	}
	switch u.Op {
	case syntax.OpNot:
		return v.OpNot(), nil
	case syntax.OpBitNot:
		return v.OpBitNot(), nil
	case syntax.OpNeg:
		return v.OpNeg(), nil
	case syntax.OpPos:
		if !v.IsInt() && !v.IsFloat() {
			panic(&value.TypeError{Op: "unary plus", Operands: []value.Value{v}})
		}
		return v, nil
	case syntax.OpLen:
		return v.OpLen(), nil
	default:
		return value.Value{}, fmt.Errorf("runtime: unhandled unary op %v", u.Op)
	}
}

// evalBinary implements the operator dispatch, with and/or
// short-circuiting here rather than inside Value: the
// right-hand operand is only evaluated when its truthiness could still
// change the result.
func evalBinary(ctx *Ctx, b syntax.Binary) (value.Value, error) {
	lhs, err := evalExpr(ctx, b.Lhs)
	if err != nil {
		return value.Value{}, err
	}

	switch b.Op {
	case syntax.OpOr:
		if lhs.Truthy() {
			return value.FromBool(true), nil
		}
		rhs, err := evalExpr(ctx, b.Rhs)
		if err != nil {
			return value.Value{}, err
		}
		return lhs.OpOr(rhs), nil
	case syntax.OpAnd:
		if !lhs.Truthy() {
			return value.FromBool(false), nil
		}
		rhs, err := evalExpr(ctx, b.Rhs)
		if err != nil {
			return value.Value{}, err
		}
		return lhs.OpAnd(rhs), nil
	}

	release := ctx.protect(lhs)
	rhs, err := evalExpr(ctx, b.Rhs)
	release()
	if err != nil {
		return value.Value{}, err
	}

	switch b.Op {
	case syntax.OpAdd:
		return lhs.OpAdd(rhs), nil
	case syntax.OpSub:
		return lhs.OpSub(rhs), nil
	case syntax.OpMul:
		return lhs.OpMul(rhs), nil
	case syntax.OpDiv:
		return lhs.OpDiv(rhs), nil
	case syntax.OpFloorDiv:
		return lhs.OpIntDiv(rhs), nil
	case syntax.OpExp:
		return lhs.OpExp(rhs), nil
	case syntax.OpMod:
		return lhs.OpMod(rhs), nil
	case syntax.OpBitAnd:
		return lhs.OpBitAnd(rhs), nil
	case syntax.OpBitOr:
		return lhs.OpBitOr(rhs), nil
	case syntax.OpBitXor:
		return lhs.OpBitXor(rhs), nil
	case syntax.OpLShift:
		return lhs.OpLShift(rhs), nil
	case syntax.OpRShift:
		return lhs.OpRShift(rhs), nil
	case syntax.OpEq:
		return value.FromBool(lhs.OpEq(rhs)), nil
	case syntax.OpNotEq:
		return value.FromBool(!lhs.OpEq(rhs)), nil
	case syntax.OpLt:
		return value.FromBool(lhs.OpLt(rhs)), nil
	case syntax.OpGt:
		return value.FromBool(lhs.OpGt(rhs)), nil
	case syntax.OpLeq:
		return value.FromBool(lhs.OpLeq(rhs)), nil
	case syntax.OpGeq:
		return value.FromBool(lhs.OpGeq(rhs)), nil
	default:
		return value.Value{}, fmt.Errorf("runtime: unhandled binary op %v", b.Op)
	}
}

func evalLiteral(ctx *Ctx, lit syntax.LiteralValue) value.Value {
	switch l := lit.(type) {
	case syntax.NilLiteral:
		return value.Nil()
	case syntax.BoolLiteral:
		return value.FromBool(l.Value)
	case syntax.IntLiteral:
		return value.FromInt(l.Value)
	case syntax.FloatLiteral:
		return value.FromFloat(l.Value)
	case syntax.StringLiteral:
		return ctx.Intern(l.Value)
	default:
		panic(fmt.Sprintf("runtime: unhandled literal %T", lit))
	}
}

func evalFunctionLiteral(ctx *Ctx, fn syntax.FunctionLiteral) value.Value {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ctx.IdentName(p)
	}

	captured := ctx.captureUpvalues()
	obj := value.NewFunction(params, fn.Block, captured)
	handle := value.InsertObject(ctx.Heap(), obj)
	return value.FromFunction(handle)
}

func evalTableLiteral(ctx *Ctx, lit syntax.TableLiteral) (value.Value, error) {
	tbl := value.NewTable(ctx.Heap())
	handle := value.InsertObject(ctx.Heap(), tbl)
	result := value.FromTable(handle)
	// The table is not yet reachable from any scope; an element
	// expression calling into a function body could otherwise have a
	// collection sweep it mid-construction.
	release := ctx.protect(result)
	defer release()
	next := int32(1)
	for _, elem := range lit.Elements {
		v, err := evalExpr(ctx, elem.Value)
		if err != nil {
			return value.Value{}, err
		}
		if elem.Key == nil {
			tbl.Insert(value.FromInt(next), v)
			next++
			continue
		}
		relV := ctx.protect(v)
		k, err := evalExpr(ctx, elem.Key)
		relV()
		if err != nil {
			return value.Value{}, err
		}
		tbl.Insert(k, v)
	}
	return result, nil
}

func evalCall(ctx *Ctx, call syntax.Call) ([]value.Value, error) {
	fnVal, err := evalExpr(ctx, call.Func)
	if err != nil {
		return nil, err
	}
	if !fnVal.IsFunction() {
		panic(&value.TypeError{Op: "call", Operands: []value.Value{fnVal}})
	}
	// Keep the callee rooted through argument evaluation and the call
	// itself: an immediately-invoked function literal is reachable from
	// nowhere else.
	release := ctx.protect(fnVal)
	defer release()
	args, err := evalExprList(ctx, call.Args)
	if err != nil {
		return nil, err
	}
	return ctx.Call(fnVal.Function(), args)
}

// evalExprList evaluates a list of expressions in order; the last
// expression, if it is a Call, contributes all of its results rather than
// just the first.
func evalExprList(ctx *Ctx, exprs []syntax.Expr) ([]value.Value, error) {
	mark := ctx.transientMark()
	defer ctx.transientRelease(mark)
	var out []value.Value
	for i, e := range exprs {
		if call, ok := e.(syntax.Call); ok && i == len(exprs)-1 {
			results, err := evalCall(ctx, call)
			if err != nil {
				return nil, err
			}
			out = append(out, results...)
			continue
		}
		v, err := evalExpr(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		ctx.protectPush(v)
	}
	return out, nil
}

// evalAssign: a local declaration pushes every declared name (bound to
// Nil) before its initializer list is evaluated, so a `local function`
// body can refer to its own name recursively through the shared cell.
func evalAssign(ctx *Ctx, a syntax.Assign) error {
	if a.IsLocal {
		for _, target := range a.Target {
			v, ok := target.(syntax.Variable)
			if !ok {
				return fmt.Errorf("runtime: invalid local declaration target %T", target)
			}
			if err := ctx.Local(ctx.IdentName(v.Ident)); err != nil {
				return err
			}
		}
	}
	values, err := evalExprList(ctx, a.Value)
	if err != nil {
		return err
	}
	// Target evaluation (a table-index target's subexpressions) can call
	// back into the evaluator before the values land anywhere rooted.
	mark := ctx.transientMark()
	defer ctx.transientRelease(mark)
	for _, v := range values {
		ctx.protectPush(v)
	}
	for i, target := range a.Target {
		var v value.Value
		if i < len(values) {
			v = values[i]
		} else {
			v = value.Nil()
		}
		if err := assignTo(ctx, target, v); err != nil {
			return err
		}
	}
	return nil
}

func assignTo(ctx *Ctx, target syntax.Expr, v value.Value) error {
	switch t := target.(type) {
	case syntax.Variable:
		ctx.Assign(ctx.IdentName(t.Ident), v)
		return nil

	case syntax.Index:
		targetV, err := evalExpr(ctx, t.Target)
		if err != nil {
			return err
		}
		keyV, err := evalExpr(ctx, t.Key)
		if err != nil {
			return err
		}
		if !targetV.IsTable() {
			panic(&value.TypeError{Op: "index-assign", Operands: []value.Value{targetV}})
		}
		targetV.Table().Insert(keyV, v)
		return nil

	default:
		return fmt.Errorf("runtime: invalid assignment target %T", target)
	}
}
