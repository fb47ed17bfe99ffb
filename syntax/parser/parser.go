// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser builds a syntax.Root from source text: recursive
// descent for statements, precedence climbing for expressions.
package parser

import (
	"fmt"

	"github.com/namibj/zaia/syntax"
	"github.com/namibj/zaia/syntax/lexer"
)

// Parser is a single-pass recursive-descent parser with one token of
// lookahead (two, transiently, for the `{ident = expr}` table-field
// sugar, via peekKind).
type Parser struct {
	lex      *lexer.Lexer
	interner *syntax.Interner
	cur      lexer.Token
}

// Parse tokenizes and parses src in one call, interning identifiers
// through interner.
func Parse(src []byte, interner *syntax.Interner) (*syntax.Root, error) {
	p, err := New(src, interner)
	if err != nil {
		return nil, err
	}
	return p.ParseRoot()
}

// New constructs a Parser positioned at the first token of src.
func New(src []byte, interner *syntax.Interner) (*Parser, error) {
	p := &Parser{lex: lexer.New(src, interner), interner: interner}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// peekKind reports the kind of the token after cur without consuming it,
// by scanning from a saved copy of the lexer (Lexer has no state besides
// the byte slice, cursor, and a shared interner, so copying it is a cheap
// and side-effect-free way to look one token further ahead).
func (p *Parser) peekKind() (lexer.Kind, error) {
	saved := *p.lex
	t, err := p.lex.Next()
	*p.lex = saved
	if err != nil {
		return 0, err
	}
	return t.Kind, nil
}

func (p *Parser) expect(k lexer.Kind) error {
	if p.cur.Kind != k {
		return fmt.Errorf("parser: expected token %d, got %d at offset %d", k, p.cur.Kind, p.cur.Offset)
	}
	return p.advance()
}

func (p *Parser) expectIdent() (syntax.Ident, error) {
	if p.cur.Kind != lexer.Ident {
		return syntax.Ident{}, fmt.Errorf("parser: expected identifier at offset %d", p.cur.Offset)
	}
	id := p.cur.Ident
	return id, p.advance()
}

// ParseRoot parses a whole program: statements until EOF.
func (p *Parser) ParseRoot() (*syntax.Root, error) {
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.EOF {
		return nil, fmt.Errorf("parser: unexpected trailing token %d at offset %d", p.cur.Kind, p.cur.Offset)
	}
	return &syntax.Root{Block: block}, nil
}

// blockEnders are the keywords that terminate a block without being
// consumed by parseBlock itself; the caller consumes them.
var blockEnders = map[lexer.Kind]bool{
	lexer.EOF:      true,
	lexer.KwEnd:    true,
	lexer.KwElse:   true,
	lexer.KwElseIf: true,
	lexer.KwUntil:  true,
}

func (p *Parser) parseBlock() ([]syntax.Stmt, error) {
	var stmts []syntax.Stmt
	for !blockEnders[p.cur.Kind] {
		if p.cur.Kind == lexer.Semicolon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (syntax.Stmt, error) {
	switch p.cur.Kind {
	case lexer.KwLocal:
		return p.parseLocal()
	case lexer.KwDo:
		if err := p.advance(); err != nil {
			return nil, err
		}
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return syntax.Do{Block: block}, p.expect(lexer.KwEnd)
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwRepeat:
		return p.parseRepeat()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwFor:
		return p.parseFor()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwBreak:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return syntax.Break{}, nil
	case lexer.KwFunction:
		// `function name(...) ... end` at statement position assigns the
		// literal to `name` (a global, unless a local of that name is in
		// scope); the anonymous form only occurs in expression position.
		if next, err := p.peekKind(); err == nil && next == lexer.Ident {
			name, fn, err := p.parseNamedFunction()
			if err != nil {
				return nil, err
			}
			return syntax.ExprStmt{Expr: syntax.Assign{
				Target: []syntax.Expr{syntax.Variable{Ident: name}},
				Value:  []syntax.Expr{fn},
			}}, nil
		}
		return p.parseExprOrAssignStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseWhile() (syntax.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KwDo); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return syntax.While{Condition: cond, Block: block}, p.expect(lexer.KwEnd)
}

func (p *Parser) parseRepeat() (syntax.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KwUntil); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return syntax.Repeat{Block: block, Condition: cond}, nil
}

func (p *Parser) parseIf() (syntax.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseIfNode()
	if err != nil {
		return nil, err
	}
	return node, p.expect(lexer.KwEnd)
}

// parseIfNode parses "condition then block [elseif ... | else ...]"
// assuming the leading `if`/`elseif` keyword was already consumed by the
// caller; only the outermost parseIf consumes the final `end`.
func (p *Parser) parseIfNode() (syntax.If, error) {
	cond, err := p.parseExpr(0)
	if err != nil {
		return syntax.If{}, err
	}
	if err := p.expect(lexer.KwThen); err != nil {
		return syntax.If{}, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return syntax.If{}, err
	}

	var chain syntax.IfChain
	switch p.cur.Kind {
	case lexer.KwElseIf:
		if err := p.advance(); err != nil {
			return syntax.If{}, err
		}
		inner, err := p.parseIfNode()
		if err != nil {
			return syntax.If{}, err
		}
		chain = syntax.ElseIf{If: inner}
	case lexer.KwElse:
		if err := p.advance(); err != nil {
			return syntax.If{}, err
		}
		elseBlock, err := p.parseBlock()
		if err != nil {
			return syntax.If{}, err
		}
		chain = syntax.Else{Block: elseBlock}
	}
	return syntax.If{Condition: cond, Block: block, Or: chain}, nil
}

func (p *Parser) parseFor() (syntax.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == lexer.Assign {
		return p.parseForNumeric(first)
	}
	return p.parseForGeneric(first)
}

func (p *Parser) parseForNumeric(variable syntax.Ident) (syntax.Stmt, error) {
	if err := p.advance(); err != nil { // '='
		return nil, err
	}
	start, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Comma); err != nil {
		return nil, err
	}
	end, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	var step syntax.Expr
	if p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		step, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.KwDo); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return syntax.ForNumeric{Variable: variable, Start: start, End: end, Step: step, Block: block},
		p.expect(lexer.KwEnd)
}

func (p *Parser) parseForGeneric(first syntax.Ident) (syntax.Stmt, error) {
	targets := []syntax.Ident{first}
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		targets = append(targets, id)
	}
	if err := p.expect(lexer.KwIn); err != nil {
		return nil, err
	}
	yielder, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KwDo); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return syntax.ForGeneric{Targets: targets, Yielder: yielder, Block: block}, p.expect(lexer.KwEnd)
}

func (p *Parser) parseReturn() (syntax.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if blockEnders[p.cur.Kind] || p.cur.Kind == lexer.Semicolon {
		return syntax.Return{}, nil
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return syntax.Return{Values: values}, nil
}

func (p *Parser) parseLocal() (syntax.Stmt, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	// `local function name(...) ... end` desugars to a local declaration
	// initialized with a function literal; there is no separate statement
	// variant for it.
	if p.cur.Kind == lexer.KwFunction {
		name, fn, err := p.parseNamedFunction()
		if err != nil {
			return nil, err
		}
		return syntax.ExprStmt{Expr: syntax.Assign{
			IsLocal: true,
			Target:  []syntax.Expr{syntax.Variable{Ident: name}},
			Value:   []syntax.Expr{fn},
		}}, nil
	}

	var names []syntax.Ident
	id, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	names = append(names, id)
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, id)
	}

	var values []syntax.Expr
	if p.cur.Kind == lexer.Assign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		values, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}

	targets := make([]syntax.Expr, len(names))
	for i, n := range names {
		targets[i] = syntax.Variable{Ident: n}
	}
	return syntax.ExprStmt{Expr: syntax.Assign{IsLocal: true, Target: targets, Value: values}}, nil
}

// parseExprOrAssignStmt parses either a bare expression statement (a
// call, typically) or an assignment, disambiguated by what follows the
// first parsed expression.
func (p *Parser) parseExprOrAssignStmt() (syntax.Stmt, error) {
	first, err := p.parseSuffixed()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Comma && p.cur.Kind != lexer.Assign {
		return syntax.ExprStmt{Expr: first}, nil
	}

	targets := []syntax.Expr{first}
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseSuffixed()
		if err != nil {
			return nil, err
		}
		targets = append(targets, next)
	}
	if err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return syntax.ExprStmt{Expr: syntax.Assign{Target: targets, Value: values}}, nil
}

func (p *Parser) parseExprList() ([]syntax.Expr, error) {
	var out []syntax.Expr
	first, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

// Binary operator precedence table. Higher binds tighter; concat and
// exponentiation are right-associative.
const (
	precOr = (iota + 1) * 10
	precAnd
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precConcat
	precAdd
	precMul
	precUnary
	precExp
)

type infixOp struct {
	prec      int
	rightAssn bool
	binOp     syntax.BinaryOp
	isConcat  bool
}

var infixOps = map[lexer.Kind]infixOp{
	lexer.KwOr:      {prec: precOr, binOp: syntax.OpOr},
	lexer.KwAnd:     {prec: precAnd, binOp: syntax.OpAnd},
	lexer.Eq:        {prec: precCompare, binOp: syntax.OpEq},
	lexer.NotEq:     {prec: precCompare, binOp: syntax.OpNotEq},
	lexer.LAngle:    {prec: precCompare, binOp: syntax.OpLt},
	lexer.RAngle:    {prec: precCompare, binOp: syntax.OpGt},
	lexer.LEq:       {prec: precCompare, binOp: syntax.OpLeq},
	lexer.GEq:       {prec: precCompare, binOp: syntax.OpGeq},
	lexer.Pipe:      {prec: precBitOr, binOp: syntax.OpBitOr},
	lexer.Tilde:     {prec: precBitXor, binOp: syntax.OpBitXor},
	lexer.Ampersand: {prec: precBitAnd, binOp: syntax.OpBitAnd},
	lexer.DLAngle:   {prec: precShift, binOp: syntax.OpLShift},
	lexer.DRAngle:   {prec: precShift, binOp: syntax.OpRShift},
	lexer.DDot:      {prec: precConcat, rightAssn: true, isConcat: true},
	lexer.Plus:      {prec: precAdd, binOp: syntax.OpAdd},
	lexer.Minus:     {prec: precAdd, binOp: syntax.OpSub},
	lexer.Star:      {prec: precMul, binOp: syntax.OpMul},
	lexer.Slash:     {prec: precMul, binOp: syntax.OpDiv},
	lexer.DSlash:    {prec: precMul, binOp: syntax.OpFloorDiv},
	lexer.Percent:   {prec: precMul, binOp: syntax.OpMod},
	lexer.Caret:     {prec: precExp, rightAssn: true, binOp: syntax.OpExp},
}

func (p *Parser) parseExpr(minPrec int) (syntax.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		info, ok := infixOps[p.cur.Kind]
		if !ok || info.prec < minPrec {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		nextMin := info.prec + 1
		if info.rightAssn {
			nextMin = info.prec
		}
		rhs, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		if info.isConcat {
			lhs = syntax.Concat{Lhs: lhs, Rhs: rhs}
		} else {
			lhs = syntax.Binary{Op: info.binOp, Lhs: lhs, Rhs: rhs}
		}
	}
}

func (p *Parser) parseUnary() (syntax.Expr, error) {
	var op syntax.UnaryOp
	switch p.cur.Kind {
	case lexer.KwNot:
		op = syntax.OpNot
	case lexer.Minus:
		op = syntax.OpNeg
	case lexer.Plus:
		op = syntax.OpPos
	case lexer.Tilde:
		op = syntax.OpBitNot
	case lexer.Hash:
		op = syntax.OpLen
	default:
		return p.parseSuffixed()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr(precUnary)
	if err != nil {
		return nil, err
	}
	return syntax.Unary{Op: op, Expr: operand}, nil
}

// parseSuffixed parses a primary expression followed by any number of
// `.ident`, `[expr]`, `:ident(args)`, or `(args)` suffixes.
func (p *Parser) parseSuffixed() (syntax.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case lexer.Dot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = syntax.Index{Target: expr, Key: p.identKeyLiteral(name)}
		case lexer.LBracket:
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			expr = syntax.Index{Target: expr, Key: key}
		case lexer.Colon:
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			method := syntax.Index{Target: expr, Key: p.identKeyLiteral(name), IsMethod: true}
			expr = syntax.Call{Func: method, Args: append([]syntax.Expr{expr}, args...)}
		case lexer.LParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = syntax.Call{Func: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

// identKeyLiteral turns a `.name` / `:name` suffix's identifier into a
// string-literal key expression, since Table keys are always Values, not
// bare identifiers.
func (p *Parser) identKeyLiteral(name syntax.Ident) syntax.Expr {
	return syntax.Literal{Value: syntax.StringLiteral{Value: []byte(p.interner.Resolve(name))}}
}

func (p *Parser) parseArgs() ([]syntax.Expr, error) {
	if err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	if p.cur.Kind == lexer.RParen {
		return nil, p.advance()
	}
	args, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return args, p.expect(lexer.RParen)
}

func (p *Parser) parsePrimary() (syntax.Expr, error) {
	switch p.cur.Kind {
	case lexer.KwNil:
		return syntax.Literal{Value: syntax.NilLiteral{}}, p.advance()
	case lexer.KwTrue:
		return syntax.Literal{Value: syntax.BoolLiteral{Value: true}}, p.advance()
	case lexer.KwFalse:
		return syntax.Literal{Value: syntax.BoolLiteral{Value: false}}, p.advance()
	case lexer.Int, lexer.HexInt:
		v := p.cur.IntVal
		return syntax.Literal{Value: syntax.IntLiteral{Value: v}}, p.advance()
	case lexer.Float, lexer.HexFloat:
		v := p.cur.FloatVal
		return syntax.Literal{Value: syntax.FloatLiteral{Value: v}}, p.advance()
	case lexer.String:
		v := p.cur.StrVal
		return syntax.Literal{Value: syntax.StringLiteral{Value: v}}, p.advance()
	case lexer.Ident:
		id := p.cur.Ident
		return syntax.Variable{Ident: id}, p.advance()
	case lexer.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		return inner, p.expect(lexer.RParen)
	case lexer.LCurly:
		return p.parseTableLiteral()
	case lexer.KwFunction:
		return p.parseFunctionLiteral()
	default:
		return nil, fmt.Errorf("parser: unexpected token %d at offset %d", p.cur.Kind, p.cur.Offset)
	}
}

func (p *Parser) parseTableLiteral() (syntax.Expr, error) {
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	var elements []syntax.TableElement
	for p.cur.Kind != lexer.RCurly {
		elem, err := p.parseTableElement()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if p.cur.Kind == lexer.Comma || p.cur.Kind == lexer.Semicolon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return syntax.TableLiteral{Elements: elements}, p.expect(lexer.RCurly)
}

func (p *Parser) parseTableElement() (syntax.TableElement, error) {
	if p.cur.Kind == lexer.LBracket {
		if err := p.advance(); err != nil {
			return syntax.TableElement{}, err
		}
		key, err := p.parseExpr(0)
		if err != nil {
			return syntax.TableElement{}, err
		}
		if err := p.expect(lexer.RBracket); err != nil {
			return syntax.TableElement{}, err
		}
		if err := p.expect(lexer.Assign); err != nil {
			return syntax.TableElement{}, err
		}
		value, err := p.parseExpr(0)
		if err != nil {
			return syntax.TableElement{}, err
		}
		return syntax.TableElement{Key: key, Value: value}, nil
	}

	if p.cur.Kind == lexer.Ident {
		if next, err := p.peekKind(); err == nil && next == lexer.Assign {
			name := p.cur.Ident
			if err := p.advance(); err != nil { // ident
				return syntax.TableElement{}, err
			}
			if err := p.advance(); err != nil { // '='
				return syntax.TableElement{}, err
			}
			value, err := p.parseExpr(0)
			if err != nil {
				return syntax.TableElement{}, err
			}
			return syntax.TableElement{Key: p.identKeyLiteral(name), Value: value}, nil
		}
	}

	value, err := p.parseExpr(0)
	if err != nil {
		return syntax.TableElement{}, err
	}
	return syntax.TableElement{Value: value}, nil
}

// parseNamedFunction parses `function name(params) body end` (with the
// `function` keyword still current), returning the name and the literal.
func (p *Parser) parseNamedFunction() (syntax.Ident, syntax.Expr, error) {
	if err := p.advance(); err != nil { // 'function'
		return syntax.Ident{}, nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return syntax.Ident{}, nil, err
	}
	fn, err := p.parseFunctionRest()
	if err != nil {
		return syntax.Ident{}, nil, err
	}
	return name, fn, nil
}

func (p *Parser) parseFunctionLiteral() (syntax.Expr, error) {
	if err := p.advance(); err != nil { // 'function'
		return nil, err
	}
	return p.parseFunctionRest()
}

// parseFunctionRest parses `(params) body end`, the tail shared by named
// and anonymous function forms.
func (p *Parser) parseFunctionRest() (syntax.Expr, error) {
	if err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []syntax.Ident
	if p.cur.Kind != lexer.RParen {
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, id)
		for p.cur.Kind == lexer.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			id, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			params = append(params, id)
		}
	}
	if err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return syntax.FunctionLiteral{Params: params, Block: block}, p.expect(lexer.KwEnd)
}
