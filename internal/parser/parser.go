// Package parser turns a token stream into a bytecode module in a single
// pass: there is no statement AST, code is emitted directly into the
// function under construction. Expressions are parsed into small transient
// trees (internal/ast) so that assignment targets can be classified before
// any code for them is emitted.
package parser

import (
	"fmt"
	"slices"

	"github.com/szdytom/cypheri/internal/ast"
	"github.com/szdytom/cypheri/internal/bytecode"
	"github.com/szdytom/cypheri/internal/names"
	"github.com/szdytom/cypheri/internal/token"
)

// notBinary marks token kinds that are not binary operators in the
// precedence table.
const notBinary = -1

// precedence maps token kinds to binary operator precedence; larger binds
// tighter. Postfix call/index and member access sit above every arithmetic
// operator so chains like a.b.c[0](1, 2, 3)[5] parse as postfix chains.
var precedence [token.TypeCount]int

// binOp maps operator tokens (compound-assignment forms included) to the
// instruction they lower to.
var binOp [token.TypeCount]bytecode.Opcode

// isAssign marks the assignment operator tokens.
var isAssign [token.TypeCount]bool

func init() {
	for i := range precedence {
		precedence[i] = notBinary
	}

	precedence[token.OR] = 40
	precedence[token.AND] = 40

	precedence[token.PIPE] = 50
	precedence[token.CARET] = 51
	precedence[token.AMP] = 52

	precedence[token.EQUALS] = 60
	precedence[token.NOT_EQUALS] = 60
	precedence[token.LESS] = 65
	precedence[token.GREATER] = 65
	precedence[token.LTE] = 65
	precedence[token.GTE] = 65

	precedence[token.SHL] = 70
	precedence[token.SHR] = 70

	precedence[token.ADD] = 80
	precedence[token.SUB] = 80
	precedence[token.MUL] = 90
	precedence[token.DIV] = 90
	precedence[token.IDIV] = 90
	precedence[token.MOD] = 90
	precedence[token.POW] = 95

	precedence[token.LBRACKET] = 100
	precedence[token.LPAREN] = 100
	precedence[token.DOT] = 110

	for i := range binOp {
		binOp[i] = bytecode.INVALID
	}
	binOp[token.ADD], binOp[token.ADD_ASSIGN] = bytecode.ADD, bytecode.ADD
	binOp[token.SUB], binOp[token.SUB_ASSIGN] = bytecode.SUB, bytecode.SUB
	binOp[token.MUL], binOp[token.MUL_ASSIGN] = bytecode.MUL, bytecode.MUL
	binOp[token.DIV], binOp[token.DIV_ASSIGN] = bytecode.DIV, bytecode.DIV
	binOp[token.IDIV], binOp[token.IDIV_ASSIGN] = bytecode.IDIV, bytecode.IDIV
	binOp[token.MOD], binOp[token.MOD_ASSIGN] = bytecode.MOD, bytecode.MOD
	binOp[token.POW], binOp[token.POW_ASSIGN] = bytecode.POW, bytecode.POW
	binOp[token.SHL], binOp[token.SHL_ASSIGN] = bytecode.SHL, bytecode.SHL
	binOp[token.SHR], binOp[token.SHR_ASSIGN] = bytecode.SHR, bytecode.SHR
	binOp[token.AMP], binOp[token.AMP_ASSIGN] = bytecode.BAND, bytecode.BAND
	binOp[token.PIPE], binOp[token.PIPE_ASSIGN] = bytecode.BOR, bytecode.BOR
	binOp[token.CARET], binOp[token.CARET_ASSIGN] = bytecode.BXOR, bytecode.BXOR
	binOp[token.TILDE] = bytecode.BNOT
	binOp[token.EQUALS] = bytecode.EQ
	binOp[token.NOT_EQUALS] = bytecode.NE
	binOp[token.LESS] = bytecode.LT
	binOp[token.GREATER] = bytecode.GT
	binOp[token.LTE] = bytecode.LE
	binOp[token.GTE] = bytecode.GE
	binOp[token.AND] = bytecode.AND
	binOp[token.OR] = bytecode.OR
	binOp[token.NOT] = bytecode.NOT

	for _, t := range []token.Type{
		token.ASSIGN,
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN,
		token.DIV_ASSIGN, token.IDIV_ASSIGN, token.MOD_ASSIGN,
		token.POW_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN,
		token.AMP_ASSIGN, token.PIPE_ASSIGN, token.CARET_ASSIGN,
	} {
		isAssign[t] = true
	}
}

// Parser consumes a tokenization result and emits a bytecode module. A
// single error slot is carried: the first error wins and downstream parse
// routines short-circuit on it.
type Parser struct {
	toks    []token.Token
	pos     int
	err     *token.SyntaxError
	strLits []string
	tab     *names.Table
	locals  *localTable

	// Global references in first-reference order; function names are
	// filtered out when the module is assembled.
	globalRefs []names.ID
	globalSeen map[names.ID]bool
}

// Parse compiles a tokenization result into a module. A lexer error is
// inherited: parsing does not proceed and the error is returned as-is.
func Parse(res token.TokenizeResult, tab *names.Table) (*bytecode.Module, *token.SyntaxError) {
	p := &Parser{
		toks:       res.Tokens,
		err:        res.Err,
		strLits:    res.StrLits,
		tab:        tab,
		locals:     newLocalTable(),
		globalSeen: make(map[names.ID]bool),
	}
	mod := p.parseModule()
	if mod == nil {
		return nil, p.err
	}
	return mod, nil
}

func (p *Parser) eof() bool {
	return p.toks[p.pos].Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// consume returns the current token and advances, except at EOF where it
// keeps returning the EOF token.
func (p *Parser) consume() token.Token {
	tk := p.toks[p.pos]
	if tk.Type != token.EOF {
		p.pos++
	}
	return tk
}

func (p *Parser) match(t token.Type) bool {
	if p.peek().Type == t {
		p.consume()
		return true
	}
	return false
}

// expect consumes a token and records an error if it is not of the wanted
// kind. The consumed token is returned either way so callers never
// dereference a missing one.
func (p *Parser) expect(t token.Type) token.Token {
	tk := p.consume()
	if tk.Type != t {
		p.errorAt(tk.Pos, "expected %s, got %s", t, tk.Type)
	}
	return tk
}

// errorAt records the first error; later ones are dropped.
func (p *Parser) errorAt(pos token.Position, format string, args ...any) {
	if p.err == nil {
		p.err = token.NewSyntaxError(pos, fmt.Sprintf(format, args...))
	}
}

func (p *Parser) parseModule() *bytecode.Module {
	if p.err != nil {
		return nil
	}

	mod := bytecode.NewModule()
	for !p.eof() {
		tk := p.peek()
		switch tk.Type {
		case token.FUNCTION:
			fn := p.parseFunction()
			if fn == nil {
				return nil
			}
			mod.Functions[fn.Name] = fn
		case token.DECLARE:
			p.errorAt(tk.Pos, "global variable declarations not implemented yet")
			return nil
		case token.IMPORT:
			p.errorAt(tk.Pos, "imports not implemented yet")
			return nil
		default:
			p.errorAt(tk.Pos, "%s can not appear at the top-level of a module", tk.Type)
			return nil
		}
	}

	mod.StrLits = p.strLits
	for _, id := range p.globalRefs {
		if _, isFunc := mod.Functions[id]; !isFunc {
			mod.GlobalNames = append(mod.GlobalNames, id)
		}
	}
	return mod
}

// parseFunction compiles one Function declaration. Parameters claim the
// first local slots in declaration order.
func (p *Parser) parseFunction() *bytecode.Function {
	if p.err != nil {
		return nil
	}
	p.locals = newLocalTable()

	fn := &bytecode.Function{}
	p.expect(token.FUNCTION)
	if p.err != nil {
		return nil
	}

	fn.Name = p.expect(token.IDENT).Name()
	if p.err != nil {
		return nil
	}

	p.expect(token.LPAREN)
	if p.err != nil {
		return nil
	}

	if !p.match(token.RPAREN) {
		for {
			tk := p.expect(token.IDENT)
			if p.err != nil {
				return nil
			}

			id := tk.Name()
			if p.locals.lookup(id) != notFound {
				p.errorAt(tk.Pos, "duplicate local name %s", p.tab.Name(id))
				return nil
			}
			p.locals.add(id)
			fn.ArgCount++
			fn.LocalCount++

			if p.match(token.RPAREN) {
				break
			}
			p.expect(token.COMMA)
			if p.err != nil {
				return nil
			}
		}
	}

	if !p.parseBlock(fn, false) {
		return nil
	}
	return fn
}

// parseBlock compiles statements until End. Inside an if-block it also
// stops, without consuming, at Else or ElseIf (and leaves End for the
// if-else parser to consume). Locals declared inside go out of scope on
// exit but their slots stay allocated.
func (p *Parser) parseBlock(fn *bytecode.Function, ifBlock bool) bool {
	p.locals.enterScope()
	for {
		if p.eof() {
			p.errorAt(p.peek().Pos, "unexpected end of file")
			return false
		}

		if ifBlock {
			t := p.peek().Type
			if t == token.ELSE || t == token.ELSEIF || t == token.END {
				break
			}
		} else if p.match(token.END) {
			break
		}

		if !p.parseStatement(fn) {
			return false
		}
	}
	p.locals.leaveScope()
	return true
}

func (p *Parser) parseStatement(fn *bytecode.Function) bool {
	switch p.peek().Type {
	case token.DECLARE:
		return p.parseDeclare(fn)
	case token.IF:
		return p.parseIfElse(fn)
	case token.RETURN:
		p.consume()
		if p.peek().Type == token.SEMICOLON {
			fn.Emit(bytecode.New(bytecode.RETNULL))
		} else {
			if !p.parseExprEmit(fn, 0) {
				return false
			}
			fn.Emit(bytecode.New(bytecode.RET))
		}
		p.expect(token.SEMICOLON)
		return p.err == nil
	default:
		return p.parseAssign(fn)
	}
}

// parseDeclare compiles a Declare statement. Each initializer is evaluated
// and stored into the fresh slot; a declaration without an initializer
// emits nothing, the slot starts as null under the VM contract.
func (p *Parser) parseDeclare(fn *bytecode.Function) bool {
	p.expect(token.DECLARE)
	if p.err != nil {
		return false
	}

	for {
		tk := p.expect(token.IDENT)
		if p.err != nil {
			return false
		}

		// a name is declared at most once per scope; an inner block may
		// shadow it. The function body shares its scope with the parameters.
		id := tk.Name()
		top := len(p.locals.scopes) - 1
		dup := slices.Contains(p.locals.scopes[top], id)
		if top == 1 {
			dup = dup || slices.Contains(p.locals.scopes[0], id)
		}
		if dup {
			p.errorAt(tk.Pos, "variable %s already declared", p.tab.Name(id))
			return false
		}

		slot := p.locals.add(id)
		fn.LocalCount++

		if p.match(token.ASSIGN) {
			if !p.parseExprEmit(fn, 0) {
				return false
			}
			fn.Emit(bytecode.NewIndex(bytecode.STLOCAL, slot))
		}

		if p.match(token.SEMICOLON) {
			break
		}
		p.expect(token.COMMA)
		if p.err != nil {
			return false
		}
	}
	return true
}

// parseIfElse compiles an If/ElseIf/Else/End chain. Each arm's condition
// leaves conditional jumps to patch: then-jumps target the arm's body,
// else-jumps target the next arm, and end-jumps (emitted after every
// non-final body) target past the whole construct.
func (p *Parser) parseIfElse(fn *bytecode.Function) bool {
	p.expect(token.IF)
	if p.err != nil {
		return false
	}

	var thenJumps, elseJumps []int
	if !p.parseIfCond(fn, &thenJumps, &elseJumps) {
		return false
	}
	p.expect(token.THEN)
	if p.err != nil {
		return false
	}

	for _, idx := range thenJumps {
		fn.Patch(idx)
	}

	if !p.parseBlock(fn, true) {
		return false
	}

	var endJumps []int
	if t := p.peek().Type; t == token.ELSEIF || t == token.ELSE {
		endJumps = append(endJumps, fn.Emit(bytecode.New(bytecode.JMP)))
	}
	for _, idx := range elseJumps {
		fn.Patch(idx)
	}

	for p.match(token.ELSEIF) {
		var armThen, armElse []int
		if !p.parseIfCond(fn, &armThen, &armElse) {
			return false
		}
		p.expect(token.THEN)
		if p.err != nil {
			return false
		}

		for _, idx := range armThen {
			fn.Patch(idx)
		}

		if !p.parseBlock(fn, true) {
			return false
		}
		if t := p.peek().Type; t == token.ELSEIF || t == token.ELSE {
			endJumps = append(endJumps, fn.Emit(bytecode.New(bytecode.JMP)))
		}
		for _, idx := range armElse {
			fn.Patch(idx)
		}
	}

	if p.match(token.ELSE) {
		// a plain block: Else and ElseIf no longer terminate, and it
		// consumes the End itself
		if !p.parseBlock(fn, false) {
			return false
		}
	} else {
		p.expect(token.END)
		if p.err != nil {
			return false
		}
	}

	for _, idx := range endJumps {
		fn.Patch(idx)
	}
	return true
}

// parseIfCond compiles a short-circuit condition chain: sub-conditions at
// precedence above ||, joined by || (JNZ into the then-body) or && (JZ to
// the else target), with a final unconditional JZ after the last one.
func (p *Parser) parseIfCond(fn *bytecode.Function, thenJumps, elseJumps *[]int) bool {
	for {
		if !p.parseExprEmit(fn, precedence[token.OR]+1) {
			return false
		}

		if p.match(token.OR) {
			*thenJumps = append(*thenJumps, fn.Emit(bytecode.New(bytecode.JNZ)))
		} else if p.match(token.AND) {
			*elseJumps = append(*elseJumps, fn.Emit(bytecode.New(bytecode.JZ)))
		}

		if p.peek().Type == token.THEN {
			break
		}
	}

	*elseJumps = append(*elseJumps, fn.Emit(bytecode.New(bytecode.JZ)))
	return true
}

// parseAssign compiles an expression statement or an assignment. The left
// expression is parsed as a tree first so it can be classified before any
// code is emitted.
func (p *Parser) parseAssign(fn *bytecode.Function) bool {
	lhs := p.parseExprTree(0)
	if lhs == nil {
		return false
	}

	if p.match(token.SEMICOLON) {
		// an expression statement; the value is discarded
		lhs.Emit(fn)
		fn.Emit(bytecode.NewCount(bytecode.POPN, 1))
		return true
	}

	if !isAssign[p.peek().Type] {
		p.errorAt(p.peek().Pos, "unexpected token")
		return false
	}

	op := p.consume()
	switch lhs.Lvalue() {
	case ast.LvalueNone:
		p.errorAt(op.Pos, "cannot assign to rvalue")
		return false
	case ast.LvalueCompound:
		p.errorAt(op.Pos, "TDOD: assign to member")
		return false
	}

	if !p.parseExprEmit(fn, 0) {
		return false
	}

	if op.Type == token.ASSIGN {
		lhs.EmitStore(fn)
	} else {
		// current value of the target, reordered under the RHS so the
		// operands hit the arithmetic op in source order
		lhs.Emit(fn)
		fn.Emit(bytecode.New(bytecode.SWP))
		fn.Emit(bytecode.New(binOp[op.Type]))
		lhs.EmitStore(fn)
	}

	p.expect(token.SEMICOLON)
	return p.err == nil
}

// parseExprEmit parses an expression and emits its code immediately.
func (p *Parser) parseExprEmit(fn *bytecode.Function, minPrec int) bool {
	e := p.parseExprTree(minPrec)
	if e == nil {
		return false
	}
	e.Emit(fn)
	return true
}

// parseExprTree parses an expression at or above minPrec into a transient
// tree, deferring emission.
func (p *Parser) parseExprTree(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for precedence[p.peek().Type] >= minPrec {
		op := p.consume()
		switch op.Type {
		case token.LPAREN:
			args, ok := p.parseValueList(token.RPAREN)
			if !ok {
				return nil
			}
			// closing parenthesis consumed by parseValueList
			left = &ast.Call{Fn: left, Args: args}
		case token.LBRACKET:
			key := p.parseExprTree(0)
			if key == nil {
				return nil
			}
			p.expect(token.RBRACKET)
			if p.err != nil {
				return nil
			}
			left = &ast.Index{X: left, Key: key}
		case token.DOT:
			tk := p.expect(token.IDENT)
			if p.err != nil {
				return nil
			}
			left = &ast.Member{X: left, Name: tk.Name()}
		default:
			// ** is right-associative: its right operand reclaims the
			// same precedence; every other operator climbs past it
			next := precedence[op.Type]
			if op.Type != token.POW {
				next++
			}
			right := p.parseExprTree(next)
			if right == nil {
				return nil
			}
			left = &ast.Binary{Op: binOp[op.Type], L: left, R: right}
		}
	}
	return left
}

// parseUnary parses prefix operators, chaining into itself.
func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Type {
	case token.SUB:
		p.consume()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.Unary{Op: bytecode.NEG, X: x}
	case token.NOT, token.TILDE:
		op := p.consume()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.Unary{Op: binOp[op.Type], X: x}
	default:
		return p.parsePrimary()
	}
}

// parseValueList parses a comma-separated expression list terminated by
// term. Trailing commas are accepted.
func (p *Parser) parseValueList(term token.Type) ([]ast.Expr, bool) {
	var values []ast.Expr
	for !p.match(term) {
		e := p.parseExprTree(0)
		if e == nil {
			return nil, false
		}
		values = append(values, e)

		if p.peek().Type != term {
			p.expect(token.COMMA)
			if p.err != nil {
				return nil, false
			}
		}
	}
	return values, true
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.peek().Type {
	case token.LPAREN:
		p.consume()
		e := p.parseExprTree(0)
		if e == nil {
			return nil
		}
		p.expect(token.RPAREN)
		if p.err != nil {
			return nil
		}
		return e
	case token.IDENT:
		tk := p.consume()
		slot := p.locals.lookup(tk.Name())
		if slot == notFound {
			p.recordGlobal(tk.Name())
			return &ast.Global{Name: tk.Name()}
		}
		return &ast.Local{Slot: slot}
	case token.TRUE:
		p.consume()
		return &ast.LitBool{Val: true}
	case token.FALSE:
		p.consume()
		return &ast.LitBool{Val: false}
	case token.NULL:
		p.consume()
		return &ast.Null{}
	case token.INTEGER:
		return &ast.LitInt{Val: p.consume().Integer()}
	case token.NUMBER:
		return &ast.LitNum{Val: p.consume().Number()}
	case token.STRING:
		return &ast.LitStr{Index: p.consume().StrIndex()}
	}
	p.errorAt(p.peek().Pos, "primary expression expected")
	return nil
}

func (p *Parser) recordGlobal(id names.ID) {
	if !p.globalSeen[id] {
		p.globalSeen[id] = true
		p.globalRefs = append(p.globalRefs, id)
	}
}
