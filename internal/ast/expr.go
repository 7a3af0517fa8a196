// Package ast holds the transient expression nodes the parser builds before
// it knows whether an expression is loaded or stored to. There is no
// statement AST: statements are emitted directly. The node set exists so
// the left-hand side of a potential assignment can be classified (lvalue or
// not, simple or compound) before any code for it is emitted.
package ast

import (
	"github.com/szdytom/cypheri/internal/bytecode"
	"github.com/szdytom/cypheri/internal/names"
)

// LvalueKind classifies an expression as an assignment target.
type LvalueKind int

const (
	// LvalueNone marks expressions that denote no storage location.
	LvalueNone LvalueKind = iota
	// LvalueSimple marks bare local or global references.
	LvalueSimple
	// LvalueCompound marks member and index accesses.
	LvalueCompound
)

// Expr is an expression node. Emit appends the code that leaves the
// expression's value on the stack. EmitStore appends the store that
// consumes the top of stack; it must only be called on LvalueSimple nodes.
type Expr interface {
	Emit(f *bytecode.Function)
	EmitStore(f *bytecode.Function)
	Lvalue() LvalueKind
}

// rvalue provides the default lvalue classification and store behavior.
type rvalue struct{}

func (rvalue) Lvalue() LvalueKind { return LvalueNone }
func (rvalue) EmitStore(*bytecode.Function) {
	panic("ast: store into rvalue")
}

// LitInt is an integer literal.
type LitInt struct {
	rvalue
	Val uint64
}

func (e *LitInt) Emit(f *bytecode.Function) {
	f.Emit(bytecode.NewInt(bytecode.LII, e.Val))
}

// LitNum is a number literal.
type LitNum struct {
	rvalue
	Val float64
}

func (e *LitNum) Emit(f *bytecode.Function) {
	f.Emit(bytecode.NewFloat(bytecode.LIN, e.Val))
}

// LitStr is a string literal referencing the module string pool.
type LitStr struct {
	rvalue
	Index int
}

func (e *LitStr) Emit(f *bytecode.Function) {
	f.Emit(bytecode.NewIndex(bytecode.LISTR, e.Index))
}

// LitBool is a TRUE or FALSE literal.
type LitBool struct {
	rvalue
	Val bool
}

func (e *LitBool) Emit(f *bytecode.Function) {
	f.Emit(bytecode.NewBool(bytecode.LIBOOL, e.Val))
}

// Null is the NULL literal.
type Null struct {
	rvalue
}

func (e *Null) Emit(f *bytecode.Function) {
	f.Emit(bytecode.New(bytecode.LINULL))
}

// Local is a reference to a local slot. It is a simple lvalue.
type Local struct {
	Slot int
}

func (e *Local) Emit(f *bytecode.Function) {
	f.Emit(bytecode.NewIndex(bytecode.LDLOCAL, e.Slot))
}

func (e *Local) EmitStore(f *bytecode.Function) {
	f.Emit(bytecode.NewIndex(bytecode.STLOCAL, e.Slot))
}

func (e *Local) Lvalue() LvalueKind { return LvalueSimple }

// Global is a reference to a module-level name. It is a simple lvalue.
type Global struct {
	Name names.ID
}

func (e *Global) Emit(f *bytecode.Function) {
	f.Emit(bytecode.NewName(bytecode.LDGLOBAL, e.Name))
}

func (e *Global) EmitStore(f *bytecode.Function) {
	f.Emit(bytecode.NewName(bytecode.STGLOBAL, e.Name))
}

func (e *Global) Lvalue() LvalueKind { return LvalueSimple }

// Unary applies a single-operand instruction to its child.
type Unary struct {
	rvalue
	Op bytecode.Opcode
	X  Expr
}

func (e *Unary) Emit(f *bytecode.Function) {
	e.X.Emit(f)
	f.Emit(bytecode.New(e.Op))
}

// Binary applies a two-operand instruction to its children.
type Binary struct {
	rvalue
	Op   bytecode.Opcode
	L, R Expr
}

func (e *Binary) Emit(f *bytecode.Function) {
	e.L.Emit(f)
	e.R.Emit(f)
	f.Emit(bytecode.New(e.Op))
}

// Call is a function call: arguments in order, then the callee, then CALL
// with the argument count.
type Call struct {
	rvalue
	Fn   Expr
	Args []Expr
}

func (e *Call) Emit(f *bytecode.Function) {
	for _, arg := range e.Args {
		arg.Emit(f)
	}
	e.Fn.Emit(f)
	f.Emit(bytecode.NewCount(bytecode.CALL, len(e.Args)))
}

// Member is a named property access (x.name). It is a compound lvalue;
// stores are not implemented by the code generator.
type Member struct {
	X    Expr
	Name names.ID
}

func (e *Member) Emit(f *bytecode.Function) {
	e.X.Emit(f)
	f.Emit(bytecode.NewName(bytecode.GET, e.Name))
}

func (e *Member) EmitStore(*bytecode.Function) {
	panic("ast: member store not implemented")
}

func (e *Member) Lvalue() LvalueKind { return LvalueCompound }

// Index is a dynamic subscript access (x[key]). It is a compound lvalue;
// stores are not implemented by the code generator.
type Index struct {
	X   Expr
	Key Expr
}

func (e *Index) Emit(f *bytecode.Function) {
	e.X.Emit(f)
	e.Key.Emit(f)
	f.Emit(bytecode.New(bytecode.GETDNY))
}

func (e *Index) EmitStore(*bytecode.Function) {
	panic("ast: index store not implemented")
}

func (e *Index) Lvalue() LvalueKind { return LvalueCompound }
