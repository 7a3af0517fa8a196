package cypheri

import (
	"sort"

	"github.com/szdytom/cypheri/internal/bytecode"
	"github.com/szdytom/cypheri/internal/names"
)

// Module is a compiled compilation unit: named bytecode functions, the
// string-literal pool, and the module-level global names. It is immutable
// and safe for concurrent reads.
type Module struct {
	bc     *bytecode.Module
	names  *names.Table
	source string
}

// Disassemble returns a deterministic human-readable listing of every
// function in the module.
func (m *Module) Disassemble() string {
	return bytecode.Disassemble(m.bc, m.names)
}

// Source returns the original source text.
func (m *Module) Source() string {
	return m.source
}

// FunctionNames returns the names of the module's functions, sorted.
func (m *Module) FunctionNames() []string {
	fns := make([]string, 0, len(m.bc.Functions))
	for id := range m.bc.Functions {
		fns = append(fns, m.names.Name(id))
	}
	sort.Strings(fns)
	return fns
}

// GlobalNames returns the names of module-level globals referenced by the
// code, in first-reference order. Function names are not included.
func (m *Module) GlobalNames() []string {
	globals := make([]string, len(m.bc.GlobalNames))
	for i, id := range m.bc.GlobalNames {
		globals[i] = m.names.Name(id)
	}
	return globals
}

// StringLiterals returns the module's string-literal pool in index order.
func (m *Module) StringLiterals() []string {
	lits := make([]string, len(m.bc.StrLits))
	copy(lits, m.bc.StrLits)
	return lits
}
