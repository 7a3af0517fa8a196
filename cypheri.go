package cypheri

import (
	"github.com/szdytom/cypheri/internal/lexer"
	"github.com/szdytom/cypheri/internal/names"
	"github.com/szdytom/cypheri/internal/parser"
)

// Version is the cypheri version string.
const Version = "0.1.0"

// Compile tokenizes and parses a Cypheri module. The returned Module owns
// its bytecode, string literals and name table; the error, if non-nil, is a
// *SyntaxError describing the first failure.
//
// Example:
//
//	mod, err := cypheri.Compile(`Function main() Return 0; End`)
func Compile(source string) (*Module, error) {
	tab := names.NewTable()
	res := lexer.Tokenize([]byte(source), tab)
	bc, serr := parser.Parse(res, tab)
	if serr != nil {
		return nil, &SyntaxError{
			Line:    serr.Pos.Line,
			Column:  serr.Pos.Column,
			Message: serr.Message,
		}
	}
	return &Module{bc: bc, names: tab, source: source}, nil
}

// MustCompile is like Compile but panics if the source cannot be compiled.
// It simplifies initialization of global module variables.
func MustCompile(source string) *Module {
	mod, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return mod
}
