package cypheri

import "fmt"

// SyntaxError represents a lexical or syntactic error in Cypheri source.
// It covers both lexer and parser failures; compilation stops at the first
// one.
type SyntaxError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number, counted in bytes
	Message string // Error description
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}
