package token

import "fmt"

// SyntaxError is the single error record produced by the lexer and parser.
// The first error wins; compilation stops at it.
type SyntaxError struct {
	Message string
	Pos     Position
}

// NewSyntaxError creates a SyntaxError at the given position.
func NewSyntaxError(pos Position, message string) *SyntaxError {
	return &SyntaxError{Message: message, Pos: pos}
}

// Error returns a formatted message with position information.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Message)
}

// TokenizeResult is the lexer's output: the token stream (terminated by an
// EOF token on success), the decoded string-literal pool, and the first
// scan error if any. When Err is set the tokens produced so far are still
// present but no EOF token is appended, and parsing must not proceed.
type TokenizeResult struct {
	Tokens  []Token
	StrLits []string
	Err     *SyntaxError
}
