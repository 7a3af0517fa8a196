package token

import "fmt"

// Position is a 1-indexed line/column pair, counted in bytes of the source.
type Position struct {
	Line   int
	Column int
}

// String returns the "line:column" form used in diagnostics.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position points into real source.
func (p Position) IsValid() bool {
	return p.Line > 0
}
