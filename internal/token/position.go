// Package token defines source positions and spans shared by every stage of
// the compiler. The lexer and parser are out of scope for this module, but
// the AST and diagnostics they would produce still carry these positions.
package token

import "fmt"

// Position identifies a single point in a source file.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// String renders the position as "file:line:column", omitting the file
// when empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Offset == 0
}

// Span is a half-open range [Start, End) of source positions.
type Span struct {
	Start Position
	End   Position
}

// String renders the span using its start position.
func (s Span) String() string {
	return s.Start.String()
}
