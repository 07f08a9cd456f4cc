// Package errors provides the diagnostic type shared by every compiler
// stage (C1-C6): a structured error carrying a source span, a stable kind,
// and a human-readable message, plus source-context formatting for
// driver-facing output.
package errors

import (
	"fmt"
	"strings"

	"github.com/ascript-lang/ascc/internal/token"
)

// Kind classifies a compile-time error. Values are the stable taxonomy of
// the specification; string values are not part of the contract, only the
// Kind identity is.
type Kind string

const (
	UndefinedType         Kind = "undefined_type"
	UnknownField          Kind = "unknown_field"
	UndefinedVariable     Kind = "undefined_variable"
	UndefinedFunction     Kind = "undefined_function"
	DuplicateDefinition   Kind = "duplicate_definition"
	CannotModifyConst     Kind = "cannot_modify_const"
	InvalidOperation      Kind = "invalid_operation"
	InvalidAssignment     Kind = "invalid_assignment"
	InvalidReturn         Kind = "invalid_return"
	TypeMismatch          Kind = "type_mismatch"
	ArgumentCountMismatch Kind = "argument_count_mismatch"
	AmbiguousCall         Kind = "ambiguous_call"
	InstantiateAbstract   Kind = "instantiate_abstract"
	CircularInheritance   Kind = "circular_inheritance"
	ReferenceMismatch     Kind = "reference_mismatch"
	InvalidHandle         Kind = "invalid_handle"
	Other                 Kind = "other"
	Internal              Kind = "internal"
)

// CompilerError is a single diagnostic with enough context to be rendered
// against the original source by a driver.
type CompilerError struct {
	Kind    Kind
	Message string
	Span    token.Span
}

// New creates a CompilerError of the given kind at the given span.
func New(kind Kind, span token.Span, format string, args ...any) *CompilerError {
	return &CompilerError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.String(), e.Message)
}

// Format renders the error with a line of source context and a caret
// pointing at the offending column, the way a CLI driver would print it.
func (e *CompilerError) Format(source string) string {
	var sb strings.Builder

	pos := e.Span.Start
	if pos.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", pos.File, pos.Line, pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", pos.Line, pos.Column)
	}

	if line := sourceLine(source, pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		if pos.Column > 0 {
			sb.WriteString(strings.Repeat(" ", len(prefix)+pos.Column-1))
			sb.WriteString("^\n")
		}
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// List accumulates diagnostics across a batch of independent checks, per
// the propagation policy: one statement or declaration failing does not
// stop the others from being checked.
type List struct {
	Errors []*CompilerError
}

// Add appends a non-nil error to the list.
func (l *List) Add(err *CompilerError) {
	if err == nil {
		return
	}
	l.Errors = append(l.Errors, err)
}

// Addf is a convenience wrapper that builds and appends a CompilerError.
func (l *List) Addf(kind Kind, span token.Span, format string, args ...any) {
	l.Add(New(kind, span, format, args...))
}

// HasErrors reports whether any diagnostic was recorded.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// Err returns the list as an error (nil if empty), suitable for returning
// from functions that otherwise report success via a nil error.
func (l *List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

// Error implements the error interface, joining all messages.
func (l *List) Error() string {
	if len(l.Errors) == 0 {
		return "no errors"
	}
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(l.Errors))
	for i, e := range l.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e.Error())
	}
	return sb.String()
}
