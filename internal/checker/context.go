// Package checker implements the Expression Checker/Emitter (C5) and the
// Statement Emitter (C6): given a function body's AST and a completed
// registry, it type-checks every expression and statement and emits the
// corresponding bytecode.Chunk.
package checker

import (
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// Kind classifies the result of checking an expression: whether it names a
// location that can be assigned to, and which location it is.
type Kind int

const (
	// Rvalue is a value with no assignable location (a literal, a binary
	// operator result, a non-ref-returning call, ...).
	Rvalue Kind = iota
	// LocalLV is a local variable slot.
	LocalLV
	// GlobalLV is a script global.
	GlobalLV
	// FieldLV is a field of an object already on the stack (or of the
	// implicit this).
	FieldLV
	// VirtualPropertyLV is a getter/setter-backed property.
	VirtualPropertyLV
	// IndexSetterLV is a container accessed through opIndexSet-style
	// setter/getter methods.
	IndexSetterLV
	// IndexRefLV is a container accessed through a non-const opIndex that
	// returns a reference.
	IndexRefLV
)

// ExprContext is the result of checking one expression: its type, and—if
// it names an assignable location—enough information to emit an
// assignment or compound assignment against it without re-walking the
// expression.
type ExprContext struct {
	Type types.DataType
	Kind Kind

	// IsConst marks an lvalue that cannot be assigned to: the variable,
	// field, or property itself was declared const, or is reached through
	// a const receiver.
	IsConst bool

	// LocalSlot is valid when Kind == LocalLV.
	LocalSlot int32

	// Global is valid when Kind == GlobalLV.
	Global *registry.GlobalEntry

	// FieldIndex and ViaThis are valid when Kind == FieldLV. ViaThis
	// records that the field was reached through the implicit receiver:
	// the object reference on the stack was pushed by a GetThis rather
	// than by an explicit object expression.
	FieldIndex int32
	ViaThis    bool

	// Getter and Setter are valid when Kind == VirtualPropertyLV.
	Getter *ids.FunctionId
	Setter *ids.FunctionId

	// IndexSetter, IndexGetter, and IndexCount are valid when Kind ==
	// IndexSetterLV: IndexGetter may be nil if the property is
	// write-only.
	IndexSetter *registry.FunctionEntry
	IndexGetter *registry.FunctionEntry
	IndexCount  int

	// IndexOp and IndexCount are valid when Kind == IndexRefLV: a single
	// non-const opIndex overload returning a reference.
	IndexOp *registry.FunctionEntry
}

// IsLValue reports whether ctx names an assignable location at all (before
// the const/mutability check that checkAssign performs).
func (ctx ExprContext) IsLValue() bool {
	return ctx.Kind != Rvalue
}
