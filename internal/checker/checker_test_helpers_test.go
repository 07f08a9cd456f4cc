package checker

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

func intType() types.DataType    { return types.New(types.PrimitiveRef(types.Int32)) }
func floatType() types.DataType  { return types.New(types.PrimitiveRef(types.Float32)) }
func boolType() types.DataType   { return types.New(types.PrimitiveRef(types.Bool)) }
func stringType() types.DataType { return types.New(types.PrimitiveRef(types.String)) }

func span(line int) token.Span {
	return token.Span{Start: token.Position{Line: line, Column: 1}, End: token.Position{Line: line, Column: 1}}
}

func ident(name string, line int) *ast.Identifier {
	return &ast.Identifier{Name: name, Span: span(line)}
}

func intLit(v int64, line int) *ast.IntLiteral {
	return &ast.IntLiteral{Value: v, Span: span(line)}
}

func boolLit(v bool, line int) *ast.BoolLiteral {
	return &ast.BoolLiteral{Value: v, Span: span(line)}
}

// newFreeFunctionChecker builds a Checker for a standalone function with
// the given parameters and return type, with no owning class.
func newFreeFunctionChecker(reg *registry.Registry, returnType types.DataType, params ...registry.Parameter) *Checker {
	fn := &registry.FunctionEntry{Name: "test", Params: params, ReturnType: returnType}
	chunk := bytecode.NewChunk("test")
	return NewChecker(reg, chunk, fn)
}

// newMethodChecker builds a Checker for a method owned by owner.
func newMethodChecker(reg *registry.Registry, owner *registry.TypeEntry, isConst bool, returnType types.DataType, params ...registry.Parameter) *Checker {
	fn := &registry.FunctionEntry{
		Name: "test", Params: params, ReturnType: returnType,
		HasOwner: true, Owner: owner.Hash,
		Traits: registry.Traits{IsConst: isConst},
	}
	chunk := bytecode.NewChunk("test")
	return NewChecker(reg, chunk, fn)
}

func mustRegisterType(t *testing.T, reg *registry.Registry, entry *registry.TypeEntry) *registry.TypeEntry {
	t.Helper()
	if err := reg.RegisterType(entry, token.Span{}); err != nil {
		t.Fatalf("RegisterType(%s): %v", entry.Name, err)
	}
	return entry
}

func mustRegisterFunction(t *testing.T, reg *registry.Registry, entry *registry.FunctionEntry) *registry.FunctionEntry {
	t.Helper()
	if err := reg.RegisterFunction(entry, token.Span{}); err != nil {
		t.Fatalf("RegisterFunction(%s): %v", entry.Name, err)
	}
	return entry
}

func mustRegisterGlobal(t *testing.T, reg *registry.Registry, entry *registry.GlobalEntry) *registry.GlobalEntry {
	t.Helper()
	if err := reg.RegisterGlobal(entry, token.Span{}); err != nil {
		t.Fatalf("RegisterGlobal(%s): %v", entry.Name, err)
	}
	return entry
}

func requireNoErrors(t *testing.T, errs *errors.List) {
	t.Helper()
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func requireErrorKind(t *testing.T, errs *errors.List, kind errors.Kind) {
	t.Helper()
	for _, e := range errs.Errors {
		if e.Kind == kind {
			return
		}
	}
	t.Fatalf("expected an error of kind %s, got: %v", kind, errs)
}

func lastOp(chunk *bytecode.Chunk) bytecode.OpCode {
	if len(chunk.Code) == 0 {
		return 0
	}
	return chunk.Code[len(chunk.Code)-1].Op
}

func ops(chunk *bytecode.Chunk) []bytecode.OpCode {
	out := make([]bytecode.OpCode, len(chunk.Code))
	for i, in := range chunk.Code {
		out[i] = in.Op
	}
	return out
}

func containsOp(chunk *bytecode.Chunk, op bytecode.OpCode) bool {
	for _, in := range chunk.Code {
		if in.Op == op {
			return true
		}
	}
	return false
}
