package checker

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
)

func exprStmt(e ast.Expression, line int) *ast.ExprStmt {
	return &ast.ExprStmt{Expr: e, Span: span(line)}
}

func TestCheckVarDeclInfersAutoType(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckBody(&ast.BlockStmt{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "x", Init: intLit(1, 1), Span: span(1)},
		},
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	if lv := c.lookupLocal("x"); lv != nil {
		t.Error("expected x to fall out of scope once the block closes")
	}
}

func TestCheckVarDeclExplicitTypeChecksInitialiser(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckBody(&ast.BlockStmt{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "x", Type: &ast.TypeName{Name: "int", Span: span(1)}, Init: intLit(1, 1), Span: span(1)},
			exprStmt(ident("x", 2), 2),
		},
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
}

func TestCheckVarDeclDuplicateInSameScopeReportsError(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckBody(&ast.BlockStmt{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "x", Init: intLit(1, 1), Span: span(1)},
			&ast.VarDecl{Name: "x", Init: intLit(2, 2), Span: span(2)},
		},
		Span: span(1),
	})

	requireErrorKind(t, c.Errs, errors.DuplicateDefinition)
}

func TestCheckIfEmitsJumpIfFalse(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.IfStmt{
		Cond: boolLit(true, 1),
		Then: exprStmt(intLit(1, 1), 1),
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	if !containsOp(c.Chunk, bytecode.OpJumpIfFalse) {
		t.Errorf("expected a JumpIfFalse, got %v", ops(c.Chunk))
	}
}

func TestCheckIfElseEmitsBothBranches(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.IfStmt{
		Cond: boolLit(true, 1),
		Then: exprStmt(intLit(1, 1), 1),
		Else: exprStmt(intLit(2, 1), 1),
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	gotOps := ops(c.Chunk)
	var sawJump, sawJumpIfFalse bool
	for _, op := range gotOps {
		if op == bytecode.OpJump {
			sawJump = true
		}
		if op == bytecode.OpJumpIfFalse {
			sawJumpIfFalse = true
		}
	}
	if !sawJump || !sawJumpIfFalse {
		t.Errorf("expected both an unconditional and a conditional jump, got %v", gotOps)
	}
}

func TestCheckWhileEmitsLoop(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.WhileStmt{
		Cond: boolLit(true, 1),
		Body: exprStmt(intLit(1, 1), 1),
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	if !containsOp(c.Chunk, bytecode.OpLoop) {
		t.Errorf("expected a backward Loop instruction, got %v", ops(c.Chunk))
	}
}

func TestCheckBreakOutsideLoopReportsError(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.BreakStmt{Span: span(1)})

	requireErrorKind(t, c.Errs, errors.InvalidOperation)
}

func TestCheckBreakInsideWhilePatchesToLoopEnd(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.WhileStmt{
		Cond: boolLit(true, 1),
		Body: &ast.BlockStmt{Statements: []ast.Statement{&ast.BreakStmt{Span: span(1)}}, Span: span(1)},
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	if !containsOp(c.Chunk, bytecode.OpBreak) {
		t.Errorf("expected a Break instruction, got %v", ops(c.Chunk))
	}
	for i, in := range c.Chunk.Code {
		if in.Op == bytecode.OpBreak && c.Chunk.JumpTarget(i) != len(c.Chunk.Code) {
			t.Errorf("expected the Break to jump to the loop end %d, got %d", len(c.Chunk.Code), c.Chunk.JumpTarget(i))
		}
	}
}

func TestCheckContinueOutsideLoopReportsError(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.ContinueStmt{Span: span(1)})

	requireErrorKind(t, c.Errs, errors.InvalidOperation)
}

func TestCheckForScopesInitVariableToLoop(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.ForStmt{
		Init: &ast.VarDecl{Name: "i", Init: intLit(0, 1), Span: span(1)},
		Cond: ident("i", 1),
		Body: exprStmt(ident("i", 1), 1),
		Span: span(1),
	})

	if lv := c.lookupLocal("i"); lv != nil {
		t.Error("expected the for-loop's init variable to go out of scope after the loop")
	}
}

func TestCheckForWithAllClausesNilStillLoops(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.ForStmt{
		Body: &ast.BlockStmt{Statements: []ast.Statement{&ast.BreakStmt{Span: span(1)}}, Span: span(1)},
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	if !containsOp(c.Chunk, bytecode.OpLoop) {
		t.Errorf("expected a Loop instruction even with no clauses, got %v", ops(c.Chunk))
	}
}

func TestCheckSwitchDispatchesOnEachCase(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.SwitchStmt{
		Subject: intLit(1, 1),
		Cases: []*ast.CaseClause{
			{Values: []ast.Expression{intLit(1, 1)}, Body: []ast.Statement{exprStmt(intLit(10, 1), 1)}, Span: span(1)},
			{Values: []ast.Expression{intLit(2, 1)}, Body: []ast.Statement{exprStmt(intLit(20, 1), 1)}, Span: span(1)},
			{Body: []ast.Statement{exprStmt(intLit(99, 1), 1)}, Span: span(1)}, // default
		},
		Span: span(1),
	})

	requireNoErrors(t, c.Errs)
	gotOps := ops(c.Chunk)
	count := 0
	for _, op := range gotOps {
		if op == bytecode.OpEq {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected one equality test per non-default case (2), got %d in %v", count, gotOps)
	}
}

func TestCheckReturnEmitsReturnOpcode(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.ReturnStmt{Value: intLit(1, 1), Span: span(1)})

	requireNoErrors(t, c.Errs)
	if lastOp(c.Chunk) != bytecode.OpReturn {
		t.Errorf("expected a trailing Return, got %v", ops(c.Chunk))
	}
}

func TestCheckReturnReferenceToLocalRejected(t *testing.T) {
	reg := registry.New()
	owner := mustRegisterType(t, reg, registry.NewTypeEntry("TThing", "", registry.KindClass))
	c := newMethodChecker(reg, owner, false, intType())
	c.Function.ReturnFlags = registry.ReturnRef

	c.BeginScope()
	c.DeclareLocal("local", intType(), false, span(1))
	c.CheckStatement(&ast.ReturnStmt{Value: ident("local", 2), Span: span(2)})
	c.EndScope()

	requireErrorKind(t, c.Errs, errors.InvalidReturn)
}

func TestCheckReturnReferenceToThisFieldAllowedFromNonConstMethod(t *testing.T) {
	reg := registry.New()
	owner := mustRegisterType(t, reg, registry.NewTypeEntry("TThing", "", registry.KindClass))
	owner.Properties = append(owner.Properties, &registry.Property{Name: "f", Type: intType()})
	c := newMethodChecker(reg, owner, false, intType())
	c.Function.ReturnFlags = registry.ReturnRef

	c.CheckStatement(&ast.ReturnStmt{
		Value: &ast.MemberExpr{Object: &ast.ThisExpr{Span: span(1)}, Name: "f", Span: span(1)},
		Span:  span(1),
	})

	requireNoErrors(t, c.Errs)
}

func TestCheckReturnReferenceToThisFieldRejectedFromConstMethodUnlessConstRef(t *testing.T) {
	reg := registry.New()
	owner := mustRegisterType(t, reg, registry.NewTypeEntry("TThing", "", registry.KindClass))
	owner.Properties = append(owner.Properties, &registry.Property{Name: "f", Type: intType()})
	c := newMethodChecker(reg, owner, true, intType())
	c.Function.ReturnFlags = registry.ReturnRef

	c.CheckStatement(&ast.ReturnStmt{
		Value: &ast.MemberExpr{Object: &ast.ThisExpr{Span: span(1)}, Name: "f", Span: span(1)},
		Span:  span(1),
	})

	requireErrorKind(t, c.Errs, errors.ReferenceMismatch)
}

func TestCheckTryEmitsTryCatchFinallyBodies(t *testing.T) {
	reg := registry.New()
	c := newFreeFunctionChecker(reg, intType())

	c.CheckStatement(&ast.TryStmt{
		Try: &ast.BlockStmt{Statements: []ast.Statement{exprStmt(intLit(1, 1), 1)}, Span: span(1)},
		Catches: []*ast.CatchClause{
			{Name: "e", Body: &ast.BlockStmt{Statements: []ast.Statement{exprStmt(intLit(2, 1), 1)}, Span: span(1)}, Span: span(1)},
		},
		Finally: &ast.BlockStmt{Statements: []ast.Statement{exprStmt(intLit(3, 1), 1)}, Span: span(1)},
		Span:    span(1),
	})

	requireNoErrors(t, c.Errs)
	count := 0
	for _, op := range ops(c.Chunk) {
		if op == bytecode.OpConstant {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected try+catch+finally bodies to all emit (3 constants), got %d", count)
	}
}
