package checker

import (
	"fmt"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// CheckBody checks every statement of a function body in its own scope,
// releasing that scope's locals at the end. The function's parameter
// slots are not released here — that scope belongs to NewChecker/the
// caller.
func (c *Checker) CheckBody(body *ast.BlockStmt) {
	c.CheckBlock(body)
}

// CheckBlock pushes a scope, checks every statement in order, and pops the
// scope, releasing any locals declared within it.
func (c *Checker) CheckBlock(b *ast.BlockStmt) {
	c.BeginScope()
	for _, s := range b.Statements {
		c.CheckStatement(s)
	}
	c.EndScope()
}

// CheckStatement dispatches one statement node to its checker/emitter.
func (c *Checker) CheckStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		c.CheckBlock(s)
	case *ast.ExprStmt:
		c.checkExprStmt(s)
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.IfStmt:
		c.checkIf(s)
	case *ast.WhileStmt:
		c.checkWhile(s)
	case *ast.DoWhileStmt:
		c.checkDoWhile(s)
	case *ast.ForStmt:
		c.checkFor(s)
	case *ast.SwitchStmt:
		c.checkSwitch(s)
	case *ast.BreakStmt:
		c.checkBreak(s)
	case *ast.ContinueStmt:
		c.checkContinue(s)
	case *ast.ReturnStmt:
		c.checkReturn(s)
	case *ast.TryStmt:
		c.checkTry(s)
	default:
		c.Errs.Addf(errors.Internal, stmt.Pos(), "unhandled statement node %T", stmt)
	}
}

func (c *Checker) checkExprStmt(s *ast.ExprStmt) {
	c.Infer(s.Expr)
	// The assignment emitters consume the stored value; nothing is left
	// on the stack to discard.
	if _, isAssign := s.Expr.(*ast.AssignExpr); isAssign {
		return
	}
	c.Chunk.Write(bytecode.Simple(bytecode.OpPop, s.Span.Start.Line))
}

// checkVarDecl registers a local in the current scope and emits its
// initialiser. A nil Type requests `auto` inference from Init's checked
// type (spec.md §4.5); a non-nil Type check-checks Init against it.
func (c *Checker) checkVarDecl(s *ast.VarDecl) {
	line := s.Span.Start.Line
	var declType types.DataType
	var slot int32

	if s.Type == nil {
		if s.Init == nil {
			c.Errs.Addf(errors.Internal, s.Span, "variable %q has no type and no initialiser to infer one from", s.Name)
			return
		}
		ctx := c.Infer(s.Init)
		declType = ctx.Type
		slot = c.DeclareLocal(s.Name, declType, s.IsConst, s.Span)
	} else {
		declType = c.resolveTypeName(s.Type)
		// spec.md §4.4.8: an abstract type cannot be used as a variable's
		// declared type.
		c.CheckTypeUsage(declType, AsVariable, s.Span)
		slot = c.DeclareLocal(s.Name, declType, s.IsConst, s.Span)
		if s.Init != nil {
			c.CheckAgainst(s.Init, declType)
		} else {
			c.Chunk.Write(bytecode.Simple(bytecode.OpPushZero, line))
		}
	}
	c.Chunk.Write(bytecode.WithArg(bytecode.OpSetLocal, slot, line))
}

func (c *Checker) checkIf(s *ast.IfStmt) {
	boolType := types.New(types.PrimitiveRef(types.Bool))
	line := s.Span.Start.Line
	c.CheckAgainst(s.Cond, boolType)
	elseJump := c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
	c.CheckStatement(s.Then)
	if s.Else == nil {
		_ = c.Chunk.PatchJump(elseJump)
		return
	}
	endJump := c.Chunk.EmitJump(bytecode.OpJump, line)
	_ = c.Chunk.PatchJump(elseJump)
	c.CheckStatement(s.Else)
	_ = c.Chunk.PatchJump(endJump)
}

func (c *Checker) checkWhile(s *ast.WhileStmt) {
	boolType := types.New(types.PrimitiveRef(types.Bool))
	line := s.Span.Start.Line
	lc := c.pushLoop(true)

	loopStart := len(c.Chunk.Code)
	c.CheckAgainst(s.Cond, boolType)
	exitJump := c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
	c.CheckStatement(s.Body)
	for _, j := range lc.continueJumps {
		_ = c.Chunk.PatchJump(j)
	}
	_ = c.Chunk.EmitLoop(loopStart, line)
	_ = c.Chunk.PatchJump(exitJump)

	c.popLoop()
	for _, j := range lc.breakJumps {
		_ = c.Chunk.PatchJump(j)
	}
}

func (c *Checker) checkDoWhile(s *ast.DoWhileStmt) {
	boolType := types.New(types.PrimitiveRef(types.Bool))
	line := s.Span.Start.Line
	lc := c.pushLoop(true)

	loopStart := len(c.Chunk.Code)
	c.CheckStatement(s.Body)
	for _, j := range lc.continueJumps {
		_ = c.Chunk.PatchJump(j)
	}
	c.CheckAgainst(s.Cond, boolType)
	exitJump := c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
	_ = c.Chunk.EmitLoop(loopStart, line)
	_ = c.Chunk.PatchJump(exitJump)

	c.popLoop()
	for _, j := range lc.breakJumps {
		_ = c.Chunk.PatchJump(j)
	}
}

// checkFor introduces its own scope so an init-clause variable is visible
// only within the loop, per spec.md §4.5.
func (c *Checker) checkFor(s *ast.ForStmt) {
	line := s.Span.Start.Line
	c.BeginScope()
	defer c.EndScope()

	if s.Init != nil {
		c.CheckStatement(s.Init)
	}
	lc := c.pushLoop(true)

	loopStart := len(c.Chunk.Code)
	var exitJump int
	hasCond := s.Cond != nil
	if hasCond {
		c.CheckAgainst(s.Cond, types.New(types.PrimitiveRef(types.Bool)))
		exitJump = c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
	}
	c.CheckStatement(s.Body)
	for _, j := range lc.continueJumps {
		_ = c.Chunk.PatchJump(j)
	}
	if s.Post != nil {
		c.CheckStatement(s.Post)
	}
	_ = c.Chunk.EmitLoop(loopStart, line)
	if hasCond {
		_ = c.Chunk.PatchJump(exitJump)
	}

	c.popLoop()
	for _, j := range lc.breakJumps {
		_ = c.Chunk.PatchJump(j)
	}
}

// checkSwitch evaluates the subject once into a synthetic local, then
// tests it against each case's constant values in turn; fall-through is
// explicit, so every case body ends by falling to the switch's end rather
// than into the next case (spec.md §4.5).
func (c *Checker) checkSwitch(s *ast.SwitchStmt) {
	line := s.Span.Start.Line
	c.BeginScope()
	defer c.EndScope()

	subjCtx := c.Infer(s.Subject)
	slot := c.DeclareLocal(fmt.Sprintf("$switch%d", line), subjCtx.Type, true, s.Span)
	c.Chunk.Write(bytecode.WithArg(bytecode.OpSetLocal, slot, line))

	lc := c.pushLoop(false)
	var endJumps []int
	for _, clause := range s.Cases {
		if len(clause.Values) == 0 {
			for _, st := range clause.Body {
				c.CheckStatement(st)
			}
			continue
		}
		// Each value is tested in turn; a match falls straight through into
		// the body (no OpJumpIfTrue exists, so a match is the fallthrough
		// path and a miss is the explicit jump). A miss on any value but the
		// last jumps past just that unconditional jump into the next test;
		// a miss on the last value jumps past the body entirely.
		var bodyJumps []int
		var skip int
		for i, v := range clause.Values {
			c.Chunk.Write(bytecode.WithArg(bytecode.OpGetLocal, slot, line))
			c.CheckAgainst(v, subjCtx.Type)
			c.Chunk.Write(bytecode.Typed(bytecode.OpEq, primitiveKind(subjCtx.Type), line))
			missJump := c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
			if i < len(clause.Values)-1 {
				bodyJumps = append(bodyJumps, c.Chunk.EmitJump(bytecode.OpJump, line))
				_ = c.Chunk.PatchJump(missJump)
			} else {
				skip = missJump
			}
		}
		for _, j := range bodyJumps {
			_ = c.Chunk.PatchJump(j)
		}
		for _, st := range clause.Body {
			c.CheckStatement(st)
		}
		endJumps = append(endJumps, c.Chunk.EmitJump(bytecode.OpJump, line))
		_ = c.Chunk.PatchJump(skip)
	}
	for _, j := range endJumps {
		_ = c.Chunk.PatchJump(j)
	}
	c.popLoop()
	for _, j := range lc.breakJumps {
		_ = c.Chunk.PatchJump(j)
	}
}

func (c *Checker) checkBreak(s *ast.BreakStmt) {
	if len(c.loopStack) == 0 {
		c.Errs.Addf(errors.InvalidOperation, s.Span, "break outside of a loop or switch")
		return
	}
	lc := c.loopStack[len(c.loopStack)-1]
	lc.breakJumps = append(lc.breakJumps, c.Chunk.EmitJump(bytecode.OpBreak, s.Span.Start.Line))
}

func (c *Checker) checkContinue(s *ast.ContinueStmt) {
	var lc *loopContext
	for i := len(c.loopStack) - 1; i >= 0; i-- {
		if c.loopStack[i].isLoop {
			lc = c.loopStack[i]
			break
		}
	}
	if lc == nil {
		c.Errs.Addf(errors.InvalidOperation, s.Span, "continue outside of a loop")
		return
	}
	lc.continueJumps = append(lc.continueJumps, c.Chunk.EmitJump(bytecode.OpJump, s.Span.Start.Line))
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	line := s.Span.Start.Line
	want := c.Function.ReturnType
	if s.Value == nil {
		if want.Ref.IsPrimitive && want.Ref.Primitive != types.Void {
			c.Errs.Addf(errors.InvalidReturn, s.Span, "missing return value for non-void function")
		}
		c.Chunk.Write(bytecode.Simple(bytecode.OpReturn, line))
		return
	}
	c.CheckAgainst(s.Value, want)
	if c.Function.ReturnFlags.Has(registry.ReturnRef) && !c.AllowUnsafeReferences {
		c.checkReferenceReturnSafety(s.Value)
	}
	c.Chunk.Write(bytecode.Simple(bytecode.OpReturn, line))
}

// checkReferenceReturnSafety implements spec.md §4.4.7: a ref-returning
// function's return expression must name a location that outlives the
// call. A local variable never qualifies and is reported as InvalidReturn
// (spec.md §8 property 8). `this` itself is always accepted. A field of
// this, a parameter, or a global qualify only when either the enclosing
// method is non-const or
// the return type is itself const-ref, and a disqualified one of those is
// reported as ReferenceMismatch rather than InvalidReturn — it is a
// const-compatibility failure, not an escaping-local failure.
func (c *Checker) checkReferenceReturnSafety(expr ast.Expression) {
	constCompatible := !c.Function.Traits.IsConst || c.Function.ReturnFlags.Has(registry.ReturnConstRef)

	switch e := expr.(type) {
	case *ast.Identifier:
		if lv := c.lookupLocal(e.Name); lv != nil {
			if e.Name == "this" {
				return
			}
			if lv.depth == 0 {
				// A depth-0 local is a declared parameter (NewChecker seeds
				// this and every parameter at depth 0).
				if !constCompatible {
					c.Errs.Addf(errors.ReferenceMismatch, e.Span, "cannot return a reference to %q from a const method", e.Name)
				}
				return
			}
			c.Errs.Addf(errors.InvalidReturn, e.Span, "cannot return a reference to local variable %q", e.Name)
			return
		}
		if _, ok := c.Reg.GetGlobal(e.Name); ok {
			if !constCompatible {
				c.Errs.Addf(errors.ReferenceMismatch, e.Span, "cannot return a reference to global %q from a const method", e.Name)
			}
			return
		}
		if !constCompatible {
			c.Errs.Addf(errors.ReferenceMismatch, e.Span, "cannot return a reference to field %q from a const method", e.Name)
		}
		return
	case *ast.MemberExpr:
		if _, ok := e.Object.(*ast.ThisExpr); ok {
			if !constCompatible {
				c.Errs.Addf(errors.ReferenceMismatch, e.Span, "cannot return a reference to this.%s from a const method", e.Name)
			}
			return
		}
		c.Errs.Addf(errors.ReferenceMismatch, e.Span, "reference return must name this.field, a parameter, or a global")
	default:
		c.Errs.Addf(errors.ReferenceMismatch, expr.Pos(), "reference return must name this.field, a parameter, or a global")
	}
}

// checkTry emits the try block, each catch clause's body in its own
// scope binding the caught exception, and the finally block if present.
// Exception dispatch itself (matching a thrown value's type against each
// clause's Type) is an engine/runtime concern below this layer; this
// checker only validates and emits the bodies involved.
func (c *Checker) checkTry(s *ast.TryStmt) {
	c.CheckBlock(s.Try)
	for _, clause := range s.Catches {
		c.BeginScope()
		if clause.Type != nil && clause.Name != "" {
			c.DeclareLocal(clause.Name, c.resolveTypeName(clause.Type), false, clause.Span)
		}
		for _, st := range clause.Body.Statements {
			c.CheckStatement(st)
		}
		c.EndScope()
	}
	if s.Finally != nil {
		c.CheckBlock(s.Finally)
	}
}
