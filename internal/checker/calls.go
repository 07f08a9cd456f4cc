package checker

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/overload"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

// checkArgs emits every argument expression check-against its resolved
// parameter type, synthesising omitted trailing arguments from the
// parameter's default expression per spec.md §4.4.6.
func (c *Checker) checkArgs(fn *registry.FunctionEntry, args []ast.Expression, line int) {
	for i, p := range fn.Params {
		if i < len(args) {
			c.CheckAgainst(args[i], p.Type)
			continue
		}
		c.emitDefault(p, line)
	}
}

// emitDefault emits the constant expression stored on p.Default. Only the
// constant forms accepted by spec.md §4.4.6 (literal, unary -/+/~ on a
// constant, binary +-*/%&|^<<>> on constants, or all-constant ternary) can
// appear here — registerMethod/registerFreeFunction (internal/resolver)
// reject anything else, and any parameter without all subsequent
// parameters defaulted too, when the function is registered.
func (c *Checker) emitDefault(p registry.Parameter, line int) {
	if p.Default == nil {
		c.Errs.Addf(errors.ArgumentCountMismatch, atLine(line), "missing required argument %q", p.Name)
		return
	}
	expr, ok := p.Default.(ast.Expression)
	if !ok {
		c.Errs.Addf(errors.Internal, atLine(line), "default for %q is not an expression", p.Name)
		return
	}
	c.CheckAgainst(expr, p.Type)
}

// peekArgTypes infers args against a throwaway chunk and discarded
// diagnostics, just to learn their types for overload resolution: real
// emission (with the caller's diagnostics) happens once more, for keeps,
// in checkArgs once the single matching overload is known. Argument
// expressions at this layer are pure with respect to Checker state beyond
// Chunk and Errs, so inferring them twice duplicates no visible effect.
func (c *Checker) peekArgTypes(args []ast.Expression) []types.DataType {
	scratch := &Checker{
		Reg: c.Reg, Chunk: bytecode.NewChunk(""), Errs: &errors.List{},
		Function: c.Function, locals: c.locals, scopeDepth: c.scopeDepth, nextSlot: c.nextSlot,
	}
	out := make([]types.DataType, len(args))
	for i, a := range args {
		out[i] = scratch.Infer(a).Type
	}
	return out
}

func (c *Checker) checkCall(e *ast.CallExpr) ExprContext {
	ident, ok := e.Callee.(*ast.Identifier)
	if !ok {
		c.Errs.Addf(errors.Internal, e.Span, "unsupported call target %T", e.Callee)
		return ExprContext{}
	}
	if lv := c.lookupLocal(ident.Name); lv != nil {
		c.Errs.Addf(errors.UndefinedFunction, e.Span, "%q is a variable, not a function", ident.Name)
		return ExprContext{}
	}
	candidates := c.Reg.OverloadsOf(0, ident.Name)
	if len(candidates) == 0 {
		c.Errs.Addf(errors.UndefinedFunction, e.Span, "undefined function %q", ident.Name)
		return ExprContext{}
	}
	result := c.resolveOverload(candidates, c.peekArgTypes(e.Args), false)
	return c.emitResolvedCall(result, e.Args, bytecode.OpCallFunction, e.Span)
}

func (c *Checker) checkMethodCall(e *ast.MethodCallExpr) ExprContext {
	objCtx := c.Infer(e.Object)
	owner, ok := c.ownerOf(objCtx.Type)
	if !ok {
		c.Errs.Addf(errors.UndefinedFunction, e.Span, "type %s has no methods", objCtx.Type)
		return ExprContext{}
	}
	methodIDs, ok := owner.Methods[e.Name]
	if !ok {
		c.Errs.Addf(errors.UndefinedFunction, e.Span, "no method %q on %s", e.Name, objCtx.Type)
		return ExprContext{}
	}
	candidates := c.functionEntries(methodIDs)
	result := c.resolveOverload(candidates, c.peekArgTypes(e.Args), objCtx.IsConst)
	return c.emitResolvedCall(result, e.Args, bytecode.OpCallMethod, e.Span)
}

// emitResolvedCall re-checks args against the resolved overload's
// parameter types (emitting real code onto c.Chunk) and emits the call
// opcode, given the object (and any index arguments) are already on the
// stack below where the arguments will land.
func (c *Checker) emitResolvedCall(result overload.Result, args []ast.Expression, op bytecode.OpCode, span token.Span) ExprContext {
	line := span.Start.Line
	switch result.Status {
	case overload.NoMatch:
		c.Errs.Addf(errors.UndefinedFunction, span, "no overload accepts the given arguments")
		return ExprContext{}
	case overload.Ambiguous:
		c.Errs.Addf(errors.AmbiguousCall, span, "call is ambiguous among %d overloads", len(result.Candidates))
		return ExprContext{}
	}
	fn := result.Function
	c.checkArgs(fn, args, line)
	c.Chunk.Write(bytecode.WithHash(op, fn.Hash, int32(len(fn.Params)), line))
	// A ref-returning call's result is read-only here: assigning through
	// it (`f() = x`) would need resolveAssignTarget to special-case a bare
	// call expression the way checkIndexAssign special-cases IndexExpr,
	// which it does not yet. The result is reported as an ordinary Rvalue
	// until that target shape is added.
	return ExprContext{Type: fn.ReturnType}
}

func (c *Checker) checkConstructorCall(e *ast.ConstructorCallExpr) ExprContext {
	ident, ok := e.Type.(*ast.Identifier)
	if !ok {
		c.Errs.Addf(errors.Internal, e.Span, "unsupported constructor target %T", e.Type)
		return ExprContext{}
	}
	entry, ok := c.Reg.LookupType(ident.Name, "")
	if !ok {
		c.Errs.Addf(errors.UndefinedType, e.Span, "undefined type %q", ident.Name)
		return ExprContext{}
	}
	dt := types.New(types.EntryRef(uint64(entry.Hash)))
	// spec.md §4.4.8: abstract rejects AsVariable; a construction target
	// additionally needs construct (and, unless nocount, addref/release)
	// registered.
	if !c.CheckTypeUsage(dt, AsVariable, e.Span) {
		return ExprContext{}
	}
	if !c.CheckConstructible(dt, e.Span) {
		return ExprContext{}
	}
	candidates := c.functionEntries(entry.Methods["construct"])
	result := c.resolveOverload(candidates, c.peekArgTypes(e.Args), false)
	resultCtx := c.emitResolvedCall(result, e.Args, bytecode.OpCallMethod, e.Span)
	if result.Status == overload.Resolved {
		resultCtx.Type = dt.WithHandle()
		resultCtx.Kind = Rvalue
	}
	return resultCtx
}

func (c *Checker) checkIndex(e *ast.IndexExpr) ExprContext {
	objCtx := c.Infer(e.Object)
	owner, ok := c.ownerOf(objCtx.Type)
	if !ok {
		c.Errs.Addf(errors.InvalidOperation, e.Span, "type %s does not support indexing", objCtx.Type)
		return ExprContext{}
	}
	methodIDs, ok := owner.Methods["opIndex"]
	if !ok {
		c.Errs.Addf(errors.InvalidOperation, e.Span, "type %s has no opIndex", objCtx.Type)
		return ExprContext{}
	}
	candidates := c.functionEntries(methodIDs)
	result := c.resolveOverload(candidates, c.peekArgTypes([]ast.Expression{e.Index}), objCtx.IsConst)
	ctx := c.emitResolvedCall(result, []ast.Expression{e.Index}, bytecode.OpCallMethod, e.Span)
	if result.Status == overload.Resolved && !result.Function.Traits.IsConst {
		ctx.Kind = IndexRefLV
		ctx.IndexOp = result.Function
		ctx.IndexCount = 1
	}
	return ctx
}
