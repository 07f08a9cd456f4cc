package checker

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

// Infer checks expr with no expected type, emitting its value onto the
// chunk and returning its context.
func (c *Checker) Infer(expr ast.Expression) ExprContext {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return c.checkIntLiteral(e)
	case *ast.FloatLiteral:
		return c.checkFloatLiteral(e)
	case *ast.StringLiteral:
		return c.checkStringLiteral(e)
	case *ast.BoolLiteral:
		return c.checkBoolLiteral(e)
	case *ast.NullLiteral:
		return c.checkNullLiteral(e)
	case *ast.ThisExpr:
		return c.checkThis(e)
	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.MemberExpr:
		return c.checkMember(e)
	case *ast.MethodCallExpr:
		return c.checkMethodCall(e)
	case *ast.CallExpr:
		return c.checkCall(e)
	case *ast.ConstructorCallExpr:
		return c.checkConstructorCall(e)
	case *ast.IndexExpr:
		return c.checkIndex(e)
	case *ast.UnaryExpr:
		return c.checkUnary(e)
	case *ast.HandleOfExpr:
		return c.checkHandleOf(e)
	case *ast.BinaryExpr:
		return c.checkBinary(e)
	case *ast.TernaryExpr:
		return c.checkTernary(e)
	case *ast.CastExpr:
		return c.checkCast(e)
	case *ast.AssignExpr:
		return c.checkAssign(e)
	default:
		c.Errs.Addf(errors.Internal, expr.Pos(), "unhandled expression node %T", expr)
		return ExprContext{}
	}
}

// CheckAgainst checks expr the way Infer does, then inserts an implicit
// conversion if expr's type differs from want and the conversion is
// allowed; it reports TypeMismatch otherwise.
func (c *Checker) CheckAgainst(expr ast.Expression, want types.DataType) ExprContext {
	ctx := c.Infer(expr)
	if ctx.Type.Equals(want) {
		return ctx
	}
	if !c.Reg.CanImplicitlyConvert(ctx.Type, want) {
		c.Errs.Addf(errors.TypeMismatch, expr.Pos(), "cannot convert %s to %s", ctx.Type, want)
		return ctx
	}
	c.emitConversion(ctx.Type, want, expr.Pos().Start.Line)
	ctx.Type = want
	ctx.Kind = Rvalue
	return ctx
}

func (c *Checker) emitConversion(from, to types.DataType, line int) {
	if !from.Ref.IsPrimitive || !to.Ref.IsPrimitive {
		return
	}
	c.Chunk.Write(bytecode.Convert(from.Ref.Primitive, to.Ref.Primitive, line))
}

func (c *Checker) checkIntLiteral(e *ast.IntLiteral) ExprContext {
	// Suffix lexing (u, l, ll, ul, ull) is a parser concern out of this
	// module's scope; an unsuffixed literal is a 32-bit signed int per
	// spec.md §4.4.1, which this AST node always represents.
	typ := types.New(types.PrimitiveRef(types.Int32))
	idx := c.Chunk.AddConstant(bytecode.IntConstant(types.Int32, e.Value))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpConstant, idx, e.Span.Start.Line))
	return ExprContext{Type: typ}
}

func (c *Checker) checkFloatLiteral(e *ast.FloatLiteral) ExprContext {
	kind := types.Float32
	if e.Double {
		kind = types.Float64
	}
	typ := types.New(types.PrimitiveRef(kind))
	idx := c.Chunk.AddConstant(bytecode.FloatConstant(kind, e.Value))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpConstant, idx, e.Span.Start.Line))
	return ExprContext{Type: typ}
}

func (c *Checker) checkStringLiteral(e *ast.StringLiteral) ExprContext {
	typ := types.New(types.PrimitiveRef(types.String))
	idx := c.Chunk.AddConstant(bytecode.StringConstant(e.Value))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpConstant, idx, e.Span.Start.Line))
	return ExprContext{Type: typ}
}

func (c *Checker) checkBoolLiteral(e *ast.BoolLiteral) ExprContext {
	typ := types.New(types.PrimitiveRef(types.Bool))
	idx := c.Chunk.AddConstant(bytecode.BoolConstant(e.Value))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpConstant, idx, e.Span.Start.Line))
	return ExprContext{Type: typ}
}

func (c *Checker) checkNullLiteral(e *ast.NullLiteral) ExprContext {
	c.Chunk.Write(bytecode.Simple(bytecode.OpPushZero, e.Span.Start.Line))
	return ExprContext{Type: types.New(types.EntryRef(uint64(ids.Empty))).WithHandle()}
}

func (c *Checker) checkThis(e *ast.ThisExpr) ExprContext {
	if !c.Function.HasOwner {
		c.Errs.Addf(errors.InvalidOperation, e.Span, "'this' is not valid outside a method")
		return ExprContext{}
	}
	c.Chunk.Write(bytecode.Simple(bytecode.OpGetThis, e.Span.Start.Line))
	typ := types.New(types.EntryRef(uint64(c.Function.Owner))).WithHandle()
	if c.Function.Traits.IsConst {
		typ = typ.WithConst()
	}
	return ExprContext{Type: typ, Kind: Rvalue, IsConst: c.Function.Traits.IsConst}
}

func (c *Checker) checkIdentifier(e *ast.Identifier) ExprContext {
	if lv := c.lookupLocal(e.Name); lv != nil {
		c.Chunk.Write(bytecode.WithArg(bytecode.OpGetLocal, lv.slot, e.Span.Start.Line))
		return ExprContext{Type: lv.typ, Kind: LocalLV, IsConst: lv.isConst, LocalSlot: lv.slot}
	}
	if g, ok := c.Reg.GetGlobal(e.Name); ok {
		c.Chunk.Write(bytecode.WithHash(bytecode.OpGetGlobal, globalHash(e.Name), 0, e.Span.Start.Line))
		return ExprContext{Type: g.Type, Kind: GlobalLV, IsConst: g.IsConst, Global: g}
	}
	if c.Function.HasOwner {
		if owner, ok := c.Reg.GetType(c.Function.Owner); ok {
			if idx, prop, ok := findField(owner, e.Name); ok {
				c.Chunk.Write(bytecode.Simple(bytecode.OpGetThis, e.Span.Start.Line))
				ctx := c.emitFieldAccess(idx, prop, true, e.Span.Start.Line)
				if c.thisConst() {
					ctx.IsConst = true
				}
				return ctx
			}
		}
	}
	c.Errs.Addf(errors.UndefinedVariable, e.Span, "undefined identifier %q", e.Name)
	return ExprContext{}
}

// globalHash derives the stable hash GetGlobal/SetGlobal key on. Globals
// are not registered with a precomputed hash (GlobalEntry has no Hash
// field — it is keyed by name in the registry), so the checker derives
// one deterministically from the name at every use site.
func globalHash(name string) ids.FunctionId {
	return ids.HashQualifiedName("global::" + name)
}

// findField looks up name as a direct or virtual property of owner,
// returning its slot index in Properties declaration order.
func findField(owner *registry.TypeEntry, name string) (int32, *registry.Property, bool) {
	for i, p := range owner.Properties {
		if p.Name == name {
			return int32(i), p, true
		}
	}
	return 0, nil, false
}

// emitFieldAccess finishes a field/property access whose object reference
// is already on the stack (or, if viaThis, was just pushed by GetThis).
// For a direct field it emits GetField; for a virtual property it emits
// the getter call.
func (c *Checker) emitFieldAccess(idx int32, prop *registry.Property, viaThis bool, line int) ExprContext {
	if prop.IsVirtual() {
		if prop.Getter == nil {
			c.Errs.Addf(errors.InvalidOperation, atLine(line), "property %q is write-only", prop.Name)
			return ExprContext{Type: prop.Type}
		}
		c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, *prop.Getter, 0, line))
		return ExprContext{Type: prop.Type, Kind: VirtualPropertyLV, IsConst: prop.Setter == nil, Getter: prop.Getter, Setter: prop.Setter}
	}
	c.Chunk.Write(bytecode.WithArg(bytecode.OpGetField, idx, line))
	return ExprContext{Type: prop.Type, Kind: FieldLV, FieldIndex: idx, ViaThis: viaThis}
}

func (c *Checker) checkMember(e *ast.MemberExpr) ExprContext {
	objCtx := c.Infer(e.Object)
	owner, ok := c.ownerOf(objCtx.Type)
	if !ok {
		c.Errs.Addf(errors.UnknownField, e.Span, "type %s has no members", objCtx.Type)
		return ExprContext{}
	}
	idx, prop, ok := findField(owner, e.Name)
	if !ok {
		c.Errs.Addf(errors.UnknownField, e.Span, "no field or property %q on %s", e.Name, objCtx.Type)
		return ExprContext{}
	}
	ctx := c.emitFieldAccess(idx, prop, false, e.Span.Start.Line)
	if objCtx.IsConst {
		ctx.IsConst = true
	}
	return ctx
}

// ownerOf resolves dt's underlying class/interface TypeEntry, if any.
func (c *Checker) ownerOf(dt types.DataType) (*registry.TypeEntry, bool) {
	if dt.Ref.IsPrimitive {
		return nil, false
	}
	return c.Reg.GetType(ids.TypeHash(dt.Ref.Hash))
}

func (c *Checker) checkCast(e *ast.CastExpr) ExprContext {
	target := c.resolveTypeName(e.Target)
	_ = c.Infer(e.Operand)
	if e.AsHandle {
		target = target.WithHandle()
	}
	return ExprContext{Type: target}
}

func (c *Checker) resolveTypeName(tn *ast.TypeName) types.DataType {
	var dt types.DataType
	for k := types.Void; k <= types.String; k++ {
		if k.String() == tn.Name {
			dt = types.New(types.PrimitiveRef(k))
			break
		}
	}
	if !dt.Ref.IsPrimitive {
		entry, ok := c.Reg.LookupType(tn.Name, "")
		if !ok {
			return types.DataType{}
		}
		dt = types.New(types.EntryRef(uint64(entry.Hash)))
	}
	if tn.IsConst {
		dt = dt.WithConst()
	}
	if tn.IsHandle {
		dt = dt.WithHandle()
	}
	if tn.IsArray {
		dt = dt.WithArray()
	}
	return dt
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) ExprContext {
	ctx := c.Infer(e.Operand)
	line := e.Span.Start.Line
	switch e.Op {
	case "-":
		c.Chunk.Write(bytecode.Typed(bytecode.OpNeg, primitiveKind(ctx.Type), line))
	case "~":
		c.Chunk.Write(bytecode.Typed(bytecode.OpBitNot, primitiveKind(ctx.Type), line))
	case "!":
		// Lowered as an equality test against false: the VM has no
		// dedicated logical-not opcode, and bitwise-not on a bool
		// representation would not reliably flip truthiness.
		idx := c.Chunk.AddConstant(bytecode.BoolConstant(false))
		c.Chunk.Write(bytecode.WithArg(bytecode.OpConstant, idx, line))
		c.Chunk.Write(bytecode.Typed(bytecode.OpEq, types.Bool, line))
	case "+":
		// Unary plus is a no-op once the operand is checked.
	default:
		c.Errs.Addf(errors.InvalidOperation, e.Span, "unsupported unary operator %q", e.Op)
	}
	return ExprContext{Type: ctx.Type}
}

func primitiveKind(dt types.DataType) types.PrimitiveKind {
	if dt.Ref.IsPrimitive {
		return dt.Ref.Primitive
	}
	return types.Void
}

func (c *Checker) checkHandleOf(e *ast.HandleOfExpr) ExprContext {
	ctx := c.Infer(e.Operand)
	// spec.md §4.4.8: @expr is rejected outright against a nohandle type.
	c.CheckTypeUsage(ctx.Type, AsHandle, e.Span)
	return ExprContext{Type: ctx.Type.WithHandle()}
}

func (c *Checker) checkTernary(e *ast.TernaryExpr) ExprContext {
	cond := types.New(types.PrimitiveRef(types.Bool))
	c.CheckAgainst(e.Cond, cond)
	elseJump := c.Chunk.EmitJump(bytecode.OpJumpIfFalse, e.Span.Start.Line)
	c.Chunk.Write(bytecode.Simple(bytecode.OpPop, e.Span.Start.Line))
	thenCtx := c.Infer(e.Then)
	endJump := c.Chunk.EmitJump(bytecode.OpJump, e.Span.Start.Line)
	_ = c.Chunk.PatchJump(elseJump)
	c.Chunk.Write(bytecode.Simple(bytecode.OpPop, e.Span.Start.Line))
	elseCtx := c.CheckAgainst(e.Else, thenCtx.Type)
	_ = c.Chunk.PatchJump(endJump)
	return ExprContext{Type: elseCtx.Type}
}

// atLine builds a Span carrying only a line number, for diagnostics
// raised mid-emission where only the originating line is at hand.
func atLine(line int) token.Span {
	return token.Span{Start: token.Position{Line: line}}
}
