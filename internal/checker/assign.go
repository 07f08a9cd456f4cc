package checker

import (
	"strings"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/overload"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// checkAssign implements assignment-target analysis (spec.md §4.4.2) and
// emission (§4.4.3, §4.4.4). Indexed targets need the right-hand side's
// type before an opIndexSet overload can be resolved, so they are handled
// entirely separately from the four non-indexed target kinds.
func (c *Checker) checkAssign(e *ast.AssignExpr) ExprContext {
	if idx, ok := e.Target.(*ast.IndexExpr); ok {
		return c.checkIndexAssign(idx, e)
	}

	target := c.resolveAssignTarget(e.Target)
	if !target.IsLValue() {
		c.Errs.Addf(errors.InvalidAssignment, e.Span, "left-hand side of assignment is not assignable")
		return ExprContext{}
	}
	if target.IsConst {
		c.Errs.Addf(errors.CannotModifyConst, e.Span, "cannot assign to a const target")
		return ExprContext{}
	}

	line := e.Span.Start.Line
	if e.Op == "" {
		c.emitSimpleAssign(target, e.Value, line)
		return ExprContext{Type: target.Type}
	}

	bareOp, ok := strings.CutSuffix(e.Op, "=")
	if !ok {
		c.Errs.Addf(errors.Internal, e.Span, "malformed compound assignment operator %q", e.Op)
		return ExprContext{}
	}
	c.emitCompoundAssign(target, bareOp, e.Value, line)
	return ExprContext{Type: target.Type}
}

// resolveAssignTarget classifies e.Target into one of Local/Global/Field/
// VirtualProperty, emitting whatever address-side code the kind needs
// (GetThis for an implicit field, the object sub-expression for an
// explicit member) but never the read side (no GetField/getter call):
// the assignment emitters supply their own read when the target kind
// requires one (a field read for a compound op) or none (simple
// assignment to a field needs only the object reference, not its value).
func (c *Checker) resolveAssignTarget(expr ast.Expression) ExprContext {
	var target ExprContext
	switch t := expr.(type) {
	case *ast.Identifier:
		if lv := c.lookupLocal(t.Name); lv != nil {
			target = ExprContext{Type: lv.typ, Kind: LocalLV, IsConst: lv.isConst, LocalSlot: lv.slot}
			break
		}
		if g, ok := c.Reg.GetGlobal(t.Name); ok {
			target = ExprContext{Type: g.Type, Kind: GlobalLV, IsConst: g.IsConst, Global: g}
			break
		}
		if c.Function.HasOwner {
			if owner, ok := c.Reg.GetType(c.Function.Owner); ok {
				if idx, prop, ok := findField(owner, t.Name); ok {
					c.Chunk.Write(bytecode.Simple(bytecode.OpGetThis, t.Span.Start.Line))
					target = targetFromProperty(idx, prop, true, c.thisConst())
					break
				}
			}
		}
		c.Errs.Addf(errors.UndefinedVariable, t.Span, "undefined identifier %q", t.Name)
		return ExprContext{}
	case *ast.MemberExpr:
		objCtx := c.Infer(t.Object)
		owner, ok := c.ownerOf(objCtx.Type)
		if !ok {
			c.Errs.Addf(errors.UnknownField, t.Span, "type %s has no members", objCtx.Type)
			return ExprContext{}
		}
		idx, prop, ok := findField(owner, t.Name)
		if !ok {
			c.Errs.Addf(errors.UnknownField, t.Span, "no field or property %q on %s", t.Name, objCtx.Type)
			return ExprContext{}
		}
		target = targetFromProperty(idx, prop, false, objCtx.IsConst)
	default:
		c.Errs.Addf(errors.InvalidAssignment, expr.Pos(), "expression is not assignable")
		return ExprContext{}
	}
	// spec.md §4.4.8: a scoped type may not appear on the left of an
	// assignment, regardless of which target kind produced it.
	c.CheckTypeUsage(target.Type, InAssignment, expr.Pos())
	return target
}

// targetFromProperty classifies a resolved field/property into a FieldLV
// or VirtualPropertyLV target. A virtual property with no setter, or one
// reached through a const receiver, is marked IsConst so checkAssign
// rejects it uniformly with CannotModifyConst.
func targetFromProperty(idx int32, prop *registry.Property, viaThis, receiverConst bool) ExprContext {
	if prop.IsVirtual() {
		return ExprContext{
			Type: prop.Type, Kind: VirtualPropertyLV,
			IsConst: receiverConst || prop.Setter == nil,
			Getter:  prop.Getter, Setter: prop.Setter,
		}
	}
	return ExprContext{
		Type: prop.Type, Kind: FieldLV,
		IsConst: receiverConst, FieldIndex: idx, ViaThis: viaThis,
	}
}

// emitSimpleAssign emits `target = value`. The object reference (for a
// Field or VirtualProperty target) is already on the stack beneath where
// value's code will push its result, per spec.md §4.4.3.
func (c *Checker) emitSimpleAssign(target ExprContext, value ast.Expression, line int) {
	switch target.Kind {
	case LocalLV:
		c.CheckAgainst(value, target.Type)
		c.Chunk.Write(bytecode.WithArg(bytecode.OpSetLocal, target.LocalSlot, line))
	case GlobalLV:
		c.CheckAgainst(value, target.Type)
		c.Chunk.Write(bytecode.WithHash(bytecode.OpSetGlobal, globalHash(target.Global.Name), 0, line))
	case FieldLV:
		c.CheckAgainst(value, target.Type)
		c.Chunk.Write(bytecode.WithArg(bytecode.OpSetField, target.FieldIndex, line))
	case VirtualPropertyLV:
		c.CheckAgainst(value, target.Type)
		c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, *target.Setter, 1, line))
	}
}

// emitCompoundAssign emits `target op= value` by loading the target's
// current value, applying op, and storing the result back, per spec.md
// §4.4.4. Field and VirtualProperty targets need the object reference
// duplicated first: one copy feeds the read, the other survives for the
// write.
func (c *Checker) emitCompoundAssign(target ExprContext, bareOp string, value ast.Expression, line int) {
	switch target.Kind {
	case LocalLV:
		c.Chunk.Write(bytecode.WithArg(bytecode.OpGetLocal, target.LocalSlot, line))
		result := c.applyCompoundOp(target.Type, target.IsConst, bareOp, value, line)
		c.emitConversion(result, target.Type, line)
		c.Chunk.Write(bytecode.WithArg(bytecode.OpSetLocal, target.LocalSlot, line))
	case GlobalLV:
		c.Chunk.Write(bytecode.WithHash(bytecode.OpGetGlobal, globalHash(target.Global.Name), 0, line))
		result := c.applyCompoundOp(target.Type, target.IsConst, bareOp, value, line)
		c.emitConversion(result, target.Type, line)
		c.Chunk.Write(bytecode.WithHash(bytecode.OpSetGlobal, globalHash(target.Global.Name), 0, line))
	case FieldLV:
		c.Chunk.Write(bytecode.Simple(bytecode.OpDup, line))
		c.Chunk.Write(bytecode.WithArg(bytecode.OpGetField, target.FieldIndex, line))
		result := c.applyCompoundOp(target.Type, target.IsConst, bareOp, value, line)
		c.emitConversion(result, target.Type, line)
		c.Chunk.Write(bytecode.WithArg(bytecode.OpSetField, target.FieldIndex, line))
	case VirtualPropertyLV:
		if target.Getter == nil {
			c.Errs.Addf(errors.InvalidOperation, atLine(line), "property has no getter; compound assignment requires one")
			return
		}
		c.Chunk.Write(bytecode.Simple(bytecode.OpDup, line))
		c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, *target.Getter, 0, line))
		result := c.applyCompoundOp(target.Type, target.IsConst, bareOp, value, line)
		c.emitConversion(result, target.Type, line)
		c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, *target.Setter, 1, line))
	}
}

// checkIndexAssign implements the IndexSetter and IndexRef styles of
// spec.md §4.4.3/§4.4.4, for `obj[index…] = value` and `obj[index…] op=
// value`. Resolution against opIndexSet cannot happen until value's type
// is known, so unlike the non-indexed targets this path interleaves
// resolution with emission rather than resolving up front.
func (c *Checker) checkIndexAssign(idx *ast.IndexExpr, e *ast.AssignExpr) ExprContext {
	line := e.Span.Start.Line
	objCtx := c.Infer(idx.Object)
	owner, ok := c.ownerOf(objCtx.Type)
	if !ok {
		c.Errs.Addf(errors.InvalidOperation, idx.Span, "type %s does not support indexing", objCtx.Type)
		return ExprContext{}
	}
	indexCtx := c.Infer(idx.Index)

	if setterIDs, ok := owner.Methods["opIndexSet"]; ok {
		return c.emitIndexSetterAssign(owner, setterIDs, objCtx, indexCtx, e, line)
	}
	if opIndexIDs, ok := owner.Methods["opIndex"]; ok {
		return c.emitIndexRefAssign(opIndexIDs, objCtx, indexCtx, e, line)
	}
	c.Errs.Addf(errors.InvalidOperation, idx.Span, "type %s supports neither opIndexSet nor a reference-returning opIndex", objCtx.Type)
	return ExprContext{}
}

// emitIndexSetterAssign implements the IndexSetter style of spec.md
// §4.4.3/§4.4.4: `container[i] = value` or `container[i] op= value`
// through an opIndexSet accessor (with an optional opIndex getter for the
// compound form). Object and index are already on the stack, indexCtx on
// top.
func (c *Checker) emitIndexSetterAssign(owner *registry.TypeEntry, setterIDs []ids.FunctionId, objCtx, indexCtx ExprContext, e *ast.AssignExpr, line int) ExprContext {
	setterCandidates := c.functionEntries(setterIDs)

	if e.Op == "" {
		valueCtx := c.Infer(e.Value)
		result := c.resolveOverload(setterCandidates, []types.DataType{indexCtx.Type, valueCtx.Type}, objCtx.IsConst)
		return c.finishIndexSetterCall(result, 2, e)
	}

	// Compound: duplicate the (object, index) pair so one copy feeds the
	// getter call and the other survives for the setter call.
	c.Chunk.Write(bytecode.WithArg(bytecode.OpPick, 1, line))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpPick, 1, line))

	getterIDs, hasGetter := owner.Methods["opIndex"]
	if !hasGetter {
		c.Errs.Addf(errors.InvalidOperation, e.Span, "type has no opIndex getter; compound indexed assignment requires one")
		return ExprContext{}
	}
	getterResult := c.resolveOverload(c.functionEntries(getterIDs), []types.DataType{indexCtx.Type}, objCtx.IsConst)
	if getterResult.Status != overload.Resolved {
		c.Errs.Addf(errors.UndefinedFunction, e.Span, "no opIndex overload accepts the given index")
		return ExprContext{}
	}
	c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, getterResult.Function.Hash, 1, line))

	bareOp, _ := strings.CutSuffix(e.Op, "=")
	resultType := c.applyCompoundOp(getterResult.Function.ReturnType, false, bareOp, e.Value, line)

	result := c.resolveOverload(setterCandidates, []types.DataType{indexCtx.Type, resultType}, objCtx.IsConst)
	return c.finishIndexSetterCall(result, 2, e)
}

func (c *Checker) finishIndexSetterCall(result overload.Result, argCount int32, span ast.Expression) ExprContext {
	switch result.Status {
	case overload.NoMatch:
		c.Errs.Addf(errors.UndefinedFunction, span.Pos(), "no opIndexSet overload accepts the given index and value")
		return ExprContext{}
	case overload.Ambiguous:
		c.Errs.Addf(errors.AmbiguousCall, span.Pos(), "indexed assignment is ambiguous among %d overloads", len(result.Candidates))
		return ExprContext{}
	}
	if result.Function.Traits.IsConst {
		c.Errs.Addf(errors.CannotModifyConst, span.Pos(), "opIndexSet overload is const")
		return ExprContext{}
	}
	line := span.Pos().Start.Line
	c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, result.Function.Hash, argCount, line))
	return ExprContext{Type: result.Function.ReturnType}
}

// emitIndexRefAssign implements the IndexRef style: a non-const opIndex
// returning a reference is called once, and the assignment stores through
// it via SetField(0) — the literal opcode sequence spec.md's S5 scenario
// and §4.4.4's IndexRef compound text prescribe, independent of whether
// the ordinary Field-assignment convention would need the same Swap.
func (c *Checker) emitIndexRefAssign(opIndexIDs []ids.FunctionId, objCtx, indexCtx ExprContext, e *ast.AssignExpr, line int) ExprContext {
	candidates := nonConstOnly(c.functionEntries(opIndexIDs))
	result := c.resolveOverload(candidates, []types.DataType{indexCtx.Type}, false)
	if result.Status != overload.Resolved {
		c.Errs.Addf(errors.UndefinedFunction, e.Span, "no non-const opIndex overload accepts the given index")
		return ExprContext{}
	}
	c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, result.Function.Hash, 1, line))
	pointee := result.Function.ReturnType

	if e.Op == "" {
		c.CheckAgainst(e.Value, pointee)
		c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
		c.Chunk.Write(bytecode.WithArg(bytecode.OpSetField, 0, line))
		return ExprContext{Type: pointee}
	}

	c.Chunk.Write(bytecode.Simple(bytecode.OpDup, line))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpGetField, 0, line))
	bareOp, _ := strings.CutSuffix(e.Op, "=")
	resultType := c.applyCompoundOp(pointee, false, bareOp, e.Value, line)
	c.emitConversion(resultType, pointee, line)
	c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
	c.Chunk.Write(bytecode.WithArg(bytecode.OpSetField, 0, line))
	return ExprContext{Type: pointee}
}

func nonConstOnly(fns []*registry.FunctionEntry) []*registry.FunctionEntry {
	out := make([]*registry.FunctionEntry, 0, len(fns))
	for _, fn := range fns {
		if !fn.Traits.IsConst {
			out = append(out, fn)
		}
	}
	return out
}
