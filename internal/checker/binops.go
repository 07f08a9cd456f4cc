package checker

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/overload"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

// opMethodNames maps an operator token to the engine-convention operator
// method name(s) tried when an operand is a class/interface type: base is
// the method invoked on the left operand with the right as its argument,
// reverse is the `_r` form invoked on the right operand (with the left as
// argument) when the left operand has no matching overload, per spec.md
// §4.4.5's MethodOnLeft/MethodOnRight shapes.
var opMethodNames = map[string]struct{ base, reverse string }{
	"+":  {"opAdd", "opAdd_r"},
	"-":  {"opSub", "opSub_r"},
	"*":  {"opMul", "opMul_r"},
	"/":  {"opDiv", "opDiv_r"},
	"%":  {"opMod", "opMod_r"},
	"&":  {"opAnd", "opAnd_r"},
	"|":  {"opOr", "opOr_r"},
	"^":  {"opXor", "opXor_r"},
	"<<": {"opShl", "opShl_r"},
	">>": {"opShr", "opShr_r"},
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) ExprContext {
	if e.Op == "is" || e.Op == "!is" {
		return c.checkHandleComparison(e)
	}
	if logicalOps[e.Op] {
		return c.checkLogical(e)
	}

	leftCtx := c.Infer(e.Left)
	rightCtx := c.Infer(e.Right)
	line := e.Span.Start.Line

	if !leftCtx.Type.Ref.IsPrimitive || !rightCtx.Type.Ref.IsPrimitive {
		return c.checkOperatorMethodBinary(e, leftCtx, rightCtx)
	}

	common := c.commonNumericType(leftCtx.Type, rightCtx.Type)
	// The right operand is on top of the stack; converting it in place
	// needs no swap. The left operand sits one slot below it, so
	// converting it requires the Swap;Convert;Swap dance of spec.md
	// §4.4.5 to bring it to the top and back.
	if !leftCtx.Type.Equals(common) {
		c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
		c.emitConversion(leftCtx.Type, common, line)
		c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
	}
	c.emitConversion(rightCtx.Type, common, line)

	if comparisonOps[e.Op] {
		c.Chunk.Write(bytecode.Typed(comparisonOpcode(e.Op), primitiveKind(common), line))
		return ExprContext{Type: types.New(types.PrimitiveRef(types.Bool))}
	}

	c.Chunk.Write(bytecode.Typed(arithmeticOpcode(e.Op), primitiveKind(common), line))
	return ExprContext{Type: common}
}

// commonNumericType computes the promoted type two numeric operands share:
// an identical type needs no promotion; otherwise the registry's
// implicit-conversion table (integer widening, int-to-float,
// float32-to-float64) names exactly one direction that is valid, and that
// wider type is the common one.
func (c *Checker) commonNumericType(a, b types.DataType) types.DataType {
	if a.Equals(b) {
		return a
	}
	if c.Reg.CanImplicitlyConvert(a, b) {
		return b
	}
	return a
}

func comparisonOpcode(op string) bytecode.OpCode {
	switch op {
	case "==":
		return bytecode.OpEq
	case "!=":
		return bytecode.OpNe
	case "<":
		return bytecode.OpLt
	case "<=":
		return bytecode.OpLe
	case ">":
		return bytecode.OpGt
	default:
		return bytecode.OpGe
	}
}

func arithmeticOpcode(op string) bytecode.OpCode {
	switch op {
	case "+":
		return bytecode.OpAdd
	case "-":
		return bytecode.OpSub
	case "*":
		return bytecode.OpMul
	case "/":
		return bytecode.OpDiv
	case "%":
		return bytecode.OpMod
	case "&":
		return bytecode.OpBitAnd
	case "|":
		return bytecode.OpBitOr
	case "^":
		return bytecode.OpBitXor
	case "<<":
		return bytecode.OpShl
	default:
		return bytecode.OpShr
	}
}

// checkLogical emits short-circuiting && / ||.
func (c *Checker) checkLogical(e *ast.BinaryExpr) ExprContext {
	boolType := types.New(types.PrimitiveRef(types.Bool))
	c.CheckAgainst(e.Left, boolType)
	line := e.Span.Start.Line

	var shortCircuit int
	if e.Op == "&&" {
		shortCircuit = c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
	} else {
		notLeft := c.Chunk.EmitJump(bytecode.OpJumpIfFalse, line)
		skipRight := c.Chunk.EmitJump(bytecode.OpJump, line)
		_ = c.Chunk.PatchJump(notLeft)
		shortCircuit = skipRight
	}
	c.Chunk.Write(bytecode.Simple(bytecode.OpPop, line))
	c.CheckAgainst(e.Right, boolType)
	_ = c.Chunk.PatchJump(shortCircuit)
	return ExprContext{Type: boolType}
}

// checkHandleComparison emits `is`/`!is` identity comparison.
func (c *Checker) checkHandleComparison(e *ast.BinaryExpr) ExprContext {
	c.Infer(e.Left)
	c.Infer(e.Right)
	line := e.Span.Start.Line
	c.Chunk.Write(bytecode.Typed(bytecode.OpEq, types.Void, line))
	if e.Op == "!is" {
		idx := c.Chunk.AddConstant(bytecode.BoolConstant(false))
		c.Chunk.Write(bytecode.WithArg(bytecode.OpConstant, idx, line))
		c.Chunk.Write(bytecode.Typed(bytecode.OpEq, types.Bool, line))
	}
	return ExprContext{Type: types.New(types.PrimitiveRef(types.Bool))}
}

// checkOperatorMethodBinary resolves a binary operator between operands
// where at least one is a class/interface type, per spec.md §4.4.5's
// MethodOnLeft and MethodOnRight shapes. Both operands' code is already on
// the stack (left below right) when this is called.
func (c *Checker) checkOperatorMethodBinary(e *ast.BinaryExpr, leftCtx, rightCtx ExprContext) ExprContext {
	names, ok := opMethodNames[e.Op]
	if !ok {
		c.Errs.Addf(errors.InvalidOperation, e.Span, "operator %q is not defined between %s and %s", e.Op, leftCtx.Type, rightCtx.Type)
		return ExprContext{}
	}
	line := e.Span.Start.Line

	if owner, ok := c.ownerOf(leftCtx.Type); ok {
		if methodIDs, ok := owner.Methods[names.base]; ok {
			candidates := c.functionEntries(methodIDs)
			result := c.resolveOverload(candidates, []types.DataType{rightCtx.Type}, leftCtx.IsConst)
			if result.Status == overload.Resolved {
				c.emitConversion(rightCtx.Type, result.Function.Params[0].Type, line)
				c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, result.Function.Hash, 1, line))
				return ExprContext{Type: result.Function.ReturnType}
			}
		}
	}

	if owner, ok := c.ownerOf(rightCtx.Type); ok {
		if methodIDs, ok := owner.Methods[names.reverse]; ok {
			candidates := c.functionEntries(methodIDs)
			result := c.resolveOverload(candidates, []types.DataType{leftCtx.Type}, rightCtx.IsConst)
			if result.Status == overload.Resolved {
				c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
				c.emitConversion(leftCtx.Type, result.Function.Params[0].Type, line)
				c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, result.Function.Hash, 1, line))
				return ExprContext{Type: result.Function.ReturnType}
			}
		}
	}

	c.Errs.Addf(errors.InvalidOperation, e.Span, "no %s or %s overload resolves %s %s %s", names.base, names.reverse, leftCtx.Type, e.Op, rightCtx.Type)
	return ExprContext{}
}

// applyCompoundOp is checkBinary's counterpart for compound assignment: the
// current value of the target is already on top of the stack (leftType,
// leftIsConst describe it) rather than freshly inferred from an
// ast.Expression, and the right operand is rhs, not yet checked. It pushes
// rhs, applies the operator named by the bare form of a compound token
// (e.g. "+" for "+="), and returns the result type.
func (c *Checker) applyCompoundOp(leftType types.DataType, leftIsConst bool, bareOp string, rhs ast.Expression, line int) types.DataType {
	if !leftType.Ref.IsPrimitive {
		rightCtx := c.Infer(rhs)
		names, ok := opMethodNames[bareOp]
		if !ok {
			c.Errs.Addf(errors.InvalidOperation, atLine(line), "operator %q is not defined on %s", bareOp, leftType)
			return leftType
		}
		owner, ok := c.ownerOf(leftType)
		if !ok {
			c.Errs.Addf(errors.InvalidOperation, atLine(line), "type %s has no members", leftType)
			return leftType
		}
		methodIDs, ok := owner.Methods[names.base]
		if !ok {
			c.Errs.Addf(errors.InvalidOperation, atLine(line), "no %s overload resolves %s %s %s", names.base, leftType, bareOp, rightCtx.Type)
			return leftType
		}
		candidates := c.functionEntries(methodIDs)
		result := c.resolveOverload(candidates, []types.DataType{rightCtx.Type}, leftIsConst)
		if result.Status != overload.Resolved {
			c.Errs.Addf(errors.InvalidOperation, atLine(line), "no %s overload resolves %s %s %s", names.base, leftType, bareOp, rightCtx.Type)
			return leftType
		}
		c.emitConversion(rightCtx.Type, result.Function.Params[0].Type, line)
		c.Chunk.Write(bytecode.WithHash(bytecode.OpCallMethod, result.Function.Hash, 1, line))
		return result.Function.ReturnType
	}

	rightCtx := c.Infer(rhs)
	common := c.commonNumericType(leftType, rightCtx.Type)
	if !leftType.Equals(common) {
		c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
		c.emitConversion(leftType, common, line)
		c.Chunk.Write(bytecode.Simple(bytecode.OpSwap, line))
	}
	c.emitConversion(rightCtx.Type, common, line)
	c.Chunk.Write(bytecode.Typed(arithmeticOpcode(bareOp), primitiveKind(common), line))
	return common
}

func (c *Checker) functionEntries(hashes []ids.FunctionId) []*registry.FunctionEntry {
	out := make([]*registry.FunctionEntry, 0, len(hashes))
	for _, h := range hashes {
		if fn, ok := c.Reg.GetFunction(h); ok {
			out = append(out, fn)
		}
	}
	return out
}
