package resolver

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// constantExprType evaluates expr's static type if expr is one of the
// constant forms spec.md §4.4.6 allows in a default-argument expression:
// a literal, a unary -/+/~ applied to a constant, a binary
// +-*/%&|^<<>> over two constants, or a ternary whose two branches are
// each (recursively) constant. ok is false for anything else — an
// identifier, a call, member access, and so on never qualify.
//
// isNull reports that expr is (or folds to) the null literal, which has
// no DataType of its own: the caller decides separately whether null is
// an acceptable default for the parameter's type.
func constantExprType(expr ast.Expression) (dt types.DataType, isNull bool, ok bool) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return types.New(types.PrimitiveRef(types.Int32)), false, true
	case *ast.FloatLiteral:
		kind := types.Float32
		if e.Double {
			kind = types.Float64
		}
		return types.New(types.PrimitiveRef(kind)), false, true
	case *ast.StringLiteral:
		return types.New(types.PrimitiveRef(types.String)), false, true
	case *ast.BoolLiteral:
		return types.New(types.PrimitiveRef(types.Bool)), false, true
	case *ast.NullLiteral:
		return types.DataType{}, true, true
	case *ast.UnaryExpr:
		switch e.Op {
		case "-", "+", "~":
			return constantExprType(e.Operand)
		default:
			return types.DataType{}, false, false
		}
	case *ast.BinaryExpr:
		switch e.Op {
		case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		default:
			return types.DataType{}, false, false
		}
		leftType, leftNull, leftOK := constantExprType(e.Left)
		_, rightNull, rightOK := constantExprType(e.Right)
		if !leftOK || !rightOK || leftNull || rightNull {
			return types.DataType{}, false, false
		}
		return leftType, false, true
	case *ast.TernaryExpr:
		thenType, thenNull, thenOK := constantExprType(e.Then)
		elseType, elseNull, elseOK := constantExprType(e.Else)
		if !thenOK || !elseOK {
			return types.DataType{}, false, false
		}
		if !thenNull {
			return thenType, false, true
		}
		return elseType, elseNull, true
	default:
		return types.DataType{}, false, false
	}
}

// validateDefaults enforces spec.md §4.4.6 over one function's parameter
// list at declaration time: every default must be a constant expression
// convertible to its parameter's type, and once a parameter carries a
// default every parameter after it must too. Errors are recorded but do
// not stop validation of the remaining parameters.
func (r *Resolver) validateDefaults(astParams []*ast.Param, resolved []registry.Parameter, list *errors.List) {
	seenDefault := false
	for i, p := range astParams {
		if p.Default == nil {
			if seenDefault {
				list.Addf(errors.InvalidOperation, p.Span,
					"parameter %q must have a default value because a preceding parameter does", p.Name)
			}
			continue
		}
		seenDefault = true

		dt, isNull, ok := constantExprType(p.Default)
		if !ok {
			list.Addf(errors.InvalidOperation, p.Default.Pos(),
				"default value for parameter %q is not a constant expression", p.Name)
			continue
		}
		want := resolved[i].Type
		if isNull {
			if want.Ref.IsPrimitive {
				list.Addf(errors.TypeMismatch, p.Default.Pos(),
					"cannot use null as the default for parameter %q of type %s", p.Name, want)
			}
			continue
		}
		if !dt.Equals(want) && !r.reg.CanImplicitlyConvert(dt, want) {
			list.Addf(errors.TypeMismatch, p.Default.Pos(),
				"default value for parameter %q does not convert to %s", p.Name, want)
		}
	}
}
