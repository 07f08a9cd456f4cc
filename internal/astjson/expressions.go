package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/ascript-lang/ascc/internal/ast"
)

func decodeExpr(raw json.RawMessage) (ast.Expression, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	span := decodeSpan(n.Span)

	switch n.Kind {
	case "Identifier":
		return &ast.Identifier{Name: n.Name, Span: span}, nil
	case "IntLiteral":
		var v int64
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("astjson: IntLiteral value: %w", err)
		}
		return &ast.IntLiteral{Value: v, Span: span}, nil
	case "FloatLiteral":
		var v float64
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("astjson: FloatLiteral value: %w", err)
		}
		return &ast.FloatLiteral{Value: v, Double: n.Double, Span: span}, nil
	case "StringLiteral":
		var v string
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("astjson: StringLiteral value: %w", err)
		}
		return &ast.StringLiteral{Value: v, Span: span}, nil
	case "BoolLiteral":
		var v bool
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("astjson: BoolLiteral value: %w", err)
		}
		return &ast.BoolLiteral{Value: v, Span: span}, nil
	case "NullLiteral":
		return &ast.NullLiteral{Span: span}, nil
	case "ThisExpr":
		return &ast.ThisExpr{Span: span}, nil
	case "BinaryExpr":
		left, err := decodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Left: left, Right: right, Op: n.Op, Span: span}, nil
	case "UnaryExpr":
		operand, err := decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operand: operand, Op: n.Op, Span: span}, nil
	case "AssignExpr":
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: target, Value: value, Op: n.Op, Span: span}, nil
	case "CallExpr":
		callee, err := decodeExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: callee, Args: args, Span: span}, nil
	case "MemberExpr":
		object, err := decodeExpr(n.Object)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpr{Object: object, Name: n.Name, Span: span}, nil
	case "MethodCallExpr":
		object, err := decodeExpr(n.Object)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.MethodCallExpr{Object: object, Name: n.Name, Args: args, Span: span}, nil
	case "IndexExpr":
		object, err := decodeExpr(n.Object)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Object: object, Index: index, Span: span}, nil
	case "CastExpr":
		operand, err := decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Target: decodeTypeName(n.Type), Operand: operand, AsHandle: n.AsHandle, Span: span}, nil
	case "TernaryExpr":
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: els, Span: span}, nil
	case "HandleOfExpr":
		operand, err := decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.HandleOfExpr{Operand: operand, Span: span}, nil
	case "ConstructorCallExpr":
		typeExpr, err := decodeExpr(n.TypeRef)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.ConstructorCallExpr{Type: typeExpr, Args: args, Span: span}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", n.Kind)
	}
}

func decodeExprs(raws []json.RawMessage) ([]ast.Expression, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]ast.Expression, 0, len(raws))
	for _, raw := range raws {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
