package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/ascript-lang/ascc/internal/ast"
)

func decodeStmt(raw json.RawMessage) (ast.Statement, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	span := decodeSpan(n.Span)

	switch n.Kind {
	case "BlockStmt":
		stmts, err := decodeStmts(n.Statements)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Statements: stmts, Span: span}, nil
	case "ExprStmt":
		expr, err := decodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Span: span}, nil
	case "VarDecl":
		init, err := decodeExpr(n.Init)
		if err != nil {
			return nil, err
		}
		return &ast.VarDecl{Type: decodeTypeName(n.Type), Name: n.Name, Init: init, IsConst: n.IsConst, Span: span}, nil
	case "IfStmt":
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmt(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStmt(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Cond: cond, Then: then, Else: els, Span: span}, nil
	case "WhileStmt":
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body, Span: span}, nil
	case "DoWhileStmt":
		body, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStmt{Body: body, Cond: cond, Span: span}, nil
	case "ForStmt":
		initStmt, err := decodeStmt(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		post, err := decodeStmt(n.Post)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Init: initStmt, Cond: cond, Post: post, Body: body, Span: span}, nil
	case "SwitchStmt":
		subject, err := decodeExpr(n.Subject)
		if err != nil {
			return nil, err
		}
		cases := make([]*ast.CaseClause, 0, len(n.Cases))
		for _, raw := range n.Cases {
			c, err := decodeCaseClause(raw)
			if err != nil {
				return nil, err
			}
			cases = append(cases, c)
		}
		return &ast.SwitchStmt{Subject: subject, Cases: cases, Span: span}, nil
	case "BreakStmt":
		return &ast.BreakStmt{Span: span}, nil
	case "ContinueStmt":
		return &ast.ContinueStmt{Span: span}, nil
	case "ReturnStmt":
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: value, Span: span}, nil
	case "TryStmt":
		tryBlock, err := decodeStmt(n.Try)
		if err != nil {
			return nil, err
		}
		tryBody, ok := tryBlock.(*ast.BlockStmt)
		if tryBlock != nil && !ok {
			return nil, fmt.Errorf("astjson: TryStmt.try must be a BlockStmt")
		}
		catches := make([]*ast.CatchClause, 0, len(n.Catches))
		for _, raw := range n.Catches {
			c, err := decodeCatchClause(raw)
			if err != nil {
				return nil, err
			}
			catches = append(catches, c)
		}
		var finallyBody *ast.BlockStmt
		if len(n.Finally) > 0 {
			finallyStmt, err := decodeStmt(n.Finally)
			if err != nil {
				return nil, err
			}
			finallyBody, ok = finallyStmt.(*ast.BlockStmt)
			if finallyStmt != nil && !ok {
				return nil, fmt.Errorf("astjson: TryStmt.finally must be a BlockStmt")
			}
		}
		return &ast.TryStmt{Try: tryBody, Catches: catches, Finally: finallyBody, Span: span}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown statement kind %q", n.Kind)
	}
}

func decodeStmts(raws []json.RawMessage) ([]ast.Statement, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]ast.Statement, 0, len(raws))
	for _, raw := range raws {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeCaseClause(raw json.RawMessage) (*ast.CaseClause, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	values, err := decodeExprs(n.Values)
	if err != nil {
		return nil, err
	}
	// A case clause's body is a statement list, not a single nested
	// statement, so it shares the "statements" key with BlockStmt rather
	// than the singular "body" key WhileStmt/ForStmt/CatchClause use.
	body, err := decodeStmts(n.Statements)
	if err != nil {
		return nil, err
	}
	return &ast.CaseClause{Values: values, Body: body, Span: decodeSpan(n.Span)}, nil
}

func decodeCatchClause(raw json.RawMessage) (*ast.CatchClause, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	bodyStmt, err := decodeStmt(n.Body)
	if err != nil {
		return nil, err
	}
	body, ok := bodyStmt.(*ast.BlockStmt)
	if bodyStmt != nil && !ok {
		return nil, fmt.Errorf("astjson: CatchClause.body must be a BlockStmt")
	}
	return &ast.CatchClause{Type: decodeTypeName(n.Type), Name: n.Name, Body: body, Span: decodeSpan(n.Span)}, nil
}
