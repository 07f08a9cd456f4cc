package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/ascript-lang/ascc/internal/ast"
)

func decodeDecl(raw json.RawMessage) (ast.Decl, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	span := decodeSpan(n.Span)

	switch n.Kind {
	case "FuncDecl":
		return decodeFuncDeclNode(n)
	case "ClassDecl":
		fields, err := decodeFieldDecls(n.Fields)
		if err != nil {
			return nil, err
		}
		properties, err := decodePropertyDecls(n.Properties)
		if err != nil {
			return nil, err
		}
		methods, err := decodeFuncDecls(n.Methods)
		if err != nil {
			return nil, err
		}
		return &ast.ClassDecl{
			Name: n.Name, Namespace: n.Namespace,
			Base: decodeTypeName(n.Base), Interfaces: decodeTypeNames(n.Interfaces), Mixins: decodeTypeNames(n.Mixins),
			Fields: fields, Properties: properties, Methods: methods,
			IsAbstract: n.IsAbstract, IsFinal: n.IsFinal, Span: span,
		}, nil
	case "MixinDecl":
		fields, err := decodeFieldDecls(n.Fields)
		if err != nil {
			return nil, err
		}
		properties, err := decodePropertyDecls(n.Properties)
		if err != nil {
			return nil, err
		}
		methods, err := decodeFuncDecls(n.Methods)
		if err != nil {
			return nil, err
		}
		return &ast.MixinDecl{
			Name: n.Name, Namespace: n.Namespace, Interfaces: decodeTypeNames(n.Interfaces),
			Fields: fields, Properties: properties, Methods: methods, Span: span,
		}, nil
	case "InterfaceDecl":
		methods, err := decodeFuncDecls(n.Methods)
		if err != nil {
			return nil, err
		}
		return &ast.InterfaceDecl{Name: n.Name, Namespace: n.Namespace, Extends: decodeTypeNames(n.Extends), Methods: methods, Span: span}, nil
	case "EnumDecl":
		members := make([]*ast.EnumConstant, 0, len(n.Members))
		for _, raw := range n.Members {
			c, err := decodeEnumConstant(raw)
			if err != nil {
				return nil, err
			}
			members = append(members, c)
		}
		return &ast.EnumDecl{Name: n.Name, Namespace: n.Namespace, Backing: decodeTypeName(n.Backing), Members: members, Span: span}, nil
	case "FuncdefDecl":
		params, err := decodeParams(n.Params)
		if err != nil {
			return nil, err
		}
		return &ast.FuncdefDecl{Name: n.Name, Namespace: n.Namespace, ReturnType: decodeTypeName(n.ReturnType), Params: params, Span: span}, nil
	case "TypedefDecl":
		return &ast.TypedefDecl{Name: n.Name, Namespace: n.Namespace, Aliased: decodeTypeName(n.Aliased), Span: span}, nil
	case "GlobalVarDecl":
		init, err := decodeExpr(n.Init)
		if err != nil {
			return nil, err
		}
		return &ast.GlobalVarDecl{Type: decodeTypeName(n.Type), Name: n.Name, Init: init, IsConst: n.IsConst, Span: span}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown declaration kind %q", n.Kind)
	}
}

func decodeFuncDeclNode(n *node) (*ast.FuncDecl, error) {
	params, err := decodeParams(n.Params)
	if err != nil {
		return nil, err
	}
	var body *ast.BlockStmt
	if len(n.Body) > 0 {
		stmt, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		blk, ok := stmt.(*ast.BlockStmt)
		if stmt != nil && !ok {
			return nil, fmt.Errorf("astjson: FuncDecl.body must be a BlockStmt")
		}
		body = blk
	}
	return &ast.FuncDecl{
		Name: n.Name, ReturnType: decodeTypeName(n.ReturnType), Params: params, Body: body,
		Visibility: n.Visibility, IsConst: n.IsConst, IsVirtual: n.IsVirtual,
		IsOverride: n.IsOverride, IsFinal: n.IsFinal, IsAbstract: n.IsAbstract,
		Span: decodeSpan(n.Span),
	}, nil
}

func decodeFuncDecl(raw json.RawMessage) (*ast.FuncDecl, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	return decodeFuncDeclNode(n)
}

func decodeFuncDecls(raws []json.RawMessage) ([]*ast.FuncDecl, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]*ast.FuncDecl, 0, len(raws))
	for _, raw := range raws {
		d, err := decodeFuncDecl(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeParam(raw json.RawMessage) (*ast.Param, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	def, err := decodeExpr(n.Default)
	if err != nil {
		return nil, err
	}
	return &ast.Param{
		Type: decodeTypeName(n.Type), Name: n.Name, Default: def,
		Direction: n.Direction, IsConst: n.IsConst, Span: decodeSpan(n.Span),
	}, nil
}

func decodeParams(raws []json.RawMessage) ([]*ast.Param, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]*ast.Param, 0, len(raws))
	for _, raw := range raws {
		p, err := decodeParam(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeFieldDecls(raws []json.RawMessage) ([]*ast.FieldDecl, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]*ast.FieldDecl, 0, len(raws))
	for _, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		out = append(out, &ast.FieldDecl{Type: decodeTypeName(n.Type), Name: n.Name, Visibility: n.Visibility, Span: decodeSpan(n.Span)})
	}
	return out, nil
}

func decodePropertyDecls(raws []json.RawMessage) ([]*ast.PropertyDecl, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]*ast.PropertyDecl, 0, len(raws))
	for _, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		out = append(out, &ast.PropertyDecl{
			Type: decodeTypeName(n.Type), Name: n.Name, Getter: n.Getter, Setter: n.Setter,
			Visibility: n.Visibility, Span: decodeSpan(n.Span),
		})
	}
	return out, nil
}

func decodeEnumConstant(raw json.RawMessage) (*ast.EnumConstant, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	value, err := decodeExpr(n.Value)
	if err != nil {
		return nil, err
	}
	return &ast.EnumConstant{Name: n.Name, Value: value, Span: decodeSpan(n.Span)}, nil
}
