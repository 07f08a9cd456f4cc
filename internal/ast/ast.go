// Package ast defines the Abstract Syntax Tree node types consumed by the
// compiler's middle end. Lexing and parsing are out of scope for this
// module: these nodes are the contract a parser (or, in tests and the
// cmd/ascc "check" driver, a JSON fixture) must produce.
package ast

import "github.com/ascript-lang/ascc/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Span
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself producing
// a value (a VarDecl is a Statement: its value, if any, is consumed by
// the declaration rather than returned to an enclosing expression).
type Statement interface {
	Node
	statementNode()
}

// Decl is any top-level or member declaration: a class, interface, enum,
// funcdef, typedef, or function.
type Decl interface {
	Node
	declNode()
}

// Program is the root of a compilation unit's AST.
type Program struct {
	Decls []Decl
	Span  token.Span
}

func (p *Program) Pos() token.Span { return p.Span }

// TypeName is a reference to a type as written in source: a possibly
// namespace-qualified name, plus the modifiers that can appear at a use
// site (handle `@`, const, array).
type TypeName struct {
	Name      string
	Namespace string
	IsHandle  bool
	IsConst   bool
	IsArray   bool
	Span      token.Span
}

func (t *TypeName) Pos() token.Span { return t.Span }

// Qualified returns the namespace-qualified name, e.g. "Engine::TSprite".
func (t *TypeName) Qualified() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "::" + t.Name
}
