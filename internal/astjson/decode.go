// Package astjson decodes the JSON fixture format cmd/ascc's "check" and
// "disasm" commands read in place of a real parser: a host (or a test)
// writes an ast.Program as JSON using a "kind" discriminator on every
// polymorphic node, and DecodeProgram turns it back into the ast package's
// own node types.
//
// This package exists only because the out-of-scope lexer/parser has to
// be stood in for somehow so the CLI has something to feed the
// middle-end; it is not a serialization format for a real toolchain.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/token"
)

// node is the flat wire shape every fixture object is decoded into
// first; which fields matter depends on Kind. Using one flat struct
// keeps the per-kind decode functions short — each just reads the
// handful of fields its node type needs and ignores the rest.
type node struct {
	Kind string `json:"kind"`
	Span json.RawMessage `json:"span"`

	// literals / identifiers
	Name   string          `json:"name"`
	Value  json.RawMessage `json:"value"`
	Double bool            `json:"double"`

	// operators
	Op      string          `json:"op"`
	Left    json.RawMessage `json:"left"`
	Right   json.RawMessage `json:"right"`
	Operand json.RawMessage `json:"operand"`

	// assignment / call / member / index
	Target   json.RawMessage   `json:"target"`
	Callee   json.RawMessage   `json:"callee"`
	Args     []json.RawMessage `json:"args"`
	Object   json.RawMessage   `json:"object"`
	Index    json.RawMessage   `json:"index"`
	TypeRef  json.RawMessage   `json:"typeRef"`
	AsHandle bool              `json:"asHandle"`

	// ternary
	Cond json.RawMessage `json:"cond"`
	Then json.RawMessage `json:"then"`
	Else json.RawMessage `json:"else"`

	// statements
	Statements []json.RawMessage `json:"statements"`
	Expr       json.RawMessage   `json:"expr"`
	Init       json.RawMessage   `json:"init"`
	IsConst    bool              `json:"isConst"`
	Body       json.RawMessage   `json:"body"`
	Post       json.RawMessage   `json:"post"`
	Subject    json.RawMessage   `json:"subject"`
	Cases      []json.RawMessage `json:"cases"`
	Values     []json.RawMessage `json:"values"`
	Try        json.RawMessage   `json:"try"`
	Catches    []json.RawMessage `json:"catches"`
	Finally    json.RawMessage   `json:"finally"`

	// types
	Type *node `json:"type"`

	// declarations
	Namespace  string            `json:"namespace"`
	Base       *node             `json:"base"`
	Interfaces []*node           `json:"interfaces"`
	Mixins     []*node           `json:"mixins"`
	Fields     []json.RawMessage `json:"fields"`
	Properties []json.RawMessage `json:"properties"`
	Methods    []json.RawMessage `json:"methods"`
	IsAbstract bool              `json:"isAbstract"`
	IsFinal    bool              `json:"isFinal"`
	Extends    []*node           `json:"extends"`
	Members    []json.RawMessage `json:"members"`
	Backing    *node             `json:"backing"`
	ReturnType *node             `json:"returnType"`
	Params     []json.RawMessage `json:"params"`
	Aliased    *node             `json:"aliased"`
	Getter     string            `json:"getter"`
	Setter     string            `json:"setter"`
	Visibility string            `json:"visibility"`
	Direction  string            `json:"direction"`
	Default    json.RawMessage   `json:"default"`
	IsVirtual  bool              `json:"isVirtual"`
	IsOverride bool              `json:"isOverride"`
	IsHandle   bool              `json:"isHandle"`
	IsArray    bool              `json:"isArray"`
	Decls      []json.RawMessage `json:"decls"`
}

type posWire struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

type spanWire struct {
	Line   int      `json:"line"`
	Column int      `json:"column"`
	Start  *posWire `json:"start"`
	End    *posWire `json:"end"`
}

// decodeSpan accepts either a shorthand {"line": N[, "column": N]} or a
// full {"start": {...}, "end": {...}}; a missing/empty span decodes to
// the zero Span, which is fine for fixtures that don't care about
// diagnostic positions.
func decodeSpan(raw json.RawMessage) token.Span {
	if len(raw) == 0 {
		return token.Span{}
	}
	var w spanWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return token.Span{}
	}
	if w.Start != nil {
		start := token.Position{File: w.Start.File, Line: w.Start.Line, Column: w.Start.Column, Offset: w.Start.Offset}
		end := start
		if w.End != nil {
			end = token.Position{File: w.End.File, Line: w.End.Line, Column: w.End.Column, Offset: w.End.Offset}
		}
		return token.Span{Start: start, End: end}
	}
	pos := token.Position{Line: w.Line, Column: w.Column}
	return token.Span{Start: pos, End: pos}
}

func decodeNode(raw json.RawMessage) (*node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	return &n, nil
}

// DecodeProgram parses a fixture's top-level {"decls": [...]} object.
func DecodeProgram(data []byte) (*ast.Program, error) {
	n, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("astjson: empty program fixture")
	}
	decls := make([]ast.Decl, 0, len(n.Decls))
	for _, raw := range n.Decls {
		d, err := decodeDecl(raw)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return &ast.Program{Decls: decls, Span: decodeSpan(n.Span)}, nil
}

func decodeTypeName(n *node) *ast.TypeName {
	if n == nil {
		return nil
	}
	return &ast.TypeName{
		Name:      n.Name,
		Namespace: n.Namespace,
		IsHandle:  n.IsHandle,
		IsConst:   n.IsConst,
		IsArray:   n.IsArray,
		Span:      decodeSpan(n.Span),
	}
}

func decodeTypeNames(ns []*node) []*ast.TypeName {
	if ns == nil {
		return nil
	}
	out := make([]*ast.TypeName, 0, len(ns))
	for _, n := range ns {
		out = append(out, decodeTypeName(n))
	}
	return out
}
