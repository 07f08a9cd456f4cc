package ast

import "github.com/ascript-lang/ascc/internal/token"

// Param is one parameter in a function's declared signature.
type Param struct {
	Type      *TypeName
	Name      string
	Default   Expression
	Direction string // "in", "out", "inout"; "" means "in"
	IsConst   bool
	Span      token.Span
}

func (p *Param) Pos() token.Span { return p.Span }

// FuncDecl is a free function, method, constructor, destructor, or
// behaviour declaration. Body is nil for an abstract or interface method.
type FuncDecl struct {
	Name       string
	ReturnType *TypeName
	Params     []*Param
	Body       *BlockStmt
	Visibility string // "public", "protected", "private"; "" means "public"
	IsConst    bool
	IsVirtual  bool
	IsOverride bool
	IsFinal    bool
	IsAbstract bool
	Span       token.Span
}

func (d *FuncDecl) Pos() token.Span { return d.Span }
func (d *FuncDecl) declNode()       {}

// PropertyDecl declares a virtual property backed by a getter and/or
// setter method, or (when both are empty) a plain field.
type PropertyDecl struct {
	Type       *TypeName
	Name       string
	Getter     string
	Setter     string
	Visibility string
	Span       token.Span
}

func (d *PropertyDecl) Pos() token.Span { return d.Span }
func (d *PropertyDecl) declNode()       {}

// FieldDecl declares a class or record member variable.
type FieldDecl struct {
	Type       *TypeName
	Name       string
	Visibility string
	Span       token.Span
}

func (d *FieldDecl) Pos() token.Span { return d.Span }
func (d *FieldDecl) declNode()       {}

// ClassDecl declares a class: its base class, the interfaces it
// implements, the mixins it composes, and its members.
type ClassDecl struct {
	Name       string
	Namespace  string
	Base       *TypeName
	Interfaces []*TypeName
	Mixins     []*TypeName
	Fields     []*FieldDecl
	Properties []*PropertyDecl
	Methods    []*FuncDecl
	IsAbstract bool
	IsFinal    bool
	Span       token.Span
}

func (d *ClassDecl) Pos() token.Span { return d.Span }
func (d *ClassDecl) declNode()       {}

// MixinDecl declares a mixin: a set of members cloned into every class
// that composes it, with method FunctionIds retargeted to the composing
// class at completion time (C3 phase C).
type MixinDecl struct {
	Name       string
	Namespace  string
	Interfaces []*TypeName
	Fields     []*FieldDecl
	Properties []*PropertyDecl
	Methods    []*FuncDecl
	Span       token.Span
}

func (d *MixinDecl) Pos() token.Span { return d.Span }
func (d *MixinDecl) declNode()       {}

// InterfaceDecl declares an interface: a pure set of method signatures,
// optionally extending other interfaces.
type InterfaceDecl struct {
	Name      string
	Namespace string
	Extends   []*TypeName
	Methods   []*FuncDecl
	Span      token.Span
}

func (d *InterfaceDecl) Pos() token.Span { return d.Span }
func (d *InterfaceDecl) declNode()       {}

// EnumConstant is one named member of an EnumDecl, with an explicit or
// auto-incremented integer value.
type EnumConstant struct {
	Name  string
	Value Expression // nil when the value is implicit (previous + 1)
	Span  token.Span
}

func (c *EnumConstant) Pos() token.Span { return c.Span }

// EnumDecl declares an enum type. Backing is the integer width the enum
// is stored as; when unset, the registry defaults it to a 32-bit signed
// backing type.
type EnumDecl struct {
	Name      string
	Namespace string
	Backing   *TypeName
	Members   []*EnumConstant
	Span      token.Span
}

func (d *EnumDecl) Pos() token.Span { return d.Span }
func (d *EnumDecl) declNode()       {}

// FuncdefDecl declares a named function-pointer type: a signature with no
// body, usable as a parameter or field type. Structural equality between
// two funcdefs is by signature, not by declaration identity.
type FuncdefDecl struct {
	Name       string
	Namespace  string
	ReturnType *TypeName
	Params     []*Param
	Span       token.Span
}

func (d *FuncdefDecl) Pos() token.Span { return d.Span }
func (d *FuncdefDecl) declNode()       {}

// TypedefDecl declares a type alias.
type TypedefDecl struct {
	Name      string
	Namespace string
	Aliased   *TypeName
	Span      token.Span
}

func (d *TypedefDecl) Pos() token.Span { return d.Span }
func (d *TypedefDecl) declNode()       {}

// GlobalVarDecl declares a script-level global variable.
type GlobalVarDecl struct {
	Type    *TypeName
	Name    string
	Init    Expression
	IsConst bool
	Span    token.Span
}

func (d *GlobalVarDecl) Pos() token.Span { return d.Span }
func (d *GlobalVarDecl) declNode()       {}
