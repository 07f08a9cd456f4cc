package ast

import "github.com/ascript-lang/ascc/internal/token"

// Identifier is a bare name reference: a local, global, field, type, or
// function name, disambiguated later by the resolver (C2).
type Identifier struct {
	Name string
	Span token.Span
}

func (i *Identifier) Pos() token.Span { return i.Span }
func (i *Identifier) expressionNode() {}

// IntLiteral is an integer constant.
type IntLiteral struct {
	Value int64
	Span  token.Span
}

func (l *IntLiteral) Pos() token.Span { return l.Span }
func (l *IntLiteral) expressionNode() {}

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	Value  float64
	Double bool // true for a double (64-bit) literal, false for float (32-bit)
	Span   token.Span
}

func (l *FloatLiteral) Pos() token.Span { return l.Span }
func (l *FloatLiteral) expressionNode() {}

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
	Span  token.Span
}

func (l *StringLiteral) Pos() token.Span { return l.Span }
func (l *StringLiteral) expressionNode() {}

// BoolLiteral is a boolean constant.
type BoolLiteral struct {
	Value bool
	Span  token.Span
}

func (l *BoolLiteral) Pos() token.Span { return l.Span }
func (l *BoolLiteral) expressionNode() {}

// NullLiteral is the null handle literal.
type NullLiteral struct {
	Span token.Span
}

func (l *NullLiteral) Pos() token.Span { return l.Span }
func (l *NullLiteral) expressionNode() {}

// ThisExpr is a reference to the implicit receiver inside a method body.
type ThisExpr struct {
	Span token.Span
}

func (e *ThisExpr) Pos() token.Span { return e.Span }
func (e *ThisExpr) expressionNode() {}

// BinaryExpr is a binary operator application, e.g. `a + b`.
type BinaryExpr struct {
	Left  Expression
	Right Expression
	Op    string
	Span  token.Span
}

func (e *BinaryExpr) Pos() token.Span { return e.Span }
func (e *BinaryExpr) expressionNode() {}

// UnaryExpr is a prefix unary operator application, e.g. `-x`, `!b`, `@h`.
type UnaryExpr struct {
	Operand Expression
	Op      string
	Span    token.Span
}

func (e *UnaryExpr) Pos() token.Span { return e.Span }
func (e *UnaryExpr) expressionNode() {}

// AssignExpr is an assignment or compound-assignment, e.g. `x = y`,
// `x += y`. Op is "" for plain assignment.
type AssignExpr struct {
	Target Expression
	Value  Expression
	Op     string
	Span   token.Span
}

func (e *AssignExpr) Pos() token.Span { return e.Span }
func (e *AssignExpr) expressionNode() {}

// CallExpr is a call to a free function or a resolved overload set,
// `Callee(Args...)`.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Span   token.Span
}

func (e *CallExpr) Pos() token.Span { return e.Span }
func (e *CallExpr) expressionNode() {}

// MemberExpr is field or method access, `Object.Name`.
type MemberExpr struct {
	Object Expression
	Name   string
	Span   token.Span
}

func (e *MemberExpr) Pos() token.Span { return e.Span }
func (e *MemberExpr) expressionNode() {}

// MethodCallExpr is a call through a member, `Object.Name(Args...)`, kept
// distinct from a plain MemberExpr wrapped in a CallExpr so the checker
// can resolve the overload set against Object's type directly.
type MethodCallExpr struct {
	Object Expression
	Name   string
	Args   []Expression
	Span   token.Span
}

func (e *MethodCallExpr) Pos() token.Span { return e.Span }
func (e *MethodCallExpr) expressionNode() {}

// IndexExpr is indexed access, `Object[Index]`, resolved against
// opIndex/opIndexSet behaviours by the checker.
type IndexExpr struct {
	Object Expression
	Index  Expression
	Span   token.Span
}

func (e *IndexExpr) Pos() token.Span { return e.Span }
func (e *IndexExpr) expressionNode() {}

// CastExpr is an explicit type cast, `Type(Expr)` or `cast<Type>(Expr)`.
type CastExpr struct {
	Target   *TypeName
	Operand  Expression
	AsHandle bool
	Span     token.Span
}

func (e *CastExpr) Pos() token.Span { return e.Span }
func (e *CastExpr) expressionNode() {}

// TernaryExpr is a conditional expression, `Cond ? Then : Else`.
type TernaryExpr struct {
	Cond Expression
	Then Expression
	Else Expression
	Span token.Span
}

func (e *TernaryExpr) Pos() token.Span { return e.Span }
func (e *TernaryExpr) expressionNode() {}

// HandleOfExpr is the unary `@expr` operator, producing a handle to its
// operand's type.
type HandleOfExpr struct {
	Operand Expression
	Span    token.Span
}

func (e *HandleOfExpr) Pos() token.Span { return e.Span }
func (e *HandleOfExpr) expressionNode() {}

// ConstructorCallExpr is `Type(Args...)`, constructing a new instance.
type ConstructorCallExpr struct {
	Type Expression // either *ast.Identifier or a namespace-qualified member access
	Args []Expression
	Span token.Span
}

func (e *ConstructorCallExpr) Pos() token.Span { return e.Span }
func (e *ConstructorCallExpr) expressionNode() {}
