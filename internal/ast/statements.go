package ast

import "github.com/ascript-lang/ascc/internal/token"

// BlockStmt is a sequence of statements forming a lexical scope.
type BlockStmt struct {
	Statements []Statement
	Span       token.Span
}

func (s *BlockStmt) Pos() token.Span { return s.Span }
func (s *BlockStmt) statementNode() {}

// ExprStmt wraps an expression evaluated for its side effect, e.g. a bare
// call or assignment statement.
type ExprStmt struct {
	Expr Expression
	Span token.Span
}

func (s *ExprStmt) Pos() token.Span { return s.Span }
func (s *ExprStmt) statementNode() {}

// VarDecl declares a local variable. Type may be nil to request `auto`
// type inference from Init.
type VarDecl struct {
	Type    *TypeName
	Name    string
	Init    Expression
	IsConst bool
	Span    token.Span
}

func (s *VarDecl) Pos() token.Span { return s.Span }
func (s *VarDecl) statementNode() {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Cond Expression
	Then Statement
	Else Statement
	Span token.Span
}

func (s *IfStmt) Pos() token.Span { return s.Span }
func (s *IfStmt) statementNode() {}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Cond Expression
	Body Statement
	Span token.Span
}

func (s *WhileStmt) Pos() token.Span { return s.Span }
func (s *WhileStmt) statementNode() {}

// DoWhileStmt is a post-tested loop.
type DoWhileStmt struct {
	Body Statement
	Cond Expression
	Span token.Span
}

func (s *DoWhileStmt) Pos() token.Span { return s.Span }
func (s *DoWhileStmt) statementNode() {}

// ForStmt is a C-style counted loop; any clause may be nil.
type ForStmt struct {
	Init Statement
	Cond Expression
	Post Statement
	Body Statement
	Span token.Span
}

func (s *ForStmt) Pos() token.Span { return s.Span }
func (s *ForStmt) statementNode() {}

// CaseClause is one `case Values: Body` arm of a SwitchStmt. An empty
// Values slice marks the default arm.
type CaseClause struct {
	Values []Expression
	Body   []Statement
	Span   token.Span
}

func (c *CaseClause) Pos() token.Span { return c.Span }

// SwitchStmt dispatches on Subject against each clause's constant values.
type SwitchStmt struct {
	Subject Expression
	Cases   []*CaseClause
	Span    token.Span
}

func (s *SwitchStmt) Pos() token.Span { return s.Span }
func (s *SwitchStmt) statementNode() {}

// BreakStmt exits the nearest enclosing loop or switch.
type BreakStmt struct {
	Span token.Span
}

func (s *BreakStmt) Pos() token.Span { return s.Span }
func (s *BreakStmt) statementNode() {}

// ContinueStmt jumps to the next iteration of the nearest enclosing loop.
type ContinueStmt struct {
	Span token.Span
}

func (s *ContinueStmt) Pos() token.Span { return s.Span }
func (s *ContinueStmt) statementNode() {}

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Value Expression
	Span  token.Span
}

func (s *ReturnStmt) Pos() token.Span { return s.Span }
func (s *ReturnStmt) statementNode() {}

// CatchClause is one `catch (Type Name) Body` arm of a TryStmt.
type CatchClause struct {
	Type *TypeName
	Name string
	Body *BlockStmt
	Span token.Span
}

func (c *CatchClause) Pos() token.Span { return c.Span }

// TryStmt is exception handling: Try runs, then the first CatchClause
// whose Type matches the thrown exception's type runs, then Finally (if
// present) always runs.
type TryStmt struct {
	Try     *BlockStmt
	Catches []*CatchClause
	Finally *BlockStmt
	Span    token.Span
}

func (s *TryStmt) Pos() token.Span { return s.Span }
func (s *TryStmt) statementNode() {}
