package interp

import (
	"sandpit/internal/source"
	"sandpit/internal/token"
)

// AST исполняемой (стёртой) формы. Снипеты короткие, поэтому обычные
// вложенные узлы: арена здесь не окупается.

type Node interface {
	Span() source.Span
}

// ===== Statements =====

type Stmt interface {
	Node
	stmt()
}

// Program is the root node: the snippet's statement list.
type Program struct {
	Stmts []Stmt
	Sp    source.Span
}

func (p *Program) Span() source.Span { return p.Sp }

// VarDecl represents one 'let'/'const'/'var' declarator.
// 'let a = 1, b = 2' разворачивается в два VarDecl.
type VarDecl struct {
	Kw    token.Kind // KwLet | KwConst | KwVar
	Name  string
	Init  Expr // может быть nil
	Sp    source.Span
	NameS source.Span
}

type ExprStmt struct {
	X  Expr
	Sp source.Span
}

type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt // nil | *BlockStmt | *IfStmt
	Sp   source.Span
}

type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	Sp   source.Span
}

type ForStmt struct {
	Init Stmt // nil | *VarDecl | *ExprStmt
	Cond Expr // nil = true
	Post Expr // nil
	Body *BlockStmt
	Sp   source.Span
}

type FuncDecl struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Sp     source.Span
}

type ReturnStmt struct {
	X  Expr // может быть nil
	Sp source.Span
}

type ThrowStmt struct {
	X  Expr
	Sp source.Span
}

type BreakStmt struct{ Sp source.Span }

type ContinueStmt struct{ Sp source.Span }

type BlockStmt struct {
	Stmts []Stmt
	Sp    source.Span
	// Flat: список statement'ов без собственной области видимости.
	// Так разворачивается 'let a = 1, b = 2' — деклараторы обязаны
	// попасть в окружение объемлющего блока, а не в дочернее.
	Flat bool
}

func (s *VarDecl) Span() source.Span      { return s.Sp }
func (s *ExprStmt) Span() source.Span     { return s.Sp }
func (s *IfStmt) Span() source.Span       { return s.Sp }
func (s *WhileStmt) Span() source.Span    { return s.Sp }
func (s *ForStmt) Span() source.Span      { return s.Sp }
func (s *FuncDecl) Span() source.Span     { return s.Sp }
func (s *ReturnStmt) Span() source.Span   { return s.Sp }
func (s *ThrowStmt) Span() source.Span    { return s.Sp }
func (s *BreakStmt) Span() source.Span    { return s.Sp }
func (s *ContinueStmt) Span() source.Span { return s.Sp }
func (s *BlockStmt) Span() source.Span    { return s.Sp }

func (*VarDecl) stmt()      {}
func (*ExprStmt) stmt()     {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*ForStmt) stmt()      {}
func (*FuncDecl) stmt()     {}
func (*ReturnStmt) stmt()   {}
func (*ThrowStmt) stmt()    {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}
func (*BlockStmt) stmt()    {}

// ===== Expressions =====

type Expr interface {
	Node
	expr()
}

type IdentExpr struct {
	Name string
	Sp   source.Span
}

type NumberExpr struct {
	Value float64
	Sp    source.Span
}

type StringExpr struct {
	Value string
	Sp    source.Span
}

type BoolExpr struct {
	Value bool
	Sp    source.Span
}

type NullExpr struct{ Sp source.Span }

type UndefinedExpr struct{ Sp source.Span }

type UnaryExpr struct {
	Op token.Kind // Minus | Bang | KwTypeof
	X  Expr
	Sp source.Span
}

type BinaryExpr struct {
	Op   token.Kind
	L, R Expr
	Sp   source.Span
}

type CondExpr struct {
	C, T, F Expr
	Sp      source.Span
}

type AssignExpr struct {
	Target Expr // *IdentExpr | *MemberExpr | *IndexExpr
	Value  Expr
	Sp     source.Span
}

type CallExpr struct {
	Fn   Expr
	Args []Expr
	Sp   source.Span
}

type MemberExpr struct {
	X    Expr
	Name string
	Sp   source.Span
}

type IndexExpr struct {
	X, I Expr
	Sp   source.Span
}

type ArrayExpr struct {
	Elems []Expr
	Sp    source.Span
}

type ObjectExpr struct {
	Keys []string
	Vals []Expr
	Sp   source.Span
}

type ArrowExpr struct {
	Params []string
	Body   *BlockStmt // тело-выражение оборачивается в return
	Sp     source.Span
}

func (e *IdentExpr) Span() source.Span     { return e.Sp }
func (e *NumberExpr) Span() source.Span    { return e.Sp }
func (e *StringExpr) Span() source.Span    { return e.Sp }
func (e *BoolExpr) Span() source.Span      { return e.Sp }
func (e *NullExpr) Span() source.Span      { return e.Sp }
func (e *UndefinedExpr) Span() source.Span { return e.Sp }
func (e *UnaryExpr) Span() source.Span     { return e.Sp }
func (e *BinaryExpr) Span() source.Span    { return e.Sp }
func (e *CondExpr) Span() source.Span      { return e.Sp }
func (e *AssignExpr) Span() source.Span    { return e.Sp }
func (e *CallExpr) Span() source.Span      { return e.Sp }
func (e *MemberExpr) Span() source.Span    { return e.Sp }
func (e *IndexExpr) Span() source.Span     { return e.Sp }
func (e *ArrayExpr) Span() source.Span     { return e.Sp }
func (e *ObjectExpr) Span() source.Span    { return e.Sp }
func (e *ArrowExpr) Span() source.Span     { return e.Sp }

func (*IdentExpr) expr()     {}
func (*NumberExpr) expr()    {}
func (*StringExpr) expr()    {}
func (*BoolExpr) expr()      {}
func (*NullExpr) expr()      {}
func (*UndefinedExpr) expr() {}
func (*UnaryExpr) expr()     {}
func (*BinaryExpr) expr()    {}
func (*CondExpr) expr()      {}
func (*AssignExpr) expr()    {}
func (*CallExpr) expr()      {}
func (*MemberExpr) expr()    {}
func (*IndexExpr) expr()     {}
func (*ArrayExpr) expr()     {}
func (*ObjectExpr) expr()    {}
func (*ArrowExpr) expr()     {}
