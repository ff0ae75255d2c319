package ast

import (
	"github.com/quill-lang/quill/internal/lexer/token"
)

type ExprStmt struct {
	Expr *Node
}

// VarStmt is `let name = value;`. Value is nil when the initializer is
// omitted.
type VarStmt struct {
	Name  *IdExpr
	Value *Node
	Let   token.Pos
}

type BlockStmt struct {
	OpenCurly  token.Pos
	Statements []*Node
	CloseCurly token.Pos
}

// IfStmt chains `else if` by storing another KIND_IF_STMT node in Else.
type IfStmt struct {
	If   token.Pos
	Cond *Node
	Then *BlockStmt
	Else *Node
}

type WhileStmt struct {
	While token.Pos
	Cond  *Node
	Block *BlockStmt
}

// ForStmt is `for init; cond; update { ... }`. All three header parts are
// optional. Init is either a KIND_VAR_STMT or a KIND_EXPR_STMT.
type ForStmt struct {
	For    token.Pos
	Init   *Node
	Cond   *Node
	Update *Node
	Block  *BlockStmt
}

type ReturnStmt struct {
	Return token.Pos
	Value  *Node
}

type BreakStmt struct {
	Pos token.Pos
}

type ContinueStmt struct {
	Pos token.Pos
}

type Param struct {
	Name string
	Pos  token.Pos
}

type FnDecl struct {
	Fn     token.Pos
	Name   *IdExpr
	Params []*Param
	Block  *BlockStmt
}

func (fn *FnDecl) Arity() int {
	return len(fn.Params)
}
