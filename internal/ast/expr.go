package ast

import (
	"github.com/quill-lang/quill/internal/lexer/token"
)

type LiteralKind int

const (
	LITERAL_NUMBER LiteralKind = iota
	LITERAL_STRING
	LITERAL_BOOL
	LITERAL_NIL
)

func (kind LiteralKind) String() string {
	switch kind {
	case LITERAL_NUMBER:
		return "number"
	case LITERAL_STRING:
		return "string"
	case LITERAL_BOOL:
		return "bool"
	default:
		return "nil"
	}
}

// LiteralExpr keeps the source spelling of numbers in Raw so the
// pretty-printer reproduces what the user wrote.
type LiteralExpr struct {
	Kind   LiteralKind
	Raw    string
	Number float64
	Str    string
	Bool   bool
	Pos    token.Pos
}

type IdExpr struct {
	Name string
	Pos  token.Pos
}

type UnaryExpr struct {
	Op    token.Kind
	OpPos token.Pos
	Value *Node
}

type BinaryExpr struct {
	Left  *Node
	Op    token.Kind
	OpPos token.Pos
	Right *Node
}

type GroupingExpr struct {
	Expr *Node
	Pos  token.Pos
}

type CallExpr struct {
	Callee *Node
	Args   []*Node
	Paren  token.Pos
}

type IndexExpr struct {
	Target  *Node
	Index   *Node
	Bracket token.Pos
}

// AssignExpr only ever targets a plain name; the parser rejects anything else.
type AssignExpr struct {
	Name  *IdExpr
	Value *Node
	Pos   token.Pos
}

var UNARY map[token.Kind]bool = map[token.Kind]bool{
	token.NOT:   true,
	token.MINUS: true,
}

var ARITHMETIC map[token.Kind]bool = map[token.Kind]bool{
	token.PLUS:    true,
	token.MINUS:   true,
	token.STAR:    true,
	token.SLASH:   true,
	token.PERCENT: true,
	token.CARET:   true,
}

var COMPARISON map[token.Kind]bool = map[token.Kind]bool{
	token.LESS:       true,
	token.LESS_EQ:    true,
	token.GREATER:    true,
	token.GREATER_EQ: true,
}

var EQUALITY map[token.Kind]bool = map[token.Kind]bool{
	token.EQUAL_EQUAL: true,
	token.BANG_EQUAL:  true,
}

var LOGICAL map[token.Kind]bool = map[token.Kind]bool{
	token.AND: true,
	token.OR:  true,
}

// Position of the first token of an expression, used for diagnostics.
func ExprPos(n *Node) token.Pos {
	switch n.Kind {
	case KIND_LITERAL_EXPR:
		return n.Node.(*LiteralExpr).Pos
	case KIND_ID_EXPR:
		return n.Node.(*IdExpr).Pos
	case KIND_UNARY_EXPR:
		return n.Node.(*UnaryExpr).OpPos
	case KIND_BINARY_EXPR:
		return ExprPos(n.Node.(*BinaryExpr).Left)
	case KIND_GROUPING_EXPR:
		return n.Node.(*GroupingExpr).Pos
	case KIND_CALL_EXPR:
		return ExprPos(n.Node.(*CallExpr).Callee)
	case KIND_INDEX_EXPR:
		return ExprPos(n.Node.(*IndexExpr).Target)
	case KIND_ASSIGN_EXPR:
		return n.Node.(*AssignExpr).Name.Pos
	}
	return token.Pos{}
}

// Unwrap strips grouping parentheses.
func Unwrap(n *Node) *Node {
	for n != nil && n.Kind == KIND_GROUPING_EXPR {
		n = n.Node.(*GroupingExpr).Expr
	}
	return n
}
