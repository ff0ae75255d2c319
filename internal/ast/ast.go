// Package ast defines the abstract syntax tree (AST) of Quill programs.
//
// Every node is an *ast.Node whose Kind selects the concrete payload stored in
// Node. The set of kinds is closed: passes dispatch with a single switch on
// Kind instead of methods on the payloads.
package ast

import "fmt"

type NodeKind int

const (
	STMT_START NodeKind = iota // statement node start delimiter

	KIND_EXPR_STMT
	KIND_VAR_STMT
	KIND_BLOCK_STMT
	KIND_IF_STMT
	KIND_WHILE_STMT
	KIND_FOR_STMT
	KIND_RETURN_STMT
	KIND_BREAK_STMT
	KIND_CONTINUE_STMT
	KIND_FN_DECL

	STMT_END // statement node end delimiter

	EXPR_START // expression node start delimiter

	KIND_LITERAL_EXPR
	KIND_ID_EXPR
	KIND_UNARY_EXPR
	KIND_BINARY_EXPR
	KIND_GROUPING_EXPR
	KIND_CALL_EXPR
	KIND_INDEX_EXPR
	KIND_ASSIGN_EXPR

	EXPR_END // expression node end delimiter
)

type Node struct {
	Kind NodeKind
	Node any
}

func NewNode(kind NodeKind, node any) *Node {
	return &Node{Kind: kind, Node: node}
}

func (n *Node) IsStmt() bool {
	return n.Kind > STMT_START && n.Kind < STMT_END
}

func (n *Node) IsExpr() bool {
	return n.Kind > EXPR_START && n.Kind < EXPR_END
}

func (n *Node) IsId() bool {
	return n.Kind == KIND_ID_EXPR
}

func (kind NodeKind) String() string {
	switch kind {
	case KIND_EXPR_STMT:
		return "KIND_EXPR_STMT"
	case KIND_VAR_STMT:
		return "KIND_VAR_STMT"
	case KIND_BLOCK_STMT:
		return "KIND_BLOCK_STMT"
	case KIND_IF_STMT:
		return "KIND_IF_STMT"
	case KIND_WHILE_STMT:
		return "KIND_WHILE_STMT"
	case KIND_FOR_STMT:
		return "KIND_FOR_STMT"
	case KIND_RETURN_STMT:
		return "KIND_RETURN_STMT"
	case KIND_BREAK_STMT:
		return "KIND_BREAK_STMT"
	case KIND_CONTINUE_STMT:
		return "KIND_CONTINUE_STMT"
	case KIND_FN_DECL:
		return "KIND_FN_DECL"
	case KIND_LITERAL_EXPR:
		return "KIND_LITERAL_EXPR"
	case KIND_ID_EXPR:
		return "KIND_ID_EXPR"
	case KIND_UNARY_EXPR:
		return "KIND_UNARY_EXPR"
	case KIND_BINARY_EXPR:
		return "KIND_BINARY_EXPR"
	case KIND_GROUPING_EXPR:
		return "KIND_GROUPING_EXPR"
	case KIND_CALL_EXPR:
		return "KIND_CALL_EXPR"
	case KIND_INDEX_EXPR:
		return "KIND_INDEX_EXPR"
	case KIND_ASSIGN_EXPR:
		return "KIND_ASSIGN_EXPR"
	default:
		return fmt.Sprintf("Unknown Node Kind: %d", int(kind))
	}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return Dump(n)
}
