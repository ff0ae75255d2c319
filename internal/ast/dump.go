package ast

import (
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/lexer/token"
)

var OP_NAMES map[token.Kind]string = map[token.Kind]string{
	token.PLUS:        "Add",
	token.MINUS:       "Sub",
	token.STAR:        "Mul",
	token.SLASH:       "Div",
	token.PERCENT:     "Mod",
	token.CARET:       "Pow",
	token.EQUAL_EQUAL: "Eq",
	token.BANG_EQUAL:  "Ne",
	token.LESS:        "Lt",
	token.LESS_EQ:     "Le",
	token.GREATER:     "Gt",
	token.GREATER_EQ:  "Ge",
	token.AND:         "And",
	token.OR:          "Or",
}

// Dump renders a node in functional notation, e.g. `1 + 2 * 3` becomes
// `Add(1, Mul(2, 3))`. Grouping parentheses are transparent.
func Dump(n *Node) string {
	if n == nil {
		return "nil"
	}

	switch n.Kind {
	case KIND_LITERAL_EXPR:
		lit := n.Node.(*LiteralExpr)
		switch lit.Kind {
		case LITERAL_NUMBER:
			return strconv.FormatFloat(lit.Number, 'g', -1, 64)
		case LITERAL_STRING:
			return strconv.Quote(lit.Str)
		case LITERAL_BOOL:
			return strconv.FormatBool(lit.Bool)
		default:
			return "nil"
		}
	case KIND_ID_EXPR:
		return n.Node.(*IdExpr).Name
	case KIND_UNARY_EXPR:
		unary := n.Node.(*UnaryExpr)
		if unary.Op == token.NOT {
			return call("Not", Dump(unary.Value))
		}
		return call("Neg", Dump(unary.Value))
	case KIND_BINARY_EXPR:
		bin := n.Node.(*BinaryExpr)
		return call(OP_NAMES[bin.Op], Dump(bin.Left), Dump(bin.Right))
	case KIND_GROUPING_EXPR:
		return Dump(n.Node.(*GroupingExpr).Expr)
	case KIND_CALL_EXPR:
		c := n.Node.(*CallExpr)
		args := []string{Dump(c.Callee)}
		for _, arg := range c.Args {
			args = append(args, Dump(arg))
		}
		return call("Call", args...)
	case KIND_INDEX_EXPR:
		index := n.Node.(*IndexExpr)
		return call("Index", Dump(index.Target), Dump(index.Index))
	case KIND_ASSIGN_EXPR:
		assign := n.Node.(*AssignExpr)
		return call("Assign", assign.Name.Name, Dump(assign.Value))

	case KIND_EXPR_STMT:
		return call("Expr", Dump(n.Node.(*ExprStmt).Expr))
	case KIND_VAR_STMT:
		v := n.Node.(*VarStmt)
		return call("Let", v.Name.Name, Dump(v.Value))
	case KIND_BLOCK_STMT:
		return dumpBlock(n.Node.(*BlockStmt))
	case KIND_IF_STMT:
		ifStmt := n.Node.(*IfStmt)
		if ifStmt.Else == nil {
			return call("If", Dump(ifStmt.Cond), dumpBlock(ifStmt.Then))
		}
		return call("If", Dump(ifStmt.Cond), dumpBlock(ifStmt.Then), Dump(ifStmt.Else))
	case KIND_WHILE_STMT:
		while := n.Node.(*WhileStmt)
		return call("While", Dump(while.Cond), dumpBlock(while.Block))
	case KIND_FOR_STMT:
		forStmt := n.Node.(*ForStmt)
		return call("For", Dump(forStmt.Init), Dump(forStmt.Cond), Dump(forStmt.Update), dumpBlock(forStmt.Block))
	case KIND_RETURN_STMT:
		return call("Return", Dump(n.Node.(*ReturnStmt).Value))
	case KIND_BREAK_STMT:
		return "Break"
	case KIND_CONTINUE_STMT:
		return "Continue"
	case KIND_FN_DECL:
		fn := n.Node.(*FnDecl)
		names := make([]string, len(fn.Params))
		for i, param := range fn.Params {
			names[i] = param.Name
		}
		return call("Fn", fn.Name.Name, "["+strings.Join(names, ", ")+"]", dumpBlock(fn.Block))
	}
	return "?"
}

// DumpProgram dumps every top-level statement on its own line.
func DumpProgram(program *Program) string {
	var sb strings.Builder
	for _, stmt := range program.Body {
		sb.WriteString(Dump(stmt))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func dumpBlock(block *BlockStmt) string {
	stmts := make([]string, len(block.Statements))
	for i, stmt := range block.Statements {
		stmts[i] = Dump(stmt)
	}
	return call("Block", stmts...)
}

func call(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}
