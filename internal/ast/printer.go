package ast

import (
	"strings"

	"github.com/quill-lang/quill/internal/lexer/token"
)

const indentUnit = "    "

// Print renders a program back to Quill source. Parsing the output yields a
// tree equal to the input, positions aside.
func Print(program *Program) string {
	var p printer
	for _, stmt := range program.Body {
		p.stmt(stmt)
	}
	return p.sb.String()
}

// PrintNode renders a single statement or expression.
func PrintNode(n *Node) string {
	var p printer
	if n.IsExpr() {
		p.expr(n)
	} else {
		p.stmt(n)
	}
	return strings.TrimRight(p.sb.String(), "\n")
}

type printer struct {
	sb    strings.Builder
	depth int
}

func (p *printer) line(parts ...string) {
	p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
	for _, part := range parts {
		p.sb.WriteString(part)
	}
	p.sb.WriteByte('\n')
}

func (p *printer) stmt(n *Node) {
	switch n.Kind {
	case KIND_EXPR_STMT:
		p.line(exprString(n.Node.(*ExprStmt).Expr), ";")
	case KIND_VAR_STMT:
		p.line(varString(n.Node.(*VarStmt)))
	case KIND_BLOCK_STMT:
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.block(n.Node.(*BlockStmt))
		p.sb.WriteByte('\n')
	case KIND_IF_STMT:
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.ifChain(n.Node.(*IfStmt))
		p.sb.WriteByte('\n')
	case KIND_WHILE_STMT:
		while := n.Node.(*WhileStmt)
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.sb.WriteString("while " + exprString(while.Cond) + " ")
		p.block(while.Block)
		p.sb.WriteByte('\n')
	case KIND_FOR_STMT:
		forStmt := n.Node.(*ForStmt)
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.sb.WriteString("for ")
		switch {
		case forStmt.Init == nil:
			p.sb.WriteString(";")
		case forStmt.Init.Kind == KIND_VAR_STMT:
			p.sb.WriteString(varString(forStmt.Init.Node.(*VarStmt)))
		default:
			p.sb.WriteString(exprString(forStmt.Init.Node.(*ExprStmt).Expr) + ";")
		}
		if forStmt.Cond != nil {
			p.sb.WriteString(" " + exprString(forStmt.Cond))
		}
		p.sb.WriteString(";")
		if forStmt.Update != nil {
			p.sb.WriteString(" " + exprString(forStmt.Update))
		}
		p.sb.WriteString(" ")
		p.block(forStmt.Block)
		p.sb.WriteByte('\n')
	case KIND_RETURN_STMT:
		ret := n.Node.(*ReturnStmt)
		if ret.Value == nil {
			p.line("return;")
		} else {
			p.line("return ", exprString(ret.Value), ";")
		}
	case KIND_BREAK_STMT:
		p.line("break;")
	case KIND_CONTINUE_STMT:
		p.line("continue;")
	case KIND_FN_DECL:
		fn := n.Node.(*FnDecl)
		names := make([]string, len(fn.Params))
		for i, param := range fn.Params {
			names[i] = param.Name
		}
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.sb.WriteString("fn " + fn.Name.Name + "(" + strings.Join(names, ", ") + ") ")
		p.block(fn.Block)
		p.sb.WriteByte('\n')
	default:
		p.line(exprString(n))
	}
}

// block writes `{ ... }` starting at the current column, without a trailing
// newline.
func (p *printer) block(block *BlockStmt) {
	if len(block.Statements) == 0 {
		p.sb.WriteString("{}")
		return
	}
	p.sb.WriteString("{\n")
	p.depth++
	for _, stmt := range block.Statements {
		p.stmt(stmt)
	}
	p.depth--
	p.sb.WriteString(strings.Repeat(indentUnit, p.depth) + "}")
}

func (p *printer) ifChain(ifStmt *IfStmt) {
	p.sb.WriteString("if " + exprString(ifStmt.Cond) + " ")
	p.block(ifStmt.Then)
	if ifStmt.Else == nil {
		return
	}
	p.sb.WriteString(" else ")
	switch ifStmt.Else.Kind {
	case KIND_IF_STMT:
		p.ifChain(ifStmt.Else.Node.(*IfStmt))
	case KIND_BLOCK_STMT:
		p.block(ifStmt.Else.Node.(*BlockStmt))
	}
}

func (p *printer) expr(n *Node) {
	p.sb.WriteString(exprString(n))
}

func varString(v *VarStmt) string {
	if v.Value == nil {
		return "let " + v.Name.Name + ";"
	}
	return "let " + v.Name.Name + " = " + exprString(v.Value) + ";"
}

func exprString(n *Node) string {
	switch n.Kind {
	case KIND_LITERAL_EXPR:
		lit := n.Node.(*LiteralExpr)
		switch lit.Kind {
		case LITERAL_NUMBER:
			return lit.Raw
		case LITERAL_STRING:
			return QuoteString(lit.Str)
		case LITERAL_BOOL:
			if lit.Bool {
				return "true"
			}
			return "false"
		default:
			return "nil"
		}
	case KIND_ID_EXPR:
		return n.Node.(*IdExpr).Name
	case KIND_UNARY_EXPR:
		unary := n.Node.(*UnaryExpr)
		if unary.Op == token.NOT {
			return "not " + exprString(unary.Value)
		}
		return unary.Op.String() + exprString(unary.Value)
	case KIND_BINARY_EXPR:
		bin := n.Node.(*BinaryExpr)
		return exprString(bin.Left) + " " + bin.Op.String() + " " + exprString(bin.Right)
	case KIND_GROUPING_EXPR:
		return "(" + exprString(n.Node.(*GroupingExpr).Expr) + ")"
	case KIND_CALL_EXPR:
		call := n.Node.(*CallExpr)
		args := make([]string, len(call.Args))
		for i, arg := range call.Args {
			args[i] = exprString(arg)
		}
		return exprString(call.Callee) + "(" + strings.Join(args, ", ") + ")"
	case KIND_INDEX_EXPR:
		index := n.Node.(*IndexExpr)
		return exprString(index.Target) + "[" + exprString(index.Index) + "]"
	case KIND_ASSIGN_EXPR:
		assign := n.Node.(*AssignExpr)
		return assign.Name.Name + " = " + exprString(assign.Value)
	}
	return ""
}

// QuoteString is the inverse of the lexer's escape handling.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(ch)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
