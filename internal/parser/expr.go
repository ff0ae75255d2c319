package parser

import (
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
)

type precedence int

const (
	PREC_LOWEST     precedence = iota
	PREC_ASSIGN                // =
	PREC_OR                    // or
	PREC_AND                   // and
	PREC_EQUALITY              // == !=
	PREC_COMPARISON            // < <= > >=
	PREC_TERM                  // + -
	PREC_FACTOR                // * / %
	PREC_POWER                 // ^
	PREC_PREFIX                // -x not x
	PREC_POSTFIX               // f(x) s[i]
)

// infixPrecedence maps a token kind to its binding power when it follows an
// operand.
var infixPrecedence = map[token.Kind]precedence{
	token.EQUAL:        PREC_ASSIGN,
	token.OR:           PREC_OR,
	token.AND:          PREC_AND,
	token.EQUAL_EQUAL:  PREC_EQUALITY,
	token.BANG_EQUAL:   PREC_EQUALITY,
	token.LESS:         PREC_COMPARISON,
	token.LESS_EQ:      PREC_COMPARISON,
	token.GREATER:      PREC_COMPARISON,
	token.GREATER_EQ:   PREC_COMPARISON,
	token.PLUS:         PREC_TERM,
	token.MINUS:        PREC_TERM,
	token.STAR:         PREC_FACTOR,
	token.SLASH:        PREC_FACTOR,
	token.PERCENT:      PREC_FACTOR,
	token.CARET:        PREC_POWER,
	token.OPEN_PAREN:   PREC_POSTFIX,
	token.OPEN_BRACKET: PREC_POSTFIX,
}

var rightAssociative = map[token.Kind]bool{
	token.EQUAL: true,
	token.CARET: true,
}

// parseExpr parses a prefix term, then keeps folding infix and postfix
// operators that bind tighter than prec.
func (p *Parser) parseExpr(prec precedence) (*ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		infixPrec, ok := infixPrecedence[p.cursor.peek().Kind]
		if !ok || infixPrec <= prec {
			break
		}

		left, err = p.parseInfix(left, infixPrec)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (*ast.Node, error) {
	tok := p.cursor.peek()
	switch tok.Kind {
	case token.MINUS, token.NOT:
		p.cursor.skip()
		operand, err := p.parseExpr(PREC_PREFIX)
		if err != nil {
			return nil, err
		}
		unary := &ast.UnaryExpr{Op: tok.Kind, OpPos: tok.Pos, Value: operand}
		return ast.NewNode(ast.KIND_UNARY_EXPR, unary), nil
	case token.OPEN_PAREN:
		p.cursor.skip() // (
		expr, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		closeParen, ok := p.expect(token.CLOSE_PAREN)
		if !ok {
			p.errorExpected("')'", closeParen)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		return ast.NewNode(ast.KIND_GROUPING_EXPR, &ast.GroupingExpr{Expr: expr, Pos: tok.Pos}), nil
	case token.ID:
		p.cursor.skip()
		return ast.NewNode(ast.KIND_ID_EXPR, &ast.IdExpr{Name: tok.Lexeme, Pos: tok.Pos}), nil
	default:
		if tok.Kind.IsLiteral() {
			return p.parseLiteral()
		}
		p.errorExpected("expression", tok)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
}

func (p *Parser) parseLiteral() (*ast.Node, error) {
	tok := p.cursor.next()
	lit := &ast.LiteralExpr{Raw: tok.Lexeme, Pos: tok.Pos}

	switch tok.Kind {
	case token.INTEGER_LITERAL, token.FLOAT_LITERAL:
		number, err := strconv.ParseFloat(strings.ReplaceAll(tok.Lexeme, "_", ""), 64)
		if err != nil {
			p.errorAt(tok.Pos, "invalid number literal '%s'", tok.Lexeme)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		lit.Kind = ast.LITERAL_NUMBER
		lit.Number = number
	case token.STRING_LITERAL:
		lit.Kind = ast.LITERAL_STRING
		lit.Str = tok.Lexeme
		lit.Raw = ""
	case token.TRUE_BOOL_LITERAL, token.FALSE_BOOL_LITERAL:
		lit.Kind = ast.LITERAL_BOOL
		lit.Bool = tok.Kind == token.TRUE_BOOL_LITERAL
		lit.Raw = ""
	default:
		lit.Kind = ast.LITERAL_NIL
		lit.Raw = ""
	}
	return ast.NewNode(ast.KIND_LITERAL_EXPR, lit), nil
}

func (p *Parser) parseInfix(left *ast.Node, prec precedence) (*ast.Node, error) {
	op := p.cursor.peek()
	switch op.Kind {
	case token.OPEN_PAREN:
		return p.parseCall(left)
	case token.OPEN_BRACKET:
		return p.parseIndex(left)
	case token.EQUAL:
		return p.parseAssign(left, prec)
	}

	p.cursor.skip()

	rightPrec := prec
	if rightAssociative[op.Kind] {
		rightPrec = prec - 1
	}
	right, err := p.parseExpr(rightPrec)
	if err != nil {
		return nil, err
	}

	binary := &ast.BinaryExpr{Left: left, Op: op.Kind, OpPos: op.Pos, Right: right}
	return ast.NewNode(ast.KIND_BINARY_EXPR, binary), nil
}

func (p *Parser) parseAssign(target *ast.Node, prec precedence) (*ast.Node, error) {
	equal := p.cursor.next() // =
	if !target.IsId() {
		p.errorAt(equal.Pos, "invalid assignment target")
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	value, err := p.parseExpr(prec - 1)
	if err != nil {
		return nil, err
	}

	assign := &ast.AssignExpr{Name: target.Node.(*ast.IdExpr), Value: value, Pos: equal.Pos}
	return ast.NewNode(ast.KIND_ASSIGN_EXPR, assign), nil
}

func (p *Parser) parseCall(callee *ast.Node) (*ast.Node, error) {
	openParen := p.cursor.next() // (

	var args []*ast.Node
	if !p.cursor.nextIs(token.CLOSE_PAREN) {
		for {
			arg, err := p.parseExpr(PREC_LOWEST)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if _, ok := p.expect(token.COMMA); !ok {
				break
			}
		}
	}

	closeParen, ok := p.expect(token.CLOSE_PAREN)
	if !ok {
		p.errorExpected("',' or ')'", closeParen)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	call := &ast.CallExpr{Callee: callee, Args: args, Paren: openParen.Pos}
	return ast.NewNode(ast.KIND_CALL_EXPR, call), nil
}

func (p *Parser) parseIndex(target *ast.Node) (*ast.Node, error) {
	openBracket := p.cursor.next() // [

	index, err := p.parseExpr(PREC_LOWEST)
	if err != nil {
		return nil, err
	}

	closeBracket, ok := p.expect(token.CLOSE_BRACKET)
	if !ok {
		p.errorExpected("']'", closeBracket)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	indexExpr := &ast.IndexExpr{Target: target, Index: index, Bracket: openBracket.Pos}
	return ast.NewNode(ast.KIND_INDEX_EXPR, indexExpr), nil
}
