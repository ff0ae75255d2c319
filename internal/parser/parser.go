package parser

import (
	"fmt"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
)

type Parser struct {
	cursor    *cursor
	collector *diagnostics.Collector
}

func New(tokens []*token.Token, collector *diagnostics.Collector) *Parser {
	parser := new(Parser)
	parser.cursor = newCursor(tokens)
	parser.collector = collector
	return parser
}

// ParseProgram parses statements until EOF. A statement with a syntax error is
// reported, skipped up to the next synchronization point and parsing goes on,
// so the returned error (COMPILER_ERROR_FOUND) covers every syntax error of
// the input. The partial program is returned either way.
func (p *Parser) ParseProgram(loc *ast.Loc) (*ast.Program, error) {
	mark := p.collector.Count()
	program := &ast.Program{Loc: loc}

	for !p.cursor.nextIs(token.EOF) {
		if p.cursor.nextIs(token.CLOSE_CURLY) {
			tok := p.cursor.next()
			p.errorAt(tok.Pos, "unexpected '}' outside of a block")
			continue
		}

		stmt, ok := p.parseStmtOrSync()
		if ok {
			program.Body = append(program.Body, stmt)
		}
	}

	if p.collector.Count() > mark {
		return program, diagnostics.COMPILER_ERROR_FOUND
	}
	return program, nil
}

// ParseSingleExpr parses input that must hold exactly one expression.
func (p *Parser) ParseSingleExpr() (*ast.Node, error) {
	expr, err := p.parseExpr(PREC_LOWEST)
	if err != nil {
		return nil, err
	}
	if eof, ok := p.expect(token.EOF); !ok {
		p.errorExpected("end of expression", eof)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
	return expr, nil
}

func (p *Parser) parseStmtOrSync() (*ast.Node, bool) {
	start := p.cursor.offset
	stmt, err := p.parseStmt()
	if err == nil {
		return stmt, true
	}

	p.synchronize()
	if p.cursor.offset == start && !p.cursor.nextIs(token.EOF) && !p.cursor.nextIs(token.CLOSE_CURLY) {
		p.cursor.skip()
	}
	return nil, false
}

// synchronize discards tokens until just after a `;`, or until a token that
// starts a statement, a `}` or EOF.
func (p *Parser) synchronize() {
	for {
		tok := p.cursor.peek()
		switch {
		case tok.Kind == token.EOF, tok.Kind == token.CLOSE_CURLY, token.STMT_START[tok.Kind]:
			return
		case tok.Kind == token.SEMICOLON:
			p.cursor.skip()
			return
		}
		p.cursor.skip()
	}
}

func (p *Parser) parseStmt() (*ast.Node, error) {
	tok := p.cursor.peek()
	switch tok.Kind {
	case token.LET:
		return p.parseVar()
	case token.FN:
		return p.parseFnDecl()
	case token.OPEN_CURLY:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.NewNode(ast.KIND_BLOCK_STMT, block), nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhileLoop()
	case token.FOR:
		return p.parseForLoop()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		p.cursor.skip()
		if err := p.expectSemicolon(); err != nil {
			return nil, err
		}
		return ast.NewNode(ast.KIND_BREAK_STMT, &ast.BreakStmt{Pos: tok.Pos}), nil
	case token.CONTINUE:
		p.cursor.skip()
		if err := p.expectSemicolon(); err != nil {
			return nil, err
		}
		return ast.NewNode(ast.KIND_CONTINUE_STMT, &ast.ContinueStmt{Pos: tok.Pos}), nil
	default:
		expr, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expectSemicolon(); err != nil {
			return nil, err
		}
		return ast.NewNode(ast.KIND_EXPR_STMT, &ast.ExprStmt{Expr: expr}), nil
	}
}

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	openCurly, ok := p.expect(token.OPEN_CURLY)
	if !ok {
		p.errorExpected("'{'", openCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	var statements []*ast.Node
	for !p.cursor.nextIs(token.CLOSE_CURLY) && !p.cursor.nextIs(token.EOF) {
		stmt, ok := p.parseStmtOrSync()
		if ok {
			statements = append(statements, stmt)
		}
	}

	closeCurly, ok := p.expect(token.CLOSE_CURLY)
	if !ok {
		p.errorExpected("statement or '}'", closeCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	return &ast.BlockStmt{
		OpenCurly:  openCurly.Pos,
		Statements: statements,
		CloseCurly: closeCurly.Pos,
	}, nil
}

func (p *Parser) parseVar() (*ast.Node, error) {
	varStmt, err := p.parseVarNoSemicolon()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return ast.NewNode(ast.KIND_VAR_STMT, varStmt), nil
}

func (p *Parser) parseVarNoSemicolon() (*ast.VarStmt, error) {
	let := p.cursor.next() // let

	name, ok := p.expect(token.ID)
	if !ok {
		p.errorExpected("identifier", name)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	varStmt := &ast.VarStmt{
		Name: &ast.IdExpr{Name: name.Lexeme, Pos: name.Pos},
		Let:  let.Pos,
	}

	if _, ok := p.expect(token.EQUAL); ok {
		value, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		varStmt.Value = value
	}
	return varStmt, nil
}

func (p *Parser) parseFnDecl() (*ast.Node, error) {
	fn := p.cursor.next() // fn

	name, ok := p.expect(token.ID)
	if !ok {
		p.errorExpected("function name", name)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	params, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	fnDecl := &ast.FnDecl{
		Fn:     fn.Pos,
		Name:   &ast.IdExpr{Name: name.Lexeme, Pos: name.Pos},
		Params: params,
		Block:  block,
	}
	return ast.NewNode(ast.KIND_FN_DECL, fnDecl), nil
}

func (p *Parser) parseFunctionParams() ([]*ast.Param, error) {
	openParen, ok := p.expect(token.OPEN_PAREN)
	if !ok {
		p.errorExpected("'('", openParen)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	var params []*ast.Param
	if _, ok := p.expect(token.CLOSE_PAREN); ok {
		return params, nil
	}

	for {
		name, ok := p.expect(token.ID)
		if !ok {
			p.errorExpected("parameter name", name)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		params = append(params, &ast.Param{Name: name.Lexeme, Pos: name.Pos})

		if _, ok := p.expect(token.COMMA); ok {
			continue
		}
		closeParen, ok := p.expect(token.CLOSE_PAREN)
		if !ok {
			p.errorExpected("',' or ')'", closeParen)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		return params, nil
	}
}

func (p *Parser) parseIf() (*ast.Node, error) {
	ifStmt, err := p.parseIfStmt()
	if err != nil {
		return nil, err
	}
	return ast.NewNode(ast.KIND_IF_STMT, ifStmt), nil
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	ifToken := p.cursor.next() // if

	cond, err := p.parseExpr(PREC_LOWEST)
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	ifStmt := &ast.IfStmt{If: ifToken.Pos, Cond: cond, Then: then}

	if _, ok := p.expect(token.ELSE); !ok {
		return ifStmt, nil
	}

	if p.cursor.nextIs(token.IF) {
		elseIf, err := p.parseIfStmt()
		if err != nil {
			return nil, err
		}
		ifStmt.Else = ast.NewNode(ast.KIND_IF_STMT, elseIf)
		return ifStmt, nil
	}

	elseBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	ifStmt.Else = ast.NewNode(ast.KIND_BLOCK_STMT, elseBlock)
	return ifStmt, nil
}

func (p *Parser) parseWhileLoop() (*ast.Node, error) {
	while := p.cursor.next() // while

	cond, err := p.parseExpr(PREC_LOWEST)
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return ast.NewNode(ast.KIND_WHILE_STMT, &ast.WhileStmt{While: while.Pos, Cond: cond, Block: block}), nil
}

func (p *Parser) parseForLoop() (*ast.Node, error) {
	forToken := p.cursor.next() // for
	forLoop := &ast.ForStmt{For: forToken.Pos}

	switch p.cursor.peek().Kind {
	case token.SEMICOLON:
	case token.LET:
		init, err := p.parseVarNoSemicolon()
		if err != nil {
			return nil, err
		}
		forLoop.Init = ast.NewNode(ast.KIND_VAR_STMT, init)
	default:
		init, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		forLoop.Init = ast.NewNode(ast.KIND_EXPR_STMT, &ast.ExprStmt{Expr: init})
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	if !p.cursor.nextIs(token.SEMICOLON) {
		cond, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		forLoop.Cond = cond
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	if !p.cursor.nextIs(token.OPEN_CURLY) {
		update, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		forLoop.Update = update
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	forLoop.Block = block

	return ast.NewNode(ast.KIND_FOR_STMT, forLoop), nil
}

func (p *Parser) parseReturn() (*ast.Node, error) {
	ret := p.cursor.next() // return
	returnStmt := &ast.ReturnStmt{Return: ret.Pos}

	if !p.cursor.nextIs(token.SEMICOLON) {
		value, err := p.parseExpr(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		returnStmt.Value = value
	}

	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return ast.NewNode(ast.KIND_RETURN_STMT, returnStmt), nil
}

func (p *Parser) expect(expectedKind token.Kind) (*token.Token, bool) {
	tok := p.cursor.peek()
	if tok.Kind != expectedKind {
		return tok, false
	}
	p.cursor.skip()
	return tok, true
}

func (p *Parser) expectSemicolon() error {
	semicolon, ok := p.expect(token.SEMICOLON)
	if !ok {
		p.errorExpected("';'", semicolon)
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func (p *Parser) errorExpected(expected string, found *token.Token) {
	p.errorAt(found.Pos, "expected %s, found %s", expected, describe(found))
}

func (p *Parser) errorAt(pos token.Pos, format string, args ...any) {
	p.collector.ReportAndSave(diagnostics.Errorf(diagnostics.PARSE_ERROR, pos, format, args...))
}

func describe(tok *token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("'%s'", tok.Name())
}
