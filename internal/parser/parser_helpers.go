package parser

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer"
)

const defaultFilename = "test.ql"

func FakeLoc(filename string) *ast.Loc {
	if filename == "" {
		filename = defaultFilename
	}
	return ast.LocFromName(filename)
}

// ParseFrom lexes and parses src in one go. Useful for testing.
func ParseFrom(src, filename string) (*ast.Program, *diagnostics.Collector, error) {
	collector := diagnostics.New()
	loc := FakeLoc(filename)

	lex := lexer.New(loc, []byte(src), collector)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, collector, err
	}

	program, err := New(tokens, collector).ParseProgram(loc)
	return program, collector, err
}

func ParseExprFrom(expr, filename string) (*ast.Node, error) {
	collector := diagnostics.New()

	lex := lexer.New(FakeLoc(filename), []byte(expr), collector)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}

	return New(tokens, collector).ParseSingleExpr()
}
