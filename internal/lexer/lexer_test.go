package lexer

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
)

const filename = "test.ql"

func tokenize(input string) ([]*token.Token, *diagnostics.Collector, error) {
	collector := diagnostics.New()
	lex := New(ast.LocFromName(filename), []byte(input), collector)
	tokens, err := lex.Tokenize()
	return tokens, collector, err
}

type tokenKindTest struct {
	lexeme string
	kind   token.Kind
}

func TestTokenKinds(t *testing.T) {
	tests := []*tokenKindTest{
		{"let", token.LET},
		{"fn", token.FN},
		{"if", token.IF},
		{"else", token.ELSE},
		{"while", token.WHILE},
		{"for", token.FOR},
		{"return", token.RETURN},
		{"break", token.BREAK},
		{"continue", token.CONTINUE},
		{"and", token.AND},
		{"or", token.OR},
		{"not", token.NOT},
		{"true", token.TRUE_BOOL_LITERAL},
		{"false", token.FALSE_BOOL_LITERAL},
		{"nil", token.NIL_LITERAL},

		{"(", token.OPEN_PAREN},
		{")", token.CLOSE_PAREN},
		{"{", token.OPEN_CURLY},
		{"}", token.CLOSE_CURLY},
		{"[", token.OPEN_BRACKET},
		{"]", token.CLOSE_BRACKET},
		{",", token.COMMA},
		{";", token.SEMICOLON},
		{"=", token.EQUAL},
		{"!=", token.BANG_EQUAL},
		{"==", token.EQUAL_EQUAL},
		{">", token.GREATER},
		{">=", token.GREATER_EQ},
		{"<", token.LESS},
		{"<=", token.LESS_EQ},
		{"+", token.PLUS},
		{"-", token.MINUS},
		{"*", token.STAR},
		{"/", token.SLASH},
		{"%", token.PERCENT},
		{"^", token.CARET},

		{"lettuce", token.ID},
		{"_private", token.ID},
		{"x1", token.ID},
		{"Fn", token.ID},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenKind('%s')", test.lexeme), func(t *testing.T) {
			tokens, _, err := tokenize(test.lexeme)
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}
			if len(tokens) != 2 {
				t.Fatalf("expected 2 tokens (including EOF), but got %d", len(tokens))
			}
			if tokens[0].Kind != test.kind {
				t.Errorf("expected kind %s, but got %s", test.kind, tokens[0].Kind)
			}
			if tokens[1].Kind != token.EOF {
				t.Errorf("expected last token to be EOF, but got %s", tokens[1].Kind)
			}
		})
	}
}

type literalTest struct {
	input  string
	lexeme string
	kind   token.Kind
}

func TestLiterals(t *testing.T) {
	tests := []*literalTest{
		{"0", "0", token.INTEGER_LITERAL},
		{"42", "42", token.INTEGER_LITERAL},
		{"1_000_000", "1_000_000", token.INTEGER_LITERAL},
		{"3.14", "3.14", token.FLOAT_LITERAL},
		{"0.5", "0.5", token.FLOAT_LITERAL},
		{`""`, "", token.STRING_LITERAL},
		{`"hello, world"`, "hello, world", token.STRING_LITERAL},
		{`"a\nb"`, "a\nb", token.STRING_LITERAL},
		{`"tab\there"`, "tab\there", token.STRING_LITERAL},
		{`"\"quoted\""`, `"quoted"`, token.STRING_LITERAL},
		{`"back\\slash"`, `back\slash`, token.STRING_LITERAL},
		{`"\r\0"`, "\r\x00", token.STRING_LITERAL},
		{"\"multi\nline\"", "multi\nline", token.STRING_LITERAL},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestLiterals('%s')", test.input), func(t *testing.T) {
			tokens, _, err := tokenize(test.input)
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}
			if tokens[0].Kind != test.kind {
				t.Errorf("expected kind %s, but got %s", test.kind, tokens[0].Kind)
			}
			if tokens[0].Lexeme != test.lexeme {
				t.Errorf("expected lexeme %q, but got %q", test.lexeme, tokens[0].Lexeme)
			}
		})
	}
}

func TestMaximalMunch(t *testing.T) {
	tokens, _, err := tokenize("a<=b==c!=d>=e=f")
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	expected := []token.Kind{
		token.ID, token.LESS_EQ, token.ID, token.EQUAL_EQUAL, token.ID,
		token.BANG_EQUAL, token.ID, token.GREATER_EQ, token.ID, token.EQUAL,
		token.ID, token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, but got %d", len(expected), len(tokens))
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Errorf("token %d: expected %s, but got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "let x = 10;\n  print(x);"
	tokens, _, err := tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	expected := []*token.Token{
		token.New("let", token.LET, token.NewPosition(filename, 1, 1)),
		token.New("x", token.ID, token.NewPosition(filename, 5, 1)),
		token.New("", token.EQUAL, token.NewPosition(filename, 7, 1)),
		token.New("10", token.INTEGER_LITERAL, token.NewPosition(filename, 9, 1)),
		token.New("", token.SEMICOLON, token.NewPosition(filename, 11, 1)),
		token.New("print", token.ID, token.NewPosition(filename, 3, 2)),
		token.New("", token.OPEN_PAREN, token.NewPosition(filename, 8, 2)),
		token.New("x", token.ID, token.NewPosition(filename, 9, 2)),
		token.New("", token.CLOSE_PAREN, token.NewPosition(filename, 10, 2)),
		token.New("", token.SEMICOLON, token.NewPosition(filename, 11, 2)),
		token.New("", token.EOF, token.NewPosition(filename, 12, 2)),
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, but got %d", len(expected), len(tokens))
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], tokens[i]) {
			t.Errorf("token %d:\nexpected %v\ngot      %v", i, expected[i], tokens[i])
		}
	}
}

func TestComments(t *testing.T) {
	input := `// leading comment
let /* inline */ x = 1; // trailing
/* multi
   line */
x;`
	tokens, _, err := tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	expected := []token.Kind{
		token.LET, token.ID, token.EQUAL, token.INTEGER_LITERAL, token.SEMICOLON,
		token.ID, token.SEMICOLON, token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, but got %d", len(expected), len(tokens))
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Errorf("token %d: expected %s, but got %s", i, kind, tokens[i].Kind)
		}
	}
	if tokens[5].Pos.Line != 5 {
		t.Errorf("expected 'x' on line 5, but got line %d", tokens[5].Pos.Line)
	}
}

type lexicalErrorTest struct {
	input string
	diags []diagnostics.Diag
}

func TestLexicalErrors(t *testing.T) {
	lexErr := func(column, line int, message string) diagnostics.Diag {
		return diagnostics.Diag{
			Kind:    diagnostics.LEX_ERROR,
			Pos:     token.NewPosition(filename, column, line),
			Message: message,
		}
	}

	tests := []*lexicalErrorTest{
		{
			input: "?",
			diags: []diagnostics.Diag{lexErr(1, 1, "unexpected character '?'")},
		},
		{
			input: "!",
			diags: []diagnostics.Diag{lexErr(1, 1, "unexpected character '!'")},
		},
		{
			input: "\"Unterminated string literal here",
			diags: []diagnostics.Diag{lexErr(1, 1, "unterminated string literal")},
		},
		{
			input: "\"",
			diags: []diagnostics.Diag{lexErr(1, 1, "unterminated string literal")},
		},
		{
			input: `"\q"`,
			diags: []diagnostics.Diag{lexErr(2, 1, `unknown escape sequence '\q'`)},
		},
		{
			input: "1.2.3",
			diags: []diagnostics.Diag{lexErr(1, 1, "invalid number literal '1.2.3'")},
		},
		{
			input: "1.",
			diags: []diagnostics.Diag{lexErr(1, 1, "invalid number literal '1.'")},
		},
		{
			input: "1_",
			diags: []diagnostics.Diag{lexErr(1, 1, "invalid number literal '1_'")},
		},
		{
			input: "x /* never closed",
			diags: []diagnostics.Diag{lexErr(3, 1, "unterminated block comment")},
		},
		{
			input: "let a = ?; let b = @;",
			diags: []diagnostics.Diag{
				lexErr(9, 1, "unexpected character '?'"),
				lexErr(20, 1, "unexpected character '@'"),
			},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestLexicalErrors('%s')", test.input), func(t *testing.T) {
			tokens, collector, err := tokenize(test.input)
			if err == nil {
				t.Fatal("expected to have lexical errors, but got nothing")
			}

			if len(test.diags) != len(collector.Diags) {
				t.Fatalf(
					"expected to have %d diag(s), but got %d",
					len(test.diags),
					len(collector.Diags),
				)
			}

			if !reflect.DeepEqual(test.diags, collector.Diags) {
				t.Fatalf("\nexpected diags: %v\ngot diags: %v\n", test.diags, collector.Diags)
			}

			if last := tokens[len(tokens)-1]; last.Kind != token.EOF {
				t.Fatalf("expected token stream to end with EOF, but got %s", last.Kind)
			}
		})
	}
}

func TestLexingSkipsInvalidInput(t *testing.T) {
	tokens, _, err := tokenize("let a = ?; let b = @;")
	if err == nil {
		t.Fatal("expected lexical errors")
	}

	expected := []token.Kind{
		token.LET, token.ID, token.EQUAL, token.SEMICOLON,
		token.LET, token.ID, token.EQUAL, token.SEMICOLON,
		token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, but got %d", len(expected), len(tokens))
	}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Errorf("token %d: expected %s, but got %s", i, kind, tokens[i].Kind)
		}
	}
}
