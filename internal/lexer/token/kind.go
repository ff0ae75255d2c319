package token

import "fmt"

type Kind int

const (
	// EOF
	EOF Kind = iota
	INVALID

	// Identifier
	ID

	// Literals
	INTEGER_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL
	TRUE_BOOL_LITERAL
	FALSE_BOOL_LITERAL
	NIL_LITERAL

	// Keywords
	LET
	FN
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	AND
	OR
	NOT

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN

	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY

	// [
	OPEN_BRACKET
	// ]
	CLOSE_BRACKET

	// ,
	COMMA

	// ;
	SEMICOLON

	// =
	EQUAL
	// !=
	BANG_EQUAL
	// ==
	EQUAL_EQUAL

	// >
	GREATER
	// >=
	GREATER_EQ
	// <
	LESS
	// <=
	LESS_EQ

	// +
	PLUS
	// -
	MINUS
	// *
	STAR
	// /
	SLASH
	// %
	PERCENT
	// ^
	CARET
)

var KEYWORDS map[string]Kind = map[string]Kind{
	"let":      LET,
	"fn":       FN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,

	"true":  TRUE_BOOL_LITERAL,
	"false": FALSE_BOOL_LITERAL,
	"nil":   NIL_LITERAL,
}

var LITERAL_KIND map[Kind]bool = map[Kind]bool{
	INTEGER_LITERAL:    true,
	FLOAT_LITERAL:      true,
	STRING_LITERAL:     true,
	TRUE_BOOL_LITERAL:  true,
	FALSE_BOOL_LITERAL: true,
	NIL_LITERAL:        true,
}

// Tokens that can begin a statement. The parser resynchronizes on them after
// a syntax error.
var STMT_START map[Kind]bool = map[Kind]bool{
	LET:      true,
	FN:       true,
	IF:       true,
	WHILE:    true,
	FOR:      true,
	RETURN:   true,
	BREAK:    true,
	CONTINUE: true,
}

func (kind Kind) IsLiteral() bool {
	_, ok := LITERAL_KIND[kind]
	return ok
}

func (kind Kind) IsKeyword() bool {
	return kind >= LET && kind <= NOT
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case ID:
		return "identifier"
	case INTEGER_LITERAL:
		return "integer literal"
	case FLOAT_LITERAL:
		return "float literal"
	case STRING_LITERAL:
		return "string literal"
	case TRUE_BOOL_LITERAL:
		return "true"
	case FALSE_BOOL_LITERAL:
		return "false"
	case NIL_LITERAL:
		return "nil"
	case LET:
		return "let"
	case FN:
		return "fn"
	case IF:
		return "if"
	case ELSE:
		return "else"
	case WHILE:
		return "while"
	case FOR:
		return "for"
	case RETURN:
		return "return"
	case BREAK:
		return "break"
	case CONTINUE:
		return "continue"
	case AND:
		return "and"
	case OR:
		return "or"
	case NOT:
		return "not"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case OPEN_CURLY:
		return "{"
	case CLOSE_CURLY:
		return "}"
	case OPEN_BRACKET:
		return "["
	case CLOSE_BRACKET:
		return "]"
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case EQUAL:
		return "="
	case BANG_EQUAL:
		return "!="
	case EQUAL_EQUAL:
		return "=="
	case GREATER:
		return ">"
	case GREATER_EQ:
		return ">="
	case LESS:
		return "<"
	case LESS_EQ:
		return "<="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case CARET:
		return "^"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}
