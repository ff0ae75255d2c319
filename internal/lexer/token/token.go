package token

import "fmt"

type Token struct {
	Lexeme string
	Kind   Kind
	Pos    Pos
}

func New(lexeme string, kind Kind, position Pos) *Token {
	return &Token{Lexeme: lexeme, Kind: kind, Pos: position}
}

// Name is what diagnostics print for the token: the text for identifiers and
// literals, the kind spelling for everything else.
func (token *Token) Name() string {
	switch token.Kind {
	case ID, INTEGER_LITERAL, FLOAT_LITERAL:
		return token.Lexeme
	case STRING_LITERAL:
		return fmt.Sprintf("%q", token.Lexeme)
	}
	return token.Kind.String()
}

func (token *Token) String() string {
	return fmt.Sprintf("%s | %s | %s", token.Lexeme, token.Kind, token.Pos)
}
