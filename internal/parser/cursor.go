package parser

import (
	"github.com/quill-lang/quill/internal/lexer/token"
)

// cursor walks a token stream that ends with EOF. Reading past the end keeps
// returning the final EOF token.
type cursor struct {
	offset int
	tokens []*token.Token
}

func newCursor(tokens []*token.Token) *cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var pos token.Pos
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, token.New("", token.EOF, pos))
	}
	return &cursor{offset: 0, tokens: tokens}
}

func (cursor *cursor) peek() *token.Token {
	if cursor.isOutOfBound() {
		return cursor.tokens[len(cursor.tokens)-1]
	}
	return cursor.tokens[cursor.offset]
}

func (cursor *cursor) next() *token.Token {
	token := cursor.peek()
	if !cursor.isOutOfBound() {
		cursor.offset++
	}
	return token
}

func (cursor *cursor) skip() {
	cursor.next()
}

func (cursor *cursor) nextIs(expectedKind token.Kind) bool {
	token := cursor.peek()
	return token.Kind == expectedKind
}

func (cursor *cursor) isOutOfBound() bool {
	return cursor.offset >= len(cursor.tokens)
}
