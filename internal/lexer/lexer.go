package lexer

import (
	"unicode/utf8"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
)

const eof = '\000'

type Lexer struct {
	Loc       *ast.Loc
	Collector *diagnostics.Collector

	src    []byte
	offset int
	pos    token.Pos
}

func New(loc *ast.Loc, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	lexer.Loc = loc
	lexer.Collector = collector
	lexer.pos = token.NewPosition(loc.Name, 1, 1)
	lexer.src = src
	lexer.offset = 0

	return lexer
}

// Next returns the next token. A token of kind INVALID means a lexical error
// was saved in the collector and the offending input was skipped.
func (lex *Lexer) Next() *token.Token {
	lex.skipWhitespace()
	character := lex.peekChar()

	tok := &token.Token{}
	tok.Kind = token.INVALID
	tok.Pos = lex.pos

	if lex.offset >= len(lex.src) {
		lex.consumeTokenNoLex(tok, token.EOF)
		return tok
	}

	return lex.getToken(tok, character)
}

// Tokenize lexes the whole source. Invalid input is reported and skipped so
// every lexical error of the source is collected in one pass; the returned
// stream always ends with a single EOF token.
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	mark := lex.Collector.Count()

	var tokens []*token.Token
	for {
		tok := lex.Next()
		if tok.Kind == token.INVALID {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if lex.Collector.Count() > mark {
		return tokens, diagnostics.COMPILER_ERROR_FOUND
	}
	return tokens, nil
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) *token.Token {
	switch ch {
	case '(':
		lex.consumeSingle(tok, token.OPEN_PAREN)
	case ')':
		lex.consumeSingle(tok, token.CLOSE_PAREN)
	case '{':
		lex.consumeSingle(tok, token.OPEN_CURLY)
	case '}':
		lex.consumeSingle(tok, token.CLOSE_CURLY)
	case '[':
		lex.consumeSingle(tok, token.OPEN_BRACKET)
	case ']':
		lex.consumeSingle(tok, token.CLOSE_BRACKET)
	case ',':
		lex.consumeSingle(tok, token.COMMA)
	case ';':
		lex.consumeSingle(tok, token.SEMICOLON)
	case '+':
		lex.consumeSingle(tok, token.PLUS)
	case '-':
		lex.consumeSingle(tok, token.MINUS)
	case '*':
		lex.consumeSingle(tok, token.STAR)
	case '/':
		lex.consumeSingle(tok, token.SLASH)
	case '%':
		lex.consumeSingle(tok, token.PERCENT)
	case '^':
		lex.consumeSingle(tok, token.CARET)
	case '"':
		lex.getStringLit(tok)
	case '!':
		lex.nextChar() // !

		if lex.peekChar() != '=' {
			lex.report(tok.Pos, "unexpected character '!'")
			return tok
		}
		lex.nextChar() // =
		tok.Kind = token.BANG_EQUAL
	case '>':
		lex.consumeWithEqual(tok, token.GREATER, token.GREATER_EQ)
	case '<':
		lex.consumeWithEqual(tok, token.LESS, token.LESS_EQ)
	case '=':
		lex.consumeWithEqual(tok, token.EQUAL, token.EQUAL_EQUAL)
	default:
		if isIdentStart(ch) {
			lex.getIdOrKeyword(tok)
		} else if isDigit(ch) {
			lex.getNumberLit(tok)
		} else {
			r, size := utf8.DecodeRune(lex.src[lex.offset:])
			for i := 0; i < size; i++ {
				lex.nextChar()
			}
			lex.report(tok.Pos, "unexpected character %q", r)
		}
	}
	return tok
}

func (lex *Lexer) getStringLit(tok *token.Token) {
	lex.nextChar() // "

	var str []byte
	valid := true
	for {
		ch := lex.peekChar()
		if lex.offset >= len(lex.src) || ch == '"' {
			break
		}

		if ch != '\\' {
			str = append(str, lex.nextChar())
			continue
		}

		escapePos := lex.pos
		lex.nextChar() // \
		if lex.offset >= len(lex.src) {
			break
		}

		escapeSym := lex.nextChar()
		switch escapeSym {
		case 'n':
			str = append(str, '\n')
		case 't':
			str = append(str, '\t')
		case 'r':
			str = append(str, '\r')
		case '0':
			str = append(str, 0)
		case '\\':
			str = append(str, '\\')
		case '"':
			str = append(str, '"')
		default:
			lex.report(escapePos, "unknown escape sequence '\\%c'", escapeSym)
			valid = false
		}
	}

	if lex.offset >= len(lex.src) {
		lex.report(tok.Pos, "unterminated string literal")
		return
	}
	lex.nextChar() // "

	if !valid {
		return
	}
	tok.Kind = token.STRING_LITERAL
	tok.Lexeme = string(str)
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	start := lex.offset
	kind := token.INTEGER_LITERAL

	lex.readWhile(isDigitOrSeparator)
	if lex.peekChar() == '.' {
		if !isDigit(lex.peekCharAt(1)) {
			lex.nextChar() // .
			lex.report(tok.Pos, "invalid number literal '%s'", lex.src[start:lex.offset])
			return
		}
		lex.nextChar() // .
		lex.readWhile(isDigitOrSeparator)
		kind = token.FLOAT_LITERAL

		if lex.peekChar() == '.' {
			lex.readWhile(func(ch byte) bool { return isDigitOrSeparator(ch) || ch == '.' })
			lex.report(tok.Pos, "invalid number literal '%s'", lex.src[start:lex.offset])
			return
		}
	}

	number := lex.src[start:lex.offset]
	if number[len(number)-1] == '_' {
		lex.report(tok.Pos, "invalid number literal '%s'", number)
		return
	}

	tok.Kind = kind
	tok.Lexeme = string(number)
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	identifier := lex.readWhile(
		func(chr byte) bool { return isIdentStart(chr) || isDigit(chr) },
	)
	tok.Kind = token.ID
	tok.Lexeme = string(identifier)
	keyword, ok := token.KEYWORDS[tok.Lexeme]
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) consumeSingle(tok *token.Token, kind token.Kind) {
	lex.consumeTokenNoLex(tok, kind)
	lex.nextChar()
}

// consumeWithEqual applies maximal munch to operators that have a `=`
// suffixed variant.
func (lex *Lexer) consumeWithEqual(tok *token.Token, single, withEqual token.Kind) {
	lex.consumeTokenNoLex(tok, single)
	lex.nextChar()

	if lex.peekChar() != '=' {
		return
	}
	lex.nextChar() // =
	tok.Kind = withEqual
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = ""
	tok.Kind = kind
	tok.Pos = lex.pos
}

func (lex *Lexer) skipWhitespace() {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
		})

		if lex.peekChar() != '/' {
			return
		}

		switch lex.peekCharAt(1) {
		case '/':
			lex.readWhile(func(ch byte) bool { return ch != '\n' })
		case '*':
			start := lex.pos
			lex.nextChar() // /
			lex.nextChar() // *
			for {
				if lex.offset >= len(lex.src) {
					lex.report(start, "unterminated block comment")
					return
				}
				if lex.peekChar() == '*' && lex.peekCharAt(1) == '/' {
					lex.nextChar() // *
					lex.nextChar() // /
					break
				}
				lex.nextChar()
			}
		default:
			return
		}
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	var start, end int
	start = lex.offset

	for lex.offset < len(lex.src) && isValid(lex.peekChar()) {
		lex.nextChar()
	}

	end = lex.offset
	return lex.src[start:end]
}

func (lex *Lexer) report(pos token.Pos, format string, args ...any) {
	lex.Collector.ReportAndSave(diagnostics.Errorf(diagnostics.LEX_ERROR, pos, format, args...))
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharAt(0)
}

func (lex *Lexer) peekCharAt(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+n]
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isDigitOrSeparator(ch byte) bool {
	return isDigit(ch) || ch == '_'
}
