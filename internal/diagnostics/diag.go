package diagnostics

import (
	"fmt"

	"github.com/quill-lang/quill/internal/lexer/token"
)

type Kind int

const (
	LEX_ERROR Kind = iota
	PARSE_ERROR

	// semantic errors
	DUPLICATE_DECLARATION
	UNDECLARED_NAME
	TYPE_MISMATCH
	ARITY_MISMATCH
	INVALID_ASSIGNMENT
)

func (kind Kind) String() string {
	switch kind {
	case LEX_ERROR:
		return "LexError"
	case PARSE_ERROR:
		return "ParseError"
	case DUPLICATE_DECLARATION:
		return "DuplicateDeclaration"
	case UNDECLARED_NAME:
		return "UndeclaredName"
	case TYPE_MISMATCH:
		return "TypeMismatch"
	case ARITY_MISMATCH:
		return "ArityMismatch"
	case INVALID_ASSIGNMENT:
		return "InvalidAssignment"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}

type Diag struct {
	Kind    Kind
	Pos     token.Pos
	Message string
}

func Errorf(kind Kind, pos token.Pos, format string, args ...any) Diag {
	return Diag{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (diag Diag) Error() string {
	return diag.String()
}

func (diag Diag) String() string {
	if !diag.Pos.IsValid() {
		return diag.Message
	}
	return fmt.Sprintf("%s: %s", diag.Pos, diag.Message)
}
