package interp

import (
	"fmt"

	"github.com/quill-lang/quill/internal/lexer/token"
)

type RuntimeErrorKind int

const (
	TYPE_ERROR RuntimeErrorKind = iota
	ARITHMETIC_ERROR
	UNDEFINED_VARIABLE
	ARITY_ERROR
	ILLEGAL_CONTROL_FLOW
	INDEX_ERROR
	STACK_OVERFLOW
)

func (kind RuntimeErrorKind) String() string {
	switch kind {
	case TYPE_ERROR:
		return "TypeError"
	case ARITHMETIC_ERROR:
		return "ArithmeticError"
	case UNDEFINED_VARIABLE:
		return "UndefinedVariable"
	case ARITY_ERROR:
		return "ArityError"
	case ILLEGAL_CONTROL_FLOW:
		return "IllegalControlFlow"
	case INDEX_ERROR:
		return "IndexError"
	case STACK_OVERFLOW:
		return "StackOverflow"
	default:
		return fmt.Sprintf("RuntimeErrorKind(%d)", int(kind))
	}
}

// RuntimeError aborts execution. Callers recover it with errors.As.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Pos     token.Pos
	Message string
}

func newRuntimeError(kind RuntimeErrorKind, pos token.Pos, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (err *RuntimeError) Error() string {
	if !err.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", err.Kind, err.Message)
	}
	return fmt.Sprintf("%s: %s: %s", err.Pos, err.Kind, err.Message)
}
