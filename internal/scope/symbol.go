package scope

import (
	"fmt"

	"github.com/quill-lang/quill/internal/lexer/token"
)

type SymbolKind int

const (
	SYMBOL_VAR SymbolKind = iota
	SYMBOL_FN
	SYMBOL_BUILTIN
)

func (kind SymbolKind) String() string {
	switch kind {
	case SYMBOL_VAR:
		return "variable"
	case SYMBOL_FN:
		return "function"
	case SYMBOL_BUILTIN:
		return "builtin"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(kind))
	}
}

// Type is the static type tag sema can infer for a binding. Most bindings
// stay TYPE_UNKNOWN since Quill is dynamically typed.
type Type int

const (
	TYPE_UNKNOWN Type = iota
	TYPE_NUMBER
	TYPE_STRING
	TYPE_BOOL
	TYPE_NIL
	TYPE_FUNCTION
)

func (t Type) String() string {
	switch t {
	case TYPE_NUMBER:
		return "number"
	case TYPE_STRING:
		return "string"
	case TYPE_BOOL:
		return "bool"
	case TYPE_NIL:
		return "nil"
	case TYPE_FUNCTION:
		return "function"
	default:
		return "unknown"
	}
}

// VARIADIC is the arity of builtins accepting any number of arguments.
const VARIADIC = -1

type Symbol struct {
	Name  string
	Kind  SymbolKind
	Depth int
	Type  Type
	Arity int
	Pos   token.Pos
}

func (sym *Symbol) IsCallable() bool {
	return sym.Kind == SYMBOL_FN || sym.Kind == SYMBOL_BUILTIN
}

func (sym Symbol) String() string {
	return fmt.Sprintf("%s %s (depth %d, type %s)", sym.Kind, sym.Name, sym.Depth, sym.Type)
}

// BUILTINS maps every predeclared function to its arity.
var BUILTINS map[string]int = map[string]int{
	"print": VARIADIC,
	"len":   1,
	"str":   1,
	"type":  1,
}
