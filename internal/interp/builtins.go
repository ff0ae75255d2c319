package interp

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/internal/scope"
)

// Arities come from scope.BUILTINS so that sema and the interpreter agree on
// them.
var builtins = map[string]*BuiltinValue{
	"print": {Name: "print", Arity: scope.BUILTINS["print"], Fn: builtinPrint},
	"len":   {Name: "len", Arity: scope.BUILTINS["len"], Fn: builtinLen},
	"str":   {Name: "str", Arity: scope.BUILTINS["str"], Fn: builtinStr},
	"type":  {Name: "type", Arity: scope.BUILTINS["type"], Fn: builtinType},
}

// print writes its arguments separated by a space, followed by a newline.
func builtinPrint(interp *Interpreter, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	if _, err := fmt.Fprintln(interp.out, strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return Nil, nil
}

func builtinLen(_ *Interpreter, args []Value) (Value, error) {
	str, ok := args[0].(StringValue)
	if !ok {
		return nil, &RuntimeError{
			Kind:    TYPE_ERROR,
			Message: fmt.Sprintf("'len' expects a string, got %s", args[0].Kind()),
		}
	}
	return NumberValue(len(str)), nil
}

func builtinStr(_ *Interpreter, args []Value) (Value, error) {
	return StringValue(args[0].String()), nil
}

func builtinType(_ *Interpreter, args []Value) (Value, error) {
	return StringValue(args[0].Kind().String()), nil
}
