package interp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/quill-lang/quill/internal/ast"
)

type ValueKind int

const (
	VALUE_NUMBER ValueKind = iota
	VALUE_STRING
	VALUE_BOOL
	VALUE_NIL
	VALUE_FUNCTION
)

func (kind ValueKind) String() string {
	switch kind {
	case VALUE_NUMBER:
		return "number"
	case VALUE_STRING:
		return "string"
	case VALUE_BOOL:
		return "bool"
	case VALUE_NIL:
		return "nil"
	case VALUE_FUNCTION:
		return "function"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(kind))
	}
}

// Value is the closed set of run-time values: NumberValue, StringValue,
// BoolValue, NilValue, *FunctionValue and *BuiltinValue.
type Value interface {
	Kind() ValueKind
	String() string
}

type NumberValue float64

func (NumberValue) Kind() ValueKind { return VALUE_NUMBER }

// String prints integral numbers without a fractional part.
func (n NumberValue) String() string {
	f := float64(n)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type StringValue string

func (StringValue) Kind() ValueKind  { return VALUE_STRING }
func (s StringValue) String() string { return string(s) }

type BoolValue bool

func (BoolValue) Kind() ValueKind  { return VALUE_BOOL }
func (b BoolValue) String() string { return strconv.FormatBool(bool(b)) }

type NilValue struct{}

func (NilValue) Kind() ValueKind { return VALUE_NIL }
func (NilValue) String() string  { return "nil" }

var Nil Value = NilValue{}

// FunctionValue is a closure: the declaration plus the environment it was
// declared in.
type FunctionValue struct {
	Decl    *ast.FnDecl
	Closure *Environment
}

func (*FunctionValue) Kind() ValueKind   { return VALUE_FUNCTION }
func (fn *FunctionValue) String() string { return fmt.Sprintf("<fn %s>", fn.Decl.Name.Name) }
func (fn *FunctionValue) Arity() int     { return fn.Decl.Arity() }

type BuiltinFn func(interp *Interpreter, args []Value) (Value, error)

type BuiltinValue struct {
	Name  string
	Arity int
	Fn    BuiltinFn
}

func (*BuiltinValue) Kind() ValueKind  { return VALUE_FUNCTION }
func (b *BuiltinValue) String() string { return fmt.Sprintf("<builtin %s>", b.Name) }

// Truthy: nil and false are falsy, everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return bool(val)
	default:
		return true
	}
}

// Equal compares values of any kind. Values of different kinds are never
// equal; functions are equal only to themselves.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch left := a.(type) {
	case NumberValue:
		return left == b.(NumberValue)
	case StringValue:
		return left == b.(StringValue)
	case BoolValue:
		return left == b.(BoolValue)
	case NilValue:
		return true
	case *FunctionValue:
		right, ok := b.(*FunctionValue)
		return ok && left == right
	case *BuiltinValue:
		right, ok := b.(*BuiltinValue)
		return ok && left == right
	}
	return false
}
