// Package interp executes checked Quill programs by walking the AST.
//
// Statements report how control leaves them through a signal instead of
// panics: loops absorb SIGNAL_BREAK and SIGNAL_CONTINUE, calls absorb
// SIGNAL_RETURN, and a signal that reaches a boundary that cannot absorb it
// becomes an ILLEGAL_CONTROL_FLOW runtime error.
package interp

import (
	"io"
	"math"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/lexer/token"
	"github.com/quill-lang/quill/internal/scope"
)

const DEFAULT_MAX_CALL_DEPTH = 1024

type signal int

const (
	SIGNAL_NONE signal = iota
	SIGNAL_RETURN
	SIGNAL_BREAK
	SIGNAL_CONTINUE
)

type Interpreter struct {
	MaxCallDepth int

	out     io.Writer
	globals *Environment
	depth   int

	// where the signal currently propagating was raised
	signalPos token.Pos
}

func New(out io.Writer) *Interpreter {
	interp := new(Interpreter)
	interp.MaxCallDepth = DEFAULT_MAX_CALL_DEPTH
	interp.out = out
	interp.globals = NewEnvironment(nil)
	for name, builtin := range builtins {
		interp.globals.Define(name, builtin)
	}
	return interp
}

func (i *Interpreter) Globals() *Environment { return i.globals }

// Execute runs program in the global environment. It stops at the first
// runtime error, returned as *RuntimeError.
func (i *Interpreter) Execute(program *ast.Program) error {
	i.depth = 0

	sig, _, err := i.execStmts(program.Body, i.globals)
	if err != nil {
		return err
	}
	return i.escapedSignal(sig)
}

func (i *Interpreter) escapedSignal(sig signal) error {
	switch sig {
	case SIGNAL_RETURN:
		return newRuntimeError(ILLEGAL_CONTROL_FLOW, i.signalPos, "return outside of a function")
	case SIGNAL_BREAK:
		return newRuntimeError(ILLEGAL_CONTROL_FLOW, i.signalPos, "break outside of a loop")
	case SIGNAL_CONTINUE:
		return newRuntimeError(ILLEGAL_CONTROL_FLOW, i.signalPos, "continue outside of a loop")
	}
	return nil
}

// execStmts runs a statement list in env. Function declarations of the list
// are bound first, the same way sema hoists them.
func (i *Interpreter) execStmts(stmts []*ast.Node, env *Environment) (signal, Value, error) {
	for _, stmt := range stmts {
		if stmt.Kind == ast.KIND_FN_DECL {
			fn := stmt.Node.(*ast.FnDecl)
			env.Define(fn.Name.Name, &FunctionValue{Decl: fn, Closure: env})
		}
	}

	for _, stmt := range stmts {
		sig, val, err := i.execStmt(stmt, env)
		if err != nil || sig != SIGNAL_NONE {
			return sig, val, err
		}
	}
	return SIGNAL_NONE, nil, nil
}

func (i *Interpreter) execStmt(stmt *ast.Node, env *Environment) (signal, Value, error) {
	switch stmt.Kind {
	case ast.KIND_EXPR_STMT:
		_, err := i.evalExpr(stmt.Node.(*ast.ExprStmt).Expr, env)
		return SIGNAL_NONE, nil, err
	case ast.KIND_VAR_STMT:
		return SIGNAL_NONE, nil, i.execVar(stmt.Node.(*ast.VarStmt), env)
	case ast.KIND_BLOCK_STMT:
		return i.execBlock(stmt.Node.(*ast.BlockStmt), env)
	case ast.KIND_IF_STMT:
		return i.execIf(stmt.Node.(*ast.IfStmt), env)
	case ast.KIND_WHILE_STMT:
		return i.execWhile(stmt.Node.(*ast.WhileStmt), env)
	case ast.KIND_FOR_STMT:
		return i.execFor(stmt.Node.(*ast.ForStmt), env)
	case ast.KIND_RETURN_STMT:
		ret := stmt.Node.(*ast.ReturnStmt)
		value := Nil
		if ret.Value != nil {
			var err error
			value, err = i.evalExpr(ret.Value, env)
			if err != nil {
				return SIGNAL_NONE, nil, err
			}
		}
		i.signalPos = ret.Return
		return SIGNAL_RETURN, value, nil
	case ast.KIND_BREAK_STMT:
		i.signalPos = stmt.Node.(*ast.BreakStmt).Pos
		return SIGNAL_BREAK, nil, nil
	case ast.KIND_CONTINUE_STMT:
		i.signalPos = stmt.Node.(*ast.ContinueStmt).Pos
		return SIGNAL_CONTINUE, nil, nil
	case ast.KIND_FN_DECL:
		// bound by execStmts
		return SIGNAL_NONE, nil, nil
	}
	return SIGNAL_NONE, nil, nil
}

func (i *Interpreter) execVar(varStmt *ast.VarStmt, env *Environment) error {
	value := Nil
	if varStmt.Value != nil {
		var err error
		value, err = i.evalExpr(varStmt.Value, env)
		if err != nil {
			return err
		}
	}
	env.Define(varStmt.Name.Name, value)
	return nil
}

func (i *Interpreter) execBlock(block *ast.BlockStmt, env *Environment) (signal, Value, error) {
	return i.execStmts(block.Statements, NewEnvironment(env))
}

func (i *Interpreter) execIf(ifStmt *ast.IfStmt, env *Environment) (signal, Value, error) {
	cond, err := i.evalExpr(ifStmt.Cond, env)
	if err != nil {
		return SIGNAL_NONE, nil, err
	}

	if Truthy(cond) {
		return i.execBlock(ifStmt.Then, env)
	}
	if ifStmt.Else != nil {
		return i.execStmt(ifStmt.Else, env)
	}
	return SIGNAL_NONE, nil, nil
}

func (i *Interpreter) execWhile(while *ast.WhileStmt, env *Environment) (signal, Value, error) {
	for {
		cond, err := i.evalExpr(while.Cond, env)
		if err != nil {
			return SIGNAL_NONE, nil, err
		}
		if !Truthy(cond) {
			return SIGNAL_NONE, nil, nil
		}

		sig, val, err := i.execBlock(while.Block, env)
		if err != nil {
			return SIGNAL_NONE, nil, err
		}
		switch sig {
		case SIGNAL_BREAK:
			return SIGNAL_NONE, nil, nil
		case SIGNAL_RETURN:
			return sig, val, nil
		}
	}
}

// execFor runs the header in its own frame; each iteration of the body gets a
// fresh frame below it.
func (i *Interpreter) execFor(forStmt *ast.ForStmt, env *Environment) (signal, Value, error) {
	header := NewEnvironment(env)

	if forStmt.Init != nil {
		if _, _, err := i.execStmt(forStmt.Init, header); err != nil {
			return SIGNAL_NONE, nil, err
		}
	}

	for {
		if forStmt.Cond != nil {
			cond, err := i.evalExpr(forStmt.Cond, header)
			if err != nil {
				return SIGNAL_NONE, nil, err
			}
			if !Truthy(cond) {
				return SIGNAL_NONE, nil, nil
			}
		}

		sig, val, err := i.execBlock(forStmt.Block, header)
		if err != nil {
			return SIGNAL_NONE, nil, err
		}
		switch sig {
		case SIGNAL_BREAK:
			return SIGNAL_NONE, nil, nil
		case SIGNAL_RETURN:
			return sig, val, nil
		}

		if forStmt.Update != nil {
			if _, err := i.evalExpr(forStmt.Update, header); err != nil {
				return SIGNAL_NONE, nil, err
			}
		}
	}
}

func (i *Interpreter) evalExpr(expr *ast.Node, env *Environment) (Value, error) {
	switch expr.Kind {
	case ast.KIND_LITERAL_EXPR:
		return literalValue(expr.Node.(*ast.LiteralExpr)), nil
	case ast.KIND_ID_EXPR:
		id := expr.Node.(*ast.IdExpr)
		value, ok := env.Get(id.Name)
		if !ok {
			return nil, newRuntimeError(UNDEFINED_VARIABLE, id.Pos, "undefined variable '%s'", id.Name)
		}
		return value, nil
	case ast.KIND_GROUPING_EXPR:
		return i.evalExpr(expr.Node.(*ast.GroupingExpr).Expr, env)
	case ast.KIND_UNARY_EXPR:
		return i.evalUnary(expr.Node.(*ast.UnaryExpr), env)
	case ast.KIND_BINARY_EXPR:
		return i.evalBinary(expr.Node.(*ast.BinaryExpr), env)
	case ast.KIND_CALL_EXPR:
		return i.evalCall(expr.Node.(*ast.CallExpr), env)
	case ast.KIND_INDEX_EXPR:
		return i.evalIndex(expr.Node.(*ast.IndexExpr), env)
	case ast.KIND_ASSIGN_EXPR:
		assign := expr.Node.(*ast.AssignExpr)
		value, err := i.evalExpr(assign.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Assign(assign.Name.Name, value) {
			return nil, newRuntimeError(UNDEFINED_VARIABLE, assign.Name.Pos, "undefined variable '%s'", assign.Name.Name)
		}
		return value, nil
	}
	return Nil, nil
}

func literalValue(lit *ast.LiteralExpr) Value {
	switch lit.Kind {
	case ast.LITERAL_NUMBER:
		return NumberValue(lit.Number)
	case ast.LITERAL_STRING:
		return StringValue(lit.Str)
	case ast.LITERAL_BOOL:
		return BoolValue(lit.Bool)
	default:
		return Nil
	}
}

func (i *Interpreter) evalUnary(unary *ast.UnaryExpr, env *Environment) (Value, error) {
	operand, err := i.evalExpr(unary.Value, env)
	if err != nil {
		return nil, err
	}

	if unary.Op == token.NOT {
		return BoolValue(!Truthy(operand)), nil
	}

	number, ok := operand.(NumberValue)
	if !ok {
		return nil, newRuntimeError(TYPE_ERROR, unary.OpPos, "operator '-' expects a number, got %s", operand.Kind())
	}
	return -number, nil
}

func (i *Interpreter) evalBinary(binary *ast.BinaryExpr, env *Environment) (Value, error) {
	left, err := i.evalExpr(binary.Left, env)
	if err != nil {
		return nil, err
	}

	switch binary.Op {
	case token.AND:
		if !Truthy(left) {
			return BoolValue(false), nil
		}
		right, err := i.evalExpr(binary.Right, env)
		if err != nil {
			return nil, err
		}
		return BoolValue(Truthy(right)), nil
	case token.OR:
		if Truthy(left) {
			return BoolValue(true), nil
		}
		right, err := i.evalExpr(binary.Right, env)
		if err != nil {
			return nil, err
		}
		return BoolValue(Truthy(right)), nil
	}

	right, err := i.evalExpr(binary.Right, env)
	if err != nil {
		return nil, err
	}

	switch binary.Op {
	case token.EQUAL_EQUAL:
		return BoolValue(Equal(left, right)), nil
	case token.BANG_EQUAL:
		return BoolValue(!Equal(left, right)), nil
	case token.PLUS:
		if l, ok := left.(StringValue); ok {
			if r, ok := right.(StringValue); ok {
				return l + r, nil
			}
		}
		l, r, ok := numbers(left, right)
		if !ok {
			return nil, operandError(binary, "two numbers or two strings", left, right)
		}
		return l + r, nil
	case token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		return compare(binary, left, right)
	}

	l, r, ok := numbers(left, right)
	if !ok {
		return nil, operandError(binary, "numbers", left, right)
	}

	switch binary.Op {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, newRuntimeError(ARITHMETIC_ERROR, binary.OpPos, "division by zero")
		}
		return l / r, nil
	case token.PERCENT:
		if r == 0 {
			return nil, newRuntimeError(ARITHMETIC_ERROR, binary.OpPos, "modulo by zero")
		}
		return NumberValue(math.Mod(float64(l), float64(r))), nil
	case token.CARET:
		return NumberValue(math.Pow(float64(l), float64(r))), nil
	}
	return nil, newRuntimeError(TYPE_ERROR, binary.OpPos, "unknown operator '%s'", binary.Op)
}

func numbers(left, right Value) (NumberValue, NumberValue, bool) {
	l, lok := left.(NumberValue)
	r, rok := right.(NumberValue)
	return l, r, lok && rok
}

func compare(binary *ast.BinaryExpr, left, right Value) (Value, error) {
	var c int
	if l, r, ok := numbers(left, right); ok {
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	} else {
		l, lok := left.(StringValue)
		r, rok := right.(StringValue)
		if !lok || !rok {
			return nil, operandError(binary, "two numbers or two strings", left, right)
		}
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	}

	switch binary.Op {
	case token.LESS:
		return BoolValue(c < 0), nil
	case token.LESS_EQ:
		return BoolValue(c <= 0), nil
	case token.GREATER:
		return BoolValue(c > 0), nil
	default:
		return BoolValue(c >= 0), nil
	}
}

func operandError(binary *ast.BinaryExpr, expected string, left, right Value) error {
	return newRuntimeError(
		TYPE_ERROR,
		binary.OpPos,
		"operator '%s' expects %s, got %s and %s",
		binary.Op,
		expected,
		left.Kind(),
		right.Kind(),
	)
}

func (i *Interpreter) evalIndex(index *ast.IndexExpr, env *Environment) (Value, error) {
	target, err := i.evalExpr(index.Target, env)
	if err != nil {
		return nil, err
	}
	at, err := i.evalExpr(index.Index, env)
	if err != nil {
		return nil, err
	}

	str, ok := target.(StringValue)
	if !ok {
		return nil, newRuntimeError(TYPE_ERROR, index.Bracket, "cannot index a value of type %s", target.Kind())
	}
	n, ok := at.(NumberValue)
	if !ok || float64(n) != math.Trunc(float64(n)) {
		return nil, newRuntimeError(TYPE_ERROR, index.Bracket, "string index must be an integer, got %s", at)
	}
	if n < 0 || float64(n) >= float64(len(str)) {
		return nil, newRuntimeError(INDEX_ERROR, index.Bracket, "index %s out of range for string of length %d", n, len(str))
	}
	return str[int(n) : int(n)+1], nil
}

func (i *Interpreter) evalCall(call *ast.CallExpr, env *Environment) (Value, error) {
	callee, err := i.evalExpr(call.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(call.Args))
	for n, arg := range call.Args {
		args[n], err = i.evalExpr(arg, env)
		if err != nil {
			return nil, err
		}
	}

	pos := ast.ExprPos(call.Callee)
	switch fn := callee.(type) {
	case *FunctionValue:
		return i.callFunction(fn, args, pos)
	case *BuiltinValue:
		if fn.Arity != scope.VARIADIC && fn.Arity != len(args) {
			return nil, newRuntimeError(ARITY_ERROR, pos, "'%s' expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		value, err := fn.Fn(i, args)
		if rtErr, ok := err.(*RuntimeError); ok && !rtErr.Pos.IsValid() {
			rtErr.Pos = pos
		}
		return value, err
	default:
		return nil, newRuntimeError(TYPE_ERROR, pos, "cannot call a value of type %s", callee.Kind())
	}
}

func (i *Interpreter) callFunction(fn *FunctionValue, args []Value, pos token.Pos) (Value, error) {
	if fn.Arity() != len(args) {
		return nil, newRuntimeError(ARITY_ERROR, pos, "'%s' expects %d argument(s), got %d", fn.Decl.Name.Name, fn.Arity(), len(args))
	}
	if i.depth >= i.MaxCallDepth {
		return nil, newRuntimeError(STACK_OVERFLOW, pos, "maximum call depth of %d exceeded", i.MaxCallDepth)
	}

	frame := NewEnvironment(fn.Closure)
	for n, param := range fn.Decl.Params {
		frame.Define(param.Name, args[n])
	}

	i.depth++
	sig, value, err := i.execStmts(fn.Decl.Block.Statements, frame)
	i.depth--
	if err != nil {
		return nil, err
	}

	switch sig {
	case SIGNAL_RETURN:
		return value, nil
	case SIGNAL_BREAK, SIGNAL_CONTINUE:
		return nil, i.escapedSignal(sig)
	}
	return Nil, nil
}
