package interp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/parser"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()

	program, _, err := parser.ParseFrom(src, "")
	require.NoError(t, err, "test program must parse")

	var out bytes.Buffer
	err = New(&out).Execute(program)
	return out.String(), err
}

func runtimeError(t *testing.T, err error) *RuntimeError {
	t.Helper()

	var rtErr *RuntimeError
	require.True(t, errors.As(err, &rtErr), "expected a runtime error, got %v", err)
	return rtErr
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		out  string
	}{
		{"arithmetic", "print(1 + 2 * 3, (1 + 2) * 3, 2 ^ 3 ^ 2, 7 % 4, 1 / 4);", "7 9 512 3 0.25\n"},
		{"negative modulo", "print(-7 % 3);", "-1\n"},
		{"concatenation", `print("foo" + "bar");`, "foobar\n"},
		{"comparison", `print(1 < 2, 2 <= 1, "a" < "b", "b" >= "b");`, "true false true true\n"},
		{"equality", `print(1 == 1, 1 == "1", nil == nil, nil != false, "a" == "a");`, "true false true true true\n"},
		{"logic yields bools", `print(1 and "x", nil or 0, not nil, false or nil);`, "true true true false\n"},
		{"empty print", "print();", "\n"},
		{"uninitialized is nil", "let x; print(x);", "nil\n"},
		{"shadowing", `let x = 1; { let x = "inner"; print(x); } print(x);`, "inner\n1\n"},
		{"assignment reaches outer frame", "let x = 1; { x = 2; } print(x);", "2\n"},
		{"assignment is an expression", "let a; let b; a = b = 3; print(a, b);", "3 3\n"},
		{
			"if else chain",
			"let n = 5; if n < 3 { print(\"small\"); } else if n < 10 { print(\"medium\"); } else { print(\"large\"); }",
			"medium\n",
		},
		{"while with break", "let i = 0; while true { i = i + 1; if i == 3 { break; } } print(i);", "3\n"},
		{
			"for with continue runs update",
			"for let i = 0; i < 5; i = i + 1 { if i % 2 == 0 { continue; } print(i); }",
			"1\n3\n",
		},
		{"for without header", "let i = 0; for ;; { i = i + 1; if i > 2 { break; } } print(i);", "3\n"},
		{
			"recursion",
			"fn fib(n) { if n < 2 { return n; } return fib(n - 1) + fib(n - 2); } print(fib(15));",
			"610\n",
		},
		{"call before declaration", "print(twice(21)); fn twice(n) { return n * 2; }", "42\n"},
		{"missing return yields nil", "fn f() {} print(f());", "nil\n"},
		{"bare return yields nil", "fn f() { return; } print(f());", "nil\n"},
		{
			"return leaves nested loops",
			"fn find() { for let i = 0; i < 10; i = i + 1 { while true { return i + 100; } } } print(find());",
			"100\n",
		},
		{
			"closure counter",
			`
fn counter() {
    let n = 0;
    fn inc() {
        n = n + 1;
        return n;
    }
    return inc;
}
let a = counter();
let b = counter();
a(); a();
print(a(), b());
`,
			"3 1\n",
		},
		{
			"closure captures loop frame",
			`
let fns;
for let i = 0; i < 3; i = i + 1 {
    let j = i * 10;
    fn get() { return j; }
    if i == 1 { fns = get; }
}
print(fns());
`,
			"10\n",
		},
		{"builtins", `print(len("hello"), str(12) + "!", type(1), type("s"), type(nil), type(print));`, "5 12! number string nil function\n"},
		{"index", `let s = "quill"; print(s[0], s[4]);`, "q l\n"},
		{"function values print", "fn f() {} print(f, print);", "<fn f> <builtin print>\n"},
		{"functions compare by identity", "fn f() {} fn g() {} let h = f; print(f == h, f == g);", "true false\n"},
		{"large numbers", "print(10 ^ 20, 0.1 + 0.2);", "1e+20 0.30000000000000004\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := run(t, test.src)
			require.NoError(t, err)
			assert.Equal(t, test.out, out)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    RuntimeErrorKind
		message string
	}{
		{"division by zero", "10 / 0;", ARITHMETIC_ERROR, "test.ql:1:4: ArithmeticError: division by zero"},
		{"modulo by zero", "10 % 0;", ARITHMETIC_ERROR, "test.ql:1:4: ArithmeticError: modulo by zero"},
		{"add mixed", `1 + "a";`, TYPE_ERROR, "test.ql:1:3: TypeError: operator '+' expects two numbers or two strings, got number and string"},
		{"subtract strings", `"a" - "b";`, TYPE_ERROR, "test.ql:1:5: TypeError: operator '-' expects numbers, got string and string"},
		{"compare mixed", `1 < "a";`, TYPE_ERROR, "test.ql:1:3: TypeError: operator '<' expects two numbers or two strings, got number and string"},
		{"negate string", `-"a";`, TYPE_ERROR, "test.ql:1:1: TypeError: operator '-' expects a number, got string"},
		{"call number", "let x = 1; x();", TYPE_ERROR, "test.ql:1:12: TypeError: cannot call a value of type number"},
		{"arity", "fn f(a) {} f(1, 2);", ARITY_ERROR, "test.ql:1:12: ArityError: 'f' expects 1 argument(s), got 2"},
		{"builtin arity", "let l = len; l();", ARITY_ERROR, "test.ql:1:14: ArityError: 'len' expects 1 argument(s), got 0"},
		{"builtin type error", "len(5);", TYPE_ERROR, "test.ql:1:1: TypeError: 'len' expects a string, got number"},
		{"undefined read", "print(missing);", UNDEFINED_VARIABLE, "test.ql:1:7: UndefinedVariable: undefined variable 'missing'"},
		{"undefined write", "missing = 1;", UNDEFINED_VARIABLE, "test.ql:1:1: UndefinedVariable: undefined variable 'missing'"},
		{"index number", "let n = 1; n[0];", TYPE_ERROR, "test.ql:1:13: TypeError: cannot index a value of type number"},
		{"fractional index", `"abc"[1.5];`, TYPE_ERROR, "test.ql:1:6: TypeError: string index must be an integer, got 1.5"},
		{"index out of range", `"abc"[3];`, INDEX_ERROR, "test.ql:1:6: IndexError: index 3 out of range for string of length 3"},
		{"huge index", `"abc"[10 ^ 20];`, INDEX_ERROR, "test.ql:1:6: IndexError: index 1e+20 out of range for string of length 3"},
		{"huge index variable", `let i = 10 ^ 19; "abc"[i];`, INDEX_ERROR, "test.ql:1:23: IndexError: index 1e+19 out of range for string of length 3"},
		{"negative index", `"abc"[-1];`, INDEX_ERROR, "test.ql:1:6: IndexError: index -1 out of range for string of length 3"},
		{"break at top level", "break;", ILLEGAL_CONTROL_FLOW, "test.ql:1:1: IllegalControlFlow: break outside of a loop"},
		{"continue at top level", "continue;", ILLEGAL_CONTROL_FLOW, "test.ql:1:1: IllegalControlFlow: continue outside of a loop"},
		{"return at top level", "return 1;", ILLEGAL_CONTROL_FLOW, "test.ql:1:1: IllegalControlFlow: return outside of a function"},
		{
			"break escaping a function",
			"fn f() { break; }\nwhile true { f(); }",
			ILLEGAL_CONTROL_FLOW,
			"test.ql:1:10: IllegalControlFlow: break outside of a loop",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := run(t, test.src)
			rtErr := runtimeError(t, err)
			assert.Equal(t, test.kind, rtErr.Kind)
			assert.Equal(t, test.message, rtErr.Error())
		})
	}
}

func TestExecutionHaltsAtFirstError(t *testing.T) {
	out, err := run(t, `print("before"); 1 / 0; print("after");`)
	runtimeError(t, err)
	assert.Equal(t, "before\n", out)
}

func TestStackOverflow(t *testing.T) {
	program, _, err := parser.ParseFrom("fn loop(n) { return loop(n + 1); }\nloop(0);", "")
	require.NoError(t, err)

	interp := New(&bytes.Buffer{})
	interp.MaxCallDepth = 50
	rtErr := runtimeError(t, interp.Execute(program))
	assert.Equal(t, STACK_OVERFLOW, rtErr.Kind)
	assert.Equal(t, "maximum call depth of 50 exceeded", rtErr.Message)

	// the interpreter is usable again after an overflow
	program, _, err = parser.ParseFrom("fn one() { return 1; } print(one());", "")
	require.NoError(t, err)
	assert.NoError(t, interp.Execute(program))
}

func TestGlobalsPersistAcrossExecutions(t *testing.T) {
	var out bytes.Buffer
	interp := New(&out)

	first, _, err := parser.ParseFrom("let x = 41; fn inc(n) { return n + 1; }", "")
	require.NoError(t, err)
	require.NoError(t, interp.Execute(first))

	second, _, err := parser.ParseFrom("print(inc(x));", "")
	require.NoError(t, err)
	require.NoError(t, interp.Execute(second))

	assert.Equal(t, "42\n", out.String())

	value, ok := interp.Globals().Get("x")
	require.True(t, ok)
	assert.Equal(t, NumberValue(41), value)
}

func TestEnvironment(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", NumberValue(1))
	local := NewEnvironment(global)
	local.Define("b", StringValue("s"))

	value, ok := local.Get("a")
	require.True(t, ok)
	assert.Equal(t, NumberValue(1), value)

	_, ok = global.Get("b")
	assert.False(t, ok)

	assert.True(t, local.Assign("a", NumberValue(2)))
	value, _ = global.Get("a")
	assert.Equal(t, NumberValue(2), value)

	assert.False(t, local.Assign("missing", Nil))
	assert.Equal(t, []string{"b"}, local.Names())
	assert.Same(t, global, local.Parent())
	assert.Equal(t, "b = s\n", local.String())
}

func TestTruthyAndEqual(t *testing.T) {
	assert.False(t, Truthy(Nil))
	assert.False(t, Truthy(BoolValue(false)))
	assert.True(t, Truthy(NumberValue(0)))
	assert.True(t, Truthy(StringValue("")))

	assert.True(t, Equal(NumberValue(1), NumberValue(1)))
	assert.False(t, Equal(NumberValue(1), StringValue("1")))
	assert.False(t, Equal(Nil, BoolValue(false)))
	assert.False(t, Equal(builtins["len"], builtins["str"]))
	assert.True(t, Equal(builtins["len"], builtins["len"]))
}
