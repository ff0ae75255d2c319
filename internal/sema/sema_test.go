package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/parser"
	"github.com/quill-lang/quill/internal/scope"
)

func parseAndCheck(t *testing.T, src string) ([]diagnostics.Diag, error) {
	t.Helper()

	program, collector, err := parser.ParseFrom(src, "")
	require.NoError(t, err, "test program must parse")

	err = New(collector).Check(program)
	return collector.Diags, err
}

func diagStrings(diags []diagnostics.Diag) []string {
	out := make([]string, len(diags))
	for i, diag := range diags {
		out[i] = diag.String()
	}
	return out
}

func TestValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"arithmetic", "let x = 1 + 2 * 3; print(x);"},
		{"uninitialized", "let x; x = 2; print(x);"},
		{"shadowing", `let x = 1; { let x = "s"; print(x); } print(x);`},
		{"shadowing builtin", "{ let print = 1; }"},
		{"recursion", "fn fib(n) { if n < 2 { return n; } return fib(n - 1) + fib(n - 2); } print(fib(10));"},
		{"mutual recursion", "fn even(n) { if n == 0 { return true; } return odd(n - 1); } fn odd(n) { if n == 0 { return false; } return even(n - 1); }"},
		{"call before declaration", "print(twice(2)); fn twice(n) { return n * 2; }"},
		{"closure", "fn counter() { let n = 0; fn inc() { n = n + 1; return n; } return inc; } let c = counter(); c();"},
		{"for loop", "for let i = 0; i < 3; i = i + 1 { if i == 1 { continue; } print(i); }"},
		{"while loop", "let i = 0; while i < 3 { i = i + 1; if i > 1 { break; } }"},
		{"string ops", `let s = "a" + "b"; print(len(s), s[0], "a" < "b");`},
		{"reassigned callee", "fn g() {} let x = 1; x = g; x();"},
		{"variadic builtin", "print(); print(1, 2, 3);"},
		{"unknown operands", "fn f(a, b) { return a + b - -a; }"},
		{"equality across types", `print(1 == "1", nil != false);`},
		{"early call sees earlier variables", "let x = 1; let r = f(); fn f() { return x; }"},
		{"call after declaration", "let x = 1; fn f() { return x; } let y = f();"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diags, err := parseAndCheck(t, test.src)
			assert.NoError(t, err)
			assert.Empty(t, diagStrings(diags))
		})
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []diagnostics.Kind
		diags []string
	}{
		{
			name:  "two undeclared names",
			src:   "print(a);\nprint(b);",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME, diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:1:7: 'a' is not declared", "test.ql:2:7: 'b' is not declared"},
		},
		{
			name:  "block scope is closed",
			src:   "{ let x = 1; print(x); }\nprint(x);",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:2:7: 'x' is not declared"},
		},
		{
			name:  "for header scope is closed",
			src:   "for let i = 0; i < 3; i = i + 1 {}\nprint(i);",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:2:7: 'i' is not declared"},
		},
		{
			name:  "no variable hoisting",
			src:   "print(x); let x = 1;",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:1:7: 'x' is not declared"},
		},
		{
			name:  "initializer sees outer scope only",
			src:   "let x = x;",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:1:9: 'x' is not declared"},
		},
		{
			name:  "undeclared assignment target",
			src:   "y = 1;",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:1:1: 'y' is not declared"},
		},
		{
			name:  "duplicate variable",
			src:   "let x = 1; let x = 2;",
			kinds: []diagnostics.Kind{diagnostics.DUPLICATE_DECLARATION},
			diags: []string{"test.ql:1:16: 'x' is already declared in this scope"},
		},
		{
			name:  "duplicate parameter",
			src:   "fn f(a, a) {}",
			kinds: []diagnostics.Kind{diagnostics.DUPLICATE_DECLARATION},
			diags: []string{"test.ql:1:9: 'a' is already declared in this scope"},
		},
		{
			name:  "local redeclares parameter",
			src:   "fn f(a) { let a = 1; }",
			kinds: []diagnostics.Kind{diagnostics.DUPLICATE_DECLARATION},
			diags: []string{"test.ql:1:15: 'a' is already declared in this scope"},
		},
		{
			name:  "top-level builtin redeclaration",
			src:   "let print = 1;",
			kinds: []diagnostics.Kind{diagnostics.DUPLICATE_DECLARATION},
			diags: []string{"test.ql:1:5: 'print' is already declared in this scope"},
		},
		{
			name:  "arity of user function",
			src:   "fn f(a, b) { return a; }\nf(1);",
			kinds: []diagnostics.Kind{diagnostics.ARITY_MISMATCH},
			diags: []string{"test.ql:2:1: 'f' expects 2 argument(s), got 1"},
		},
		{
			name:  "arity of builtin",
			src:   `len("a", "b");`,
			kinds: []diagnostics.Kind{diagnostics.ARITY_MISMATCH},
			diags: []string{"test.ql:1:1: 'len' expects 1 argument(s), got 2"},
		},
		{
			name:  "assign to function",
			src:   "fn f() {}\nf = 1;",
			kinds: []diagnostics.Kind{diagnostics.INVALID_ASSIGNMENT},
			diags: []string{"test.ql:2:1: cannot assign to function 'f'"},
		},
		{
			name:  "assign to builtin",
			src:   "print = 1;",
			kinds: []diagnostics.Kind{diagnostics.INVALID_ASSIGNMENT},
			diags: []string{"test.ql:1:1: cannot assign to builtin 'print'"},
		},
		{
			name:  "call literal",
			src:   "1();",
			kinds: []diagnostics.Kind{diagnostics.TYPE_MISMATCH},
			diags: []string{"test.ql:1:1: cannot call a number literal"},
		},
		{
			name:  "call number variable",
			src:   "let x = 1; x();",
			kinds: []diagnostics.Kind{diagnostics.TYPE_MISMATCH},
			diags: []string{"test.ql:1:12: 'x' is a number and cannot be called"},
		},
		{
			name:  "add number and string",
			src:   `1 + "a";`,
			kinds: []diagnostics.Kind{diagnostics.TYPE_MISMATCH},
			diags: []string{"test.ql:1:3: operator '+' cannot be applied to number and string"},
		},
		{
			name:  "negate string",
			src:   `-"a";`,
			kinds: []diagnostics.Kind{diagnostics.TYPE_MISMATCH},
			diags: []string{"test.ql:1:1: operator '-' cannot be applied to string"},
		},
		{
			name:  "multiply bool",
			src:   "let b = true; b * 2;",
			kinds: []diagnostics.Kind{diagnostics.TYPE_MISMATCH},
			diags: []string{"test.ql:1:17: operator '*' cannot be applied to bool and number"},
		},
		{
			name:  "early call reads a later variable",
			src:   "let r = f(); let x = 1; fn f() { return x; }",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:1:41: 'x' is not declared yet where 'f' is first used"},
		},
		{
			name:  "early call through another function",
			src:   "let r = g();\nlet x = 1;\nfn g() { return f(); }\nfn f() { return x; }",
			kinds: []diagnostics.Kind{diagnostics.UNDECLARED_NAME},
			diags: []string{"test.ql:4:17: 'x' is not declared yet where 'f' is first used"},
		},
		{
			name:  "index a number",
			src:   "let n = 5; n[0];",
			kinds: []diagnostics.Kind{diagnostics.TYPE_MISMATCH},
			diags: []string{"test.ql:1:13: cannot index a value of type number"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diags, err := parseAndCheck(t, test.src)
			require.ErrorIs(t, err, diagnostics.COMPILER_ERROR_FOUND)
			assert.Equal(t, test.diags, diagStrings(diags))

			kinds := make([]diagnostics.Kind, len(diags))
			for i, diag := range diags {
				kinds[i] = diag.Kind
			}
			assert.Equal(t, test.kinds, kinds)
		})
	}
}

func TestDiagsAreInSourceOrder(t *testing.T) {
	// the duplicate `f` is found while hoisting, before `y` is visited
	diags, err := parseAndCheck(t, "fn f() {}\nprint(y);\nfn f() {}")
	require.Error(t, err)
	assert.Equal(t, []string{
		"test.ql:2:7: 'y' is not declared",
		"test.ql:3:4: 'f' is already declared in this scope",
	}, diagStrings(diags))
}

func TestCheckCollectsEveryError(t *testing.T) {
	src := `
let a = 1;
let a = 2;
print(missing);
fn f(x) { return x; }
f();
f = 3;
`
	diags, err := parseAndCheck(t, src)
	require.Error(t, err)

	kinds := make([]diagnostics.Kind, len(diags))
	for i, diag := range diags {
		kinds[i] = diag.Kind
	}
	assert.Equal(t, []diagnostics.Kind{
		diagnostics.DUPLICATE_DECLARATION,
		diagnostics.UNDECLARED_NAME,
		diagnostics.ARITY_MISMATCH,
		diagnostics.INVALID_ASSIGNMENT,
	}, kinds)
}

func TestSharedTableAcrossChecks(t *testing.T) {
	table := scope.NewTable()
	collector := diagnostics.New()
	checker := NewWithTable(collector, table)

	first, _, err := parser.ParseFrom("let x = 1;", "")
	require.NoError(t, err)
	require.NoError(t, checker.Check(first))

	second, _, err := parser.ParseFrom("print(x);", "")
	require.NoError(t, err)
	require.NoError(t, checker.Check(second))

	// reassigning in a later input clears the initializer type
	third, _, err := parser.ParseFrom("fn g() {} x = g;", "")
	require.NoError(t, err)
	require.NoError(t, checker.Check(third))

	fourth, _, err := parser.ParseFrom("x();", "")
	require.NoError(t, err)
	assert.NoError(t, checker.Check(fourth))
	assert.Empty(t, collector.Diags)
}

func TestBuiltinsAreDeclaredOnce(t *testing.T) {
	table := scope.NewTable()
	NewWithTable(diagnostics.New(), table)
	NewWithTable(diagnostics.New(), table)

	sym, err := table.Resolve("print")
	require.NoError(t, err)
	assert.Equal(t, scope.SYMBOL_BUILTIN, sym.Kind)
	assert.Equal(t, scope.VARIADIC, sym.Arity)
}
