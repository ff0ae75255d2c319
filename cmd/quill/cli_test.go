package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.ql")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestRunDefaultProgram(t *testing.T) {
	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)
	assert.Equal(t, `fib(0) = 0
fib(1) = 1
fib(2) = 1
fib(3) = 2
fib(4) = 3
quill has 5 letters, first is q
counter at 6 and 2 ^ 10 is 1024
`, stdout)
}

func TestRunFile(t *testing.T) {
	path := writeProgram(t, `let greeting = "hi"; print(greeting + "!");`)
	stdout, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "hi!\n", stdout)
}

func TestRunReportsDiagnostics(t *testing.T) {
	path := writeProgram(t, "print(a);\nprint(b);\nprint(\"never\");")
	stdout, stderr, err := execute(t, "run", path)
	assert.True(t, errors.Is(err, errReported))
	assert.Empty(t, stdout)
	assert.Equal(t, "1. main.ql:1:7: 'a' is not declared\n2. main.ql:2:7: 'b' is not declared\n", stderr)
}

func TestRunReportsRuntimeError(t *testing.T) {
	path := writeProgram(t, `print("start"); print(10 / 0);`)
	stdout, stderr, err := execute(t, "run", path)
	assert.True(t, errors.Is(err, errReported))
	assert.Equal(t, "start\n", stdout)
	assert.Equal(t, "main.ql:1:26: ArithmeticError: division by zero\n", stderr)
}

func TestMaxCallDepthFlag(t *testing.T) {
	path := writeProgram(t, "fn f(n) { return f(n + 1); } f(0);")
	_, stderr, err := execute(t, "--max-call-depth", "8", "run", path)
	assert.True(t, errors.Is(err, errReported))
	assert.Contains(t, stderr, "StackOverflow: maximum call depth of 8 exceeded")
}

func TestCheck(t *testing.T) {
	path := writeProgram(t, "let x = 1;\nlet x = 2;\nprint(\"not run\");\nfn f(a) {}\nf();")
	stdout, _, err := execute(t, "check", path)
	assert.True(t, errors.Is(err, errReported))
	assert.Equal(t, `Semantic analysis completed with 2 error(s):
1. main.ql:2:5: 'x' is already declared in this scope
2. main.ql:5:1: 'f' expects 1 argument(s), got 0
`, stdout)

	stdout, _, err = execute(t, "check")
	require.NoError(t, err)
	assert.Equal(t, "Semantic analysis completed with 0 error(s).\n", stdout)
}

func TestCheckStopsAtSyntaxErrors(t *testing.T) {
	path := writeProgram(t, "let = 1;\nprint(undeclared);")
	stdout, _, err := execute(t, "check", path)
	assert.True(t, errors.Is(err, errReported))
	assert.Equal(t, "Parsing completed with 1 error(s):\n1. main.ql:1:5: expected identifier, found '='\n", stdout)
}

func TestPrint(t *testing.T) {
	path := writeProgram(t, "let x=(1+2)*3;\nprint(x);")

	stdout, _, err := execute(t, "print", path)
	require.NoError(t, err)
	assert.Equal(t, "let x = (1 + 2) * 3;\nprint(x);\n", stdout)

	stdout, _, err = execute(t, "print", path, "--sexpr")
	require.NoError(t, err)
	assert.Equal(t, "Let(x, Mul(Add(1, 2), 3))\nExpr(Call(print, x))\n", stdout)

	stdout, _, err = execute(t, "print", path, "--dump")
	require.NoError(t, err)
	assert.Contains(t, stdout, "*ast.VarStmt")
	assert.Contains(t, stdout, `Name: (string) (len=1) "x"`)

	stdout, _, err = execute(t, "print", path, "--tokens")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Kind")
	assert.Contains(t, stdout, "let")
	assert.Contains(t, stdout, "end of file")
}

func TestPrintSkipsSemanticAnalysis(t *testing.T) {
	path := writeProgram(t, "print(undeclared);")
	stdout, stderr, err := execute(t, "print", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "print(undeclared);\n", stdout)
}

func TestEnvAndVersion(t *testing.T) {
	stdout, _, err := execute(t, "env")
	require.NoError(t, err)
	assert.Contains(t, stdout, "config.yml\n")
	assert.Contains(t, stdout, "color='false'\n")
	assert.Contains(t, stdout, "max_call_depth='1024'\n")

	stdout, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quill dev\n", stdout)
}

func TestUsageErrors(t *testing.T) {
	_, _, err := execute(t, "run", "a.ql", "b.ql")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errReported))

	_, _, err = execute(t, "run", "does-not-exist")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no such file"))

	_, _, err = execute(t, "print", "--tokens", "--ast")
	require.Error(t, err)
}

func TestResolvePathAddsExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.ql")
	require.NoError(t, os.WriteFile(path, []byte("print(1);"), 0644))

	resolved, err := resolvePath(filepath.Join(dir, "prog"))
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}
