package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/lexer/token"
	"github.com/quill-lang/quill/internal/pipeline"
)

const DefaultFilename = "test.ql"

func FakeLoc(filename string) *ast.Loc {
	if filename == "" {
		filename = DefaultFilename
	}
	return ast.LocFromName(filename)
}

// RunFile runs a program from disk and returns what it printed.
func RunFile(path string) (string, *pipeline.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return run(ast.LocFromName(filepath.Base(path)), src)
}

func RunSource(src string) (string, *pipeline.Result, error) {
	return run(FakeLoc(""), []byte(src))
}

func run(loc *ast.Loc, src []byte) (string, *pipeline.Result, error) {
	var out bytes.Buffer
	result, err := pipeline.Run(loc, src, &out, pipeline.Options{})
	return out.String(), result, err
}

// The builders below produce trees without positions, for comparing against
// parsed trees with positions ignored.

func NewNumber(n float64) *ast.Node {
	return ast.NewNode(ast.KIND_LITERAL_EXPR, &ast.LiteralExpr{
		Kind:   ast.LITERAL_NUMBER,
		Raw:    strconv.FormatFloat(n, 'g', -1, 64),
		Number: n,
	})
}

func NewString(s string) *ast.Node {
	return ast.NewNode(ast.KIND_LITERAL_EXPR, &ast.LiteralExpr{Kind: ast.LITERAL_STRING, Str: s})
}

func NewBool(b bool) *ast.Node {
	return ast.NewNode(ast.KIND_LITERAL_EXPR, &ast.LiteralExpr{Kind: ast.LITERAL_BOOL, Bool: b})
}

func NewNil() *ast.Node {
	return ast.NewNode(ast.KIND_LITERAL_EXPR, &ast.LiteralExpr{Kind: ast.LITERAL_NIL})
}

func NewIdExpr(name string) *ast.IdExpr {
	return &ast.IdExpr{Name: name}
}

func NewId(name string) *ast.Node {
	return ast.NewNode(ast.KIND_ID_EXPR, NewIdExpr(name))
}

func NewBinary(left *ast.Node, op token.Kind, right *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_BINARY_EXPR, &ast.BinaryExpr{Left: left, Op: op, Right: right})
}

func NewUnary(op token.Kind, value *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_UNARY_EXPR, &ast.UnaryExpr{Op: op, Value: value})
}

func NewGrouping(expr *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_GROUPING_EXPR, &ast.GroupingExpr{Expr: expr})
}

func NewCall(callee *ast.Node, args ...*ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_CALL_EXPR, &ast.CallExpr{Callee: callee, Args: args})
}

func NewAssign(name string, value *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_ASSIGN_EXPR, &ast.AssignExpr{Name: NewIdExpr(name), Value: value})
}

func NewVar(name string, value *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_VAR_STMT, &ast.VarStmt{Name: NewIdExpr(name), Value: value})
}

func NewExprStmt(expr *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_EXPR_STMT, &ast.ExprStmt{Expr: expr})
}

func NewBlock(stmts ...*ast.Node) *ast.BlockStmt {
	return &ast.BlockStmt{Statements: stmts}
}

func NewFn(name string, params []string, body ...*ast.Node) *ast.Node {
	fn := &ast.FnDecl{Name: NewIdExpr(name), Block: NewBlock(body...)}
	for _, param := range params {
		fn.Params = append(fn.Params, &ast.Param{Name: param})
	}
	return ast.NewNode(ast.KIND_FN_DECL, fn)
}

func NewReturn(value *ast.Node) *ast.Node {
	return ast.NewNode(ast.KIND_RETURN_STMT, &ast.ReturnStmt{Value: value})
}
