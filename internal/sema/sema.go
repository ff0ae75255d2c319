// Package sema statically checks a parsed program: name resolution across
// nested scopes, duplicate declarations, call arity and the type errors that
// are visible without running the program. Every finding is saved in the
// collector; checking never stops at the first one.
package sema

import (
	"cmp"
	"slices"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
	"github.com/quill-lang/quill/internal/scope"
)

type Sema struct {
	collector *diagnostics.Collector
	table     *scope.Table

	// names assigned anywhere in the program being checked
	assigned map[string]bool

	// statement index of each variable inside the list that declared it
	order     map[*scope.Symbol]int
	stmtIndex int
	early     []earlyUse
}

// earlyUse is a function whose body is being checked although the function
// is first used at statement before of the scope at depth, ahead of its
// declaration. Variables of that scope declared at or after before are not
// bound yet when the body runs.
type earlyUse struct {
	fn     string
	depth  int
	before int
}

func New(collector *diagnostics.Collector) *Sema {
	return NewWithTable(collector, scope.NewTable())
}

// NewWithTable checks against a caller-owned table, so declarations survive
// across several Check calls (REPL). Builtins are declared if missing.
func NewWithTable(collector *diagnostics.Collector, table *scope.Table) *Sema {
	for name, arity := range scope.BUILTINS {
		if _, err := table.Resolve(name); err == nil {
			continue
		}
		_ = table.Declare(&scope.Symbol{
			Name:  name,
			Kind:  scope.SYMBOL_BUILTIN,
			Type:  scope.TYPE_FUNCTION,
			Arity: arity,
		})
	}
	return &Sema{collector: collector, table: table}
}

func (s *Sema) Table() *scope.Table { return s.table }

// Check analyzes program and reports its findings in source order. It returns
// COMPILER_ERROR_FOUND if anything was reported.
func (s *Sema) Check(program *ast.Program) error {
	mark := s.collector.Count()

	s.assigned = collectAssigned(program.Body)
	s.order = make(map[*scope.Symbol]int)
	s.early = nil
	s.checkStmts(program.Body)

	if s.collector.Count() == mark {
		return nil
	}

	found := s.collector.Since(mark)
	slices.SortStableFunc(found, func(a, b diagnostics.Diag) int {
		if c := cmp.Compare(a.Pos.Line, b.Pos.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos.Column, b.Pos.Column)
	})
	return diagnostics.COMPILER_ERROR_FOUND
}

// checkStmts checks a statement list sharing one scope. Function declarations
// are bound before anything else so they can call each other; variables stay
// sequential. A function used before its declaration has its body checked
// against the variables bound at that first use.
func (s *Sema) checkStmts(stmts []*ast.Node) {
	for _, stmt := range stmts {
		if stmt.Kind == ast.KIND_FN_DECL {
			s.declareFn(stmt.Node.(*ast.FnDecl))
		}
	}
	firstUse := firstUses(stmts)

	outer := s.stmtIndex
	defer func() { s.stmtIndex = outer }()

	for i, stmt := range stmts {
		s.stmtIndex = i
		if stmt.Kind == ast.KIND_FN_DECL {
			fn := stmt.Node.(*ast.FnDecl)
			if use, ok := firstUse[fn.Name.Name]; ok && use < i {
				s.checkEarlyFnBody(fn, use)
				continue
			}
		}
		s.checkStmt(stmt)
	}
}

func (s *Sema) checkEarlyFnBody(fn *ast.FnDecl, use int) {
	s.early = append(s.early, earlyUse{fn: fn.Name.Name, depth: s.table.Depth() - 1, before: use})
	s.checkFnBody(fn)
	s.early = s.early[:len(s.early)-1]
}

func (s *Sema) checkStmt(stmt *ast.Node) {
	switch stmt.Kind {
	case ast.KIND_EXPR_STMT:
		s.checkExpr(stmt.Node.(*ast.ExprStmt).Expr)
	case ast.KIND_VAR_STMT:
		s.checkVar(stmt.Node.(*ast.VarStmt))
	case ast.KIND_BLOCK_STMT:
		s.checkBlock(stmt.Node.(*ast.BlockStmt))
	case ast.KIND_IF_STMT:
		s.checkIf(stmt.Node.(*ast.IfStmt))
	case ast.KIND_WHILE_STMT:
		while := stmt.Node.(*ast.WhileStmt)
		s.checkExpr(while.Cond)
		s.checkBlock(while.Block)
	case ast.KIND_FOR_STMT:
		s.checkFor(stmt.Node.(*ast.ForStmt))
	case ast.KIND_RETURN_STMT:
		if value := stmt.Node.(*ast.ReturnStmt).Value; value != nil {
			s.checkExpr(value)
		}
	case ast.KIND_BREAK_STMT, ast.KIND_CONTINUE_STMT:
	case ast.KIND_FN_DECL:
		s.checkFnBody(stmt.Node.(*ast.FnDecl))
	}
}

func (s *Sema) checkBlock(block *ast.BlockStmt) {
	s.table.PushScope()
	s.checkStmts(block.Statements)
	s.table.PopScope()
}

func (s *Sema) checkVar(varStmt *ast.VarStmt) {
	typ := scope.TYPE_NIL
	if varStmt.Value != nil {
		s.checkExpr(varStmt.Value)
		typ = s.staticType(varStmt.Value)
	}
	if s.assigned[varStmt.Name.Name] {
		typ = scope.TYPE_UNKNOWN
	}

	sym := &scope.Symbol{
		Name: varStmt.Name.Name,
		Kind: scope.SYMBOL_VAR,
		Type: typ,
		Pos:  varStmt.Name.Pos,
	}
	s.declare(sym)
	s.order[sym] = s.stmtIndex
}

func (s *Sema) checkIf(ifStmt *ast.IfStmt) {
	s.checkExpr(ifStmt.Cond)
	s.checkBlock(ifStmt.Then)
	if ifStmt.Else != nil {
		s.checkStmt(ifStmt.Else)
	}
}

func (s *Sema) checkFor(forStmt *ast.ForStmt) {
	s.table.PushScope()
	defer s.table.PopScope()

	if forStmt.Init != nil {
		s.checkStmt(forStmt.Init)
	}
	if forStmt.Cond != nil {
		s.checkExpr(forStmt.Cond)
	}
	if forStmt.Update != nil {
		s.checkExpr(forStmt.Update)
	}
	s.checkBlock(forStmt.Block)
}

func (s *Sema) declareFn(fn *ast.FnDecl) {
	s.declare(&scope.Symbol{
		Name:  fn.Name.Name,
		Kind:  scope.SYMBOL_FN,
		Type:  scope.TYPE_FUNCTION,
		Arity: fn.Arity(),
		Pos:   fn.Name.Pos,
	})
}

// checkFnBody checks parameters and body in a single scope, so a local
// cannot redeclare a parameter.
func (s *Sema) checkFnBody(fn *ast.FnDecl) {
	s.table.PushScope()
	defer s.table.PopScope()

	for _, param := range fn.Params {
		s.declare(&scope.Symbol{
			Name: param.Name,
			Kind: scope.SYMBOL_VAR,
			Type: scope.TYPE_UNKNOWN,
			Pos:  param.Pos,
		})
	}
	s.checkStmts(fn.Block.Statements)
}

func (s *Sema) declare(sym *scope.Symbol) {
	if err := s.table.Declare(sym); err != nil {
		s.report(diagnostics.DUPLICATE_DECLARATION, sym.Pos, "'%s' is already declared in this scope", sym.Name)
	}
}

func (s *Sema) checkExpr(expr *ast.Node) {
	switch expr.Kind {
	case ast.KIND_LITERAL_EXPR:
	case ast.KIND_ID_EXPR:
		s.resolve(expr.Node.(*ast.IdExpr))
	case ast.KIND_GROUPING_EXPR:
		s.checkExpr(expr.Node.(*ast.GroupingExpr).Expr)
	case ast.KIND_UNARY_EXPR:
		s.checkUnary(expr.Node.(*ast.UnaryExpr))
	case ast.KIND_BINARY_EXPR:
		s.checkBinary(expr.Node.(*ast.BinaryExpr))
	case ast.KIND_CALL_EXPR:
		s.checkCall(expr.Node.(*ast.CallExpr))
	case ast.KIND_INDEX_EXPR:
		s.checkIndex(expr.Node.(*ast.IndexExpr))
	case ast.KIND_ASSIGN_EXPR:
		s.checkAssign(expr.Node.(*ast.AssignExpr))
	}
}

func (s *Sema) resolve(id *ast.IdExpr) (*scope.Symbol, bool) {
	sym, err := s.table.Resolve(id.Name)
	if err != nil {
		s.report(diagnostics.UNDECLARED_NAME, id.Pos, "'%s' is not declared", id.Name)
		return nil, false
	}
	if at, ok := s.order[sym]; ok {
		for _, early := range s.early {
			if sym.Depth == early.depth && at >= early.before {
				s.report(diagnostics.UNDECLARED_NAME, id.Pos, "'%s' is not declared yet where '%s' is first used", id.Name, early.fn)
				break
			}
		}
	}
	return sym, true
}

func (s *Sema) checkAssign(assign *ast.AssignExpr) {
	s.checkExpr(assign.Value)

	sym, ok := s.resolve(assign.Name)
	if !ok {
		return
	}
	if sym.IsCallable() {
		s.report(diagnostics.INVALID_ASSIGNMENT, assign.Name.Pos, "cannot assign to %s '%s'", sym.Kind, sym.Name)
		return
	}
	// later checks against the same table (REPL) must not trust the
	// initializer type anymore
	sym.Type = scope.TYPE_UNKNOWN
}

func (s *Sema) checkUnary(unary *ast.UnaryExpr) {
	s.checkExpr(unary.Value)

	if unary.Op != token.MINUS {
		return
	}
	if typ := s.staticType(unary.Value); typ != scope.TYPE_UNKNOWN && typ != scope.TYPE_NUMBER {
		s.report(diagnostics.TYPE_MISMATCH, unary.OpPos, "operator '-' cannot be applied to %s", typ)
	}
}

func (s *Sema) checkBinary(binary *ast.BinaryExpr) {
	s.checkExpr(binary.Left)
	s.checkExpr(binary.Right)

	left := s.staticType(binary.Left)
	right := s.staticType(binary.Right)
	if !operandsAllowed(binary.Op, left, right) {
		s.report(
			diagnostics.TYPE_MISMATCH,
			binary.OpPos,
			"operator '%s' cannot be applied to %s and %s",
			binary.Op,
			left,
			right,
		)
	}
}

func (s *Sema) checkIndex(index *ast.IndexExpr) {
	s.checkExpr(index.Target)
	s.checkExpr(index.Index)

	if typ := s.staticType(index.Target); typ != scope.TYPE_UNKNOWN && typ != scope.TYPE_STRING {
		s.report(diagnostics.TYPE_MISMATCH, index.Bracket, "cannot index a value of type %s", typ)
	}
	if typ := s.staticType(index.Index); typ != scope.TYPE_UNKNOWN && typ != scope.TYPE_NUMBER {
		s.report(diagnostics.TYPE_MISMATCH, ast.ExprPos(index.Index), "index must be a number, not %s", typ)
	}
}

func (s *Sema) checkCall(call *ast.CallExpr) {
	callee := ast.Unwrap(call.Callee)

	switch callee.Kind {
	case ast.KIND_ID_EXPR:
		id := callee.Node.(*ast.IdExpr)
		sym, ok := s.resolve(id)
		if !ok {
			break
		}
		if sym.IsCallable() {
			if sym.Arity != scope.VARIADIC && sym.Arity != len(call.Args) {
				s.report(
					diagnostics.ARITY_MISMATCH,
					id.Pos,
					"'%s' expects %d argument(s), got %d",
					sym.Name,
					sym.Arity,
					len(call.Args),
				)
			}
			break
		}
		if sym.Type != scope.TYPE_UNKNOWN && sym.Type != scope.TYPE_FUNCTION {
			s.report(diagnostics.TYPE_MISMATCH, id.Pos, "'%s' is a %s and cannot be called", sym.Name, sym.Type)
		}
	case ast.KIND_LITERAL_EXPR:
		lit := callee.Node.(*ast.LiteralExpr)
		s.report(diagnostics.TYPE_MISMATCH, lit.Pos, "cannot call a %s literal", lit.Kind)
	default:
		s.checkExpr(call.Callee)
	}

	for _, arg := range call.Args {
		s.checkExpr(arg)
	}
}

// staticType infers the type of expr when it does not depend on run-time
// values. It never reports.
func (s *Sema) staticType(expr *ast.Node) scope.Type {
	switch expr.Kind {
	case ast.KIND_LITERAL_EXPR:
		switch expr.Node.(*ast.LiteralExpr).Kind {
		case ast.LITERAL_NUMBER:
			return scope.TYPE_NUMBER
		case ast.LITERAL_STRING:
			return scope.TYPE_STRING
		case ast.LITERAL_BOOL:
			return scope.TYPE_BOOL
		default:
			return scope.TYPE_NIL
		}
	case ast.KIND_ID_EXPR:
		sym, err := s.table.Resolve(expr.Node.(*ast.IdExpr).Name)
		if err != nil {
			return scope.TYPE_UNKNOWN
		}
		return sym.Type
	case ast.KIND_GROUPING_EXPR:
		return s.staticType(expr.Node.(*ast.GroupingExpr).Expr)
	case ast.KIND_UNARY_EXPR:
		unary := expr.Node.(*ast.UnaryExpr)
		if unary.Op == token.NOT {
			return scope.TYPE_BOOL
		}
		if s.staticType(unary.Value) == scope.TYPE_NUMBER {
			return scope.TYPE_NUMBER
		}
	case ast.KIND_BINARY_EXPR:
		binary := expr.Node.(*ast.BinaryExpr)
		switch {
		case ast.COMPARISON[binary.Op], ast.EQUALITY[binary.Op], ast.LOGICAL[binary.Op]:
			return scope.TYPE_BOOL
		case binary.Op == token.PLUS:
			left, right := s.staticType(binary.Left), s.staticType(binary.Right)
			if left == right && (left == scope.TYPE_NUMBER || left == scope.TYPE_STRING) {
				return left
			}
		default:
			left, right := s.staticType(binary.Left), s.staticType(binary.Right)
			if left == scope.TYPE_NUMBER && right == scope.TYPE_NUMBER {
				return scope.TYPE_NUMBER
			}
		}
	}
	return scope.TYPE_UNKNOWN
}

// operandsAllowed reports whether op may succeed at run time for operands of
// the given static types.
func operandsAllowed(op token.Kind, left, right scope.Type) bool {
	switch {
	case op == token.PLUS, ast.COMPARISON[op]:
		for _, typ := range []scope.Type{left, right} {
			if typ != scope.TYPE_UNKNOWN && typ != scope.TYPE_NUMBER && typ != scope.TYPE_STRING {
				return false
			}
		}
		return left == scope.TYPE_UNKNOWN || right == scope.TYPE_UNKNOWN || left == right
	case ast.ARITHMETIC[op]:
		return (left == scope.TYPE_UNKNOWN || left == scope.TYPE_NUMBER) &&
			(right == scope.TYPE_UNKNOWN || right == scope.TYPE_NUMBER)
	default:
		return true
	}
}

func (s *Sema) report(kind diagnostics.Kind, pos token.Pos, format string, args ...any) {
	s.collector.ReportAndSave(diagnostics.Errorf(kind, pos, format, args...))
}
