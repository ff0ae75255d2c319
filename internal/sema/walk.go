package sema

import "github.com/quill-lang/quill/internal/ast"

// collectAssigned returns every name that appears as an assignment target
// anywhere under stmts, regardless of scope.
func collectAssigned(stmts []*ast.Node) map[string]bool {
	assigned := make(map[string]bool)
	for _, stmt := range stmts {
		walk(stmt, func(n *ast.Node) {
			if n.Kind == ast.KIND_ASSIGN_EXPR {
				assigned[n.Node.(*ast.AssignExpr).Name.Name] = true
			}
		})
	}
	return assigned
}

// firstUses maps every function declared in stmts to the index of the first
// statement that may call it. A statement referencing a function counts as a
// use, and so does any use of a function whose body references it.
func firstUses(stmts []*ast.Node) map[string]int {
	declared := make(map[string]bool)
	for _, stmt := range stmts {
		if stmt.Kind == ast.KIND_FN_DECL {
			declared[stmt.Node.(*ast.FnDecl).Name.Name] = true
		}
	}
	if len(declared) == 0 {
		return nil
	}

	first := make(map[string]int)
	refs := make(map[string]map[string]bool)
	for i, stmt := range stmts {
		caller := ""
		if stmt.Kind == ast.KIND_FN_DECL {
			caller = stmt.Node.(*ast.FnDecl).Name.Name
			refs[caller] = make(map[string]bool)
		}
		walk(stmt, func(n *ast.Node) {
			if n.Kind != ast.KIND_ID_EXPR {
				return
			}
			name := n.Node.(*ast.IdExpr).Name
			if !declared[name] {
				return
			}
			if caller != "" {
				refs[caller][name] = true
			} else if _, ok := first[name]; !ok {
				first[name] = i
			}
		})
	}

	for changed := true; changed; {
		changed = false
		for caller, callees := range refs {
			use, ok := first[caller]
			if !ok {
				continue
			}
			for callee := range callees {
				if at, ok := first[callee]; !ok || use < at {
					first[callee] = use
					changed = true
				}
			}
		}
	}
	return first
}

// walk calls visit for n and every node below it, parents first.
func walk(n *ast.Node, visit func(*ast.Node)) {
	if n == nil {
		return
	}
	visit(n)

	switch n.Kind {
	case ast.KIND_EXPR_STMT:
		walk(n.Node.(*ast.ExprStmt).Expr, visit)
	case ast.KIND_VAR_STMT:
		walk(n.Node.(*ast.VarStmt).Value, visit)
	case ast.KIND_BLOCK_STMT:
		walkBlock(n.Node.(*ast.BlockStmt), visit)
	case ast.KIND_IF_STMT:
		ifStmt := n.Node.(*ast.IfStmt)
		walk(ifStmt.Cond, visit)
		walkBlock(ifStmt.Then, visit)
		walk(ifStmt.Else, visit)
	case ast.KIND_WHILE_STMT:
		while := n.Node.(*ast.WhileStmt)
		walk(while.Cond, visit)
		walkBlock(while.Block, visit)
	case ast.KIND_FOR_STMT:
		forStmt := n.Node.(*ast.ForStmt)
		walk(forStmt.Init, visit)
		walk(forStmt.Cond, visit)
		walk(forStmt.Update, visit)
		walkBlock(forStmt.Block, visit)
	case ast.KIND_RETURN_STMT:
		walk(n.Node.(*ast.ReturnStmt).Value, visit)
	case ast.KIND_FN_DECL:
		walkBlock(n.Node.(*ast.FnDecl).Block, visit)
	case ast.KIND_UNARY_EXPR:
		walk(n.Node.(*ast.UnaryExpr).Value, visit)
	case ast.KIND_BINARY_EXPR:
		binary := n.Node.(*ast.BinaryExpr)
		walk(binary.Left, visit)
		walk(binary.Right, visit)
	case ast.KIND_GROUPING_EXPR:
		walk(n.Node.(*ast.GroupingExpr).Expr, visit)
	case ast.KIND_CALL_EXPR:
		call := n.Node.(*ast.CallExpr)
		walk(call.Callee, visit)
		for _, arg := range call.Args {
			walk(arg, visit)
		}
	case ast.KIND_INDEX_EXPR:
		index := n.Node.(*ast.IndexExpr)
		walk(index.Target, visit)
		walk(index.Index, visit)
	case ast.KIND_ASSIGN_EXPR:
		walk(n.Node.(*ast.AssignExpr).Value, visit)
	}
}

func walkBlock(block *ast.BlockStmt, visit func(*ast.Node)) {
	for _, stmt := range block.Statements {
		walk(stmt, visit)
	}
}
