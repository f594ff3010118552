package sema

import "streamc/internal/ast"

// countPopPush tallies every pop() and push() call site syntactically
// present in a work block's body (spec §4.2: "pop() is allowed up to
// pop_rate times... push(e) must execute exactly push_rate times").
// The count is purely syntactic: a pop/push inside a loop body or
// either arm of an if is counted once, regardless of how many times it
// would actually run, since rates are themselves compile-time
// constants fixed independent of any runtime condition.
func countPopPush(stmts []ast.Stmt) (pops, pushes int) {
	for _, s := range stmts {
		p, u := countStmtPopPush(s)
		pops += p
		pushes += u
	}
	return pops, pushes
}

func countStmtPopPush(stmt ast.Stmt) (pops, pushes int) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		pops += countExprPops(s.Expr)

	case *ast.VarDeclStmt:
		if s.Decl.Init != nil {
			pops += countExprPops(s.Decl.Init)
		}

	case *ast.PushStmt:
		pushes++
		pops += countExprPops(s.Value)

	case *ast.AddStmt:
		for _, arg := range s.Args {
			pops += countExprPops(arg)
		}

	case *ast.IfStmt:
		pops += countExprPops(s.Cond)
		tp, tu := countPopPush(s.Then)
		ep, eu := countPopPush(s.Else)
		pops += tp + ep
		pushes += tu + eu

	case *ast.ForStmt:
		if s.Init != nil {
			ip, iu := countStmtPopPush(s.Init)
			pops += ip
			pushes += iu
		}
		if s.Cond != nil {
			pops += countExprPops(s.Cond)
		}
		if s.Step != nil {
			pops += countExprPops(s.Step)
		}
		bp, bu := countPopPush(s.Body)
		pops += bp
		pushes += bu

	case *ast.ReturnStmt:
		if s.Value != nil {
			pops += countExprPops(s.Value)
		}
	}
	return pops, pushes
}

// countExprPops counts pop() call sites nested anywhere inside expr.
func countExprPops(expr ast.Expr) int {
	switch e := expr.(type) {
	case *ast.PopExpr:
		return 1
	case *ast.IndexExpr:
		return countExprPops(e.Base) + countExprPops(e.Index)
	case *ast.UnaryExpr:
		return countExprPops(e.Operand)
	case *ast.BinaryExpr:
		return countExprPops(e.Left) + countExprPops(e.Right)
	case *ast.LogicalExpr:
		return countExprPops(e.Left) + countExprPops(e.Right)
	case *ast.CommaExpr:
		return countExprPops(e.Left) + countExprPops(e.Right)
	case *ast.AssignExpr:
		return countExprPops(e.Target) + countExprPops(e.Value)
	case *ast.PeekExpr:
		return countExprPops(e.Index)
	case *ast.CallExpr:
		n := 0
		for _, arg := range e.Args {
			n += countExprPops(arg)
		}
		return n
	case *ast.CastExpr:
		return countExprPops(e.Operand)
	case *ast.InitListExpr:
		n := 0
		for _, el := range e.Elements {
			n += countExprPops(el)
		}
		return n
	default:
		return 0
	}
}
