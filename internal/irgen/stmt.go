package irgen

import (
	"streamc/internal/ast"
)

func (lw *Lowerer) lowerStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if lw.cur.Term != nil {
			// Unreachable code after a terminated block (e.g. after a
			// return) — spec §4.3 doesn't require emitting dead blocks.
			return
		}
		lw.lowerStmt(s)
	}
}

func (lw *Lowerer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		lw.lowerExpr(s.Expr)

	case *ast.VarDeclStmt:
		slot := lw.cur.NewAlloca(llType(s.Decl.Resolved))
		if s.Decl.Init != nil {
			lw.cur.NewStore(lw.lowerExpr(s.Decl.Init), slot)
		}
		lw.locals[s.Decl] = slot

	case *ast.PushStmt:
		val := lw.lowerExpr(s.Value)
		lw.builder.BuildPush(lw.cur, lw.filterCx, val)

	case *ast.IfStmt:
		lw.lowerIf(s)

	case *ast.ForStmt:
		lw.lowerFor(s)

	case *ast.BreakStmt:
		target := lw.breakTargets[len(lw.breakTargets)-1]
		lw.cur.NewBr(target)

	case *ast.ContinueStmt:
		target := lw.continueTargets[len(lw.continueTargets)-1]
		lw.cur.NewBr(target)

	case *ast.ReturnStmt:
		if s.Value == nil {
			lw.cur.NewRet(nil)
			return
		}
		lw.cur.NewRet(lw.lowerExpr(s.Value))

	case *ast.SplitStmt, *ast.JoinStmt, *ast.AddStmt:
		// Stream-graph structural statements carry no per-firing code;
		// C4 consumes them directly from the AST (spec §4.4).

	default:
		panic("irgen: unhandled statement type")
	}
}

// lowerIf lowers an if/else into then/else/merge blocks joined by a
// conditional branch, the direct SSA analogue of the teacher's
// two-pass jump-patch technique in its bytecode compiler.
func (lw *Lowerer) lowerIf(s *ast.IfStmt) {
	cond := lw.lowerExpr(s.Cond)

	thenBlk := lw.fn.NewBlock("")
	mergeBlk := lw.fn.NewBlock("")
	elseBlk := mergeBlk
	if s.Else != nil {
		elseBlk = lw.fn.NewBlock("")
	}

	lw.cur.NewCondBr(cond, thenBlk, elseBlk)

	lw.cur = thenBlk
	lw.lowerStmts(s.Then)
	if lw.cur.Term == nil {
		lw.cur.NewBr(mergeBlk)
	}

	if s.Else != nil {
		lw.cur = elseBlk
		lw.lowerStmts(s.Else)
		if lw.cur.Term == nil {
			lw.cur.NewBr(mergeBlk)
		}
	}

	lw.cur = mergeBlk
}

// lowerFor lowers a C-style for loop into header/body/step/exit blocks
// (spec §4.3's "If/for lowering": condition test at header, body,
// step, unconditional back-edge to header, exit block after).
func (lw *Lowerer) lowerFor(s *ast.ForStmt) {
	if s.Init != nil {
		lw.lowerStmt(s.Init)
	}

	headerBlk := lw.fn.NewBlock("")
	bodyBlk := lw.fn.NewBlock("")
	stepBlk := lw.fn.NewBlock("")
	exitBlk := lw.fn.NewBlock("")

	lw.cur.NewBr(headerBlk)

	lw.cur = headerBlk
	if s.Cond != nil {
		cond := lw.lowerExpr(s.Cond)
		lw.cur.NewCondBr(cond, bodyBlk, exitBlk)
	} else {
		lw.cur.NewBr(bodyBlk)
	}

	lw.breakTargets = append(lw.breakTargets, exitBlk)
	lw.continueTargets = append(lw.continueTargets, stepBlk)

	lw.cur = bodyBlk
	lw.lowerStmts(s.Body)
	if lw.cur.Term == nil {
		lw.cur.NewBr(stepBlk)
	}

	lw.breakTargets = lw.breakTargets[:len(lw.breakTargets)-1]
	lw.continueTargets = lw.continueTargets[:len(lw.continueTargets)-1]

	lw.cur = stepBlk
	if s.Step != nil {
		lw.lowerExpr(s.Step)
	}
	lw.cur.NewBr(headerBlk)

	lw.cur = exitBlk
}
