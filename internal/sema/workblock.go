package sema

import (
	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// analyzeFunctionBody type-checks a user function's body in a fresh
// scope seeded with its parameters.
func (a *Analyzer) analyzeFunctionBody(f *ast.FunctionDecl) {
	a.scopes.push()
	defer a.scopes.pop()
	for _, p := range f.Params {
		if !a.scopes.declare(p.Name, p) {
			a.errorf(diag.Redefinition, p.Pos, "duplicate parameter %q", p.Name)
		}
	}
	savedIn, savedOut := a.curFilterInput, a.curFilterOutput
	a.curFilterInput, a.curFilterOutput = nil, f.Resolved
	a.analyzeStmts(f.Body)
	a.curFilterInput, a.curFilterOutput = savedIn, savedOut
}

// analyzeFilter resolves a filter's signature and validates its state
// variables and up to three work blocks (spec §3's WorkBlock, §4.2).
func (a *Analyzer) analyzeFilter(f *ast.FilterDecl) {
	f.ResolvedInput = a.resolveType(f.InputType)
	f.ResolvedOutput = a.resolveType(f.OutputType)

	a.scopes.push()
	defer a.scopes.pop()
	for _, p := range f.Params {
		p.Resolved = a.resolveType(p.TypeName)
		if !a.scopes.declare(p.Name, p) {
			a.errorf(diag.Redefinition, p.Pos, "duplicate parameter %q", p.Name)
		}
	}

	stateVars := make(map[*ast.VariableDecl]bool, len(f.Vars))
	for _, v := range f.Vars {
		v.Resolved = a.resolveVarType(v)
		if v.Init != nil {
			a.typeExpr(v.Init)
		}
		if !a.scopes.declare(v.Name, v) {
			a.errorf(diag.Redefinition, v.Pos, "duplicate filter-scope variable %q", v.Name)
		}
		stateVars[v] = true
	}

	savedIn, savedOut := a.curFilterInput, a.curFilterOutput
	savedStateful, savedVars := a.curFilterStateful, a.curFilterStateVars
	a.curFilterInput, a.curFilterOutput = f.ResolvedInput, f.ResolvedOutput
	a.curFilterStateful, a.curFilterStateVars = f.Stateful, stateVars

	if f.Init != nil {
		a.analyzeWorkBlock(f.Init)
	}
	if f.Prework != nil {
		a.analyzeWorkBlock(f.Prework)
	}
	if f.Work != nil {
		a.analyzeWorkBlock(f.Work)
	} else {
		a.errorf(diag.RateMismatch, f.Pos, "filter %q has no work block", f.Name)
	}

	a.curFilterInput, a.curFilterOutput = savedIn, savedOut
	a.curFilterStateful, a.curFilterStateVars = savedStateful, savedVars
}

// resolveVarType resolves a VariableDecl's declared type, or infers it
// from its initializer when the source left the type out (spec §4.2's
// "or inferred from Init").
func (a *Analyzer) resolveVarType(v *ast.VariableDecl) *types.Type {
	if v.TypeName != nil {
		return a.resolveType(v.TypeName)
	}
	if v.Init != nil {
		return a.typeExpr(v.Init)
	}
	a.errorf(diag.TypeMismatch, v.Pos, "variable %q has neither a declared type nor an initializer", v.Name)
	return a.in.Int()
}

// analyzeStreamBody type-checks a pipeline's (or, via
// analyzeSplitJoinBody, a splitjoin's) statement list in its own
// scope (spec §4.4).
func (a *Analyzer) analyzeStreamBody(base ast.DeclBase, params []*ast.ParameterDecl, body []ast.Stmt) {
	a.scopes.push()
	defer a.scopes.pop()
	for _, p := range params {
		p.Resolved = a.resolveType(p.TypeName)
		if !a.scopes.declare(p.Name, p) {
			a.errorf(diag.Redefinition, p.Pos, "duplicate parameter %q", p.Name)
		}
	}

	savedIn, savedOut := a.curFilterInput, a.curFilterOutput
	a.curFilterInput, a.curFilterOutput = nil, nil
	a.analyzeStmts(body)
	a.curFilterInput, a.curFilterOutput = savedIn, savedOut
}

func (a *Analyzer) analyzePipelineBody(p *ast.PipelineDecl) {
	p.ResolvedInput = a.resolveType(p.InputType)
	p.ResolvedOutput = a.resolveType(p.OutputType)
	a.analyzeStreamBody(p.DeclBase, p.Params, p.Body)
}

func (a *Analyzer) analyzeSplitJoinBody(sj *ast.SplitJoinDecl) {
	sj.ResolvedInput = a.resolveType(sj.InputType)
	sj.ResolvedOutput = a.resolveType(sj.OutputType)
	a.analyzeStreamBody(sj.DeclBase, sj.Params, sj.Body)
}

// analyzeStmts type-checks a statement list in the current scope
// (callers push/pop their own block scope as needed).
func (a *Analyzer) analyzeStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.analyzeStmt(s)
	}
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		a.typeExpr(s.Expr)

	case *ast.VarDeclStmt:
		s.Decl.Resolved = a.resolveVarType(s.Decl)
		if !a.scopes.declare(s.Decl.Name, s.Decl) {
			a.errorf(diag.Redefinition, s.Decl.Pos, "duplicate declaration of %q", s.Decl.Name)
		}

	case *ast.PushStmt:
		valT := a.typeExpr(s.Value)
		if a.curFilterOutput != nil && !a.in.ConvertibleTo(valT, a.curFilterOutput) {
			a.errorf(diag.TypeMismatch, s.Pos, "push value of type %s is not convertible to the filter's output type %s", valT, a.curFilterOutput)
		}

	case *ast.SplitStmt:
		for _, w := range s.Weights {
			a.typeExpr(w)
			if !IsConstantExpr(w) {
				a.errorf(diag.NonConstantArraySize, w.Position(), "split weight must be a compile-time constant")
			}
		}

	case *ast.JoinStmt:
		for _, w := range s.Weights {
			a.typeExpr(w)
			if !IsConstantExpr(w) {
				a.errorf(diag.NonConstantArraySize, w.Position(), "join weight must be a compile-time constant")
			}
		}

	case *ast.AddStmt:
		a.analyzeAddStmt(s)

	case *ast.IfStmt:
		condT := a.typeExpr(s.Cond)
		if condT != a.in.Bool() {
			a.errorf(diag.TypeMismatch, s.Pos, "if condition must be bool, got %s", condT)
		}
		a.scopes.push()
		a.analyzeStmts(s.Then)
		a.scopes.pop()
		if s.Else != nil {
			a.scopes.push()
			a.analyzeStmts(s.Else)
			a.scopes.pop()
		}

	case *ast.ForStmt:
		a.scopes.push()
		if s.Init != nil {
			a.analyzeStmt(s.Init)
		}
		if s.Cond != nil {
			condT := a.typeExpr(s.Cond)
			if condT != a.in.Bool() {
				a.errorf(diag.TypeMismatch, s.Pos, "for condition must be bool, got %s", condT)
			}
		}
		if s.Step != nil {
			a.typeExpr(s.Step)
		}
		a.loopDepth++
		a.analyzeStmts(s.Body)
		a.loopDepth--
		a.scopes.pop()

	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.errorf(diag.NotAnLValue, s.Pos, "break used outside of a loop")
		}

	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorf(diag.NotAnLValue, s.Pos, "continue used outside of a loop")
		}

	case *ast.ReturnStmt:
		if s.Value != nil {
			valT := a.typeExpr(s.Value)
			if a.curFilterOutput != nil && a.curFilterOutput != a.in.Void() && !a.in.ConvertibleTo(valT, a.curFilterOutput) {
				a.errorf(diag.TypeMismatch, s.Pos, "return value of type %s is not convertible to the declared return type %s", valT, a.curFilterOutput)
			}
		}

	default:
		a.report.Add(diag.NewInternal(stmt.Position(), "sema: unhandled statement type %T", stmt))
	}
}

// analyzeAddStmt validates one `add` instantiation inside a pipeline
// or splitjoin body: the named stream must exist (or the statement
// carries an inline anonymous body per SPEC_FULL.md §3), argument
// count must match the stream's declared parameters, and every
// argument must fold to a compile-time constant (spec §4.4: "each must
// evaluate to a constant").
func (a *Analyzer) analyzeAddStmt(s *ast.AddStmt) {
	var params []*ast.ParameterDecl
	switch {
	case s.Anonymous != nil:
		switch decl := s.Anonymous.(type) {
		case *ast.PipelineDecl:
			a.analyzeStreamBody(decl.DeclBase, decl.Params, decl.Body)
		case *ast.SplitJoinDecl:
			a.analyzeSplitJoinBody(decl)
		case *ast.FilterDecl:
			a.analyzeFilter(decl)
		}
		params = s.Anonymous.StreamParams()

	default:
		sd, ok := a.streams[s.StreamName]
		if !ok {
			a.errorf(diag.UndeclaredName, s.Pos, "undeclared stream %q", s.StreamName)
			for _, arg := range s.Args {
				a.typeExpr(arg)
			}
			return
		}
		params = sd.StreamParams()
	}

	if len(s.Args) != len(params) {
		a.errorf(diag.ArityMismatch, s.Pos, "stream %q takes %d argument(s), got %d", s.StreamName, len(params), len(s.Args))
	}
	for i, arg := range s.Args {
		argT := a.typeExpr(arg)
		if !IsConstantExpr(arg) {
			a.errorf(diag.NonConstantArraySize, arg.Position(), "add-statement argument must be a compile-time constant")
		}
		if i < len(params) && params[i].Resolved != nil && !a.in.ConvertibleTo(argT, params[i].Resolved) {
			a.errorf(diag.TypeMismatch, arg.Position(), "argument %d of type %s is not convertible to parameter type %s", i, argT, params[i].Resolved)
		}
	}
}

// analyzeWorkBlock validates one work block's rate clause and body
// (spec §4.2, SPEC_FULL.md §4.2's default-rate rule): a rate clause
// left out of the source defaults to pop=1/push=1 on the non-void side
// and 0 on a void side, with a RateMismatch warning for each defaulted
// non-void side; peek defaults to pop's value when omitted. The
// peek >= pop invariant (spec §3) is checked after defaulting, and the
// body is type-checked in its own scope with the filter's state
// variables visible.
func (a *Analyzer) analyzeWorkBlock(wb *ast.WorkBlock) {
	pop, popOK := foldRate(wb.PopRate)
	push, pushOK := foldRate(wb.PushRate)
	peek, peekOK := foldRate(wb.PeekRate)

	if wb.PopRate != nil && !popOK {
		a.errorf(diag.RateMismatch, wb.Pos, "pop rate must be a compile-time constant")
	}
	if wb.PushRate != nil && !pushOK {
		a.errorf(diag.RateMismatch, wb.Pos, "push rate must be a compile-time constant")
	}
	if wb.PeekRate != nil && !peekOK {
		a.errorf(diag.RateMismatch, wb.Pos, "peek rate must be a compile-time constant")
	}

	if !popOK {
		if a.curFilterInput == a.in.Void() || a.curFilterInput == nil {
			pop = 0
		} else {
			pop = 1
			if wb.PopRate == nil {
				a.warnf(diag.RateMismatch, wb.Pos, "no pop rate given; assuming pop rate 1")
			}
		}
	}
	if !pushOK {
		if a.curFilterOutput == a.in.Void() || a.curFilterOutput == nil {
			push = 0
		} else {
			push = 1
			if wb.PushRate == nil {
				a.warnf(diag.RateMismatch, wb.Pos, "no push rate given; assuming push rate 1")
			}
		}
	}
	if !peekOK {
		peek = pop
	}

	if pop < 0 {
		a.errorf(diag.RateMismatch, wb.Pos, "pop rate must be non-negative, got %d", pop)
	}
	if push < 0 {
		a.errorf(diag.RateMismatch, wb.Pos, "push rate must be non-negative, got %d", push)
	}
	if peek < 0 {
		a.errorf(diag.RateMismatch, wb.Pos, "peek rate must be non-negative, got %d", peek)
	}
	if peek < pop {
		a.errorf(diag.RateMismatch, wb.Pos, "peek rate (%d) must be >= pop rate (%d)", peek, pop)
	}

	wb.ResolvedPeek = int(peek)
	wb.ResolvedPop = int(pop)
	wb.ResolvedPush = int(push)

	savedPeekRate := a.curPeekRate
	a.curPeekRate = wb.ResolvedPeek
	a.scopes.push()
	a.analyzeStmts(wb.Body)
	a.scopes.pop()
	a.curPeekRate = savedPeekRate

	popCalls, pushCalls := countPopPush(wb.Body)
	if popCalls > wb.ResolvedPop {
		a.errorf(diag.RateMismatch, wb.Pos, "work block calls pop() %d time(s), exceeding its pop rate of %d", popCalls, wb.ResolvedPop)
	}
	if pushCalls != wb.ResolvedPush {
		a.errorf(diag.RateMismatch, wb.Pos, "work block calls push() %d time(s), but its push rate is %d", pushCalls, wb.ResolvedPush)
	}
}

func foldRate(e ast.Expr) (int64, bool) {
	if e == nil {
		return 0, false
	}
	return foldInt(e)
}
