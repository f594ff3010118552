package sema

import (
	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// typeExpr assigns a ResolvedType to expr and every sub-expression
// (spec §4.2's "Expression typing"), recovering with a.in.Int() on
// error so the walk can continue accumulating diagnostics past the
// first failure within a declaration (spec §7).
func (a *Analyzer) typeExpr(expr ast.Expr) *types.Type {
	var t *types.Type
	switch e := expr.(type) {
	case *ast.IntLit:
		t = a.in.Int()
	case *ast.BoolLit:
		t = a.in.Bool()
	case *ast.FloatLit:
		t = a.in.Float()
	case *ast.Ident:
		t = a.typeIdent(e)
	case *ast.IndexExpr:
		t = a.typeIndex(e)
	case *ast.UnaryExpr:
		t = a.typeUnary(e)
	case *ast.BinaryExpr:
		t = a.typeBinary(e)
	case *ast.LogicalExpr:
		t = a.typeLogical(e)
	case *ast.CommaExpr:
		a.typeExpr(e.Left)
		t = a.typeExpr(e.Right)
	case *ast.AssignExpr:
		t = a.typeAssign(e)
	case *ast.PeekExpr:
		t = a.typePeek(e)
	case *ast.PopExpr:
		t = a.currentFilterInputType()
	case *ast.CallExpr:
		t = a.typeCall(e)
	case *ast.CastExpr:
		t = a.typeCast(e)
	case *ast.InitListExpr:
		t = a.typeInitList(e)
	default:
		a.report.Add(diag.NewInternal(expr.Position(), "sema: unhandled expression type %T", expr))
		t = a.in.Int()
	}
	expr.SetType(t)
	return t
}

func (a *Analyzer) typeIdent(e *ast.Ident) *types.Type {
	d, ok := a.scopes.lookup(e.Name)
	if !ok {
		a.errorf(diag.UndeclaredName, e.Pos, "undeclared name %q", e.Name)
		return a.in.Int()
	}
	e.Decl = d
	return d.DeclType()
}

func (a *Analyzer) typeIndex(e *ast.IndexExpr) *types.Type {
	baseT := a.typeExpr(e.Base)
	idxT := a.typeExpr(e.Index)
	if baseT.Kind != types.KindArray {
		a.errorf(diag.TypeMismatch, e.Pos, "cannot index non-array type %s", baseT)
		return a.in.Int()
	}
	if !idxT.IsIntegral() {
		a.errorf(diag.TypeMismatch, e.Pos, "array index must be an integer type, got %s", idxT)
	}
	return baseT.Elem
}

func (a *Analyzer) typeUnary(e *ast.UnaryExpr) *types.Type {
	opT := a.typeExpr(e.Operand)
	switch e.Op {
	case ast.UnaryNot:
		if opT != a.in.Bool() {
			a.errorf(diag.TypeMismatch, e.Pos, "logical not requires bool, got %s", opT)
		}
		return a.in.Bool()
	case ast.UnaryNeg, ast.UnaryBitNot:
		if !opT.IsIntegral() && opT.Kind != types.KindFloat {
			a.errorf(diag.TypeMismatch, e.Pos, "unary %s requires a numeric type, got %s", e.Op, opT)
		}
		return opT
	case ast.UnaryPreIncr, ast.UnaryPreDecr, ast.UnaryPostIncr, ast.UnaryPostDecr:
		if !isLValue(e.Operand) {
			a.errorf(diag.NotAnLValue, e.Pos, "increment/decrement requires an lvalue operand")
		}
		a.checkStatelessWrite(e.Operand)
		return opT
	default:
		return opT
	}
}

func (a *Analyzer) typeBinary(e *ast.BinaryExpr) *types.Type {
	lt := a.typeExpr(e.Left)
	rt := a.typeExpr(e.Right)
	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		if _, err := a.in.CommonType(lt, rt); err != nil {
			a.errorf(diag.TypeMismatch, e.Pos, "cannot compare %s and %s: %v", lt, rt, err)
		}
		return a.in.Bool()
	default:
		ct, err := a.in.CommonType(lt, rt)
		if err != nil {
			a.errorf(diag.TypeMismatch, e.Pos, "cannot apply %q to %s and %s: %v", e.Op, lt, rt, err)
			return a.in.Int()
		}
		return ct
	}
}

func (a *Analyzer) typeLogical(e *ast.LogicalExpr) *types.Type {
	lt := a.typeExpr(e.Left)
	rt := a.typeExpr(e.Right)
	if lt != a.in.Bool() {
		a.errorf(diag.TypeMismatch, e.Pos, "logical operator requires bool operands, left is %s", lt)
	}
	if rt != a.in.Bool() {
		a.errorf(diag.TypeMismatch, e.Pos, "logical operator requires bool operands, right is %s", rt)
	}
	return a.in.Bool()
}

// isLValue reports whether expr is a valid assignment target: an
// identifier or an index expression (spec §4.2: "Assignment requires
// an lvalue LHS (identifier or index)").
func isLValue(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.Ident, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func (a *Analyzer) typeAssign(e *ast.AssignExpr) *types.Type {
	if !isLValue(e.Target) {
		a.errorf(diag.NotAnLValue, e.Pos, "left-hand side of assignment must be an identifier or index expression")
	}
	targetT := a.typeExpr(e.Target)
	a.checkStatelessWrite(e.Target)
	valueT := a.typeExpr(e.Value)
	if !a.in.ConvertibleTo(valueT, targetT) {
		a.errorf(diag.TypeMismatch, e.Pos, "cannot assign %s to %s", valueT, targetT)
	}
	return targetT
}

// checkStatelessWrite rejects an assignment target that names a
// filter-scope state variable when the enclosing filter was not
// declared stateful (spec §4.2: a stateless filter's state variables
// are read-only across firings).
func (a *Analyzer) checkStatelessWrite(target ast.Expr) {
	if a.curFilterStateful || a.curFilterStateVars == nil {
		return
	}
	id, ok := target.(*ast.Ident)
	if !ok {
		return
	}
	v, ok := id.Decl.(*ast.VariableDecl)
	if !ok || !a.curFilterStateVars[v] {
		return
	}
	a.errorf(diag.NotAnLValue, target.Position(), "cannot write to state variable %q: filter is not declared stateful", v.Name)
}

// typePeek type-checks peek(i) and enforces spec §4.2's bound: i must
// be a compile-time constant, non-negative, and less than the
// enclosing work block's peek rate.
func (a *Analyzer) typePeek(e *ast.PeekExpr) *types.Type {
	idxT := a.typeExpr(e.Index)
	if !idxT.IsIntegral() {
		a.errorf(diag.TypeMismatch, e.Index.Position(), "peek index must be an integer type, got %s", idxT)
	}

	if !IsConstantExpr(e.Index) {
		a.errorf(diag.RateMismatch, e.Index.Position(), "peek index must be a compile-time constant")
		return a.currentFilterInputType()
	}
	idx, _ := foldInt(e.Index)
	if idx < 0 {
		a.errorf(diag.RateMismatch, e.Index.Position(), "peek index must be non-negative, got %d", idx)
	} else if a.curPeekRate >= 0 && idx >= int64(a.curPeekRate) {
		a.errorf(diag.RateMismatch, e.Index.Position(), "peek index %d is out of range for peek rate %d", idx, a.curPeekRate)
	}
	return a.currentFilterInputType()
}

// currentFilterInputType returns the element type of the filter
// currently being analysed, set by analyzeFilter for the duration of
// its work-block bodies.
func (a *Analyzer) currentFilterInputType() *types.Type {
	if a.curFilterInput == nil {
		return a.in.Int()
	}
	return a.curFilterInput
}

func (a *Analyzer) typeCall(e *ast.CallExpr) *types.Type {
	argTypes := make([]*types.Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.typeExpr(arg)
	}
	return a.resolveCall(e, argTypes)
}

func (a *Analyzer) typeCast(e *ast.CastExpr) *types.Type {
	a.typeExpr(e.Operand)
	return a.resolveType(e.TargetType)
}

func (a *Analyzer) typeInitList(e *ast.InitListExpr) *types.Type {
	var elemT *types.Type
	for _, el := range e.Elements {
		t := a.typeExpr(el)
		if elemT == nil {
			elemT = t
			continue
		}
		ct, err := a.in.CommonType(elemT, t)
		if err != nil {
			a.errorf(diag.TypeMismatch, el.Position(), "initializer list element type %s incompatible with %s", t, elemT)
			continue
		}
		elemT = ct
	}
	if elemT == nil {
		elemT = a.in.Int()
	}
	return a.in.Array(elemT, uint32(len(e.Elements)))
}
