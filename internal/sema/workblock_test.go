package sema

import (
	"testing"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

func intType() *ast.TypeExpr  { return &ast.TypeExpr{Name: "int"} }
func voidType() *ast.TypeExpr { return &ast.TypeExpr{Name: "void"} }

func hasKind(diags []*diag.Diagnostic, kind diag.Kind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestPeekIndexOutOfRangeIsRateMismatch(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	work := &ast.WorkBlock{
		PeekRate: &ast.IntLit{Value: 2},
		PopRate:  &ast.IntLit{Value: 2},
		PushRate: &ast.IntLit{Value: 1},
		Body: []ast.Stmt{
			&ast.PushStmt{Value: &ast.PeekExpr{Index: &ast.IntLit{Value: 5}}},
		},
	}
	f := &ast.FilterDecl{
		DeclBase:   ast.DeclBase{Name: "bad"},
		InputType:  intType(),
		OutputType: intType(),
		Work:       work,
	}
	a.analyzeFilter(f)

	if !hasKind(a.report.Diagnostics, diag.RateMismatch) {
		t.Fatalf("expected a RateMismatch diagnostic for an out-of-range peek index, got %v", a.report.Diagnostics)
	}
}

func TestPeekIndexMustBeConstant(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	param := &ast.ParameterDecl{DeclBase: ast.DeclBase{Name: "i"}, TypeName: intType()}
	work := &ast.WorkBlock{
		PeekRate: &ast.IntLit{Value: 4},
		PopRate:  &ast.IntLit{Value: 1},
		PushRate: &ast.IntLit{Value: 0},
		Body: []ast.Stmt{
			&ast.ExprStmt{Expr: &ast.PeekExpr{Index: &ast.Ident{Name: "i"}}},
		},
	}
	f := &ast.FilterDecl{
		DeclBase:   ast.DeclBase{Name: "f"},
		InputType:  intType(),
		OutputType: voidType(),
		Params:     []*ast.ParameterDecl{param},
		Work:       work,
	}
	a.analyzeFilter(f)

	if !hasKind(a.report.Diagnostics, diag.RateMismatch) {
		t.Fatalf("expected a RateMismatch diagnostic for a non-constant peek index, got %v", a.report.Diagnostics)
	}
}

func TestPopCallCountExceedsPopRateIsRateMismatch(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	work := &ast.WorkBlock{
		PopRate:  &ast.IntLit{Value: 1},
		PushRate: &ast.IntLit{Value: 0},
		Body: []ast.Stmt{
			&ast.ExprStmt{Expr: &ast.PopExpr{}},
			&ast.ExprStmt{Expr: &ast.PopExpr{}},
		},
	}
	f := &ast.FilterDecl{
		DeclBase:   ast.DeclBase{Name: "overpop"},
		InputType:  intType(),
		OutputType: voidType(),
		Work:       work,
	}
	a.analyzeFilter(f)

	if !hasKind(a.report.Diagnostics, diag.RateMismatch) {
		t.Fatalf("expected a RateMismatch diagnostic: pop() called twice against a pop rate of 1, got %v", a.report.Diagnostics)
	}
}

func TestPushCallCountMustEqualPushRate(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	work := &ast.WorkBlock{
		PopRate:  &ast.IntLit{Value: 0},
		PushRate: &ast.IntLit{Value: 2},
		Body: []ast.Stmt{
			&ast.PushStmt{Value: &ast.IntLit{Value: 1}},
		},
	}
	f := &ast.FilterDecl{
		DeclBase:   ast.DeclBase{Name: "underpush"},
		InputType:  voidType(),
		OutputType: intType(),
		Work:       work,
	}
	a.analyzeFilter(f)

	if !hasKind(a.report.Diagnostics, diag.RateMismatch) {
		t.Fatalf("expected a RateMismatch diagnostic: push() called once against a push rate of 2, got %v", a.report.Diagnostics)
	}
}

func TestWellFormedWorkBlockHasNoRateDiagnostics(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	work := &ast.WorkBlock{
		PeekRate: &ast.IntLit{Value: 2},
		PopRate:  &ast.IntLit{Value: 1},
		PushRate: &ast.IntLit{Value: 1},
		Body: []ast.Stmt{
			&ast.PushStmt{Value: &ast.PeekExpr{Index: &ast.IntLit{Value: 1}}},
			&ast.ExprStmt{Expr: &ast.PopExpr{}},
		},
	}
	f := &ast.FilterDecl{
		DeclBase:   ast.DeclBase{Name: "good"},
		InputType:  intType(),
		OutputType: intType(),
		Work:       work,
	}
	a.analyzeFilter(f)

	if a.report.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.report.Diagnostics)
	}
}
