package streamgraph

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// TestElaborateSplitJoinWeightArityMismatch confirms a split weight
// list whose length disagrees with the branch count surfaces as
// UnschedulableGraph (spec §4.4's weight-arity requirement) instead of
// silently defaulting or truncating.
func TestElaborateSplitJoinWeightArityMismatch(t *testing.T) {
	in := types.NewInterner()
	elem := in.Int()

	filterA := &ast.FilterDecl{
		DeclBase: ast.DeclBase{Name: "a"}, ResolvedInput: elem, ResolvedOutput: elem,
		Work: &ast.WorkBlock{},
	}
	filterB := &ast.FilterDecl{
		DeclBase: ast.DeclBase{Name: "b"}, ResolvedInput: elem, ResolvedOutput: elem,
		Work: &ast.WorkBlock{},
	}

	sj := &ast.SplitJoinDecl{
		DeclBase: ast.DeclBase{Name: "sj"},
		Body: []ast.Stmt{
			&ast.SplitStmt{Policy: ast.SplitRoundRobin, Weights: []ast.Expr{&ast.IntLit{Value: 1}}},
			&ast.AddStmt{Anonymous: filterA},
			&ast.AddStmt{Anonymous: filterB},
			&ast.JoinStmt{Weights: []ast.Expr{&ast.IntLit{Value: 1}}},
		},
	}
	sj.ResolvedInput = elem
	sj.ResolvedOutput = elem

	b := &Builder{streams: map[string]ast.StreamDecl{}}
	b.elaborateSplitJoin(sj, nil)

	if !b.report.HasErrors() {
		t.Fatal("expected an UnschedulableGraph diagnostic for mismatched split/branch weight arity")
	}
	found := false
	for _, d := range b.report.Diagnostics {
		if d.Kind == diag.UnschedulableGraph {
			found = true
		}
	}
	if !found {
		t.Errorf("expected UnschedulableGraph among diagnostics, got %v", b.report.Diagnostics)
	}
}

// TestElaborateSplitJoinDefaultsWeightsWhenOmitted confirms the
// existing all-ones default still applies when no weights are given.
func TestElaborateSplitJoinDefaultsWeightsWhenOmitted(t *testing.T) {
	in := types.NewInterner()
	elem := in.Int()

	filterA := &ast.FilterDecl{
		DeclBase: ast.DeclBase{Name: "a"}, ResolvedInput: elem, ResolvedOutput: elem,
		Work: &ast.WorkBlock{},
	}
	filterB := &ast.FilterDecl{
		DeclBase: ast.DeclBase{Name: "b"}, ResolvedInput: elem, ResolvedOutput: elem,
		Work: &ast.WorkBlock{},
	}

	sj := &ast.SplitJoinDecl{
		DeclBase: ast.DeclBase{Name: "sj"},
		Body: []ast.Stmt{
			&ast.SplitStmt{Policy: ast.SplitDuplicate},
			&ast.AddStmt{Anonymous: filterA},
			&ast.AddStmt{Anonymous: filterB},
			&ast.JoinStmt{},
		},
	}
	sj.ResolvedInput = elem
	sj.ResolvedOutput = elem

	b := &Builder{streams: map[string]ast.StreamDecl{}}
	node := b.elaborateSplitJoin(sj, nil)

	if b.report.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.report.Diagnostics)
	}
	want := []int{1, 1}
	if !reflect.DeepEqual(node.Split.Weights, want) {
		t.Errorf("default split weights mismatch:\n%s", strings.Join(pretty.Diff(want, node.Split.Weights), "\n"))
	}
	if !reflect.DeepEqual(node.Join.Weights, want) {
		t.Errorf("default join weights mismatch:\n%s", strings.Join(pretty.Diff(want, node.Join.Weights), "\n"))
	}
}
