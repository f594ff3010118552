package streamgraph

import (
	"testing"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// TestBuildIntegerOnlyRejectsFloatElementType confirms a Float element
// type reaching the HDL backend under an integer-only flow surfaces as
// UnsupportedForHardware rather than being silently accepted (spec
// §4.1).
func TestBuildIntegerOnlyRejectsFloatElementType(t *testing.T) {
	in := types.NewInterner()

	filt := &ast.FilterDecl{
		DeclBase:       ast.DeclBase{Name: "scale"},
		ResolvedInput:  in.Float(),
		ResolvedOutput: in.Float(),
		Work:           &ast.WorkBlock{},
	}
	pipeline := &ast.PipelineDecl{
		DeclBase: ast.DeclBase{Name: "main"},
		Body:     []ast.Stmt{&ast.AddStmt{Anonymous: filt}},
	}
	prog := &ast.Program{Pipelines: []*ast.PipelineDecl{pipeline}, TopLevel: "main"}

	_, report := Build(prog, true)

	found := false
	for _, d := range report.Diagnostics {
		if d.Kind == diag.UnsupportedForHardware {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnsupportedForHardware diagnostic, got %v", report.Diagnostics)
	}
}

// TestBuildIntegerOnlyAcceptsIntElementType confirms integer-typed
// filters pass the same gate cleanly.
func TestBuildIntegerOnlyAcceptsIntElementType(t *testing.T) {
	in := types.NewInterner()

	filt := &ast.FilterDecl{
		DeclBase:       ast.DeclBase{Name: "inc"},
		ResolvedInput:  in.Int(),
		ResolvedOutput: in.Int(),
		Work:           &ast.WorkBlock{},
	}
	pipeline := &ast.PipelineDecl{
		DeclBase: ast.DeclBase{Name: "main"},
		Body:     []ast.Stmt{&ast.AddStmt{Anonymous: filt}},
	}
	prog := &ast.Program{Pipelines: []*ast.PipelineDecl{pipeline}, TopLevel: "main"}

	_, report := Build(prog, true)

	for _, d := range report.Diagnostics {
		if d.Kind == diag.UnsupportedForHardware {
			t.Fatalf("unexpected UnsupportedForHardware diagnostic for an all-integer graph: %v", report.Diagnostics)
		}
	}
}

// TestBuildWithoutIntegerOnlyAcceptsFloat confirms the gate is opt-in:
// the default (non-integer-only) flow still accepts Float.
func TestBuildWithoutIntegerOnlyAcceptsFloat(t *testing.T) {
	in := types.NewInterner()

	filt := &ast.FilterDecl{
		DeclBase:       ast.DeclBase{Name: "scale"},
		ResolvedInput:  in.Float(),
		ResolvedOutput: in.Float(),
		Work:           &ast.WorkBlock{},
	}
	pipeline := &ast.PipelineDecl{
		DeclBase: ast.DeclBase{Name: "main"},
		Body:     []ast.Stmt{&ast.AddStmt{Anonymous: filt}},
	}
	prog := &ast.Program{Pipelines: []*ast.PipelineDecl{pipeline}, TopLevel: "main"}

	_, report := Build(prog, false)

	for _, d := range report.Diagnostics {
		if d.Kind == diag.UnsupportedForHardware {
			t.Fatalf("unexpected UnsupportedForHardware diagnostic when integer-only was not requested: %v", report.Diagnostics)
		}
	}
}
