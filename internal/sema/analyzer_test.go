package sema

import (
	"testing"

	"streamc/internal/ast"
	"streamc/internal/diag"
	"streamc/internal/types"
)

// TestResolveTypeLongDoubleWarnsAndNarrows confirms a "long double"
// type name resolves to a Float-kinded type carrying the wider source
// width, and that resolving it raises an UnsupportedForHardware
// warning (not an error) rather than silently accepting or rejecting
// the type (SPEC_FULL.md §4's long-double resolution).
func TestResolveTypeLongDoubleWarnsAndNarrows(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	resolved := a.resolveType(&ast.TypeExpr{Name: "long double"})

	if resolved.Kind != types.KindFloat {
		t.Fatalf("resolveType(long double).Kind = %v, want KindFloat", resolved.Kind)
	}
	if resolved.SourceWidth != 80 {
		t.Errorf("resolveType(long double).SourceWidth = %d, want 80", resolved.SourceWidth)
	}

	if len(a.report.Diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", a.report.Diagnostics)
	}
	d := a.report.Diagnostics[0]
	if d.Kind != diag.UnsupportedForHardware {
		t.Errorf("diagnostic kind = %v, want UnsupportedForHardware", d.Kind)
	}
	if d.Severity != diag.SeverityWarning {
		t.Errorf("diagnostic severity = %v, want SeverityWarning", d.Severity)
	}
}

// TestResolveTypeFloatDoesNotWarn confirms the ordinary "float" type
// name is unaffected by the long-double narrowing warning.
func TestResolveTypeFloatDoesNotWarn(t *testing.T) {
	a := NewAnalyzer(types.NewInterner())
	resolved := a.resolveType(&ast.TypeExpr{Name: "float"})

	if resolved.SourceWidth != 0 {
		t.Errorf("resolveType(float).SourceWidth = %d, want 0", resolved.SourceWidth)
	}
	if a.report.HasErrors() || len(a.report.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics for plain float: %v", a.report.Diagnostics)
	}
}
