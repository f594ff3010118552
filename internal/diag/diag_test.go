package diag

import (
	"strings"
	"testing"

	"streamc/internal/ast"
)

func TestReportExitCode(t *testing.T) {
	var r Report
	if r.ExitCode() != 0 {
		t.Fatalf("empty report: ExitCode() = %d, want 0", r.ExitCode())
	}

	r.Add(&Diagnostic{Kind: RateMismatch, Severity: SeverityWarning, Message: "assumed pop rate 1"})
	if r.ExitCode() != 0 {
		t.Fatalf("warning-only report: ExitCode() = %d, want 0", r.ExitCode())
	}

	r.Add(&Diagnostic{Kind: TypeMismatch, Severity: SeverityError, Message: "int vs bool"})
	if r.ExitCode() != 1 {
		t.Fatalf("error report: ExitCode() = %d, want 1", r.ExitCode())
	}

	r.Add(NewInternal(ast.Pos{}, "unreachable opcode"))
	if r.ExitCode() != 2 {
		t.Fatalf("internal report: ExitCode() = %d, want 2", r.ExitCode())
	}
}

func TestDiagnosticRendersLocation(t *testing.T) {
	d := &Diagnostic{
		Kind:    TypeMismatch,
		Message: "cannot assign bool to int",
		Pos:     ast.Pos{File: "prog.sc", Line: 4, Column: 10},
	}
	got := d.Error()
	if !strings.Contains(got, "prog.sc:4:10") {
		t.Fatalf("Error() = %q, want location prog.sc:4:10", got)
	}
}

func TestReportJSON(t *testing.T) {
	var r Report
	r.Add(&Diagnostic{Kind: ArityMismatch, Severity: SeverityError, Message: "expected 2 args"})
	b, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !strings.Contains(string(b), "ArityMismatch") {
		t.Fatalf("JSON = %s, missing kind", b)
	}
}
