// Package diag implements StreamC's diagnostic reporting: the
// SentraError-shaped (internal/errors/errors.go in the teacher)
// accumulation of compiler errors/warnings described by spec §7.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"streamc/internal/ast"
)

// Kind is one of the error kinds enumerated in spec §7.
type Kind string

const (
	ParseError             Kind = "ParseError"
	TypeMismatch            Kind = "TypeMismatch"
	UndeclaredName          Kind = "UndeclaredName"
	Redefinition            Kind = "Redefinition"
	Ambiguous               Kind = "Ambiguous"
	NotAnLValue             Kind = "NotAnLValue"
	ArityMismatch           Kind = "ArityMismatch"
	NonConstantArraySize    Kind = "NonConstantArraySize"
	RateMismatch            Kind = "RateMismatch"
	PipelineTypeMismatch    Kind = "PipelineTypeMismatch"
	UnschedulableGraph      Kind = "UnschedulableGraph"
	UnsupportedForHardware  Kind = "UnsupportedForHardware"
	IoError                 Kind = "IoError"
	Internal                Kind = "Internal"
)

// Severity distinguishes a hard failure from a continue-the-build
// warning (SPEC_FULL.md §4's long-double and void-rate resolutions
// both fire as Warning, never Error).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single reported condition, the StreamC analogue of
// the teacher's SentraError.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Pos      ast.Pos
	Note     string // optional elaboration, rendered on its own line
	Cause    error  // non-nil only for Internal diagnostics (wrapped via pkg/errors)
}

// Error renders a single diagnostic the way SentraError.Error() does:
// "Kind: message\n  at file:line:col\n" plus an optional note line.
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", d.Kind, d.Message)
	if d.Severity == SeverityWarning {
		sb.WriteString(" (warning)")
	}
	sb.WriteByte('\n')
	if d.Pos.File != "" {
		fmt.Fprintf(&sb, "  at %s:%d:%d\n", d.Pos.File, d.Pos.Line, d.Pos.Column)
	}
	if d.Note != "" {
		fmt.Fprintf(&sb, "  note: %s\n", d.Note)
	}
	return sb.String()
}

// NewInternal wraps an impossible-case condition with a stack trace
// (spec §7: "any unreachable case is surfaced as Internal"), per
// Design Note 9's exception-free-failure guidance.
func NewInternal(pos ast.Pos, format string, args ...interface{}) *Diagnostic {
	msg := fmt.Sprintf(format, args...)
	return &Diagnostic{
		Kind:     Internal,
		Severity: SeverityError,
		Message:  msg,
		Pos:      pos,
		Cause:    errors.WithStack(errors.New(msg)),
	}
}
