package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Report aggregates every Diagnostic produced while compiling one
// program, the way C2 "accumulates all diagnostics into a report,
// continues past the first error within a declaration until resync
// points... and finally fails the compilation if the report is
// non-empty" (spec §7).
type Report struct {
	Diagnostics []*Diagnostic
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d *Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// HasErrors reports whether the report contains any SeverityError
// diagnostic (warnings alone do not fail compilation).
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasInternal reports whether any diagnostic is Kind == Internal,
// which the driver maps to exit code 2 rather than 1 (spec §6).
func (r *Report) HasInternal() bool {
	for _, d := range r.Diagnostics {
		if d.Kind == Internal {
			return true
		}
	}
	return false
}

// ExitCode maps the report's contents to spec §6's exit codes: 0 when
// clean, 2 when any diagnostic is Internal, 1 otherwise (parse/semantic
// error). IoError is handled separately by cmd/streamc, which exits
// with 3 immediately without consulting a Report (spec §7: "I/O errors are
// surfaced immediately and abort compilation").
func (r *Report) ExitCode() int {
	switch {
	case !r.HasErrors():
		return 0
	case r.HasInternal():
		return 2
	default:
		return 1
	}
}

// Error implements the error interface so a *Report can be returned
// wherever Go idiom expects one; callers that want per-diagnostic
// detail should range over Diagnostics instead.
func (r *Report) Error() string {
	var out string
	for _, d := range r.Diagnostics {
		out += d.Error()
	}
	return out
}

// WriteTo renders the full report to w, colorizing severities with
// ANSI codes only when w is a terminal (github.com/mattn/go-isatty),
// matching the common Go-CLI idiom of gating color on isatty rather
// than always emitting escape codes.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	color := isTerminal(w)
	var total int64
	for _, d := range r.Diagnostics {
		n, err := io.WriteString(w, renderColored(d, color))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func renderColored(d *Diagnostic, color bool) string {
	if !color {
		return d.Error()
	}
	const (
		red    = "\x1b[31m"
		yellow = "\x1b[33m"
		reset  = "\x1b[0m"
	)
	prefix := red
	if d.Severity == SeverityWarning {
		prefix = yellow
	}
	return prefix + d.Error() + reset
}

// jsonDiagnostic is the wire shape for JSON export — a flattened,
// stable field set independent of Diagnostic's internal Cause error
// (which doesn't marshal meaningfully).
type jsonDiagnostic struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Note     string `json:"note,omitempty"`
}

// MarshalJSON renders the report for IDE/CI consumption, the scoped-
// down descendant of the teacher's reporting.go multi-format export
// (SPEC_FULL.md §1.1): StreamC has one consumer for structured
// diagnostics, so it gets one format.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := make([]jsonDiagnostic, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		out = append(out, jsonDiagnostic{
			Kind:     string(d.Kind),
			Severity: d.Severity.String(),
			Message:  d.Message,
			File:     d.Pos.File,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Note:     d.Note,
		})
	}
	return json.Marshal(out)
}

// WriteJSON writes the report's JSON rendering to w.
func (r *Report) WriteJSON(w io.Writer) error {
	b, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
