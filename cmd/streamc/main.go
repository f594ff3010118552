// Command streamc drives one compile job: internal/driver's
// C2->C3->C4->C5 pipeline, given an already-parsed *ast.Program. The
// lexical scanner and grammar-driven parser are explicitly out of
// scope (spec §1: "we assume a parser delivers the AST"); this binary
// wires flags, output directory handling, and exit codes around the
// driver the same hand-rolled way cmd/sentra/main.go wires its own
// subcommands around internal/compiler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"streamc/internal/ast"
	"streamc/internal/driver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defaults := driver.DefaultOptions()
	fs := flag.NewFlagSet("streamc", flag.ContinueOnError)
	outDir := fs.String("out", ".", "output directory for emitted artefacts")
	clockPeriod := fs.Float64("clock-period-ns", defaults.ClockPeriodNS, "test bench clock period, in nanoseconds")
	resetCycles := fs.Int("reset-cycles", defaults.ResetCycles, "number of cycles to hold rst high")
	fifoMultiplier := fs.Int("fifo-size-multiplier", defaults.FIFOSizeMultiplier, "FIFO depth as a multiple of each channel's steady-state multiplicity")
	emitTestBench := fs.Bool("emit-testbench", defaults.EmitTestBench, "emit a VHDL test bench alongside the wrapper/top-level")
	integerOnly := fs.Bool("integer-only", defaults.TargetHDLIntegerOnly, "reject floating-point element types as unsupported for the HDL backend")
	jsonDiag := fs.Bool("json", false, "write diagnostics as JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	prog, ioErr := loadProgram(fs.Args())
	if ioErr != nil {
		fmt.Fprintf(os.Stderr, "streamc: %v\n", ioErr)
		return 3
	}

	opts := driver.Options{
		FIFOSizeMultiplier:   *fifoMultiplier,
		ClockPeriodNS:        *clockPeriod,
		ResetCycles:          *resetCycles,
		EmitTestBench:        *emitTestBench,
		TargetHDLIntegerOnly: *integerOnly,
	}

	result, report := driver.Compile(prog, opts)

	if *jsonDiag {
		_ = report.WriteJSON(os.Stdout)
	} else {
		_, _ = report.WriteTo(os.Stderr)
	}

	if report.HasErrors() {
		return report.ExitCode()
	}

	if err := writeArtifacts(*outDir, prog.TopLevel, result); err != nil {
		fmt.Fprintf(os.Stderr, "streamc: %v\n", err)
		return 3
	}
	return 0
}

// loadProgram is the seam where an external parser would hand off its
// AST; StreamC itself never scans or parses source text (spec §1's
// "deliberately out of scope" list).
func loadProgram(files []string) (*ast.Program, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files given (parsing them into an *ast.Program is the caller's responsibility)")
	}
	return nil, fmt.Errorf("streamc has no built-in parser; invoke driver.Compile directly with a parsed *ast.Program")
}

func writeArtifacts(outDir, name string, res *driver.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, name+".c"), []byte(res.CSource), 0o644); err != nil {
		return err
	}
	for filterName, wrapper := range res.Wrappers {
		path := filepath.Join(outDir, filterName+"_wrapper.vhd")
		if err := os.WriteFile(path, []byte(wrapper), 0o644); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(outDir, "streamc_top.vhd"), []byte(res.TopLevel), 0o644); err != nil {
		return err
	}
	if res.TestBench != "" {
		if err := os.WriteFile(filepath.Join(outDir, "streamc_tb.vhd"), []byte(res.TestBench), 0o644); err != nil {
			return err
		}
	}
	manifestJSON, err := res.Manifest.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, name+".manifest.json"), manifestJSON, 0o644)
}
