package driver

import "streamc/internal/streamgraph"

// Options configures one compile job (SPEC_FULL.md §1.3). It is a
// plain struct with defaulted fields, the way the teacher's
// ReportingModule.Config is a plain struct handed to
// NewReportingModule rather than parsed from a config file — no
// config-file format is read here either.
type Options struct {
	// FIFOSizeMultiplier scales every channel's steady-state
	// multiplicity into its FIFO depth (spec §3).
	FIFOSizeMultiplier int

	// ClockPeriodNS is the generated test bench's clock period, in
	// nanoseconds.
	ClockPeriodNS float64

	// ResetCycles is the number of cycles the test bench holds rst
	// high before releasing it.
	ResetCycles int

	// EmitTestBench controls whether C5 renders a test bench at all;
	// some callers only want the wrapper/top-level VHDL.
	EmitTestBench bool

	// TargetHDLIntegerOnly requests an integer-only HDL flow: any
	// Float element type reaching the backend is reported as
	// UnsupportedForHardware instead of being silently accepted
	// (spec §4.1).
	TargetHDLIntegerOnly bool
}

// DefaultOptions returns the Options every compile job gets unless a
// caller overrides a field.
func DefaultOptions() Options {
	return Options{
		FIFOSizeMultiplier:   streamgraph.FIFOSizeMultiplier,
		ClockPeriodNS:        10,
		ResetCycles:          4,
		EmitTestBench:        true,
		TargetHDLIntegerOnly: false,
	}
}
