package driver

import (
	"testing"

	"streamc/internal/streamgraph"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.FIFOSizeMultiplier != streamgraph.FIFOSizeMultiplier {
		t.Errorf("FIFOSizeMultiplier = %d, want %d", opts.FIFOSizeMultiplier, streamgraph.FIFOSizeMultiplier)
	}
	if !opts.EmitTestBench {
		t.Error("EmitTestBench should default to true")
	}
	if opts.TargetHDLIntegerOnly {
		t.Error("TargetHDLIntegerOnly should default to false")
	}
	if opts.ClockPeriodNS <= 0 {
		t.Errorf("ClockPeriodNS = %v, want a positive default", opts.ClockPeriodNS)
	}
	if opts.ResetCycles <= 0 {
		t.Errorf("ResetCycles = %d, want a positive default", opts.ResetCycles)
	}
}
