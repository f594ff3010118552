package hdlgen

import (
	"strings"
	"testing"
	"time"
)

func TestRenderWrapperIncludesHandshakeAndChannels(t *testing.T) {
	out, err := RenderWrapper(WrapperSpec{Name: "counter", Inputs: []string{"in"}, Outputs: []string{"out"}})
	if err != nil {
		t.Fatalf("RenderWrapper: %v", err)
	}
	for _, want := range []string{
		"entity counter_wrapper",
		"clk   : in  std_logic",
		"rst   : in  std_logic",
		"start : in  std_logic",
		"done  : out std_logic",
		"in_data  : in  std_logic_vector",
		"in_valid : in  std_logic",
		"in_ready : out std_logic",
		"out_data  : out std_logic_vector",
		"out_valid : out std_logic",
		"out_ready : in  std_logic",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("wrapper output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderWrapperOmitsAbsentChannels(t *testing.T) {
	out, err := RenderWrapper(WrapperSpec{Name: "sink", Inputs: []string{"in"}})
	if err != nil {
		t.Fatalf("RenderWrapper: %v", err)
	}
	if strings.Contains(out, "out_data") {
		t.Errorf("wrapper with no outputs should not declare out_data:\n%s", out)
	}
}

func TestRenderTopLevelInstantiatesEveryChannelAndInstance(t *testing.T) {
	channels := []ChannelSpec{{Name: "ch0", Depth: 8, Multiplicity: 2}}
	instances := []InstanceSpec{{Label: "inst_a", FilterName: "counter"}, {Label: "inst_b", FilterName: "doubler"}}

	out, err := RenderTopLevel(channels, instances)
	if err != nil {
		t.Fatalf("RenderTopLevel: %v", err)
	}
	if !strings.Contains(out, "signal ch0_data") {
		t.Errorf("top level missing channel signal:\n%s", out)
	}
	if !strings.Contains(out, "depth 8, multiplicity 2") {
		t.Errorf("top level missing depth/multiplicity comment:\n%s", out)
	}
	if !strings.Contains(out, "inst_a : entity work.counter_wrapper") {
		t.Errorf("top level missing instance inst_a:\n%s", out)
	}
	if !strings.Contains(out, "inst_b : entity work.doubler_wrapper") {
		t.Errorf("top level missing instance inst_b:\n%s", out)
	}
}

func TestRenderTestBenchAppliesConfig(t *testing.T) {
	cfg := TestBenchConfig{
		ClockPeriodNs: 20,
		ResetCycles:   3,
		InputPattern:  []int64{1, 2, 3},
		OutputFile:    "out.txt",
	}
	out, err := RenderTestBench(cfg)
	if err != nil {
		t.Fatalf("RenderTestBench: %v", err)
	}
	for _, want := range []string{
		"CLOCK_PERIOD : time := 20 ns",
		"for i in 1 to 3 loop",
		"INPUT_PATTERN : pattern_t := (1, 2, 3)",
		`open write_mode is "out.txt"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("test bench missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTestBenchDefaultsEmptyPatternToZero(t *testing.T) {
	out, err := RenderTestBench(TestBenchConfig{ClockPeriodNs: 10, OutputFile: "f"})
	if err != nil {
		t.Fatalf("RenderTestBench: %v", err)
	}
	if !strings.Contains(out, "pattern_t := (0)") {
		t.Errorf("empty pattern should default to a single 0 literal:\n%s", out)
	}
}

func TestManifestSummaryAndJSON(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewManifest(at, []Artifact{
		{Path: "prog.c", Kind: "c_source", Bytes: 1024},
		{Path: "counter_wrapper.vhd", Kind: "vhdl_wrapper", Bytes: 512},
	}, 12000)

	if m.TotalBytes != 1536 {
		t.Fatalf("TotalBytes = %d, want 1536", m.TotalBytes)
	}
	summary := m.Summary()
	if !strings.Contains(summary, "2 artifacts") {
		t.Errorf("Summary() = %q, want mention of 2 artifacts", summary)
	}
	if !strings.Contains(summary, "1.5 kB") {
		t.Errorf("Summary() = %q, want humanized byte count", summary)
	}
	if !strings.Contains(summary, "12,000") {
		t.Errorf("Summary() = %q, want humanized total channel depth", summary)
	}

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	for _, want := range []string{`"path": "prog.c"`, `"total_bytes": 1536`, `"generated_at"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %q:\n%s", want, data)
		}
	}
}
