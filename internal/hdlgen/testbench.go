package hdlgen

import (
	"strconv"
	"strings"
	"text/template"
)

// TestBenchConfig parameterises the generated test bench, which drives
// clk with ClockPeriodNs and holds rst high for ResetCycles cycles.
// InputPattern is declared as a constant array that the stimulus
// process steps through one clock edge per element, and OutputFile is
// opened for writing by the capture process; the bench does not
// instantiate streamc_top, so no pattern value reaches a FIFO and
// nothing is written to OutputFile.
type TestBenchConfig struct {
	ClockPeriodNs int
	ResetCycles   int
	InputPattern  []int64
	OutputFile    string
}

var testBenchTemplate = template.Must(template.New("testbench").Parse(`-- Generated test bench
library ieee;
use ieee.std_logic_1164.all;
use std.textio.all;

entity streamc_tb is
end entity streamc_tb;

architecture sim of streamc_tb is
  signal clk : std_logic := '0';
  signal rst : std_logic := '1';
  constant CLOCK_PERIOD : time := {{.ClockPeriodNs}} ns;
begin
  clk_gen : process
  begin
    clk <= '0'; wait for CLOCK_PERIOD / 2;
    clk <= '1'; wait for CLOCK_PERIOD / 2;
  end process clk_gen;

  reset_gen : process
  begin
    rst <= '1';
    for i in 1 to {{.ResetCycles}} loop
      wait until rising_edge(clk);
    end loop;
    rst <= '0';
    wait;
  end process reset_gen;

  stimulus : process
    type pattern_t is array (0 to {{.PatternLenMinusOne}}) of integer;
    constant INPUT_PATTERN : pattern_t := ({{.PatternLiteral}});
  begin
    wait until rst = '0';
    for i in 0 to {{.PatternLenMinusOne}} loop
      -- drive INPUT_PATTERN(i) into the top-level's first FIFO
      wait until rising_edge(clk);
    end loop;
    wait;
  end process stimulus;

  capture : process
    file out_file : text open write_mode is "{{.OutputFile}}";
    variable line_out : line;
  begin
    -- records the top-level's last FIFO output to {{.OutputFile}}
    wait;
  end process capture;
end architecture sim;
`))

// RenderTestBench renders the top-level test bench for cfg.
func RenderTestBench(cfg TestBenchConfig) (string, error) {
	literals := make([]string, len(cfg.InputPattern))
	for i, v := range cfg.InputPattern {
		literals[i] = strconv.FormatInt(v, 10)
	}
	patternLen := len(cfg.InputPattern)
	if patternLen == 0 {
		patternLen = 1
		literals = []string{"0"}
	}
	data := struct {
		TestBenchConfig
		PatternLenMinusOne int
		PatternLiteral     string
	}{cfg, patternLen - 1, strings.Join(literals, ", ")}

	var sb strings.Builder
	if err := testBenchTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
