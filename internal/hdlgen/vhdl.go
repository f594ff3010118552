package hdlgen

import (
	"strings"
	"text/template"

	"streamc/internal/streamgraph"
)

// wrapperTemplate renders one filter's VHDL component shell: an entity
// with the clk/rst/start/done signals plus data/valid/ready ports per
// input and output channel, and an empty architecture. It instantiates
// no FIFO and no filter core; the channel depth does not appear in it.
var wrapperTemplate = template.Must(template.New("wrapper").Parse(`-- Generated wrapper for filter {{.Name}}
library ieee;
use ieee.std_logic_1164.all;

entity {{.Name}}_wrapper is
  port (
    clk   : in  std_logic;
    rst   : in  std_logic;
    start : in  std_logic;
    done  : out std_logic
{{- range .Inputs}};
    {{.}}_data  : in  std_logic_vector(31 downto 0);
    {{.}}_valid : in  std_logic;
    {{.}}_ready : out std_logic{{end}}
{{- range .Outputs}};
    {{.}}_data  : out std_logic_vector(31 downto 0);
    {{.}}_valid : out std_logic;
    {{.}}_ready : in  std_logic{{end}}
  );
end entity {{.Name}}_wrapper;

architecture rtl of {{.Name}}_wrapper is
begin
  -- FIFO instances and the HLS-synthesised {{.Name}} core attach here;
  -- the fixed FIFO/clock/reset component library supplies their bodies.
end architecture rtl;
`))

// topLevelTemplate declares data/valid/ready signals for each channel
// (with its depth and multiplicity as a comment) and instantiates one
// wrapper per filter instance. Each port map binds only clk, rst, start
// and done; the channel signals are not connected to any wrapper port,
// and no FIFO is instantiated.
var topLevelTemplate = template.Must(template.New("top").Parse(`-- Generated top-level interconnect
library ieee;
use ieee.std_logic_1164.all;

entity streamc_top is
  port (
    clk : in  std_logic;
    rst : in  std_logic
  );
end entity streamc_top;

architecture structural of streamc_top is
{{- range .Channels}}
  signal {{.Name}}_data  : std_logic_vector(31 downto 0);
  signal {{.Name}}_valid : std_logic;
  signal {{.Name}}_ready : std_logic;
  -- depth {{.Depth}}, multiplicity {{.Multiplicity}}
{{- end}}
begin
{{- range .Instances}}
  {{.Label}} : entity work.{{.FilterName}}_wrapper
    port map (clk => clk, rst => rst, start => '1', done => open);
{{- end}}
end architecture structural;
`))

// WrapperSpec describes one filter's port list for wrapperTemplate.
type WrapperSpec struct {
	Name    string
	Inputs  []string
	Outputs []string
}

// ChannelSpec and InstanceSpec feed topLevelTemplate.
type ChannelSpec struct {
	Name         string
	Depth        int
	Multiplicity int
}

type InstanceSpec struct {
	Label      string
	FilterName string
}

// RenderWrapper renders one filter's VHDL component shell.
func RenderWrapper(spec WrapperSpec) (string, error) {
	var sb strings.Builder
	if err := wrapperTemplate.Execute(&sb, spec); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderTopLevel renders the interconnect component from a flattened
// list of channels and filter instances discovered by walking g.Root.
func RenderTopLevel(channels []ChannelSpec, instances []InstanceSpec) (string, error) {
	var sb strings.Builder
	data := struct {
		Channels  []ChannelSpec
		Instances []InstanceSpec
	}{channels, instances}
	if err := topLevelTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// CollectChannels walks a stream graph and returns one ChannelSpec per
// edge, in the order DepthFor/ChannelFor already compute them (spec
// §4.4's multiplicity × FIFO_SIZE_MULTIPLIER depth rule).
// fifoMultiplier is the caller's driver.Options.FIFOSizeMultiplier.
func CollectChannels(root streamgraph.Node, fifoMultiplier int) []ChannelSpec {
	var out []ChannelSpec
	var walk func(n streamgraph.Node)
	walk = func(n streamgraph.Node) {
		switch node := n.(type) {
		case *streamgraph.FilterInstance:
			ch := streamgraph.ChannelFor(node, node.PushRate, fifoMultiplier, node.OutputType())
			out = append(out, ChannelSpec{
				Name:         mangle(node.ID.String()),
				Depth:        ch.Depth,
				Multiplicity: ch.Multiplicity,
			})
		case *streamgraph.PipelineNode:
			for _, c := range node.Children {
				walk(c)
			}
		case *streamgraph.SplitJoinNode:
			for _, b := range node.Branches {
				walk(b)
			}
		}
	}
	walk(root)
	return out
}

// CollectInstances walks a stream graph and returns one InstanceSpec
// per filter instance, for the top-level's component-instantiation
// list.
func CollectInstances(root streamgraph.Node) []InstanceSpec {
	var out []InstanceSpec
	var walk func(n streamgraph.Node)
	walk = func(n streamgraph.Node) {
		switch node := n.(type) {
		case *streamgraph.FilterInstance:
			name := "filter"
			if node.Decl != nil {
				name = node.Decl.Name
			}
			out = append(out, InstanceSpec{
				Label:      "inst_" + mangle(node.ID.String()),
				FilterName: mangle(name),
			})
		case *streamgraph.PipelineNode:
			for _, c := range node.Children {
				walk(c)
			}
		case *streamgraph.SplitJoinNode:
			for _, b := range node.Branches {
				walk(b)
			}
		}
	}
	walk(root)
	return out
}
