package driver

import (
	"testing"

	"streamc/internal/ast"
	"streamc/internal/hdlgen"
	"streamc/internal/streamgraph"
)

func TestForEachFilterVisitsPipelineChildren(t *testing.T) {
	a := &streamgraph.FilterInstance{Decl: &ast.FilterDecl{DeclBase: ast.DeclBase{Name: "a"}}}
	b := &streamgraph.FilterInstance{Decl: &ast.FilterDecl{DeclBase: ast.DeclBase{Name: "b"}}}
	p := &streamgraph.PipelineNode{Children: []streamgraph.Node{a, b}}

	var seen []string
	forEachFilter(p, func(f *streamgraph.FilterInstance) { seen = append(seen, f.Decl.Name) })

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("forEachFilter visited %v, want [a b]", seen)
	}
}

func TestForEachFilterVisitsSplitJoinBranches(t *testing.T) {
	a := &streamgraph.FilterInstance{Decl: &ast.FilterDecl{DeclBase: ast.DeclBase{Name: "branchA"}}}
	b := &streamgraph.FilterInstance{Decl: &ast.FilterDecl{DeclBase: ast.DeclBase{Name: "branchB"}}}
	sj := &streamgraph.SplitJoinNode{Branches: []streamgraph.Node{a, b}}

	var count int
	forEachFilter(sj, func(*streamgraph.FilterInstance) { count++ })

	if count != 2 {
		t.Fatalf("forEachFilter visited %d filters, want 2", count)
	}
}

func TestBuildManifestTotalsArtifactBytes(t *testing.T) {
	wrappers := map[string]string{"counter": "-- wrapper"}
	channels := []hdlgen.ChannelSpec{{Name: "c0", Depth: 16, Multiplicity: 4}, {Name: "c1", Depth: 8, Multiplicity: 2}}
	m := buildManifest("prog", "int main() {}", wrappers, "-- top", "-- tb", channels)

	wantArtifacts := 4 // c source, one wrapper, top-level, test bench
	if len(m.Artifacts) != wantArtifacts {
		t.Fatalf("got %d artifacts, want %d", len(m.Artifacts), wantArtifacts)
	}
	wantTotal := len("int main() {}") + len("-- wrapper") + len("-- top") + len("-- tb")
	if m.TotalBytes != wantTotal {
		t.Errorf("TotalBytes = %d, want %d", m.TotalBytes, wantTotal)
	}
	if m.TotalChannelDepth != 24 {
		t.Errorf("TotalChannelDepth = %d, want 24", m.TotalChannelDepth)
	}
}

func TestBuildManifestOmitsTestBenchArtifactWhenEmpty(t *testing.T) {
	m := buildManifest("prog", "int main() {}", nil, "-- top", "", nil)

	wantArtifacts := 2 // c source, top-level only
	if len(m.Artifacts) != wantArtifacts {
		t.Fatalf("got %d artifacts, want %d", len(m.Artifacts), wantArtifacts)
	}
	for _, a := range m.Artifacts {
		if a.Kind == "vhdl_testbench" {
			t.Errorf("did not expect a vhdl_testbench artifact when EmitTestBench is false")
		}
	}
}
