package streamgraph

import (
	"testing"

	"streamc/internal/diag"
)

func TestFiringRatioLCM(t *testing.T) {
	tests := []struct {
		push, pop  int
		wantA, wantB int
	}{
		{1, 1, 1, 1},
		{8, 1, 1, 8},
		{2, 3, 3, 2},
		{4, 4, 1, 1},
	}
	for _, tc := range tests {
		a, b := firingRatio(tc.push, tc.pop)
		if a != tc.wantA || b != tc.wantB {
			t.Errorf("firingRatio(%d,%d) = (%d,%d), want (%d,%d)", tc.push, tc.pop, a, b, tc.wantA, tc.wantB)
		}
		if a*tc.push != b*tc.pop {
			t.Errorf("firingRatio(%d,%d) = (%d,%d) does not satisfy nA*push == nB*pop", tc.push, tc.pop, a, b)
		}
	}
}

// TestConstantCounterMultiplicity mirrors the spec's worked example: a
// single-channel pipeline `counter -> writer` with push 1 / pop 1
// yields a channel of multiplicity 1 and depth FIFOSizeMultiplier.
func TestConstantCounterMultiplicity(t *testing.T) {
	producer := &FilterInstance{PushRate: 1}
	consumer := &FilterInstance{PopRate: 1}
	p := &PipelineNode{Children: []Node{producer, consumer}}

	ComputeMultiplicities(p, &diag.Report{})

	ch := ChannelFor(producer, producer.PushRate, FIFOSizeMultiplier, nil)
	if ch.Multiplicity != 1 {
		t.Errorf("multiplicity = %d, want 1", ch.Multiplicity)
	}
	if ch.Depth != FIFOSizeMultiplier {
		t.Errorf("depth = %d, want %d", ch.Depth, FIFOSizeMultiplier)
	}
}

// TestSplitJoinRoundRobinMultiplicity mirrors the spec's splitjoin
// worked example: split duplicate, two branches each pop 1 push 8,
// join round-robin with default [1,1] weights; the join's output
// multiplicity is 2 * 8 * n_F (here n_F = 1, since nothing downstream
// constrains the branch firing count).
func TestSplitJoinRoundRobinMultiplicity(t *testing.T) {
	branchA := &FilterInstance{PopRate: 1, PushRate: 8}
	branchB := &FilterInstance{PopRate: 1, PushRate: 8}
	sj := &SplitJoinNode{
		Split:    &SplitNode{Weights: []int{1, 1}, Branches: 2},
		Branches: []Node{branchA, branchB},
		Join:     &JoinNode{Weights: []int{1, 1}},
	}

	ComputeMultiplicities(sj, &diag.Report{})

	if branchA.FiringCount != 1 || branchB.FiringCount != 1 {
		t.Fatalf("expected both branches to fire once per cycle, got %d and %d", branchA.FiringCount, branchB.FiringCount)
	}
	chA := ChannelFor(branchA, branchA.PushRate, FIFOSizeMultiplier, nil)
	chB := ChannelFor(branchB, branchB.PushRate, FIFOSizeMultiplier, nil)
	total := chA.Multiplicity + chB.Multiplicity
	if total != 2*8*1 {
		t.Errorf("combined branch multiplicity = %d, want %d", total, 2*8*1)
	}
}

// TestSplitJoinWeightedRoundRobinMultiplicity uses non-uniform weights
// [1,3], which the equal-weight case above cannot distinguish from a
// (buggy) implementation that ignores weights entirely: branch B must
// fire three times for every one firing of branch A.
func TestSplitJoinWeightedRoundRobinMultiplicity(t *testing.T) {
	branchA := &FilterInstance{PopRate: 1, PushRate: 8}
	branchB := &FilterInstance{PopRate: 1, PushRate: 8}
	sj := &SplitJoinNode{
		Split:    &SplitNode{Weights: []int{1, 3}, Branches: 2},
		Branches: []Node{branchA, branchB},
		Join:     &JoinNode{Weights: []int{1, 3}},
	}

	report := &diag.Report{}
	ComputeMultiplicities(sj, report)
	if report.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", report.Diagnostics)
	}

	if branchA.FiringCount != 1 {
		t.Errorf("branchA.FiringCount = %d, want 1", branchA.FiringCount)
	}
	if branchB.FiringCount != 3 {
		t.Errorf("branchB.FiringCount = %d, want 3", branchB.FiringCount)
	}

	chA := ChannelFor(branchA, branchA.PushRate, FIFOSizeMultiplier, nil)
	chB := ChannelFor(branchB, branchB.PushRate, FIFOSizeMultiplier, nil)
	if chA.Multiplicity != 8 {
		t.Errorf("branchA multiplicity = %d, want 8", chA.Multiplicity)
	}
	if chB.Multiplicity != 24 {
		t.Errorf("branchB multiplicity = %d, want 24", chB.Multiplicity)
	}
}

// TestSplitJoinWeightArityMismatchIsUnschedulable confirms a weight
// list whose length disagrees with the branch count is reported rather
// than silently truncated or index-panicked.
func TestSplitJoinWeightArityMismatchIsUnschedulable(t *testing.T) {
	branchA := &FilterInstance{PopRate: 1, PushRate: 1}
	branchB := &FilterInstance{PopRate: 1, PushRate: 1}
	sj := &SplitJoinNode{
		Split:    &SplitNode{Weights: []int{1}, Branches: 2},
		Branches: []Node{branchA, branchB},
		Join:     &JoinNode{Weights: []int{1}},
	}

	report := &diag.Report{}
	ComputeMultiplicities(sj, report)

	if !report.HasErrors() {
		t.Fatal("expected an UnschedulableGraph diagnostic for mismatched weight arity")
	}
	if report.Diagnostics[0].Kind != diag.UnschedulableGraph {
		t.Errorf("got diagnostic kind %v, want UnschedulableGraph", report.Diagnostics[0].Kind)
	}
}
