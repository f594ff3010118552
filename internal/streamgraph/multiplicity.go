package streamgraph

import (
	"fmt"

	"streamc/internal/diag"
	"streamc/internal/types"
)

// gcd and lcm operate on the small positive integers that rates and
// branch counts are restricted to (spec §4.4's "least positive integer
// solution... propagate by LCM scaling").
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

// firingRatio returns the least positive integer pair (nA, nB) such
// that nA*pushA == nB*popB, i.e. the steady-state work-count solution
// for one producer/consumer edge (spec §4.4).
func firingRatio(pushA, popB int) (nA, nB int) {
	if pushA == 0 || popB == 0 {
		return 1, 1
	}
	l := lcm(pushA, popB)
	return l / pushA, l / popB
}

// ComputeMultiplicities walks the elaborated graph top-down, passing
// each composite's firing count to its children, and assigns every
// FilterInstance a FiringCount; ChannelFor then derives the Channel for
// any edge (spec §4.4's "propagate by LCM scaling across the whole
// pipeline so that every filter has an integer firing count").
//
// firingCountOf(n) is the number of times the *whole node* fires: for
// a Filter, its work block's firing count; for a Pipeline, that of its
// last child (the one producing its output); for a SplitJoin, that of
// its first branch, since every steady-state cycle runs the
// children/branches a fixed number of times relative to each other.
func ComputeMultiplicities(root Node, report *diag.Report) {
	computeNode(root, 1, report)
}

// computeNode assigns FiringCount to every FilterInstance reachable
// from n, given that the enclosing composite fires `outerCount` times
// per whole-graph cycle.
func computeNode(n Node, outerCount int, report *diag.Report) {
	switch node := n.(type) {
	case *FilterInstance:
		node.FiringCount = outerCount

	case *PipelineNode:
		computePipeline(node, outerCount, report)

	case *SplitJoinNode:
		computeSplitJoin(node, outerCount, report)

	default:
		// Split/Join carry no firing count of their own; their
		// multiplicity is derived from their neighbors in ChannelFor.
	}
}

// computePipeline solves the chain of adjacent push/pop ratios
// (spec §4.4: "for a chain A -> B, steady-state work-counts n_A, n_B
// satisfy n_A*u_A = n_B*p_B"), then scales every child's firing count
// by outerCount and the LCM-normalized per-child ratio. A producer
// with push rate 0 feeding a consumer with a nonzero pop rate (or vice
// versa) has no steady-state solution and is reported as
// UnschedulableGraph rather than silently dividing by zero.
func computePipeline(p *PipelineNode, outerCount int, report *diag.Report) {
	n := len(p.Children)
	if n == 0 {
		return
	}
	ratios := make([]int, n)
	ratios[0] = 1
	for i := 0; i < n-1; i++ {
		push := outputRate(p.Children[i])
		pop := inputRate(p.Children[i+1])
		if (push == 0) != (pop == 0) {
			report.Add(&diag.Diagnostic{
				Kind:     diag.UnschedulableGraph,
				Severity: diag.SeverityError,
				Message:  "adjacent pipeline stages have no steady-state firing solution: one side's rate is zero, the other's is not",
			})
			continue
		}
		a, b := firingRatio(push, pop)
		// Rescale the running ratio sequence so ratios[i] matches a,
		// then extend with b scaled by the same factor.
		scale := a
		for j := 0; j <= i; j++ {
			ratios[j] *= scale
		}
		ratios[i+1] = b * (ratios[i] / a)
	}
	for i, child := range p.Children {
		computeNode(child, outerCount*ratios[i], report)
	}
}

// computeSplitJoin distributes the enclosing outerCount firings across
// node's branches by weight (spec §4.4: "branch i receives w_i /
// sum(w_j) of the outer firing count"), rather than handing every
// branch the same outerCount. Over outerCount rounds of the split,
// branch i is handed outerCount*w_i elements; dividing by the branch's
// own pop rate gives its steady-state firing count. A branch whose pop
// rate does not evenly divide that quantity has no integer
// steady-state solution and is reported as UnschedulableGraph rather
// than truncated silently.
func computeSplitJoin(node *SplitJoinNode, outerCount int, report *diag.Report) {
	weights := node.Split.Weights
	if len(weights) == 0 {
		weights = make([]int, len(node.Branches))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(node.Branches) {
		report.Add(&diag.Diagnostic{
			Kind:     diag.UnschedulableGraph,
			Severity: diag.SeverityError,
			Message: fmt.Sprintf(
				"split weight count %d does not match branch count %d",
				len(weights), len(node.Branches)),
		})
		return
	}

	for i, b := range node.Branches {
		w := weights[i]
		pop := inputRate(b)
		if pop == 0 {
			if w != 0 {
				report.Add(&diag.Diagnostic{
					Kind:     diag.UnschedulableGraph,
					Severity: diag.SeverityError,
					Message:  "branch has a nonzero split weight but a pop rate of 0",
				})
				continue
			}
			computeNode(b, 0, report)
			continue
		}
		numerator := outerCount * w
		if numerator%pop != 0 {
			report.Add(&diag.Diagnostic{
				Kind:     diag.UnschedulableGraph,
				Severity: diag.SeverityError,
				Message: fmt.Sprintf(
					"branch has no integer steady-state firing count: weight %d over %d rounds does not divide its pop rate %d",
					w, outerCount, pop),
			})
			continue
		}
		computeNode(b, numerator/pop, report)
	}
}

// inputRate/outputRate report a node's per-firing pop/push rate: for a
// Filter, its work block's resolved rate; a Pipeline's boundary rate
// is its first child's pop rate and its last child's push rate,
// recursively; a SplitJoin reports 1, the rate of its split/join node.
func inputRate(n Node) int {
	switch node := n.(type) {
	case *FilterInstance:
		return node.PopRate
	case *PipelineNode:
		if len(node.Children) == 0 {
			return 0
		}
		return inputRate(node.Children[0])
	case *SplitNode:
		return 1
	case *SplitJoinNode:
		return inputRate(node.Split)
	default:
		return 1
	}
}

func outputRate(n Node) int {
	switch node := n.(type) {
	case *FilterInstance:
		return node.PushRate
	case *PipelineNode:
		if len(node.Children) == 0 {
			return 0
		}
		return outputRate(node.Children[len(node.Children)-1])
	case *JoinNode:
		return 1
	case *SplitJoinNode:
		return outputRate(node.Join)
	default:
		return 1
	}
}

// ChannelFor derives the Channel descriptor for the edge from producer
// to consumer, once firing counts are known (spec §4.4: "multiplicity
// = firing-count of producer * producer push-rate"). fifoMultiplier is
// the caller's driver.Options.FIFOSizeMultiplier.
func ChannelFor(producer Node, producerPushRate, fifoMultiplier int, elem *types.Type) Channel {
	mult := firingCountOf(producer) * producerPushRate
	return Channel{Elem: elem, Multiplicity: mult, Depth: DepthFor(mult, fifoMultiplier)}
}

func firingCountOf(n Node) int {
	switch node := n.(type) {
	case *FilterInstance:
		return node.FiringCount
	case *PipelineNode:
		if len(node.Children) == 0 {
			return 1
		}
		return firingCountOf(node.Children[len(node.Children)-1])
	case *SplitJoinNode:
		if len(node.Branches) == 0 {
			return 1
		}
		return firingCountOf(node.Branches[0])
	default:
		return 1
	}
}
