// Package streamgraph implements C4: it elaborates a program's
// pipeline/splitjoin/filter declarations into a directed graph of
// filter instances, split/join nodes, and multiplicity-labelled
// channels (spec §4.4).
package streamgraph

import (
	"github.com/google/uuid"

	"streamc/internal/ast"
	"streamc/internal/types"
)

// NodeKind distinguishes the five stream-graph node shapes (spec §3).
type NodeKind int

const (
	KindFilter NodeKind = iota
	KindSplit
	KindJoin
	KindPipeline
	KindSplitJoin
)

// Node is any stream-graph node.
type Node interface {
	Kind() NodeKind
	InputType() *types.Type
	OutputType() *types.Type
}

// FilterInstance is one elaborated occurrence of a FilterDecl, given a
// stable identity because the same declaration can be instantiated
// many times across a graph (spec §3: "unique identifier").
type FilterInstance struct {
	ID       uuid.UUID
	Decl     *ast.FilterDecl
	Args     []int64 // resolved constant arguments, in declaration-parameter order
	PeekRate int
	PopRate  int
	PushRate int

	// FiringCount is the steady-state number of times this instance's
	// work block fires per whole-graph cycle, filled in by
	// ComputeMultiplicities.
	FiringCount int
}

func (f *FilterInstance) Kind() NodeKind          { return KindFilter }
func (f *FilterInstance) InputType() *types.Type  { return f.Decl.ResolvedInput }
func (f *FilterInstance) OutputType() *types.Type { return f.Decl.ResolvedOutput }

// SplitNode is a one-in/N-out fan-out (spec §3).
type SplitNode struct {
	Elem     *types.Type
	Policy   ast.SplitPolicy
	Weights  []int // one per branch; duplicate policy ignores these
	Branches int
}

func (s *SplitNode) Kind() NodeKind          { return KindSplit }
func (s *SplitNode) InputType() *types.Type  { return s.Elem }
func (s *SplitNode) OutputType() *types.Type { return s.Elem }

// JoinNode is an N-in/one-out fan-in with weighted round-robin
// consumption (spec §3).
type JoinNode struct {
	Elem    *types.Type
	Weights []int
}

func (j *JoinNode) Kind() NodeKind          { return KindJoin }
func (j *JoinNode) InputType() *types.Type  { return j.Elem }
func (j *JoinNode) OutputType() *types.Type { return j.Elem }

// PipelineNode is a serial composition of children (spec §3).
type PipelineNode struct {
	Children []Node
}

func (p *PipelineNode) Kind() NodeKind { return KindPipeline }
func (p *PipelineNode) InputType() *types.Type {
	if len(p.Children) == 0 {
		return nil
	}
	return p.Children[0].InputType()
}
func (p *PipelineNode) OutputType() *types.Type {
	if len(p.Children) == 0 {
		return nil
	}
	return p.Children[len(p.Children)-1].OutputType()
}

// SplitJoinNode is a parallel composition: one Split, N branches run
// in parallel, one Join (spec §3).
type SplitJoinNode struct {
	Split    *SplitNode
	Branches []Node
	Join     *JoinNode
}

func (s *SplitJoinNode) Kind() NodeKind          { return KindSplitJoin }
func (s *SplitJoinNode) InputType() *types.Type  { return s.Split.Elem }
func (s *SplitJoinNode) OutputType() *types.Type { return s.Join.Elem }

// Channel is an edge between two adjacent nodes (spec §3): element
// type plus the steady-state multiplicity and derived depth
// ComputeMultiplicities fills in.
type Channel struct {
	Elem         *types.Type
	Multiplicity int
	Depth        int
}

// FIFOSizeMultiplier re-exports types.FIFOSizeMultiplier so this
// package's default is visible under its own name. It is the value DefaultOptions() hands back as
// Options.FIFOSizeMultiplier; callers that want a different ratio pass
// their own to DepthFor/ChannelFor instead of relying on this default.
const FIFOSizeMultiplier = types.FIFOSizeMultiplier

// DepthFor derives a channel's FIFO depth from its multiplicity and
// the caller's configured ratio (spec §3: "depth (derived:
// FIFO_SIZE_MULTIPLIER * multiplicity)"; SPEC_FULL.md §1.3 makes that
// multiplier configurable via driver.Options rather than a fixed
// constant).
func DepthFor(multiplicity, fifoMultiplier int) int {
	return multiplicity * fifoMultiplier
}
