package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// TargetFragmentBuilder is the pluggable seam spec §4.3 calls for: the
// lowerer emits ordinary SSA instructions for everything except the
// three streaming primitives, which it instead asks a
// TargetFragmentBuilder to realize against whatever channel
// representation the consuming backend uses. A single implementation
// (sequentialChannelBuilder, in channel_builder.go) exists, and it backs
// every lowering, including the driver's.
type TargetFragmentBuilder interface {
	// BuildPop emits the instructions that consume and return one
	// element from the filter's input channel.
	BuildPop(cur *ir.Block, f *FilterContext) value.Value

	// BuildPeek emits the instructions that read, without consuming,
	// the element `index` positions ahead in the input channel.
	BuildPeek(cur *ir.Block, f *FilterContext, index value.Value) value.Value

	// BuildPush emits the instructions that append val to the filter's
	// output channel.
	BuildPush(cur *ir.Block, f *FilterContext, val value.Value)
}

// FilterContext carries the per-filter state a TargetFragmentBuilder
// needs: its channel parameters and element types.
type FilterContext struct {
	Func      *ir.Func
	InParam   value.Value // pointer to the input channel's backing storage
	OutParam  value.Value // pointer to the output channel's backing storage
	InCursor  value.Value // pointer to the current read-cursor slot
	OutCursor value.Value // pointer to the current write-cursor slot
}
