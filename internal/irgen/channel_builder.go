package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// sequentialChannelBuilder is the reference TargetFragmentBuilder: it
// realizes pop/peek/push against the per-firing input/output window
// buffers lowerWorkBlock allocates on the stack (spec §4.3's
// "TargetFragmentBuilder... a reference implementation is required for
// testing C3 standalone of C4/C5"). It is the only implementation in
// the module: NewLowerer(nil) selects it, and the driver lowers with it.
type sequentialChannelBuilder struct{}

func (sequentialChannelBuilder) BuildPop(cur *ir.Block, f *FilterContext) value.Value {
	idx := cur.NewLoad(lltypes.I32, f.InCursor)
	arrT := f.InParam.Type().(*lltypes.PointerType).ElemType
	zero := constant.NewInt(lltypes.I32, 0)
	addr := cur.NewGetElementPtr(arrT, f.InParam, zero, idx)
	elem := cur.NewLoad(arrT.(*lltypes.ArrayType).ElemType, addr)
	one := constant.NewInt(lltypes.I32, 1)
	cur.NewStore(cur.NewAdd(idx, one), f.InCursor)
	return elem
}

func (sequentialChannelBuilder) BuildPeek(cur *ir.Block, f *FilterContext, index value.Value) value.Value {
	base := cur.NewLoad(lltypes.I32, f.InCursor)
	pos := cur.NewAdd(base, index)
	arrT := f.InParam.Type().(*lltypes.PointerType).ElemType
	zero := constant.NewInt(lltypes.I32, 0)
	addr := cur.NewGetElementPtr(arrT, f.InParam, zero, pos)
	return cur.NewLoad(arrT.(*lltypes.ArrayType).ElemType, addr)
}

func (sequentialChannelBuilder) BuildPush(cur *ir.Block, f *FilterContext, val value.Value) {
	idx := cur.NewLoad(lltypes.I32, f.OutCursor)
	arrT := f.OutParam.Type().(*lltypes.PointerType).ElemType
	zero := constant.NewInt(lltypes.I32, 0)
	addr := cur.NewGetElementPtr(arrT, f.OutParam, zero, idx)
	cur.NewStore(val, addr)
	one := constant.NewInt(lltypes.I32, 1)
	cur.NewStore(cur.NewAdd(idx, one), f.OutCursor)
}
