// Package irgen implements C3, the IR lowerer: it turns a type-checked
// AST (C2's output) into SSA form. Design Note 9 calls for an external
// compiler-infrastructure library providing "at minimum value/type/
// instruction/block/function/module types" rather than a hand-rolled
// three-address form; github.com/llir/llvm is exactly that library,
// and is what every lowering function in this package targets.
package irgen

import (
	lltypes "github.com/llir/llvm/ir/types"

	"streamc/internal/types"
)

// llType maps a canonical StreamC *types.Type to its LLVM IR
// representation (spec §4.1's lattice, realized in the target library's
// type system instead of a hand-written one).
func llType(t *types.Type) lltypes.Type {
	switch t.Kind {
	case types.KindVoid:
		return lltypes.Void
	case types.KindBool, types.KindBit:
		return lltypes.I1
	case types.KindInt:
		return lltypes.I32
	case types.KindAPInt:
		return lltypes.NewInt(uint64(t.Width))
	case types.KindFloat:
		if t.SourceWidth > 64 {
			return lltypes.X86_FP80
		}
		return lltypes.Float
	case types.KindComplex:
		// Two packed float lanes (SPEC_FULL.md §3's complex scalar).
		return lltypes.NewStruct(lltypes.Float, lltypes.Float)
	case types.KindArray:
		return lltypes.NewArray(uint64(t.Length), llType(t.Elem))
	case types.KindStruct:
		fields := make([]lltypes.Type, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = llType(f.Type)
		}
		return lltypes.NewStruct(fields...)
	default:
		panic("irgen: unhandled type kind")
	}
}

// isSigned reports whether t's arithmetic instructions must use the
// signed family (sdiv/srem, sitofp, icmp slt/...) per the lattice's
// per-width signedness flag (spec §4.1).
func isSigned(t *types.Type) bool {
	switch t.Kind {
	case types.KindAPInt:
		return t.Signed
	case types.KindInt:
		return true
	default:
		return false
	}
}

func isFloatKind(t *types.Type) bool {
	return t.Kind == types.KindFloat
}
